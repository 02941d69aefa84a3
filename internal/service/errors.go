package service

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenMissingJTI    = errors.New("token carries no jti")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrUserNotFound       = errors.New("user not found")
	ErrForbidden          = errors.New("not authorized")
	ErrInvalidRole        = errors.New("invalid role")
	ErrTargetNotFound     = errors.New("target user not found")
)
