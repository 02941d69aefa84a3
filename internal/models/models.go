package models

import "time"

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"uniqueIndex;not null"     json:"username"`
	FullName     string `gorm:"not null"                 json:"full_name"`
	Email        string `gorm:"not null"                 json:"email"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null;default:user"    json:"role"`
}

// RevokedToken keeps the jti of a logged-out token until the token would
// have expired anyway. ExpiresAt is copied from the token at revocation
// time so the cleanup sweep never has to re-parse tokens.
type RevokedToken struct {
	ID        uint      `gorm:"primaryKey"           json:"id"`
	JTI       string    `gorm:"uniqueIndex;not null" json:"jti"`
	RevokedAt time.Time `gorm:"not null"             json:"revoked_at"`
	ExpiresAt int64     `gorm:"index;not null"       json:"expires_at"`
}
