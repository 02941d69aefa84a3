package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Skotchmaster/auth_portal/internal/hash"
	"github.com/Skotchmaster/auth_portal/internal/logging"
	"github.com/Skotchmaster/auth_portal/internal/models"
)

// RequireRole is the authorization gate applied before admin operations.
func RequireRole(identity *Identity, role string) error {
	if identity == nil || identity.Role != role {
		return ErrForbidden
	}
	return nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.Repo.ListUsers(ctx)
}

// SetUserPassword overwrites the target user's password. Unlike
// self-service ChangePassword it does not require the old one.
func (s *AuthService) SetUserPassword(ctx context.Context, username, newPassword string) error {
	l := logging.FromContext(ctx).With("svc", "auth.set_user_password", "target", username)

	user, err := s.Repo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTargetNotFound
		}
		return err
	}

	pwHash, err := hash.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = pwHash
	if err := s.Repo.SaveUser(ctx, user); err != nil {
		l.Error("set_user_password_failed", "error", err)
		return err
	}

	l.Info("user_password_updated")
	return nil
}

func (s *AuthService) SetUserRole(ctx context.Context, username, role string) error {
	l := logging.FromContext(ctx).With("svc", "auth.set_user_role", "target", username, "role", role)

	if role != RoleAdmin && role != RoleUser {
		return ErrInvalidRole
	}

	user, err := s.Repo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTargetNotFound
		}
		return err
	}

	user.Role = role
	if err := s.Repo.SaveUser(ctx, user); err != nil {
		l.Error("set_user_role_failed", "error", err)
		return err
	}

	l.Info("user_role_updated")
	return nil
}
