package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/Skotchmaster/auth_portal/internal/events"
	"github.com/Skotchmaster/auth_portal/internal/hash"
	"github.com/Skotchmaster/auth_portal/internal/logging"
	"github.com/Skotchmaster/auth_portal/internal/models"
	"github.com/Skotchmaster/auth_portal/internal/repo"
	"github.com/Skotchmaster/auth_portal/internal/tokens"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type AuthService struct {
	Repo     *repo.GormRepo
	Secret   []byte
	TokenTTL time.Duration
	Events   *events.Producer
}

// Identity is the outcome of a successful token verification. Role and
// FullName reflect the current user row, not the token claims: the token
// keeps the role it was minted with, the row is authoritative for
// authorization decisions.
type Identity struct {
	Username string
	FullName string
	Role     string
	JTI      string
}

type LoginResult struct {
	AccessToken string
	TokenType   string
}

func (s *AuthService) Register(ctx context.Context, fullName, username, password, email string) error {
	l := logging.FromContext(ctx).With("svc", "auth.register", "username", username)

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register_error", "reason", "cannot hash the password", "error", err)
		return err
	}

	user := models.User{
		Username:     username,
		FullName:     fullName,
		Email:        email,
		PasswordHash: pwHash,
		Role:         RoleUser,
	}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			l.Warn("register_error", "reason", "username already exists")
			return ErrUsernameTaken
		}
		l.Error("register_error", "error", err)
		return err
	}

	s.publish(ctx, l, username, map[string]any{
		"type":     "user_registered",
		"username": username,
	})

	return nil
}

// Login checks the credentials and issues a fresh access token. Unknown
// usernames and wrong passwords collapse into the same error so a caller
// cannot probe which usernames exist.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	user, err := s.Repo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("login_failed", "reason", "unknown username")
			return nil, ErrInvalidCredentials
		}
		l.Error("login_failed", "error", err)
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "reason", "password mismatch")
		return nil, ErrInvalidCredentials
	}

	// The role claim is captured here; a later role change does not
	// touch tokens that are already out.
	accessToken, err := tokens.Sign(user.Username, user.Role, s.Secret, s.TokenTTL)
	if err != nil {
		l.Error("login_failed", "error", err)
		return nil, err
	}

	l.Info("login_successful")
	return &LoginResult{AccessToken: accessToken, TokenType: "bearer"}, nil
}

// Authenticate verifies a bearer token end to end: signature and expiry,
// then the revocation registry, then resolution of the subject to a live
// user row. It runs on every protected request and performs reads only.
func (s *AuthService) Authenticate(ctx context.Context, tokenStr string) (*Identity, error) {
	claims, err := tokens.ClaimsFromToken(tokenStr, s.Secret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	if claims.ID != "" {
		revoked, err := s.Repo.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, ErrTokenRevoked
		}
	}

	user, err := s.Repo.FindUserByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// A deleted account can hold a still-valid token.
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &Identity{
		Username: user.Username,
		FullName: user.FullName,
		Role:     user.Role,
		JTI:      claims.ID,
	}, nil
}

// Logout revokes the token's jti so the token dies before its natural
// expiry. The token only has to parse; its revocation state is not
// consulted, which makes a repeated logout succeed.
func (s *AuthService) Logout(ctx context.Context, tokenStr string) error {
	l := logging.FromContext(ctx).With("svc", "auth.logout")

	claims, err := tokens.ClaimsFromToken(tokenStr, s.Secret)
	if err != nil {
		l.Warn("logout_failed", "reason", "unparsable token")
		return ErrInvalidToken
	}
	if claims.ID == "" {
		l.Warn("logout_failed", "reason", "token carries no jti")
		return ErrTokenMissingJTI
	}

	expiresAt := time.Now().Unix()
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time.Unix()
	}
	if err := s.Repo.Revoke(ctx, claims.ID, expiresAt); err != nil {
		l.Error("logout_failed", "error", err)
		return err
	}

	s.publish(ctx, l, claims.Subject, map[string]any{
		"type":     "user_logged_out",
		"username": claims.Subject,
	})

	l.Info("logout_successful")
	return nil
}

// ChangePassword is self-service: a valid token alone is not enough, the
// caller must also prove knowledge of the current password.
func (s *AuthService) ChangePassword(ctx context.Context, identity *Identity, oldPassword, newPassword string) error {
	l := logging.FromContext(ctx).With("svc", "auth.change_password", "username", identity.Username)

	user, err := s.Repo.FindUserByUsername(ctx, identity.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if !hash.CheckPassword(user.PasswordHash, oldPassword) {
		l.Warn("change_password_failed", "reason", "old password mismatch")
		return ErrInvalidCredentials
	}

	pwHash, err := hash.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = pwHash
	if err := s.Repo.SaveUser(ctx, user); err != nil {
		l.Error("change_password_failed", "error", err)
		return err
	}

	l.Info("password_changed")
	return nil
}

// Bootstrap creates the initial admin account on first run. An existing
// admin row is left untouched, so a restart never resets its password.
func (s *AuthService) Bootstrap(ctx context.Context, initialPassword string) error {
	l := logging.FromContext(ctx).With("svc", "auth.bootstrap")

	_, err := s.Repo.FindUserByUsername(ctx, RoleAdmin)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	pwHash, err := hash.HashPassword(initialPassword)
	if err != nil {
		return err
	}
	admin := models.User{
		Username:     "admin",
		FullName:     "Admin",
		Email:        "admin@example.com",
		PasswordHash: pwHash,
		Role:         RoleAdmin,
	}
	if err := s.Repo.CreateUser(ctx, &admin); err != nil {
		// Another instance may have bootstrapped between the check and
		// the insert.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	}

	l.Info("bootstrap_admin_created")
	return nil
}

// PurgeExpiredRevocations drops registry entries for tokens that have
// expired on their own. Run periodically to keep the registry bounded.
func (s *AuthService) PurgeExpiredRevocations(ctx context.Context) error {
	l := logging.FromContext(ctx).With("svc", "auth.purge_revocations")

	deleted, err := s.Repo.DeleteExpiredRevocations(ctx, time.Now())
	if err != nil {
		l.Error("purge_failed", "error", err)
		return err
	}
	if deleted > 0 {
		l.Info("purged_expired_revocations", "deleted", deleted)
	}
	return nil
}

func (s *AuthService) publish(ctx context.Context, l *slog.Logger, key string, event map[string]any) {
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Events.Publish(pubCtx, key, event); err != nil {
		// Events are best effort; the request itself already succeeded.
		l.Warn("event_publish_failed", "type", event["type"], "error", err)
	}
}
