package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/auth_portal/internal/service"
)

const identityKey = "identity"

type Auth struct {
	Svc *service.AuthService
}

func NewAuth(svc *service.AuthService) *Auth {
	return &Auth{Svc: svc}
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(c echo.Context) (string, bool) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// RequireAuth verifies the bearer token on every protected request:
// signature, expiry, revocation, and that the subject still exists.
func (m *Auth) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := BearerToken(c)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
		}

		identity, err := m.Svc.Authenticate(c.Request().Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrInvalidToken),
				errors.Is(err, service.ErrTokenExpired),
				errors.Is(err, service.ErrTokenRevoked),
				errors.Is(err, service.ErrUserNotFound):
				return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
			default:
				return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
			}
		}

		c.Set(identityKey, identity)
		return next(c)
	}
}

// RequireAdmin gates admin-only routes. It assumes RequireAuth already ran.
func (m *Auth) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		identity := IdentityFromContext(c)
		if err := service.RequireRole(identity, service.RoleAdmin); err != nil {
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		}
		return next(c)
	}
}

func IdentityFromContext(c echo.Context) *service.Identity {
	if v, ok := c.Get(identityKey).(*service.Identity); ok {
		return v
	}
	return nil
}
