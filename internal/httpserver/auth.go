package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/auth_portal/internal/logging"
	"github.com/Skotchmaster/auth_portal/internal/middleware"
	"github.com/Skotchmaster/auth_portal/internal/service"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req struct {
		FullName string `form:"full_name" json:"full_name"`
		Username string `form:"username"  json:"username"`
		Password string `form:"password"  json:"password"`
		Email    string `form:"email"     json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Username == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
	}

	if err := h.Svc.Register(ctx, req.FullName, req.Username, req.Password, req.Email); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "User registered successfully",
	})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req struct {
		Username string `form:"username" json:"username"`
		Password string `form:"password" json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"access_token": res.AccessToken,
		"token_type":   res.TokenType,
	})
}

// Logout parses and revokes the presented token itself instead of going
// through RequireAuth: an already-revoked token would fail verification
// there, and logout of such a token should still be accepted.
func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()

	token, ok := middleware.BearerToken(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
	}

	if err := h.Svc.Logout(ctx, token); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Logged out",
	})
}

func (h *AuthHTTP) Me(c echo.Context) error {
	identity := middleware.IdentityFromContext(c)
	if identity == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing identity")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"username":  identity.Username,
		"full_name": identity.FullName,
		"role":      identity.Role,
	})
}

func (h *AuthHTTP) ChangePassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_change_password")

	identity := middleware.IdentityFromContext(c)
	if identity == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing identity")
	}

	var req struct {
		OldPassword string `form:"old_password" json:"old_password"`
		NewPassword string `form:"new_password" json:"new_password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("change_password_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.NewPassword == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "new password is required")
	}

	if err := h.Svc.ChangePassword(ctx, identity, req.OldPassword, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusBadRequest, "Old password incorrect")
		}
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Password changed successfully",
	})
}
