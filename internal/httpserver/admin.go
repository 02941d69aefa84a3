package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/auth_portal/internal/logging"
)

func (h *AuthHTTP) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()

	users, err := h.Svc.ListUsers(ctx)
	if err != nil {
		return httpError(err)
	}

	out := make([]echo.Map, 0, len(users))
	for _, u := range users {
		out = append(out, echo.Map{
			"username":  u.Username,
			"full_name": u.FullName,
			"email":     u.Email,
			"role":      u.Role,
		})
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AuthHTTP) SetUserPassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin_set_password")

	var req struct {
		NewPassword string `form:"new_password" json:"new_password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("set_password_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.NewPassword == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "new password is required")
	}

	if err := h.Svc.SetUserPassword(ctx, c.Param("username"), req.NewPassword); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "User password updated",
	})
}

func (h *AuthHTTP) SetUserRole(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin_set_role")

	var req struct {
		Role string `form:"role" json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("set_role_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.SetUserRole(ctx, c.Param("username"), req.Role); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "User role updated",
	})
}
