package httpserver

import (
	"net/http"
	"path/filepath"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/auth_portal/internal/middleware"
)

type Deps struct {
	AuthHandler *AuthHTTP
	AuthMW      *middleware.Auth
	StaticDir   string
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	if d.StaticDir != "" {
		e.Static("/static", d.StaticDir)
		e.File("/", filepath.Join(d.StaticDir, "login.html"))
		e.GET("/register", pageHandler(filepath.Join(d.StaticDir, "register.html")))
		e.GET("/user", pageHandler(filepath.Join(d.StaticDir, "user.html")))
		e.GET("/admin", pageHandler(filepath.Join(d.StaticDir, "admin.html")))
	}

	e.POST("/register", d.AuthHandler.Register)
	e.POST("/login", d.AuthHandler.Login)

	// Logout takes a bearer token but bypasses RequireAuth, see the
	// handler comment.
	e.POST("/logout", d.AuthHandler.Logout)

	private := e.Group("")
	private.Use(d.AuthMW.RequireAuth)
	private.GET("/me", d.AuthHandler.Me)
	private.POST("/change_password", d.AuthHandler.ChangePassword)

	admin := e.Group("/admin", d.AuthMW.RequireAuth, d.AuthMW.RequireAdmin)
	admin.GET("/users", d.AuthHandler.ListUsers)
	admin.POST("/users/:username/set_password", d.AuthHandler.SetUserPassword)
	admin.POST("/users/:username/set_role", d.AuthHandler.SetUserRole)
}

func pageHandler(path string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.File(path)
	}
}
