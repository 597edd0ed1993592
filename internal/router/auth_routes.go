package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/tailor-booking/internal/handler"
	"github.com/iliyamo/tailor-booking/internal/middleware"
)

// RegisterAuth registers account endpoints under /api/auth.  Login and
// registration share the limiter with booking submission.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	g := e.Group("/api/auth")
	g.POST("/register", a.Register, limit)
	g.POST("/login", a.Login, limit)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	e.GET("/api/me", a.Me, middleware.JWTAuth(jwtSecret))
}
