// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/Straver00/Chivas-travel-api/internal/handler"
	"github.com/Straver00/Chivas-travel-api/internal/middleware"
	"github.com/Straver00/Chivas-travel-api/internal/model"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance. Currently it exposes only a health check, used by
// load balancers to verify the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the session endpoints. Register, login and refresh
// live under /v1/auth and need no existing session; logout requires a valid
// access token so it can fall back to revoking every session of the caller
// when no specific refresh token is supplied.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)

	auth := e.Group("/v1/auth", middleware.JWTAuth(jwtSecret))
	auth.POST("/logout", a.Logout)

	admin := e.Group("/v1/auth", middleware.JWTAuth(jwtSecret), middleware.RequireSubtype(model.SubtypeAdmin))
	admin.POST("/register-admin", a.RegisterAdmin)
}
