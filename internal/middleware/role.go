package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireSubtype enforces that the authenticated user's account subtype is
// in the allowed set. The values correspond to the JWT's subtipo claim
// extracted by JWTAuth; requests without a matching subtype get 403.
func RequireSubtype(subtypes ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(subtypes))
	for _, s := range subtypes {
		allowed[s] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !allowed[CurrentSubtype(c)] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
