package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Context keys populated by JWTAuth and read back by handlers through the
// CurrentUserID and CurrentSubtype helpers.
const (
	ctxUserID  = "user_id"
	ctxSubtype = "subtipo"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and stores the subject and subtipo claims in the request context. Wrap
// protected routes with it; handlers then call CurrentUserID / CurrentSubtype.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}

			// The sub claim round-trips through JSON as float64.
			sub, ok := claims["sub"].(float64)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}
			c.Set(ctxUserID, uint64(sub))
			if st, ok := claims["subtipo"].(string); ok {
				c.Set(ctxSubtype, st)
			}
			return next(c)
		}
	}
}

// CurrentUserID returns the authenticated user's id, or 0 when the request
// did not pass through JWTAuth.
func CurrentUserID(c echo.Context) uint64 {
	if v, ok := c.Get(ctxUserID).(uint64); ok {
		return v
	}
	return 0
}

// CurrentSubtype returns the authenticated user's account subtype, or ""
// when the request did not pass through JWTAuth.
func CurrentSubtype(c echo.Context) string {
	if v, ok := c.Get(ctxSubtype).(string); ok {
		return v
	}
	return ""
}

// rateKeyUserID renders the authenticated user id for rate-limit keys,
// "anon" when the request is unauthenticated.
func rateKeyUserID(c echo.Context) string {
	if id := CurrentUserID(c); id != 0 {
		return strconv.FormatUint(id, 10)
	}
	return "anon"
}
