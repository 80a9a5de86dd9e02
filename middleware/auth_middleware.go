// middleware/auth_middleware.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/HSouheill/shop_backend/models"
	"github.com/labstack/echo/v4"
)

// RequireOwner lets only the shop owner through
func RequireOwner() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := GetUserFromToken(c)
			if claims == nil || !claims.IsOwner {
				return c.JSON(http.StatusForbidden, models.Response{
					Status:  http.StatusForbidden,
					Message: "Access denied. Owner only.",
				})
			}
			return next(c)
		}
	}
}

// RequireRole checks the caller holds one of the allowed roles. The owner
// always passes.
func RequireRole(allowedRoles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := GetUserFromToken(c)
			if claims == nil {
				return c.JSON(http.StatusUnauthorized, models.Response{
					Status:  http.StatusUnauthorized,
					Message: "Not authenticated",
				})
			}
			if claims.IsOwner || hasRole(allowedRoles, claims.Role) {
				return next(c)
			}

			c.Logger().Warnf("Access denied for role: %s, allowed roles: %v", claims.Role, allowedRoles)
			return c.JSON(http.StatusForbidden, models.Response{
				Status:  http.StatusForbidden,
				Message: "Access denied. Required role: " + strings.Join(allowedRoles, " or "),
			})
		}
	}
}

// hasRole checks if the given role exists in the roles slice
func hasRole(roles []string, required string) bool {
	for _, r := range roles {
		if r == required {
			return true
		}
	}
	return false
}
