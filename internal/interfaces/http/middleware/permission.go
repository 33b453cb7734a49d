package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequirePermission creates middleware that requires a specific permission
func RequirePermission(permission string) gin.HandlerFunc {
	return RequireAnyPermission(permission)
}

// RequireAnyPermission creates middleware that requires any of the specified
// permissions. The user must hold at least one to proceed.
func RequireAnyPermission(permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			denyPermission(c, "No authentication claims found")
			return
		}
		if !claims.HasAnyPermission(permissions...) {
			denyPermission(c, "User lacks required permission")
			return
		}
		c.Next()
	}
}

func denyPermission(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "FORBIDDEN",
			"message": message,
		},
	})
}
