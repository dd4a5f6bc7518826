// File: middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"bloodlink/utils"

	"github.com/gin-gonic/gin"
)

// JWTAuth validates the bearer token and requires one of the given roles.
// On success the token subject lands in the context under "authUserID" and
// the role under "authRole".
func JWTAuth(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		subject, role, err := utils.ExtractSubjectFromToken(tokenString)
		if err != nil || subject == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}
		if len(allowed) > 0 && !allowed[role] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden for this role"})
			return
		}

		c.Set("authUserID", subject)
		c.Set("authRole", role)
		c.Next()
	}
}

// AuthUserID pulls the authenticated subject out of the context.
func AuthUserID(c *gin.Context) string {
	return c.GetString("authUserID")
}
