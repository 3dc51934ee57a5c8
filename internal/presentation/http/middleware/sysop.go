package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/security"
)

// SysOpAuthMiddleware protects operator endpoints with a bearer password
// checked against a bcrypt hash. An empty hash leaves them open.
func SysOpAuthMiddleware(passwordHash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if passwordHash == "" {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		token := ""
		if len(authHeader) > 7 && strings.HasPrefix(authHeader, "Bearer ") {
			token = authHeader[7:]
		}
		if token == "" {
			// EventSource cannot send headers
			token = c.Query("token")
		}

		if token == "" || !security.CheckPassword(passwordHash, token) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}
		c.Next()
	}
}
