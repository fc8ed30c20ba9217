package middleware

import (
	"net/http"

	"chat_app/internal/domain"

	"github.com/gin-gonic/gin"
)

// RequireAdmin пускает только пользователей с ролью ADMIN.
// Ставить строго после RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(IdentityKey)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		identity, ok := value.(*domain.Identity)
		if !ok || identity.Role != domain.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden: Admin only"})
			c.Abort()
			return
		}

		c.Next()
	}
}
