package middleware

import "github.com/gin-gonic/gin"

// RequireAdmin guards the terminal's override operations: voiding items
// and applying discounts. AuthMiddleware must have run first.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("userRole")
		if !exists {
			c.AbortWithStatusJSON(403, gin.H{"error": "role missing"})
			return
		}

		if role != "admin" {
			c.AbortWithStatusJSON(403, gin.H{"error": "forbidden"})
			return
		}

		c.Next()
	}
}
