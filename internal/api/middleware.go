package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"trade-journal-go/internal/auth"
)

const userIDKey = "user_id"

// AuthRequired validates the bearer token and stores the resolved user
// id in the request context. Handlers never read ambient session state;
// they take the id from here.
func AuthRequired(tokens *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header; expected Bearer token"})
			return
		}

		userID, err := tokens.ParseToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

func currentUserID(c *gin.Context) uint {
	return c.GetUint(userIDKey)
}
