package middleware

import (
	"net/http"
	"strings"

	"nearby/config"
	"nearby/internal/auth"
	"nearby/internal/session"

	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

// SessionRequired resolves the session token (Bearer header, or ?token= for
// clients that cannot set headers) and stores the live session in the context.
func SessionRequired(cfg *config.SessionConfig, registry *session.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if header := c.GetHeader("Authorization"); header != "" {
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
				return
			}
			token = parts[1]
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing session token"})
			return
		}
		claims, err := auth.ParseSessionToken(cfg, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		s, ok := registry.Get(claims.SessionID)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session not found"})
			return
		}
		c.Set(sessionKey, s)
		c.Next()
	}
}

// GetSession returns the session set by SessionRequired.
func GetSession(c *gin.Context) *session.Session {
	v, _ := c.Get(sessionKey)
	s, _ := v.(*session.Session)
	return s
}
