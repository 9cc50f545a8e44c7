package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"supermarket_api/internal/auth"
)

// sessionKey is the gin context key holding the request's auth.Session.
const sessionKey = "session"

// authRequired verifies the Bearer token and stores the decoded session in
// the request context for downstream handlers.
func authRequired(authService *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		session, err := authService.ParseToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid session token"})
			return
		}

		c.Set(sessionKey, session)
		c.Next()
	}
}

// requireManager rejects sessions without the privileged role.
func requireManager() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessionFrom(c)
		if session == nil || !session.Role.Privileged() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "manager role required"})
			return
		}
		c.Next()
	}
}

// sessionFrom returns the session stored by authRequired, or nil.
func sessionFrom(c *gin.Context) *auth.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	session, ok := v.(*auth.Session)
	if !ok {
		return nil
	}
	return session
}
