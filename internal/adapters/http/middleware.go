package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dkeye/Parlor/internal/auth"
)

// AuthRequired guards the REST surface with the same tokens the chat
// engine consumes over the socket.
func AuthRequired(verifier *auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if tok == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access denied. No token provided."})
			return
		}
		claims, err := verifier.Verify(tok)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		c.Set("username", claims.Username)
		c.Set("identifier", claims.Identifier)
		c.Next()
	}
}
