package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// IngestAuth guards the internal ingestion endpoints with a shared bearer secret.
// An empty secret disables them.
func IngestAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Ingestion is not configured"})
			return
		}
		token, ok := bearerToken(c)
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			GetLoggerFromCtx(c.Request.Context()).Warn("Ingestion request with invalid secret")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid ingestion secret"})
			return
		}
		c.Next()
	}
}
