package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/vaultline/internal/apperrors"
	"github.com/SscSPs/vaultline/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

// apiKeyHeader is accepted as an alternative to a bearer token.
const apiKeyHeader = "X-API-Key"

// APIKeyAuth authenticates data-plane requests by API key and stores the principal.
func APIKeyAuth(authenticator services.APIKeyAuthenticatorSvc) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		rawKey, ok := bearerToken(c)
		if !ok {
			rawKey = c.GetHeader(apiKeyHeader)
		}
		if rawKey == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Missing API key. Send it as Authorization: Bearer <key>",
			})
			return
		}

		principal, err := authenticator.Authenticate(c.Request.Context(), rawKey)
		if err != nil {
			if errors.Is(err, apperrors.ErrUnauthorized) {
				logger.Warn("API key rejected", slog.String("error", err.Error()))
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or revoked API key"})
				return
			}
			logger.Error("API key authentication failed", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(apperrors.HTTPStatus(err), gin.H{"error": "Authentication is temporarily unavailable"})
			return
		}

		enriched := logger.With(
			slog.String("api_key_id", principal.APIKeyID),
			slog.String("user_id", principal.UserID),
			slog.String("plan", string(principal.Plan)),
		)
		c.Request = c.Request.WithContext(WithLogger(c.Request.Context(), enriched))
		c.Set(string(principalKey), principal)
		c.Set(string(userIDKey), principal.UserID)

		c.Next()
	}
}
