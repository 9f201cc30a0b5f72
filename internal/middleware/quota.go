package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/SscSPs/vaultline/internal/apperrors"
	"github.com/SscSPs/vaultline/internal/core/domain"
	"github.com/SscSPs/vaultline/internal/core/ports/services"
	"github.com/SscSPs/vaultline/internal/platform/config"
	"github.com/SscSPs/vaultline/internal/platform/metrics"
	"github.com/gin-gonic/gin"
)

// Quota consumes one unit of the caller's daily quota and rejects the request once it is spent.
// It must run after APIKeyAuth. Rate limit headers are set on every response that got a decision.
//
// When the counter store fails the request is rejected with 503 under config.FailClosed,
// or admitted without headers under config.FailOpen.
func Quota(limiter services.RateLimiterSvc, failMode config.QuotaFailMode) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		principal, ok := GetPrincipalFromContext(c)
		if !ok {
			logger.Error("Quota middleware ran without an authenticated principal")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing API key"})
			return
		}

		decision, err := limiter.CheckAndConsume(c.Request.Context(), principal.APIKeyID, principal.Plan)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				logger.Debug("Client went away before the quota check finished")
				c.AbortWithStatus(apperrors.HTTPStatus(err))
				return
			}
			storeFault := errors.Is(err, apperrors.ErrStoreUnavailable) || errors.Is(err, apperrors.ErrStoreTimeout)
			if storeFault && failMode == config.FailOpen {
				metrics.QuotaFailOpen.Inc()
				logger.Warn("Quota store unavailable, admitting request", slog.String("error", err.Error()))
				c.Next()
				return
			}
			logger.Error("Quota check failed", slog.String("error", err.Error()))
			msg := "Rate limit check failed"
			if storeFault {
				msg = "Rate limit service temporarily unavailable"
			}
			c.AbortWithStatusJSON(apperrors.HTTPStatus(err), gin.H{"error": msg})
			return
		}

		for k, v := range decision.Headers() {
			c.Header(k, v)
		}
		c.Set(string(decisionKey), decision)

		if !decision.Allowed {
			exceeded := &apperrors.QuotaExceededError{RetryAfterSeconds: decision.RetryAfterSeconds}
			_ = c.Error(exceeded)
			c.AbortWithStatusJSON(apperrors.HTTPStatus(exceeded), quotaExceededBody(principal.Plan, decision, exceeded))
			return
		}
		c.Next()
	}
}

func quotaExceededBody(plan domain.Plan, d domain.LimitDecision, exceeded *apperrors.QuotaExceededError) gin.H {
	msg := fmt.Sprintf("You have exceeded the daily limit of %s API calls for the %s plan.", d.Limit, plan)
	if plan == domain.PlanSandbox {
		msg += " Upgrade to Standard for unlimited calls."
	}
	return gin.H{
		"error":       "Rate limit exceeded",
		"message":     msg,
		"limit":       d.Limit,
		"remaining":   d.Remaining,
		"reset":       d.ResetAt.Unix(),
		"retry_after": exceeded.RetryAfterSeconds,
	}
}
