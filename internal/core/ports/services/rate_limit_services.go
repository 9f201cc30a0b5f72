package services

import (
	"context"

	"github.com/SscSPs/vaultline/internal/core/domain"
)

// RateLimiterSvc enforces per-key daily quotas.
type RateLimiterSvc interface {
	// CheckAndConsume counts one call for keyID against today's quota and reports whether it is allowed.
	// Every call increments the counter, including rejected ones.
	CheckAndConsume(ctx context.Context, keyID string, plan domain.Plan) (domain.LimitDecision, error)
	// CurrentCount returns today's counter for keyID without consuming quota.
	CurrentCount(ctx context.Context, keyID string) (int64, error)
}
