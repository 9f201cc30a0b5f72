package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/vaultline/internal/apperrors"
	"github.com/SscSPs/vaultline/internal/core/domain"
	portsrepo "github.com/SscSPs/vaultline/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/vaultline/internal/core/ports/services"
	"github.com/SscSPs/vaultline/internal/platform/clock"
	"github.com/SscSPs/vaultline/internal/platform/metrics"
)

// RateLimitOptions tunes the limiter.
type RateLimitOptions struct {
	Plans        domain.PlanTable
	CounterTTL   time.Duration
	StoreTimeout time.Duration
}

type rateLimitService struct {
	BaseService
	counters portsrepo.CounterStore
	clock    clock.Clock
	opts     RateLimitOptions
}

// NewRateLimitService creates the per-key daily limiter.
func NewRateLimitService(counters portsrepo.CounterStore, clk clock.Clock, opts RateLimitOptions) portssvc.RateLimiterSvc {
	if opts.Plans == nil {
		opts.Plans = domain.DefaultPlanTable()
	}
	if opts.CounterTTL < domain.MinCounterTTL {
		opts.CounterTTL = domain.MinCounterTTL
	}
	if opts.StoreTimeout <= 0 {
		opts.StoreTimeout = 2 * time.Second
	}
	return &rateLimitService{counters: counters, clock: clk, opts: opts}
}

// CheckAndConsume increments today's counter for keyID exactly once and decides against the plan ceiling.
func (s *rateLimitService) CheckAndConsume(ctx context.Context, keyID string, plan domain.Plan) (domain.LimitDecision, error) {
	keyID = strings.TrimSpace(keyID)
	if keyID == "" {
		return domain.LimitDecision{}, apperrors.NewValidationError("api key id is required")
	}
	policy, ok := s.opts.Plans.Policy(plan)
	if !ok {
		return domain.LimitDecision{}, fmt.Errorf("%w: %q", apperrors.ErrUnknownPlan, plan)
	}

	now := s.clock.Now()
	key := domain.CounterKey(keyID, now)

	storeCtx, cancel := context.WithTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()

	count, err := s.counters.IncrementWithExpiry(storeCtx, key, s.opts.CounterTTL)
	if err != nil {
		return domain.LimitDecision{}, s.StoreFault(ctx, "counter", err)
	}

	decision := domain.Decide(policy.DailyQuota, count, now)
	if decision.Allowed {
		metrics.QuotaDecisions.WithLabelValues(string(plan), "allowed").Inc()
	} else {
		metrics.QuotaDecisions.WithLabelValues(string(plan), "rejected").Inc()
		s.GetLogger(ctx).Warn("Daily quota exceeded",
			slog.String("api_key_id", keyID),
			slog.String("plan", string(plan)),
			slog.Int64("count", count),
			slog.Int64("retry_after_seconds", decision.RetryAfterSeconds),
		)
	}
	return decision, nil
}

// CurrentCount reads today's counter without incrementing it.
func (s *rateLimitService) CurrentCount(ctx context.Context, keyID string) (int64, error) {
	if strings.TrimSpace(keyID) == "" {
		return 0, apperrors.NewValidationError("api key id is required")
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()

	count, err := s.counters.Get(storeCtx, domain.CounterKey(keyID, s.clock.Now()))
	if err != nil {
		return 0, s.StoreFault(ctx, "counter", err)
	}
	return count, nil
}
