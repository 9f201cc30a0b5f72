package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/SscSPs/vaultline/internal/apperrors"
	"github.com/SscSPs/vaultline/internal/core/domain"
	portsrepo "github.com/SscSPs/vaultline/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/vaultline/internal/core/ports/services"
	"github.com/SscSPs/vaultline/internal/platform/clock"
)

// usageHistoryDays is how many days of logged usage Summary returns.
const usageHistoryDays = 30

type usageService struct {
	BaseService
	usage        portsrepo.UsageRepositoryFacade
	keys         portsrepo.APIKeyRepositoryFacade
	limiter      portssvc.RateLimiterSvc
	plans        domain.PlanTable
	clock        clock.Clock
	storeTimeout time.Duration
	inflight     sync.WaitGroup
}

// NewUsageService creates the usage recorder and reporter.
func NewUsageService(
	usage portsrepo.UsageRepositoryFacade,
	keys portsrepo.APIKeyRepositoryFacade,
	limiter portssvc.RateLimiterSvc,
	plans domain.PlanTable,
	clk clock.Clock,
	storeTimeout time.Duration,
) portssvc.UsageSvc {
	if plans == nil {
		plans = domain.DefaultPlanTable()
	}
	if storeTimeout <= 0 {
		storeTimeout = 2 * time.Second
	}
	return &usageService{usage: usage, keys: keys, limiter: limiter, plans: plans, clock: clk, storeTimeout: storeTimeout}
}

// Record writes the usage log entry and stamps the key's last use in the background.
// Failures are logged and never reach the caller.
func (s *usageService) Record(ctx context.Context, principal domain.Principal, endpoint string) {
	now := s.clock.Now()
	entry := domain.UsageLog{
		APIKeyID: principal.APIKeyID,
		UserID:   principal.UserID,
		Endpoint: endpoint,
		CalledAt: now,
	}

	// Keep the request logger but not its cancellation.
	bg := context.WithoutCancel(ctx)
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		writeCtx, cancel := context.WithTimeout(bg, s.storeTimeout)
		defer cancel()

		if err := s.usage.RecordUsage(writeCtx, entry); err != nil {
			s.LogError(bg, err, "Failed to record usage", slog.String("api_key_id", entry.APIKeyID), slog.String("endpoint", endpoint))
		}
		if err := s.keys.TouchAPIKey(writeCtx, entry.APIKeyID, now); err != nil {
			s.LogError(bg, err, "Failed to update API key last use", slog.String("api_key_id", entry.APIKeyID))
		}
	}()
}

// Wait blocks until every background write started by Record has finished.
func (s *usageService) Wait() {
	s.inflight.Wait()
}

// Summary reports usage for one of the user's keys.
func (s *usageService) Summary(ctx context.Context, userID, keyID string) (*domain.UsageSummary, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(keyID) == "" {
		return nil, apperrors.NewValidationError("user ID and key ID are required")
	}

	key, err := s.keys.FindAPIKeyByID(ctx, keyID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, s.StoreFault(ctx, "api_keys", err)
	}
	if key.UserID != userID {
		return nil, apperrors.NewNotFoundError("API key not found")
	}

	plan, err := s.keys.FindPlanByUser(ctx, userID)
	if errors.Is(err, apperrors.ErrNotFound) || (err == nil && plan == "") {
		plan, err = domain.PlanSandbox, nil
	}
	if err != nil {
		return nil, s.StoreFault(ctx, "subscriptions", err)
	}
	policy, ok := s.plans.Policy(plan)
	if !ok {
		return nil, apperrors.ErrUnknownPlan
	}

	today, err := s.limiter.CurrentCount(ctx, keyID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	since := domain.DateOnly(now).AddDate(0, 0, -(usageHistoryDays - 1))
	daily, err := s.usage.DailyUsage(ctx, keyID, since)
	if err != nil {
		return nil, s.StoreFault(ctx, "usage_logs", err)
	}

	return &domain.UsageSummary{
		APIKeyID:   keyID,
		Plan:       plan,
		TodayCount: today,
		Limit:      policy.DailyQuota,
		ResetAt:    domain.NextUTCMidnight(now),
		Daily:      daily,
	}, nil
}
