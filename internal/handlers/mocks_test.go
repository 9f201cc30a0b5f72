package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/vaultline/internal/core/domain"
	portssvc "github.com/SscSPs/vaultline/internal/core/ports/services"
	"github.com/stretchr/testify/mock"
)

// --- Mock RateService ---
type MockRateService struct {
	mock.Mock
}

func (m *MockRateService) LatestRates(ctx context.Context, symbols []string, on *time.Time) ([]domain.BaseRate, []string, error) {
	args := m.Called(ctx, symbols, on)
	var rates []domain.BaseRate
	if args.Get(0) != nil {
		rates = args.Get(0).([]domain.BaseRate)
	}
	var notFound []string
	if args.Get(1) != nil {
		notFound = args.Get(1).([]string)
	}
	return rates, notFound, args.Error(2)
}

func (m *MockRateService) History(ctx context.Context, plan domain.Plan, symbol string, from, to *time.Time) (*domain.RateHistory, error) {
	args := m.Called(ctx, plan, symbol, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateHistory), args.Error(1)
}

func (m *MockRateService) Assets(ctx context.Context, class domain.AssetClass) ([]domain.AssetClassSummary, error) {
	args := m.Called(ctx, class)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AssetClassSummary), args.Error(1)
}

func (m *MockRateService) IngestBaseRates(ctx context.Context, rates []domain.BaseRate) (int, error) {
	args := m.Called(ctx, rates)
	return args.Int(0), args.Error(1)
}

var _ portssvc.RateSvcFacade = (*MockRateService)(nil)

// --- Mock TriangulationService ---
type MockTriangulationService struct {
	mock.Mock
}

func (m *MockTriangulationService) CrossRate(ctx context.Context, class domain.AssetClass, from, to string) (*domain.CrossRate, error) {
	args := m.Called(ctx, class, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CrossRate), args.Error(1)
}

var _ portssvc.TriangulationSvc = (*MockTriangulationService)(nil)

// --- Mock APIKeyService ---
type MockAPIKeyService struct {
	mock.Mock
}

func (m *MockAPIKeyService) CreateKey(ctx context.Context, userID, label string) (string, *domain.APIKey, error) {
	args := m.Called(ctx, userID, label)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*domain.APIKey), args.Error(2)
}

func (m *MockAPIKeyService) ListKeys(ctx context.Context, userID string) ([]domain.APIKey, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.APIKey), args.Error(1)
}

func (m *MockAPIKeyService) RevokeKey(ctx context.Context, userID, keyID string) error {
	args := m.Called(ctx, userID, keyID)
	return args.Error(0)
}

func (m *MockAPIKeyService) Authenticate(ctx context.Context, rawKey string) (*domain.Principal, error) {
	args := m.Called(ctx, rawKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Principal), args.Error(1)
}

var _ portssvc.APIKeySvcFacade = (*MockAPIKeyService)(nil)

// --- Mock UsageService ---
type MockUsageService struct {
	mock.Mock
}

func (m *MockUsageService) Record(ctx context.Context, principal domain.Principal, endpoint string) {
	m.Called(ctx, principal, endpoint)
}

func (m *MockUsageService) Summary(ctx context.Context, userID, keyID string) (*domain.UsageSummary, error) {
	args := m.Called(ctx, userID, keyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UsageSummary), args.Error(1)
}

func (m *MockUsageService) Wait() {}

var _ portssvc.UsageSvc = (*MockUsageService)(nil)

// --- Mock RateLimiter ---
type MockRateLimiter struct {
	mock.Mock
}

func (m *MockRateLimiter) CheckAndConsume(ctx context.Context, keyID string, plan domain.Plan) (domain.LimitDecision, error) {
	args := m.Called(ctx, keyID, plan)
	return args.Get(0).(domain.LimitDecision), args.Error(1)
}

func (m *MockRateLimiter) CurrentCount(ctx context.Context, keyID string) (int64, error) {
	args := m.Called(ctx, keyID)
	return args.Get(0).(int64), args.Error(1)
}

var _ portssvc.RateLimiterSvc = (*MockRateLimiter)(nil)

// --- Mock HealthService ---
type MockHealthService struct {
	mock.Mock
}

func (m *MockHealthService) Check(ctx context.Context) domain.HealthReport {
	args := m.Called(ctx)
	return args.Get(0).(domain.HealthReport)
}

var _ portssvc.HealthSvc = (*MockHealthService)(nil)
