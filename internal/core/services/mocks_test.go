package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/vaultline/internal/core/domain"
	portsrepo "github.com/SscSPs/vaultline/internal/core/ports/repositories"
	"github.com/stretchr/testify/mock"
)

// --- Mock BaseRateRepository ---
type MockBaseRateRepository struct {
	mock.Mock
}

func (m *MockBaseRateRepository) FindLatestBaseRate(ctx context.Context, class domain.AssetClass, symbol string) (*domain.BaseRate, error) {
	args := m.Called(ctx, class, symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BaseRate), args.Error(1)
}

func (m *MockBaseRateRepository) FindBaseRateOn(ctx context.Context, symbol string, day time.Time) (*domain.BaseRate, error) {
	args := m.Called(ctx, symbol, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BaseRate), args.Error(1)
}

func (m *MockBaseRateRepository) ListBaseRatesBetween(ctx context.Context, symbol string, from, to time.Time) ([]domain.BaseRate, error) {
	args := m.Called(ctx, symbol, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BaseRate), args.Error(1)
}

func (m *MockBaseRateRepository) ListSymbols(ctx context.Context, class domain.AssetClass) ([]string, error) {
	args := m.Called(ctx, class)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockBaseRateRepository) SummarizeAssetClasses(ctx context.Context) ([]domain.AssetClassSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AssetClassSummary), args.Error(1)
}

func (m *MockBaseRateRepository) UpsertBaseRates(ctx context.Context, rates []domain.BaseRate) (int, error) {
	args := m.Called(ctx, rates)
	return args.Int(0), args.Error(1)
}

var _ portsrepo.BaseRateRepositoryFacade = (*MockBaseRateRepository)(nil)

// --- Mock CounterStore ---
type MockCounterStore struct {
	mock.Mock
}

func (m *MockCounterStore) IncrementWithExpiry(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	args := m.Called(ctx, key, ttl)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCounterStore) Get(ctx context.Context, key string) (int64, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCounterStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

var _ portsrepo.CounterStore = (*MockCounterStore)(nil)

// --- Mock APIKeyRepository ---
type MockAPIKeyRepository struct {
	mock.Mock
}

func (m *MockAPIKeyRepository) FindAPIKeyByHash(ctx context.Context, keyHash string) (*domain.APIKey, error) {
	args := m.Called(ctx, keyHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.APIKey), args.Error(1)
}

func (m *MockAPIKeyRepository) FindAPIKeyByID(ctx context.Context, keyID string) (*domain.APIKey, error) {
	args := m.Called(ctx, keyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.APIKey), args.Error(1)
}

func (m *MockAPIKeyRepository) ListAPIKeysByUser(ctx context.Context, userID string) ([]domain.APIKey, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.APIKey), args.Error(1)
}

func (m *MockAPIKeyRepository) CreateAPIKey(ctx context.Context, key *domain.APIKey) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockAPIKeyRepository) DeactivateAPIKey(ctx context.Context, keyID string) error {
	args := m.Called(ctx, keyID)
	return args.Error(0)
}

func (m *MockAPIKeyRepository) TouchAPIKey(ctx context.Context, keyID string, usedAt time.Time) error {
	args := m.Called(ctx, keyID, usedAt)
	return args.Error(0)
}

func (m *MockAPIKeyRepository) FindPlanByUser(ctx context.Context, userID string) (domain.Plan, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(domain.Plan), args.Error(1)
}

var _ portsrepo.APIKeyRepositoryFacade = (*MockAPIKeyRepository)(nil)

// --- Mock UsageRepository ---
type MockUsageRepository struct {
	mock.Mock
}

func (m *MockUsageRepository) RecordUsage(ctx context.Context, entry domain.UsageLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockUsageRepository) DailyUsage(ctx context.Context, apiKeyID string, since time.Time) ([]domain.DailyUsage, error) {
	args := m.Called(ctx, apiKeyID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DailyUsage), args.Error(1)
}

var _ portsrepo.UsageRepositoryFacade = (*MockUsageRepository)(nil)

// date builds a UTC calendar date.
func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
