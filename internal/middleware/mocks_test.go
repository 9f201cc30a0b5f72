package middleware_test

import (
	"context"

	"github.com/SscSPs/vaultline/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

type mockAuthenticator struct {
	mock.Mock
}

func (m *mockAuthenticator) Authenticate(ctx context.Context, rawKey string) (*domain.Principal, error) {
	args := m.Called(ctx, rawKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Principal), args.Error(1)
}

type mockLimiter struct {
	mock.Mock
}

func (m *mockLimiter) CheckAndConsume(ctx context.Context, keyID string, plan domain.Plan) (domain.LimitDecision, error) {
	args := m.Called(ctx, keyID, plan)
	return args.Get(0).(domain.LimitDecision), args.Error(1)
}

func (m *mockLimiter) CurrentCount(ctx context.Context, keyID string) (int64, error) {
	args := m.Called(ctx, keyID)
	return args.Get(0).(int64), args.Error(1)
}
