package services_test

import (
	"context"
	"errors"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SscSPs/vaultline/internal/adapters/counter"
	"github.com/SscSPs/vaultline/internal/apperrors"
	"github.com/SscSPs/vaultline/internal/core/domain"
	portssvc "github.com/SscSPs/vaultline/internal/core/ports/services"
	"github.com/SscSPs/vaultline/internal/core/services"
	"github.com/SscSPs/vaultline/internal/platform/clock"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type RateLimitServiceTestSuite struct {
	suite.Suite
	counters *MockCounterStore
	clock    *clock.Manual
	service  portssvc.RateLimiterSvc
}

func (suite *RateLimitServiceTestSuite) SetupTest() {
	suite.counters = new(MockCounterStore)
	suite.clock = clock.NewManual(time.Date(2024, 1, 10, 18, 0, 0, 0, time.UTC))
	suite.service = services.NewRateLimitService(suite.counters, suite.clock, services.RateLimitOptions{
		Plans:        domain.NewPlanTable(3, 30, 90),
		CounterTTL:   24 * time.Hour,
		StoreTimeout: time.Second,
	})
}

func TestRateLimitServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RateLimitServiceTestSuite))
}

func (suite *RateLimitServiceTestSuite) TestCheckAndConsume_UnderCeiling() {
	suite.counters.On("IncrementWithExpiry", mock.Anything, "rl:key-1:2024-01-10", 24*time.Hour).Return(int64(2), nil).Once()

	decision, err := suite.service.CheckAndConsume(context.Background(), "key-1", domain.PlanSandbox)

	suite.Require().NoError(err)
	suite.True(decision.Allowed)
	suite.Equal(domain.Limited(3), decision.Limit)
	suite.Equal(domain.Limited(1), decision.Remaining)
	suite.Equal(time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC), decision.ResetAt)
	suite.counters.AssertExpectations(suite.T())
}

func (suite *RateLimitServiceTestSuite) TestCheckAndConsume_NthAllowedNPlusOneRejected() {
	suite.counters.On("IncrementWithExpiry", mock.Anything, "rl:key-1:2024-01-10", 24*time.Hour).Return(int64(3), nil).Once()
	suite.counters.On("IncrementWithExpiry", mock.Anything, "rl:key-1:2024-01-10", 24*time.Hour).Return(int64(4), nil).Once()

	nth, err := suite.service.CheckAndConsume(context.Background(), "key-1", domain.PlanSandbox)
	suite.Require().NoError(err)
	suite.True(nth.Allowed)
	suite.Equal(domain.Limited(0), nth.Remaining)

	over, err := suite.service.CheckAndConsume(context.Background(), "key-1", domain.PlanSandbox)
	suite.Require().NoError(err)
	suite.False(over.Allowed)
	suite.Equal(domain.Limited(0), over.Remaining)
	suite.Equal(int64(6*3600), over.RetryAfterSeconds)
	suite.counters.AssertNumberOfCalls(suite.T(), "IncrementWithExpiry", 2)
}

func (suite *RateLimitServiceTestSuite) TestCheckAndConsume_UnlimitedNeverRejects() {
	suite.counters.On("IncrementWithExpiry", mock.Anything, "rl:key-2:2024-01-10", 24*time.Hour).Return(int64(5_000_000), nil).Once()

	decision, err := suite.service.CheckAndConsume(context.Background(), "key-2", domain.PlanStandard)

	suite.Require().NoError(err)
	suite.True(decision.Allowed)
	suite.True(decision.Limit.IsUnlimited())
	suite.True(decision.Remaining.IsUnlimited())
	suite.counters.AssertExpectations(suite.T())
}

func (suite *RateLimitServiceTestSuite) TestCheckAndConsume_UnknownPlan() {
	_, err := suite.service.CheckAndConsume(context.Background(), "key-1", domain.Plan("enterprise"))

	suite.ErrorIs(err, apperrors.ErrUnknownPlan)
	suite.counters.AssertNotCalled(suite.T(), "IncrementWithExpiry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RateLimitServiceTestSuite) TestCheckAndConsume_EmptyKey() {
	_, err := suite.service.CheckAndConsume(context.Background(), "  ", domain.PlanSandbox)

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *RateLimitServiceTestSuite) TestCheckAndConsume_StoreUnavailable() {
	suite.counters.On("IncrementWithExpiry", mock.Anything, mock.Anything, mock.Anything).Return(int64(0), errors.New("dial tcp: connection refused")).Once()

	_, err := suite.service.CheckAndConsume(context.Background(), "key-1", domain.PlanSandbox)

	suite.ErrorIs(err, apperrors.ErrStoreUnavailable)
	suite.NotErrorIs(err, apperrors.ErrStoreTimeout)
	suite.NotErrorIs(err, apperrors.ErrQuotaExceeded)
}

func (suite *RateLimitServiceTestSuite) TestCheckAndConsume_StoreTimeout() {
	suite.counters.On("IncrementWithExpiry", mock.Anything, mock.Anything, mock.Anything).Return(int64(0), context.DeadlineExceeded).Once()

	_, err := suite.service.CheckAndConsume(context.Background(), "key-1", domain.PlanSandbox)

	suite.ErrorIs(err, apperrors.ErrStoreTimeout)
	suite.NotErrorIs(err, apperrors.ErrStoreUnavailable)
}

type socketTimeout struct{}

func (socketTimeout) Error() string   { return "read tcp 127.0.0.1:6379: i/o timeout" }
func (socketTimeout) Timeout() bool   { return true }
func (socketTimeout) Temporary() bool { return true }

func (suite *RateLimitServiceTestSuite) TestCheckAndConsume_ClientSocketTimeoutIsStoreTimeout() {
	for _, cause := range []error{
		socketTimeout{},
		&net.OpError{Op: "read", Net: "tcp", Err: os.ErrDeadlineExceeded},
	} {
		suite.counters.On("IncrementWithExpiry", mock.Anything, mock.Anything, mock.Anything).Return(int64(0), cause).Once()

		_, err := suite.service.CheckAndConsume(context.Background(), "key-1", domain.PlanSandbox)

		suite.ErrorIs(err, apperrors.ErrStoreTimeout, cause.Error())
		suite.NotErrorIs(err, apperrors.ErrStoreUnavailable, cause.Error())
	}
}

func (suite *RateLimitServiceTestSuite) TestCheckAndConsume_CallerCancelledIsNotAStoreFault() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	suite.counters.On("IncrementWithExpiry", mock.Anything, mock.Anything, mock.Anything).Return(int64(0), context.Canceled).Once()

	_, err := suite.service.CheckAndConsume(ctx, "key-1", domain.PlanSandbox)

	suite.ErrorIs(err, context.Canceled)
	suite.NotErrorIs(err, apperrors.ErrStoreUnavailable)
	suite.NotErrorIs(err, apperrors.ErrStoreTimeout)
	suite.Equal(apperrors.StatusClientClosedRequest, apperrors.HTTPStatus(err))
}

func (suite *RateLimitServiceTestSuite) TestCheckAndConsume_UsesCurrentUTCDay() {
	suite.counters.On("IncrementWithExpiry", mock.Anything, "rl:key-1:2024-01-10", mock.Anything).Return(int64(3), nil).Once()
	suite.counters.On("IncrementWithExpiry", mock.Anything, "rl:key-1:2024-01-11", mock.Anything).Return(int64(1), nil).Once()

	_, err := suite.service.CheckAndConsume(context.Background(), "key-1", domain.PlanSandbox)
	suite.Require().NoError(err)

	suite.clock.Advance(6 * time.Hour)
	decision, err := suite.service.CheckAndConsume(context.Background(), "key-1", domain.PlanSandbox)
	suite.Require().NoError(err)
	suite.True(decision.Allowed)
	suite.Equal(domain.Limited(2), decision.Remaining)
	suite.counters.AssertExpectations(suite.T())
}

func (suite *RateLimitServiceTestSuite) TestCurrentCount() {
	suite.counters.On("Get", mock.Anything, "rl:key-1:2024-01-10").Return(int64(7), nil).Once()

	n, err := suite.service.CurrentCount(context.Background(), "key-1")

	suite.Require().NoError(err)
	suite.Equal(int64(7), n)
}

// Runs against the in-process store so the counter semantics are real.
func TestRateLimitService_ConcurrentCallersRespectCeiling(t *testing.T) {
	const ceiling = 25
	const callers = 200

	store := counter.NewMemoryStore(time.Minute)
	clk := clock.NewManual(time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC))
	svc := services.NewRateLimitService(store, clk, services.RateLimitOptions{
		Plans:        domain.NewPlanTable(ceiling, 30, 90),
		CounterTTL:   24 * time.Hour,
		StoreTimeout: time.Second,
	})

	var allowed, rejected atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := svc.CheckAndConsume(context.Background(), "shared-key", domain.PlanSandbox)
			if err != nil {
				t.Error(err)
				return
			}
			if d.Allowed {
				allowed.Add(1)
			} else {
				rejected.Add(1)
			}
		}()
	}
	wg.Wait()

	if allowed.Load() != ceiling {
		t.Fatalf("allowed = %d, want %d", allowed.Load(), ceiling)
	}
	if rejected.Load() != callers-ceiling {
		t.Fatalf("rejected = %d, want %d", rejected.Load(), callers-ceiling)
	}
	count, err := svc.CurrentCount(context.Background(), "shared-key")
	if err != nil || count != callers {
		t.Fatalf("counter = %d (err %v), want %d", count, err, callers)
	}
}

func TestRateLimitService_YesterdayDoesNotCountToday(t *testing.T) {
	store := counter.NewMemoryStore(time.Minute)
	clk := clock.NewManual(time.Date(2024, 1, 9, 23, 59, 0, 0, time.UTC))
	svc := services.NewRateLimitService(store, clk, services.RateLimitOptions{
		Plans:        domain.NewPlanTable(2, 30, 90),
		StoreTimeout: time.Second,
	})
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, _ = svc.CheckAndConsume(ctx, "k", domain.PlanSandbox)
	}

	clk.Advance(2 * time.Minute)
	d, err := svc.CheckAndConsume(ctx, "k", domain.PlanSandbox)
	if err != nil {
		t.Fatal(err)
	}
	if !d.Allowed || d.Count != 1 {
		t.Fatalf("first call of the new day: allowed=%v count=%d", d.Allowed, d.Count)
	}
}
