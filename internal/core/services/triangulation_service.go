package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/vaultline/internal/apperrors"
	"github.com/SscSPs/vaultline/internal/core/domain"
	portsrepo "github.com/SscSPs/vaultline/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/vaultline/internal/core/ports/services"
	"github.com/SscSPs/vaultline/internal/platform/clock"
	"github.com/SscSPs/vaultline/internal/platform/metrics"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type triangulationService struct {
	BaseService
	rates        portsrepo.BaseRateLookup
	clock        clock.Clock
	storeTimeout time.Duration
}

// NewTriangulationService creates the USD-anchored cross rate engine.
func NewTriangulationService(rates portsrepo.BaseRateLookup, clk clock.Clock, storeTimeout time.Duration) portssvc.TriangulationSvc {
	if storeTimeout <= 0 {
		storeTimeout = 2 * time.Second
	}
	return &triangulationService{rates: rates, clock: clk, storeTimeout: storeTimeout}
}

// CrossRate returns how many units of to one unit of from buys.
//
// Same symbol yields 1 dated today. USD on either side is a single lookup, inverted
// when USD is the target. Anything else divides the two USD rates, fetched concurrently,
// and is dated by the older of the two observations.
func (s *triangulationService) CrossRate(ctx context.Context, class domain.AssetClass, from, to string) (*domain.CrossRate, error) {
	from = domain.NormalizeSymbol(from)
	to = domain.NormalizeSymbol(to)
	if from == "" || to == "" {
		return nil, apperrors.NewValidationError("both from and to symbols are required")
	}

	result := &domain.CrossRate{AssetClass: class, From: from, To: to}
	var err error
	switch {
	case from == to:
		result.Path = domain.PathIdentity
		result.Rate = decimal.NewFromInt(1)
		result.AsOf = domain.DateOnly(s.clock.Now())
	case from == domain.BaseCurrency:
		result.Path = domain.PathDirect
		err = s.direct(ctx, class, result)
	case to == domain.BaseCurrency:
		result.Path = domain.PathInverse
		err = s.inverse(ctx, class, result)
	default:
		result.Path = domain.PathCross
		err = s.cross(ctx, class, result)
	}

	if err != nil {
		metrics.CrossRateResults.WithLabelValues(string(result.Path), outcomeLabel(err)).Inc()
		return nil, err
	}
	metrics.CrossRateResults.WithLabelValues(string(result.Path), "ok").Inc()
	return result, nil
}

func (s *triangulationService) direct(ctx context.Context, class domain.AssetClass, result *domain.CrossRate) error {
	base, err := s.lookup(ctx, class, result.To)
	if err != nil {
		return err
	}
	result.Rate = base.Rate
	result.AsOf = base.ObservedOn
	return nil
}

func (s *triangulationService) inverse(ctx context.Context, class domain.AssetClass, result *domain.CrossRate) error {
	base, err := s.lookup(ctx, class, result.From)
	if err != nil {
		return err
	}
	if base.Rate.IsZero() {
		return fmt.Errorf("%w: USD rate of %s is zero", apperrors.ErrNonInvertibleRate, result.From)
	}
	result.Rate = decimal.NewFromInt(1).DivRound(base.Rate, domain.CrossRateDivisionPrecision)
	result.AsOf = base.ObservedOn
	return nil
}

func (s *triangulationService) cross(ctx context.Context, class domain.AssetClass, result *domain.CrossRate) error {
	var fromBase, toBase *domain.BaseRate

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := s.lookup(gctx, class, result.From)
		fromBase = r
		return err
	})
	g.Go(func() error {
		r, err := s.lookup(gctx, class, result.To)
		toBase = r
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if fromBase.Rate.IsZero() {
		return fmt.Errorf("%w: USD rate of %s is zero", apperrors.ErrNonInvertibleRate, result.From)
	}
	result.Rate = toBase.Rate.DivRound(fromBase.Rate, domain.CrossRateDivisionPrecision)
	result.AsOf = domain.EarlierDate(fromBase.ObservedOn, toBase.ObservedOn)
	return nil
}

func (s *triangulationService) lookup(ctx context.Context, class domain.AssetClass, symbol string) (*domain.BaseRate, error) {
	lookupCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	rate, err := s.rates.FindLatestBaseRate(lookupCtx, class, symbol)
	if err == nil {
		return rate, nil
	}
	if errors.Is(err, apperrors.ErrNotFound) {
		s.LogDebug(ctx, "No base rate for symbol", slog.String("symbol", symbol), slog.String("asset_class", string(class)))
		return nil, fmt.Errorf("no USD rate for %s: %w", symbol, err)
	}
	// A lookup cancelled by a failed sibling comes back from StoreFault as context.Canceled.
	return nil, s.StoreFault(ctx, "base_rates", err)
}

func outcomeLabel(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return "not_found"
	case errors.Is(err, apperrors.ErrNonInvertibleRate):
		return "non_invertible"
	case errors.Is(err, apperrors.ErrStoreTimeout):
		return "store_timeout"
	case errors.Is(err, apperrors.ErrStoreUnavailable):
		return "store_unavailable"
	default:
		return "error"
	}
}
