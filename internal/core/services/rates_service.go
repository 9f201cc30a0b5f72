package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/vaultline/internal/apperrors"
	"github.com/SscSPs/vaultline/internal/core/domain"
	portsrepo "github.com/SscSPs/vaultline/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/vaultline/internal/core/ports/services"
	"github.com/SscSPs/vaultline/internal/platform/clock"
	"golang.org/x/sync/errgroup"
)

// MaxSymbolsPerRequest caps the symbols accepted by LatestRates.
const MaxSymbolsPerRequest = 50

// lookupConcurrency bounds parallel store lookups for one request.
const lookupConcurrency = 8

// RateServiceOptions tunes the rate query service.
type RateServiceOptions struct {
	Plans        domain.PlanTable
	StoreTimeout time.Duration
}

type rateService struct {
	BaseService
	repo  portsrepo.BaseRateRepositoryFacade
	clock clock.Clock
	opts  RateServiceOptions
}

// NewRateService creates the service behind the rates, history, assets and ingest endpoints.
func NewRateService(repo portsrepo.BaseRateRepositoryFacade, clk clock.Clock, opts RateServiceOptions) portssvc.RateSvcFacade {
	if opts.Plans == nil {
		opts.Plans = domain.DefaultPlanTable()
	}
	if opts.StoreTimeout <= 0 {
		opts.StoreTimeout = 2 * time.Second
	}
	return &rateService{repo: repo, clock: clk, opts: opts}
}

// LatestRates resolves each symbol independently; missing symbols are reported, not fatal.
func (s *rateService) LatestRates(ctx context.Context, symbols []string, on *time.Time) ([]domain.BaseRate, []string, error) {
	symbols = uniqueSymbols(symbols)
	if len(symbols) == 0 {
		return nil, nil, apperrors.NewValidationError("at least one symbol is required")
	}
	if len(symbols) > MaxSymbolsPerRequest {
		return nil, nil, apperrors.NewValidationError(fmt.Sprintf("at most %d symbols per request", MaxSymbolsPerRequest))
	}

	results := make([]*domain.BaseRate, len(symbols))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(lookupConcurrency)
	for i, symbol := range symbols {
		i, symbol := i, symbol
		g.Go(func() error {
			lookupCtx, cancel := context.WithTimeout(gctx, s.opts.StoreTimeout)
			defer cancel()

			var rate *domain.BaseRate
			var err error
			if on != nil {
				rate, err = s.repo.FindBaseRateOn(lookupCtx, symbol, domain.DateOnly(*on))
			} else {
				rate, err = s.repo.FindLatestBaseRate(lookupCtx, domain.AssetClassAny, symbol)
			}
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil
			}
			if err != nil {
				return s.StoreFault(ctx, "base_rates", err)
			}
			results[i] = rate
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	found := make([]domain.BaseRate, 0, len(symbols))
	var notFound []string
	for i, r := range results {
		if r == nil {
			notFound = append(notFound, symbols[i])
			continue
		}
		found = append(found, *r)
	}
	return found, notFound, nil
}

// History returns a symbol's observations within the plan's history window.
// A nil to means today; a to in the future is clamped to today. A nil from means the oldest allowed date.
func (s *rateService) History(ctx context.Context, plan domain.Plan, symbol string, from, to *time.Time) (*domain.RateHistory, error) {
	symbol = domain.NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, apperrors.NewValidationError("symbol is required")
	}
	policy, ok := s.opts.Plans.Policy(plan)
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnknownPlan, plan)
	}

	today := domain.DateOnly(s.clock.Now())
	maxFrom := domain.EarliestHistoryDate(today, policy.HistoryDays)

	end := today
	if to != nil && domain.DateOnly(*to).Before(today) {
		end = domain.DateOnly(*to)
	}
	start := maxFrom
	if from != nil {
		start = domain.DateOnly(*from)
		if start.Before(maxFrom) {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrForbidden, &domain.HistoryWindowError{
				Plan:        plan,
				HistoryDays: policy.HistoryDays,
				MaxFrom:     maxFrom,
			})
		}
	}
	if start.After(end) {
		return nil, apperrors.NewValidationError("from date must be before or equal to to date")
	}

	lookupCtx, cancel := context.WithTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()
	points, err := s.repo.ListBaseRatesBetween(lookupCtx, symbol, start, end)
	if err != nil {
		return nil, s.StoreFault(ctx, "base_rates", err)
	}
	if len(points) == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("no history for %s between %s and %s",
			symbol, start.Format(domain.DateLayout), end.Format(domain.DateLayout)))
	}

	return &domain.RateHistory{
		Symbol:       symbol,
		AssetClass:   points[0].AssetClass,
		BaseCurrency: points[0].BaseCurrency,
		From:         start,
		To:           end,
		Points:       points,
	}, nil
}

// Assets lists the stored symbols of one class, or of every class for AssetClassAny.
func (s *rateService) Assets(ctx context.Context, class domain.AssetClass) ([]domain.AssetClassSummary, error) {
	if class != domain.AssetClassAny && !class.IsValid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown asset class %q", class))
	}

	lookupCtx, cancel := context.WithTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()

	var classes []domain.AssetClass
	if class != domain.AssetClassAny {
		classes = []domain.AssetClass{class}
	} else {
		summary, err := s.repo.SummarizeAssetClasses(lookupCtx)
		if err != nil {
			return nil, s.StoreFault(ctx, "base_rates", err)
		}
		for _, c := range summary {
			classes = append(classes, c.AssetClass)
		}
	}

	out := make([]domain.AssetClassSummary, len(classes))
	g, gctx := errgroup.WithContext(lookupCtx)
	for i, c := range classes {
		i, c := i, c
		g.Go(func() error {
			symbols, err := s.repo.ListSymbols(gctx, c)
			if err != nil {
				return s.StoreFault(ctx, "base_rates", err)
			}
			out[i] = domain.AssetClassSummary{AssetClass: c, SymbolCount: len(symbols), Symbols: symbols}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// IngestBaseRates validates and upserts a batch. Later duplicates of (symbol, date) win.
func (s *rateService) IngestBaseRates(ctx context.Context, rates []domain.BaseRate) (int, error) {
	if len(rates) == 0 {
		return 0, apperrors.NewValidationError("no rates supplied")
	}

	batch := make([]domain.BaseRate, 0, len(rates))
	index := make(map[string]int, len(rates))
	for i, r := range rates {
		normalized, err := normalizeIngest(r)
		if err != nil {
			return 0, fmt.Errorf("rate %d: %w", i, err)
		}
		k := normalized.Symbol + "|" + normalized.ObservedOn.Format(domain.DateLayout)
		if pos, dup := index[k]; dup {
			batch[pos] = normalized
			continue
		}
		index[k] = len(batch)
		batch = append(batch, normalized)
	}

	n, err := s.repo.UpsertBaseRates(ctx, batch)
	if err != nil {
		return 0, s.StoreFault(ctx, "base_rates", err)
	}
	s.LogInfo(ctx, "Base rates ingested", slog.Int("received", len(rates)), slog.Int("upserted", n))
	return n, nil
}

func normalizeIngest(r domain.BaseRate) (domain.BaseRate, error) {
	r.Symbol = domain.NormalizeSymbol(r.Symbol)
	if r.Symbol == "" || strings.Contains(r.Symbol, "/") {
		return r, apperrors.NewValidationError(fmt.Sprintf("invalid symbol %q", r.Symbol))
	}
	if !r.AssetClass.IsValid() {
		return r, apperrors.NewValidationError(fmt.Sprintf("invalid asset class %q", r.AssetClass))
	}
	if registered, ok := domain.RegisteredClass(r.Symbol); ok && registered != r.AssetClass {
		return r, apperrors.NewValidationError(fmt.Sprintf("%s is registered as %s, not %s", r.Symbol, registered, r.AssetClass))
	}
	if r.Rate.IsNegative() {
		return r, apperrors.NewValidationError(fmt.Sprintf("rate for %s must not be negative", r.Symbol))
	}
	if r.BaseCurrency == "" {
		r.BaseCurrency = domain.BaseCurrency
	}
	if strings.ToUpper(r.BaseCurrency) != domain.BaseCurrency {
		return r, apperrors.NewValidationError(fmt.Sprintf("base currency must be %s", domain.BaseCurrency))
	}
	r.BaseCurrency = domain.BaseCurrency
	if r.ObservedOn.IsZero() {
		return r, apperrors.NewValidationError(fmt.Sprintf("observation date for %s is required", r.Symbol))
	}
	r.ObservedOn = domain.DateOnly(r.ObservedOn)
	return r, nil
}

func uniqueSymbols(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, raw := range in {
		s := domain.NormalizeSymbol(raw)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
