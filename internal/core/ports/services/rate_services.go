package services

import (
	"context"
	"time"

	"github.com/SscSPs/vaultline/internal/core/domain"
)

// TriangulationSvc derives a rate between any two symbols from USD base rates.
type TriangulationSvc interface {
	CrossRate(ctx context.Context, class domain.AssetClass, from, to string) (*domain.CrossRate, error)
}

// RateQuerySvc serves stored base rates.
type RateQuerySvc interface {
	// LatestRates returns the newest rate for each symbol (or the rate on *on when set),
	// plus the symbols that have no stored observation.
	LatestRates(ctx context.Context, symbols []string, on *time.Time) ([]domain.BaseRate, []string, error)
	// History returns observations within the plan's allowed window.
	History(ctx context.Context, plan domain.Plan, symbol string, from, to *time.Time) (*domain.RateHistory, error)
	// Assets lists stored symbols grouped by class. AssetClassAny returns every class.
	Assets(ctx context.Context, class domain.AssetClass) ([]domain.AssetClassSummary, error)
}

// RateIngestSvc accepts base rates from the ingestion collaborator.
type RateIngestSvc interface {
	IngestBaseRates(ctx context.Context, rates []domain.BaseRate) (int, error)
}

// RateSvcFacade combines the rate query and ingest services.
type RateSvcFacade interface {
	RateQuerySvc
	RateIngestSvc
}
