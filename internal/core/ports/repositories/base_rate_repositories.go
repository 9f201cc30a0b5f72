package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/vaultline/internal/core/domain"
)

// BaseRateLookup resolves the most recent base rate of a symbol.
type BaseRateLookup interface {
	// FindLatestBaseRate returns the newest observation of symbol. AssetClassAny matches any class.
	// A missing symbol yields an error matching apperrors.ErrNotFound.
	FindLatestBaseRate(ctx context.Context, class domain.AssetClass, symbol string) (*domain.BaseRate, error)
}

// BaseRateReader defines read operations for base rate data
type BaseRateReader interface {
	BaseRateLookup
	// FindBaseRateOn returns the observation of symbol recorded on day.
	FindBaseRateOn(ctx context.Context, symbol string, day time.Time) (*domain.BaseRate, error)
	// ListBaseRatesBetween returns observations of symbol within [from, to], oldest first.
	ListBaseRatesBetween(ctx context.Context, symbol string, from, to time.Time) ([]domain.BaseRate, error)
	// ListSymbols returns the distinct symbols stored under class, sorted.
	ListSymbols(ctx context.Context, class domain.AssetClass) ([]string, error)
	// SummarizeAssetClasses counts distinct symbols per stored class.
	SummarizeAssetClasses(ctx context.Context) ([]domain.AssetClassSummary, error)
}

// BaseRateWriter is the write port used by the ingestion hand-off.
type BaseRateWriter interface {
	// UpsertBaseRates inserts rates, replacing any existing row with the same (symbol, date).
	UpsertBaseRates(ctx context.Context, rates []domain.BaseRate) (int, error)
}

// BaseRateRepositoryFacade combines all base rate repository interfaces
type BaseRateRepositoryFacade interface {
	BaseRateReader
	BaseRateWriter
}

// BaseRateRepositoryWithTx extends BaseRateRepositoryFacade with transaction capabilities
type BaseRateRepositoryWithTx interface {
	BaseRateRepositoryFacade
	TransactionManager
}
