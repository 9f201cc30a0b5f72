package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/vaultline/internal/core/domain"
)

// UsageWriter records data-plane calls.
type UsageWriter interface {
	RecordUsage(ctx context.Context, entry domain.UsageLog) error
}

// UsageReader aggregates recorded calls.
type UsageReader interface {
	// DailyUsage returns per-day call counts for a key since the given day, oldest first.
	DailyUsage(ctx context.Context, apiKeyID string, since time.Time) ([]domain.DailyUsage, error)
}

// UsageRepositoryFacade combines all usage repository interfaces
type UsageRepositoryFacade interface {
	UsageWriter
	UsageReader
}
