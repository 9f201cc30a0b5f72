package services

import (
	"context"

	"github.com/SscSPs/vaultline/internal/core/domain"
)

// UsageSvc records and reports data-plane usage.
type UsageSvc interface {
	// Record logs a call without blocking the caller.
	Record(ctx context.Context, principal domain.Principal, endpoint string)
	// Summary reports today's counter and recent daily usage for one of the user's keys.
	Summary(ctx context.Context, userID, keyID string) (*domain.UsageSummary, error)
	// Wait blocks until in-flight records have been written.
	Wait()
}
