package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/vaultline/internal/core/domain"
)

// APIKeyReader defines read operations for API keys
type APIKeyReader interface {
	FindAPIKeyByHash(ctx context.Context, keyHash string) (*domain.APIKey, error)
	FindAPIKeyByID(ctx context.Context, keyID string) (*domain.APIKey, error)
	ListAPIKeysByUser(ctx context.Context, userID string) ([]domain.APIKey, error)
}

// APIKeyWriter defines write operations for API keys
type APIKeyWriter interface {
	CreateAPIKey(ctx context.Context, key *domain.APIKey) error
	DeactivateAPIKey(ctx context.Context, keyID string) error
	TouchAPIKey(ctx context.Context, keyID string, usedAt time.Time) error
}

// SubscriptionReader resolves the plan a user is subscribed to.
type SubscriptionReader interface {
	// FindPlanByUser returns the user's plan, falling back to sandbox when no subscription exists.
	FindPlanByUser(ctx context.Context, userID string) (domain.Plan, error)
}

// APIKeyRepositoryFacade combines all API key repository interfaces
type APIKeyRepositoryFacade interface {
	APIKeyReader
	APIKeyWriter
	SubscriptionReader
}
