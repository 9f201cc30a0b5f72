package services

import (
	"context"

	"github.com/SscSPs/vaultline/internal/core/domain"
)

// APIKeyManagerSvc manages a user's API keys.
type APIKeyManagerSvc interface {
	// CreateKey issues a new key. The raw key is returned only here.
	CreateKey(ctx context.Context, userID, label string) (string, *domain.APIKey, error)
	ListKeys(ctx context.Context, userID string) ([]domain.APIKey, error)
	RevokeKey(ctx context.Context, userID, keyID string) error
}

// APIKeyAuthenticatorSvc resolves a raw key into a principal.
type APIKeyAuthenticatorSvc interface {
	Authenticate(ctx context.Context, rawKey string) (*domain.Principal, error)
}

// APIKeySvcFacade combines the API key services.
type APIKeySvcFacade interface {
	APIKeyManagerSvc
	APIKeyAuthenticatorSvc
}
