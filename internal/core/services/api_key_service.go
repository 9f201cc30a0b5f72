package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/vaultline/internal/apperrors"
	"github.com/SscSPs/vaultline/internal/core/domain"
	portsrepo "github.com/SscSPs/vaultline/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/vaultline/internal/core/ports/services"
	"github.com/SscSPs/vaultline/internal/platform/clock"
	"github.com/SscSPs/vaultline/internal/utils"
	"github.com/google/uuid"
)

const maxKeyLabelLength = 100

type apiKeyService struct {
	BaseService
	repo  portsrepo.APIKeyRepositoryFacade
	plans domain.PlanTable
	clock clock.Clock
}

// NewAPIKeyService creates the service that issues, lists, revokes and authenticates API keys.
func NewAPIKeyService(repo portsrepo.APIKeyRepositoryFacade, plans domain.PlanTable, clk clock.Clock) portssvc.APIKeySvcFacade {
	if plans == nil {
		plans = domain.DefaultPlanTable()
	}
	return &apiKeyService{repo: repo, plans: plans, clock: clk}
}

// CreateKey issues a new key, enforcing the plan's active key ceiling.
func (s *apiKeyService) CreateKey(ctx context.Context, userID, label string) (string, *domain.APIKey, error) {
	if strings.TrimSpace(userID) == "" {
		return "", nil, apperrors.NewValidationError("user ID is required")
	}
	label = strings.TrimSpace(label)
	if len(label) > maxKeyLabelLength {
		return "", nil, apperrors.NewValidationError(fmt.Sprintf("label must be at most %d characters", maxKeyLabelLength))
	}

	plan, err := s.planFor(ctx, userID)
	if err != nil {
		return "", nil, err
	}
	policy, ok := s.plans.Policy(plan)
	if !ok {
		return "", nil, fmt.Errorf("%w: %q", apperrors.ErrUnknownPlan, plan)
	}

	existing, err := s.repo.ListAPIKeysByUser(ctx, userID)
	if err != nil {
		return "", nil, s.StoreFault(ctx, "api_keys", err)
	}
	active := 0
	for _, k := range existing {
		if k.IsActive {
			active++
		}
	}
	if active >= policy.MaxActiveKeys {
		return "", nil, apperrors.NewAppError(http.StatusForbidden,
			fmt.Sprintf("API key limit reached: the %s plan allows %d active key(s)", plan, policy.MaxActiveKeys),
			apperrors.ErrForbidden)
	}

	raw, err := utils.GenerateAPIKey()
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate API key: %w", err)
	}
	key := &domain.APIKey{
		ID:        uuid.NewString(),
		UserID:    userID,
		KeyHash:   utils.HashAPIKey(raw),
		Label:     label,
		IsActive:  true,
		CreatedAt: s.clock.Now(),
	}
	if err := s.repo.CreateAPIKey(ctx, key); err != nil {
		return "", nil, s.StoreFault(ctx, "api_keys", err)
	}

	s.LogInfo(ctx, "API key created", slog.String("user_id", userID), slog.String("api_key_id", key.ID))
	return raw, key, nil
}

// ListKeys returns the user's keys, newest first as stored.
func (s *apiKeyService) ListKeys(ctx context.Context, userID string) ([]domain.APIKey, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperrors.NewValidationError("user ID is required")
	}
	keys, err := s.repo.ListAPIKeysByUser(ctx, userID)
	if err != nil {
		return nil, s.StoreFault(ctx, "api_keys", err)
	}
	return keys, nil
}

// RevokeKey deactivates one of the user's keys. Keys of other users read as not found.
func (s *apiKeyService) RevokeKey(ctx context.Context, userID, keyID string) error {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(keyID) == "" {
		return apperrors.NewValidationError("user ID and key ID are required")
	}
	key, err := s.repo.FindAPIKeyByID(ctx, keyID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return err
	}
	if err != nil {
		return s.StoreFault(ctx, "api_keys", err)
	}
	if key.UserID != userID {
		return apperrors.NewNotFoundError("API key not found")
	}
	if err := s.repo.DeactivateAPIKey(ctx, keyID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		return s.StoreFault(ctx, "api_keys", err)
	}
	s.LogInfo(ctx, "API key revoked", slog.String("user_id", userID), slog.String("api_key_id", keyID))
	return nil
}

// Authenticate resolves a raw key to its principal. Malformed, unknown and revoked keys
// are all ErrUnauthorized; store failures are reported as such.
func (s *apiKeyService) Authenticate(ctx context.Context, rawKey string) (*domain.Principal, error) {
	rawKey = strings.TrimSpace(rawKey)
	if !utils.IsWellFormedAPIKey(rawKey) {
		return nil, fmt.Errorf("%w: malformed API key", apperrors.ErrUnauthorized)
	}

	key, err := s.repo.FindAPIKeyByHash(ctx, utils.HashAPIKey(rawKey))
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("%w: invalid API key", apperrors.ErrUnauthorized)
	}
	if err != nil {
		return nil, s.StoreFault(ctx, "api_keys", err)
	}
	if !key.IsActive {
		return nil, fmt.Errorf("%w: API key has been revoked", apperrors.ErrUnauthorized)
	}

	plan, err := s.planFor(ctx, key.UserID)
	if err != nil {
		return nil, err
	}
	return &domain.Principal{APIKeyID: key.ID, UserID: key.UserID, Plan: plan}, nil
}

// planFor returns the user's subscribed plan; users without a subscription are on sandbox.
func (s *apiKeyService) planFor(ctx context.Context, userID string) (domain.Plan, error) {
	plan, err := s.repo.FindPlanByUser(ctx, userID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return domain.PlanSandbox, nil
	}
	if err != nil {
		return "", s.StoreFault(ctx, "subscriptions", err)
	}
	if plan == "" {
		return domain.PlanSandbox, nil
	}
	return plan, nil
}
