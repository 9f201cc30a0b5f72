package pgsql

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/SscSPs/vaultline/internal/apperrors"
	"github.com/SscSPs/vaultline/internal/core/domain"
	portsrepo "github.com/SscSPs/vaultline/internal/core/ports/repositories"
	"github.com/SscSPs/vaultline/internal/models"
	"github.com/SscSPs/vaultline/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const apiKeyColumns = `id, user_id, key_hash, label, is_active, last_used_at, created_at`

// PgxAPIKeyRepository stores API keys and reads subscriptions.
type PgxAPIKeyRepository struct {
	BaseRepository
}

// newPgxAPIKeyRepository creates a new repository for API keys.
func newPgxAPIKeyRepository(pool *pgxpool.Pool) portsrepo.APIKeyRepositoryFacade {
	return &PgxAPIKeyRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.APIKeyRepositoryFacade = (*PgxAPIKeyRepository)(nil)

func scanAPIKey(row pgx.Row) (models.APIKey, error) {
	var m models.APIKey
	err := row.Scan(&m.ID, &m.UserID, &m.KeyHash, &m.Label, &m.IsActive, &m.LastUsedAt, &m.CreatedAt)
	return m, err
}

func (r *PgxAPIKeyRepository) findOne(ctx context.Context, where string, arg any) (*domain.APIKey, error) {
	query := `SELECT ` + apiKeyColumns + ` FROM api_keys WHERE ` + where + ` LIMIT 1;`
	m, err := scanAPIKey(r.Pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("API key not found")
		}
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query API key", err)
	}
	d := mapping.ToDomainAPIKey(m)
	return &d, nil
}

// FindAPIKeyByHash looks a key up by the SHA-256 of its raw value.
func (r *PgxAPIKeyRepository) FindAPIKeyByHash(ctx context.Context, keyHash string) (*domain.APIKey, error) {
	return r.findOne(ctx, "key_hash = $1", keyHash)
}

// FindAPIKeyByID retrieves a key by ID.
func (r *PgxAPIKeyRepository) FindAPIKeyByID(ctx context.Context, keyID string) (*domain.APIKey, error) {
	return r.findOne(ctx, "id = $1", keyID)
}

// ListAPIKeysByUser returns the user's keys, newest first.
func (r *PgxAPIKeyRepository) ListAPIKeysByUser(ctx context.Context, userID string) ([]domain.APIKey, error) {
	query := `SELECT ` + apiKeyColumns + ` FROM api_keys WHERE user_id = $1 ORDER BY created_at DESC;`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to list API keys", err)
	}
	defer rows.Close()

	modelKeys, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.APIKey, error) {
		return scanAPIKey(row)
	})
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan API keys", err)
	}

	keys := make([]domain.APIKey, len(modelKeys))
	for i, m := range modelKeys {
		keys[i] = mapping.ToDomainAPIKey(m)
	}
	return keys, nil
}

// CreateAPIKey inserts a new key.
func (r *PgxAPIKeyRepository) CreateAPIKey(ctx context.Context, key *domain.APIKey) error {
	m := mapping.ToModelAPIKey(*key)
	query := `INSERT INTO api_keys (` + apiKeyColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7);`
	_, err := r.Pool.Exec(ctx, query, m.ID, m.UserID, m.KeyHash, m.Label, m.IsActive, m.LastUsedAt, m.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("API key %s: %w", m.ID, apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to create API key", err)
	}
	return nil
}

// DeactivateAPIKey marks a key inactive. Revoked keys stay for the usage history.
func (r *PgxAPIKeyRepository) DeactivateAPIKey(ctx context.Context, keyID string) error {
	tag, err := r.Pool.Exec(ctx, `UPDATE api_keys SET is_active = false WHERE id = $1;`, keyID)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to deactivate API key", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("API key not found")
	}
	return nil
}

// TouchAPIKey records the last time a key was used.
func (r *PgxAPIKeyRepository) TouchAPIKey(ctx context.Context, keyID string, usedAt time.Time) error {
	_, err := r.Pool.Exec(ctx, `UPDATE api_keys SET last_used_at = $2 WHERE id = $1;`, keyID, usedAt)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to update API key last use", err)
	}
	return nil
}

// FindPlanByUser reads the user's subscription plan. Users without a subscription are on sandbox.
func (r *PgxAPIKeyRepository) FindPlanByUser(ctx context.Context, userID string) (domain.Plan, error) {
	var raw string
	err := r.Pool.QueryRow(ctx, `SELECT plan FROM subscriptions WHERE user_id = $1 LIMIT 1;`, userID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.PlanSandbox, nil
		}
		return "", apperrors.NewAppError(http.StatusInternalServerError, "failed to query subscription", err)
	}
	plan, err := domain.ParsePlan(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %w", apperrors.ErrUnknownPlan, err)
	}
	return plan, nil
}
