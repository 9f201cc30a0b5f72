package pgsql

import (
	"context"
	"net/http"
	"time"

	"github.com/SscSPs/vaultline/internal/apperrors"
	"github.com/SscSPs/vaultline/internal/core/domain"
	portsrepo "github.com/SscSPs/vaultline/internal/core/ports/repositories"
	"github.com/SscSPs/vaultline/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxUsageRepository stores data-plane usage logs.
type PgxUsageRepository struct {
	BaseRepository
}

// newPgxUsageRepository creates a new repository for usage logs.
func newPgxUsageRepository(pool *pgxpool.Pool) portsrepo.UsageRepositoryFacade {
	return &PgxUsageRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.UsageRepositoryFacade = (*PgxUsageRepository)(nil)

// RecordUsage inserts one usage log row.
func (r *PgxUsageRepository) RecordUsage(ctx context.Context, entry domain.UsageLog) error {
	m := mapping.ToModelUsageLog(entry)
	_, err := r.Pool.Exec(ctx,
		`INSERT INTO usage_logs (api_key_id, user_id, endpoint, called_at) VALUES ($1, $2, $3, $4);`,
		m.APIKeyID, m.UserID, m.Endpoint, m.CalledAt,
	)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to record usage", err)
	}
	return nil
}

// DailyUsage counts a key's calls per UTC day since the given day.
func (r *PgxUsageRepository) DailyUsage(ctx context.Context, apiKeyID string, since time.Time) ([]domain.DailyUsage, error) {
	query := `
		SELECT (called_at AT TIME ZONE 'UTC')::date AS day, COUNT(*) AS calls
		FROM usage_logs
		WHERE api_key_id = $1 AND called_at >= $2
		GROUP BY day
		ORDER BY day ASC;
	`
	rows, err := r.Pool.Query(ctx, query, apiKeyID, domain.DateOnly(since))
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query usage", err)
	}
	usage, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.DailyUsage, error) {
		var u domain.DailyUsage
		err := row.Scan(&u.Day, &u.Calls)
		u.Day = domain.DateOnly(u.Day)
		return u, err
	})
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan usage", err)
	}
	return usage, nil
}
