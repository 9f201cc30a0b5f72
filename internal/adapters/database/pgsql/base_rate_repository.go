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

const baseRateColumns = `asset_class, symbol, rate, base_currency, recorded_date, created_at`

// PgxBaseRateRepository stores USD base rates in the base_rates table.
type PgxBaseRateRepository struct {
	BaseRepository
}

// newPgxBaseRateRepository creates a new repository for base rates.
func newPgxBaseRateRepository(pool *pgxpool.Pool) portsrepo.BaseRateRepositoryWithTx {
	return &PgxBaseRateRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.BaseRateRepositoryWithTx = (*PgxBaseRateRepository)(nil)

func scanBaseRate(row pgx.Row) (models.BaseRate, error) {
	var m models.BaseRate
	err := row.Scan(&m.AssetClass, &m.Symbol, &m.Rate, &m.BaseCurrency, &m.RecordedDate, &m.CreatedAt)
	return m, err
}

// FindLatestBaseRate returns the newest observation of symbol. An empty class matches any class.
func (r *PgxBaseRateRepository) FindLatestBaseRate(ctx context.Context, class domain.AssetClass, symbol string) (*domain.BaseRate, error) {
	query := `
		SELECT ` + baseRateColumns + `
		FROM base_rates
		WHERE symbol = $1 AND ($2::text = '' OR asset_class = $2::text)
		ORDER BY recorded_date DESC
		LIMIT 1;
	`
	m, err := scanBaseRate(r.Pool.QueryRow(ctx, query, symbol, string(class)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("base rate for %s not found", symbol))
		}
		return nil, fmt.Errorf("failed to find latest base rate for %s: %w", symbol, err)
	}
	d := mapping.ToDomainBaseRate(m)
	return &d, nil
}

// FindBaseRateOn returns the observation of symbol recorded on day.
func (r *PgxBaseRateRepository) FindBaseRateOn(ctx context.Context, symbol string, day time.Time) (*domain.BaseRate, error) {
	query := `
		SELECT ` + baseRateColumns + `
		FROM base_rates
		WHERE symbol = $1 AND recorded_date = $2;
	`
	m, err := scanBaseRate(r.Pool.QueryRow(ctx, query, symbol, domain.DateOnly(day)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("base rate for %s on %s not found", symbol, day.Format(domain.DateLayout)))
		}
		return nil, fmt.Errorf("failed to find base rate for %s on %s: %w", symbol, day.Format(domain.DateLayout), err)
	}
	d := mapping.ToDomainBaseRate(m)
	return &d, nil
}

// ListBaseRatesBetween returns observations of symbol in [from, to], oldest first.
func (r *PgxBaseRateRepository) ListBaseRatesBetween(ctx context.Context, symbol string, from, to time.Time) ([]domain.BaseRate, error) {
	query := `
		SELECT ` + baseRateColumns + `
		FROM base_rates
		WHERE symbol = $1 AND recorded_date BETWEEN $2 AND $3
		ORDER BY recorded_date ASC;
	`
	rows, err := r.Pool.Query(ctx, query, symbol, domain.DateOnly(from), domain.DateOnly(to))
	if err != nil {
		return nil, fmt.Errorf("failed to query history for %s: %w", symbol, err)
	}
	defer rows.Close()

	modelRates, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.BaseRate, error) {
		return scanBaseRate(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan history for %s: %w", symbol, err)
	}
	return mapping.ToDomainBaseRateSlice(modelRates), nil
}

// ListSymbols returns the distinct symbols stored for class, alphabetically.
func (r *PgxBaseRateRepository) ListSymbols(ctx context.Context, class domain.AssetClass) ([]string, error) {
	query := `
		SELECT DISTINCT symbol
		FROM base_rates
		WHERE asset_class = $1
		ORDER BY symbol;
	`
	rows, err := r.Pool.Query(ctx, query, string(class))
	if err != nil {
		return nil, fmt.Errorf("failed to query symbols for %s: %w", class, err)
	}
	symbols, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan symbols for %s: %w", class, err)
	}
	return symbols, nil
}

// SummarizeAssetClasses counts distinct symbols per stored class.
func (r *PgxBaseRateRepository) SummarizeAssetClasses(ctx context.Context) ([]domain.AssetClassSummary, error) {
	query := `
		SELECT asset_class, COUNT(DISTINCT symbol) AS symbol_count
		FROM base_rates
		GROUP BY asset_class
		ORDER BY asset_class;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize asset classes: %w", err)
	}
	counts, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.AssetClassCount])
	if err != nil {
		return nil, fmt.Errorf("failed to scan asset class summary: %w", err)
	}

	out := make([]domain.AssetClassSummary, len(counts))
	for i, c := range counts {
		out[i] = domain.AssetClassSummary{AssetClass: domain.AssetClass(c.AssetClass), SymbolCount: c.SymbolCount}
	}
	return out, nil
}

// UpsertBaseRates writes the batch in one transaction, replacing any existing (symbol, recorded_date) row.
func (r *PgxBaseRateRepository) UpsertBaseRates(ctx context.Context, rates []domain.BaseRate) (int, error) {
	if len(rates) == 0 {
		return 0, nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	query := `
		INSERT INTO base_rates (` + baseRateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (symbol, recorded_date) DO UPDATE SET
			asset_class = EXCLUDED.asset_class,
			rate = EXCLUDED.rate,
			base_currency = EXCLUDED.base_currency;
	`
	now := time.Now().UTC()
	batch := &pgx.Batch{}
	for _, rate := range rates {
		m := mapping.ToModelBaseRate(rate)
		if m.CreatedAt.IsZero() {
			m.CreatedAt = now
		}
		batch.Queue(query, m.AssetClass, m.Symbol, m.Rate, m.BaseCurrency, m.RecordedDate, m.CreatedAt)
	}

	results := tx.SendBatch(ctx, batch)
	written := 0
	for i := range rates {
		tag, err := results.Exec()
		if err != nil {
			_ = results.Close()
			return 0, apperrors.NewAppError(http.StatusInternalServerError,
				fmt.Sprintf("failed to upsert base rate %s", rates[i].Symbol), err)
		}
		written += int(tag.RowsAffected())
	}
	if err := results.Close(); err != nil {
		return 0, apperrors.NewAppError(http.StatusInternalServerError, "failed to finish base rate batch", err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return 0, err
	}
	return written, nil
}
