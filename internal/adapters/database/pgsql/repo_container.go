package pgsql

import (
	portsrepo "github.com/SscSPs/vaultline/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the Postgres repositories together with the quota counter store.
func NewRepositoryProvider(dbPool *pgxpool.Pool, counters portsrepo.CounterStore) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		BaseRateRepo: newPgxBaseRateRepository(dbPool),
		APIKeyRepo:   newPgxAPIKeyRepository(dbPool),
		UsageRepo:    newPgxUsageRepository(dbPool),
		Counters:     counters,
	}
}
