package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/vaultline/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestAggregate(t *testing.T) {
	db := func(ok bool) domain.DependencyHealth {
		return domain.DependencyHealth{Name: "database", Healthy: ok, Critical: true}
	}
	cache := func(ok bool) domain.DependencyHealth {
		return domain.DependencyHealth{Name: "cache", Healthy: ok}
	}

	assert.Equal(t, domain.HealthHealthy, domain.Aggregate([]domain.DependencyHealth{db(true), cache(true)}))
	assert.Equal(t, domain.HealthDegraded, domain.Aggregate([]domain.DependencyHealth{db(true), cache(false)}))
	assert.Equal(t, domain.HealthUnhealthy, domain.Aggregate([]domain.DependencyHealth{cache(false), db(false)}))
	assert.Equal(t, domain.HealthHealthy, domain.Aggregate(nil))
}

func TestEarliestHistoryDate(t *testing.T) {
	today := time.Date(2024, 3, 15, 17, 4, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC), domain.EarliestHistoryDate(today, 30))
}
