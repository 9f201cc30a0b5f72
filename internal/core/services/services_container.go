package services

import (
	"github.com/SscSPs/vaultline/internal/core/domain"
	portsrepo "github.com/SscSPs/vaultline/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/vaultline/internal/core/ports/services"
	"github.com/SscSPs/vaultline/internal/platform/clock"
	"github.com/SscSPs/vaultline/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, clk clock.Clock, probes ...portssvc.DependencyProbe) *portssvc.ServiceContainer {
	plans := domain.NewPlanTable(cfg.SandboxDailyLimit, cfg.SandboxHistoryDays, cfg.StandardHistoryDays)

	container := &portssvc.ServiceContainer{}

	// The limiter is shared by the quota middleware and the usage summary.
	container.RateLimiter = NewRateLimitService(repos.Counters, clk, RateLimitOptions{
		Plans:        plans,
		CounterTTL:   cfg.CounterTTL,
		StoreTimeout: cfg.StoreTimeout,
	})

	container.Triangulation = NewTriangulationService(repos.BaseRateRepo, clk, cfg.StoreTimeout)
	container.Rates = NewRateService(repos.BaseRateRepo, clk, RateServiceOptions{
		Plans:        plans,
		StoreTimeout: cfg.StoreTimeout,
	})
	container.APIKeys = NewAPIKeyService(repos.APIKeyRepo, plans, clk)
	container.Usage = NewUsageService(repos.UsageRepo, repos.APIKeyRepo, container.RateLimiter, plans, clk, cfg.StoreTimeout)
	container.Health = NewHealthService(clk, cfg.StoreTimeout, probes...)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.RateLimiterSvc   = (*rateLimitService)(nil)
	_ portssvc.TriangulationSvc = (*triangulationService)(nil)
	_ portssvc.RateSvcFacade    = (*rateService)(nil)
	_ portssvc.APIKeySvcFacade  = (*apiKeyService)(nil)
	_ portssvc.UsageSvc         = (*usageService)(nil)
	_ portssvc.HealthSvc        = (*healthService)(nil)
)
