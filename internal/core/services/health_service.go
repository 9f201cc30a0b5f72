package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/vaultline/internal/core/domain"
	portssvc "github.com/SscSPs/vaultline/internal/core/ports/services"
	"github.com/SscSPs/vaultline/internal/platform/clock"
	"golang.org/x/sync/errgroup"
)

type funcProbe struct {
	name     string
	critical bool
	ping     func(ctx context.Context) error
}

// NewProbe adapts a ping function into a DependencyProbe.
func NewProbe(name string, critical bool, ping func(ctx context.Context) error) portssvc.DependencyProbe {
	return &funcProbe{name: name, critical: critical, ping: ping}
}

func (p *funcProbe) Name() string                   { return p.name }
func (p *funcProbe) Critical() bool                 { return p.critical }
func (p *funcProbe) Ping(ctx context.Context) error { return p.ping(ctx) }

type healthService struct {
	BaseService
	probes  []portssvc.DependencyProbe
	clock   clock.Clock
	timeout time.Duration
}

// NewHealthService creates a health checker over the given probes.
func NewHealthService(clk clock.Clock, timeout time.Duration, probes ...portssvc.DependencyProbe) portssvc.HealthSvc {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &healthService{probes: probes, clock: clk, timeout: timeout}
}

// Check pings every probe concurrently, each under its own timeout.
func (s *healthService) Check(ctx context.Context) domain.HealthReport {
	results := make([]domain.DependencyHealth, len(s.probes))

	var g errgroup.Group
	for i, p := range s.probes {
		i, p := i, p
		g.Go(func() error {
			probeCtx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()

			start := time.Now()
			err := p.Ping(probeCtx)
			res := domain.DependencyHealth{
				Name:     p.Name(),
				Healthy:  err == nil,
				Critical: p.Critical(),
				Latency:  time.Since(start),
			}
			if err != nil {
				res.Error = err.Error()
				s.GetLogger(ctx).Warn("Dependency health check failed",
					slog.String("dependency", p.Name()), slog.Bool("critical", p.Critical()), slog.String("error", err.Error()))
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	return domain.HealthReport{
		Status:       domain.Aggregate(results),
		CheckedAt:    s.clock.Now(),
		Dependencies: results,
	}
}
