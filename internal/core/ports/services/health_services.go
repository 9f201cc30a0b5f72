package services

import (
	"context"

	"github.com/SscSPs/vaultline/internal/core/domain"
)

// DependencyProbe checks one backing dependency.
type DependencyProbe interface {
	Name() string
	Critical() bool
	Ping(ctx context.Context) error
}

// HealthSvc aggregates dependency probes.
type HealthSvc interface {
	Check(ctx context.Context) domain.HealthReport
}
