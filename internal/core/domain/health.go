package domain

import "time"

// HealthStatus is the overall service status.
type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthDegraded  HealthStatus = "degraded"
	HealthUnhealthy HealthStatus = "unhealthy"
)

// DependencyHealth is the probe result for one backing dependency.
type DependencyHealth struct {
	Name     string        `json:"name"`
	Healthy  bool          `json:"healthy"`
	Critical bool          `json:"critical"`
	Latency  time.Duration `json:"latency"`
	Error    string        `json:"error,omitempty"`
}

// HealthReport aggregates dependency probes.
type HealthReport struct {
	Status       HealthStatus
	CheckedAt    time.Time
	Dependencies []DependencyHealth
}

// Aggregate derives the overall status: any failed critical dependency is unhealthy,
// any other failure is degraded.
func Aggregate(deps []DependencyHealth) HealthStatus {
	status := HealthHealthy
	for _, d := range deps {
		if d.Healthy {
			continue
		}
		if d.Critical {
			return HealthUnhealthy
		}
		status = HealthDegraded
	}
	return status
}
