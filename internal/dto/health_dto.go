package dto

import (
	"time"

	"github.com/SscSPs/vaultline/internal/core/domain"
)

// DependencyStatus is the health of one backing service.
type DependencyStatus struct {
	Status    string `json:"status"`
	Critical  bool   `json:"critical"`
	LatencyMs int64  `json:"latency"`
	Error     string `json:"error,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string                      `json:"status"`
	Timestamp time.Time                   `json:"timestamp"`
	Services  map[string]DependencyStatus `json:"services"`
}

// ToHealthResponse converts a domain.HealthReport to HealthResponse
func ToHealthResponse(r domain.HealthReport) HealthResponse {
	services := make(map[string]DependencyStatus, len(r.Dependencies))
	for _, d := range r.Dependencies {
		status := "up"
		if !d.Healthy {
			status = "down"
		}
		services[d.Name] = DependencyStatus{
			Status:    status,
			Critical:  d.Critical,
			LatencyMs: d.Latency.Milliseconds(),
			Error:     d.Error,
		}
	}
	return HealthResponse{Status: string(r.Status), Timestamp: r.CheckedAt, Services: services}
}
