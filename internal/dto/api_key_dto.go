package dto

import (
	"time"

	"github.com/SscSPs/vaultline/internal/core/domain"
)

// CreateAPIKeyRequest is the body of POST /api/v1/keys.
type CreateAPIKeyRequest struct {
	Label string `json:"label" binding:"omitempty,max=100"`
}

// CreateAPIKeyResponse carries the raw key. It is the only response that ever does.
type CreateAPIKeyResponse struct {
	ID        string    `json:"id"`
	Key       string    `json:"key"`
	Label     string    `json:"label,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// APIKeyResponse describes a stored key without its secret.
type APIKeyResponse struct {
	ID         string     `json:"id"`
	Label      string     `json:"label,omitempty"`
	IsActive   bool       `json:"isActive"`
	LastUsedAt *time.Time `json:"lastUsedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// UsageResponse is the body of GET /api/v1/keys/{id}/usage.
type UsageResponse struct {
	APIKeyID  string              `json:"apiKeyId"`
	Plan      string              `json:"plan"`
	Today     int64               `json:"today"`
	Limit     domain.Quota        `json:"limit"`
	Remaining domain.Quota        `json:"remaining"`
	ResetAt   time.Time           `json:"resetAt"`
	Daily     []domain.DailyUsage `json:"daily"`
}

// ToAPIKeyResponse converts a domain.APIKey to APIKeyResponse
func ToAPIKeyResponse(k domain.APIKey) APIKeyResponse {
	return APIKeyResponse{
		ID:         k.ID,
		Label:      k.Label,
		IsActive:   k.IsActive,
		LastUsedAt: k.LastUsedAt,
		CreatedAt:  k.CreatedAt,
	}
}

// ToAPIKeyResponses converts keys for listing. The result is never nil.
func ToAPIKeyResponses(keys []domain.APIKey) []APIKeyResponse {
	out := make([]APIKeyResponse, len(keys))
	for i, k := range keys {
		out[i] = ToAPIKeyResponse(k)
	}
	return out
}

// ToUsageResponse converts a domain.UsageSummary to UsageResponse
func ToUsageResponse(s *domain.UsageSummary) UsageResponse {
	remaining := domain.Unlimited()
	if limit, ok := s.Limit.Value(); ok {
		remaining = domain.Limited(limit - s.TodayCount)
	}
	daily := s.Daily
	if daily == nil {
		daily = []domain.DailyUsage{}
	}
	return UsageResponse{
		APIKeyID:  s.APIKeyID,
		Plan:      string(s.Plan),
		Today:     s.TodayCount,
		Limit:     s.Limit,
		Remaining: remaining,
		ResetAt:   s.ResetAt,
		Daily:     daily,
	}
}
