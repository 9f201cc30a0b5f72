package mapping

import (
	"github.com/SscSPs/vaultline/internal/core/domain"
	"github.com/SscSPs/vaultline/internal/models"
)

// ToModelAPIKey converts a domain APIKey to a model APIKey. An empty label is stored as NULL.
func ToModelAPIKey(d domain.APIKey) models.APIKey {
	m := models.APIKey{
		ID:         d.ID,
		UserID:     d.UserID,
		KeyHash:    d.KeyHash,
		IsActive:   d.IsActive,
		LastUsedAt: d.LastUsedAt,
		CreatedAt:  d.CreatedAt,
	}
	if d.Label != "" {
		label := d.Label
		m.Label = &label
	}
	return m
}

// ToDomainAPIKey converts a model APIKey to a domain APIKey
func ToDomainAPIKey(m models.APIKey) domain.APIKey {
	d := domain.APIKey{
		ID:         m.ID,
		UserID:     m.UserID,
		KeyHash:    m.KeyHash,
		IsActive:   m.IsActive,
		LastUsedAt: m.LastUsedAt,
		CreatedAt:  m.CreatedAt,
	}
	if m.Label != nil {
		d.Label = *m.Label
	}
	return d
}

// ToModelUsageLog converts a domain UsageLog to a model UsageLog
func ToModelUsageLog(d domain.UsageLog) models.UsageLog {
	return models.UsageLog{
		APIKeyID: d.APIKeyID,
		UserID:   d.UserID,
		Endpoint: d.Endpoint,
		CalledAt: d.CalledAt,
	}
}
