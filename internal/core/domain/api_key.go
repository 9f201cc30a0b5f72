package domain

import "time"

// APIKeyPrefix starts every raw key handed to a customer.
const APIKeyPrefix = "vl_"

// APIKey is a stored customer credential. Only the SHA-256 hash of the raw key is kept.
type APIKey struct {
	ID         string     `json:"id"`
	UserID     string     `json:"userId"`
	KeyHash    string     `json:"-"`
	Label      string     `json:"label"`
	IsActive   bool       `json:"isActive"`
	LastUsedAt *time.Time `json:"lastUsedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// Principal is the authenticated identity behind a data-plane request.
type Principal struct {
	APIKeyID string
	UserID   string
	Plan     Plan
}

// UsageLog records one successful data-plane call.
type UsageLog struct {
	APIKeyID string
	UserID   string
	Endpoint string
	CalledAt time.Time
}
