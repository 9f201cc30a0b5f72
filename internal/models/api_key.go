package models

import "time"

// APIKey is a row of the api_keys table.
type APIKey struct {
	ID         string     `json:"id" db:"id"`
	UserID     string     `json:"userID" db:"user_id"`
	KeyHash    string     `json:"-" db:"key_hash"`
	Label      *string    `json:"label,omitempty" db:"label"`
	IsActive   bool       `json:"isActive" db:"is_active"`
	LastUsedAt *time.Time `json:"lastUsedAt,omitempty" db:"last_used_at"`
	CreatedAt  time.Time  `json:"createdAt" db:"created_at"`
}

// UsageLog is a row of the usage_logs table.
type UsageLog struct {
	ID       int64     `db:"id"`
	APIKeyID string    `db:"api_key_id"`
	UserID   string    `db:"user_id"`
	Endpoint string    `db:"endpoint"`
	CalledAt time.Time `db:"called_at"`
}
