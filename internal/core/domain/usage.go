package domain

import "time"

// DailyUsage is the number of logged calls for one key on one UTC day.
type DailyUsage struct {
	Day   time.Time `json:"day"`
	Calls int64     `json:"calls"`
}

// UsageSummary combines the live counter with the logged history for a key.
type UsageSummary struct {
	APIKeyID   string
	Plan       Plan
	TodayCount int64
	Limit      Quota
	ResetAt    time.Time
	Daily      []DailyUsage
}
