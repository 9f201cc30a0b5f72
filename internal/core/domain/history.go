package domain

import (
	"fmt"
	"time"
)

// RateHistory is a symbol's base rates over an inclusive date window.
type RateHistory struct {
	Symbol       string
	AssetClass   AssetClass
	BaseCurrency string
	From         time.Time
	To           time.Time
	Points       []BaseRate
}

// HistoryWindowError reports a requested start date older than the plan allows.
type HistoryWindowError struct {
	Plan        Plan
	HistoryDays int
	MaxFrom     time.Time
}

func (e *HistoryWindowError) Error() string {
	return fmt.Sprintf("%s plan allows up to %d days of history (earliest %s)", e.Plan, e.HistoryDays, e.MaxFrom.Format(DateLayout))
}

// EarliestHistoryDate is the oldest date a plan with historyDays of history may request on today.
func EarliestHistoryDate(today time.Time, historyDays int) time.Time {
	return DateOnly(today).AddDate(0, 0, -historyDays)
}
