package domain

import (
	"fmt"
	"strconv"
	"time"
)

// LimitDecision is the outcome of one quota check.
type LimitDecision struct {
	Allowed   bool
	Limit     Quota
	Remaining Quota
	// Count is the counter value after this call's increment.
	Count   int64
	ResetAt time.Time
	// RetryAfterSeconds is only meaningful when Allowed is false.
	RetryAfterSeconds int64
}

// CounterKey is the store key of the daily counter for keyID on the UTC day containing now.
func CounterKey(keyID string, now time.Time) string {
	return fmt.Sprintf("rl:%s:%s", keyID, now.UTC().Format(DateLayout))
}

// NextUTCMidnight returns the first instant of the UTC day after now.
func NextUTCMidnight(now time.Time) time.Time {
	return DateOnly(now).AddDate(0, 0, 1)
}

// SecondsUntil returns whole seconds from now until t, rounded up, never below zero.
func SecondsUntil(now, t time.Time) int64 {
	d := t.Sub(now)
	if d <= 0 {
		return 0
	}
	secs := int64(d / time.Second)
	if d%time.Second != 0 {
		secs++
	}
	return secs
}

// Decide applies quota to a post-increment count.
func Decide(quota Quota, count int64, now time.Time) LimitDecision {
	resetAt := NextUTCMidnight(now)
	decision := LimitDecision{
		Allowed: true,
		Limit:   quota,
		Count:   count,
		ResetAt: resetAt,
	}

	ceiling, finite := quota.Value()
	if !finite {
		decision.Remaining = Unlimited()
		return decision
	}

	decision.Remaining = Limited(ceiling - count)
	if count > ceiling {
		decision.Allowed = false
		decision.RetryAfterSeconds = SecondsUntil(now, resetAt)
	}
	return decision
}

// MinCounterTTL is the shortest expiry a daily counter may be given.
const MinCounterTTL = 24 * time.Hour

// Headers renders the decision as HTTP rate limit headers. Limit and remaining are
// omitted for unlimited plans; Retry-After is only present on rejection.
func (d LimitDecision) Headers() map[string]string {
	h := map[string]string{
		"X-RateLimit-Reset": strconv.FormatInt(d.ResetAt.Unix(), 10),
	}
	if limit, ok := d.Limit.Value(); ok {
		remaining, _ := d.Remaining.Value()
		h["X-RateLimit-Limit"] = strconv.FormatInt(limit, 10)
		h["X-RateLimit-Remaining"] = strconv.FormatInt(remaining, 10)
	}
	if !d.Allowed {
		h["Retry-After"] = strconv.FormatInt(d.RetryAfterSeconds, 10)
	}
	return h
}
