package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Plan is a subscription tier.
type Plan string

const (
	PlanSandbox  Plan = "sandbox"
	PlanStandard Plan = "standard"
)

// ParsePlan converts a stored plan name into a Plan. Empty input yields PlanSandbox.
func ParsePlan(s string) (Plan, error) {
	switch p := Plan(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PlanSandbox, nil
	case PlanSandbox, PlanStandard:
		return p, nil
	default:
		return "", fmt.Errorf("unknown plan %q", s)
	}
}

// Quota is either a finite non-negative amount or unlimited. The zero value is Limited(0).
type Quota struct {
	value     int64
	unlimited bool
}

// Limited returns a finite quota of n.
func Limited(n int64) Quota {
	if n < 0 {
		n = 0
	}
	return Quota{value: n}
}

// Unlimited returns the unlimited quota.
func Unlimited() Quota {
	return Quota{unlimited: true}
}

// IsUnlimited reports whether q has no ceiling.
func (q Quota) IsUnlimited() bool { return q.unlimited }

// Value returns the finite amount. ok is false for an unlimited quota.
func (q Quota) Value() (n int64, ok bool) {
	if q.unlimited {
		return 0, false
	}
	return q.value, true
}

// String renders the quota for headers and logs.
func (q Quota) String() string {
	if q.unlimited {
		return "unlimited"
	}
	return strconv.FormatInt(q.value, 10)
}

// MarshalJSON encodes an unlimited quota as the string "unlimited" and a finite one as a number.
func (q Quota) MarshalJSON() ([]byte, error) {
	if q.unlimited {
		return []byte(`"unlimited"`), nil
	}
	return []byte(strconv.FormatInt(q.value, 10)), nil
}

// PlanPolicy describes what a plan is entitled to.
type PlanPolicy struct {
	Plan        Plan
	DailyQuota  Quota
	HistoryDays int
	// MaxActiveKeys caps how many active API keys a user on this plan may hold.
	MaxActiveKeys int
}

// PlanTable maps each known plan to its policy.
type PlanTable map[Plan]PlanPolicy

// DefaultPlanTable returns the stock limits: 1000 calls/30 days of history on sandbox,
// unlimited calls/90 days of history on standard.
func DefaultPlanTable() PlanTable {
	return NewPlanTable(1000, 30, 90)
}

// NewPlanTable builds a plan table from configurable limits.
func NewPlanTable(sandboxDailyLimit int64, sandboxHistoryDays, standardHistoryDays int) PlanTable {
	return PlanTable{
		PlanSandbox:  {Plan: PlanSandbox, DailyQuota: Limited(sandboxDailyLimit), HistoryDays: sandboxHistoryDays, MaxActiveKeys: 1},
		PlanStandard: {Plan: PlanStandard, DailyQuota: Unlimited(), HistoryDays: standardHistoryDays, MaxActiveKeys: 2},
	}
}

// Policy looks up the policy for p.
func (t PlanTable) Policy(p Plan) (PlanPolicy, bool) {
	policy, ok := t[p]
	return policy, ok
}
