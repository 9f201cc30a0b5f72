package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/SscSPs/vaultline/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlan(t *testing.T) {
	tests := []struct {
		in      string
		want    domain.Plan
		wantErr bool
	}{
		{in: "", want: domain.PlanSandbox},
		{in: "sandbox", want: domain.PlanSandbox},
		{in: " Standard ", want: domain.PlanStandard},
		{in: "enterprise", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := domain.ParsePlan(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQuota(t *testing.T) {
	n, ok := domain.Limited(5).Value()
	assert.True(t, ok)
	assert.Equal(t, int64(5), n)

	_, ok = domain.Unlimited().Value()
	assert.False(t, ok)
	assert.True(t, domain.Unlimited().IsUnlimited())

	n, _ = domain.Limited(-3).Value()
	assert.Equal(t, int64(0), n, "negative quotas clamp to zero")

	assert.Equal(t, "unlimited", domain.Unlimited().String())
	assert.Equal(t, "17", domain.Limited(17).String())
}

func TestQuota_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(map[string]domain.Quota{"limited": domain.Limited(10), "unlimited": domain.Unlimited()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"limited":10,"unlimited":"unlimited"}`, string(b))
}

func TestDefaultPlanTable(t *testing.T) {
	table := domain.DefaultPlanTable()

	sandbox, ok := table.Policy(domain.PlanSandbox)
	require.True(t, ok)
	assert.Equal(t, domain.Limited(1000), sandbox.DailyQuota)
	assert.Equal(t, 30, sandbox.HistoryDays)
	assert.Equal(t, 1, sandbox.MaxActiveKeys)

	standard, ok := table.Policy(domain.PlanStandard)
	require.True(t, ok)
	assert.True(t, standard.DailyQuota.IsUnlimited())
	assert.Equal(t, 90, standard.HistoryDays)
	assert.Equal(t, 2, standard.MaxActiveKeys)

	_, ok = table.Policy(domain.Plan("gold"))
	assert.False(t, ok)
}
