package dto_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/SscSPs/vaultline/internal/core/domain"
	"github.com/SscSPs/vaultline/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToRatesResponse_ShapesLikeThePublicAPI(t *testing.T) {
	rates := []domain.BaseRate{{
		AssetClass:   domain.AssetClassFiat,
		Symbol:       "EUR",
		Rate:         decimal.RequireFromString("0.92"),
		BaseCurrency: "USD",
		ObservedOn:   time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
	}}

	b, err := json.Marshal(dto.ToRatesResponse(rates, nil))
	require.NoError(t, err)

	assert.JSONEq(t, `{"data":[{"symbol":"EUR","rate":"0.92","base_currency":"USD","asset_class":"fiat","date":"2024-01-10","delayed_by":"24h"}]}`, string(b))
}

func TestToAssetsResponse_Totals(t *testing.T) {
	resp := dto.ToAssetsResponse([]domain.AssetClassSummary{
		{AssetClass: domain.AssetClassFiat, SymbolCount: 2, Symbols: []string{"EUR", "GBP"}},
		{AssetClass: domain.AssetClassMetals, SymbolCount: 1},
	})

	assert.Equal(t, 3, resp.TotalSymbols)
	assert.Equal(t, []string{}, resp.AssetClasses[1].Symbols)
}

func TestToUsageResponse_Remaining(t *testing.T) {
	limited := dto.ToUsageResponse(&domain.UsageSummary{Limit: domain.Limited(1000), TodayCount: 1200})
	assert.Equal(t, domain.Limited(0), limited.Remaining)

	unlimited := dto.ToUsageResponse(&domain.UsageSummary{Limit: domain.Unlimited(), TodayCount: 1200})
	assert.True(t, unlimited.Remaining.IsUnlimited())
	assert.NotNil(t, unlimited.Daily)
}

func TestIngestRequest_ToDomain(t *testing.T) {
	rate := decimal.RequireFromString("64000.5")
	req := dto.IngestBaseRatesRequest{Rates: []dto.IngestBaseRate{
		{AssetClass: "crypto", Symbol: "BTC", Rate: &rate, Date: "2024-02-29"},
	}}

	out, err := req.ToDomain()

	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), out[0].ObservedOn)
	assert.Equal(t, domain.AssetClassCrypto, out[0].AssetClass)

	req.Rates[0].Date = "29/02/2024"
	_, err = req.ToDomain()
	assert.Error(t, err)
}
