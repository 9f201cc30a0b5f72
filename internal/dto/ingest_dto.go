package dto

import (
	"fmt"
	"time"

	"github.com/SscSPs/vaultline/internal/core/domain"
	"github.com/shopspring/decimal"
)

// IngestBaseRate is one USD base rate supplied by the ingestion job.
type IngestBaseRate struct {
	AssetClass   string           `json:"asset_class" binding:"required,assetclass"`
	Symbol       string           `json:"symbol" binding:"required,symbol"`
	Rate         *decimal.Decimal `json:"rate" binding:"required"`
	BaseCurrency string           `json:"base_currency" binding:"omitempty,len=3"`
	Date         string           `json:"date" binding:"required,datetime=2006-01-02"`
}

// IngestBaseRatesRequest is the body of PUT /internal/base-rates.
type IngestBaseRatesRequest struct {
	Rates []IngestBaseRate `json:"rates" binding:"required,min=1,max=5000,dive"`
}

// IngestBaseRatesResponse reports how many rows were written.
type IngestBaseRatesResponse struct {
	Received int `json:"received"`
	Upserted int `json:"upserted"`
}

// ToDomain converts the request into domain base rates.
func (r IngestBaseRatesRequest) ToDomain() ([]domain.BaseRate, error) {
	out := make([]domain.BaseRate, len(r.Rates))
	for i, item := range r.Rates {
		day, err := time.Parse(domain.DateLayout, item.Date)
		if err != nil {
			return nil, fmt.Errorf("rate %d: invalid date %q", i, item.Date)
		}
		out[i] = domain.BaseRate{
			AssetClass:   domain.AssetClass(item.AssetClass),
			Symbol:       item.Symbol,
			Rate:         *item.Rate,
			BaseCurrency: item.BaseCurrency,
			ObservedOn:   day,
		}
	}
	return out, nil
}
