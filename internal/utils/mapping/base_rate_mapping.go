package mapping

import (
	"github.com/SscSPs/vaultline/internal/core/domain"
	"github.com/SscSPs/vaultline/internal/models"
)

// ToModelBaseRate converts a domain BaseRate to a model BaseRate
func ToModelBaseRate(d domain.BaseRate) models.BaseRate {
	return models.BaseRate{
		AssetClass:   string(d.AssetClass),
		Symbol:       d.Symbol,
		Rate:         d.Rate,
		BaseCurrency: d.BaseCurrency,
		RecordedDate: domain.DateOnly(d.ObservedOn),
		CreatedAt:    d.CreatedAt,
	}
}

// ToDomainBaseRate converts a model BaseRate to a domain BaseRate
func ToDomainBaseRate(m models.BaseRate) domain.BaseRate {
	return domain.BaseRate{
		AssetClass:   domain.AssetClass(m.AssetClass),
		Symbol:       m.Symbol,
		Rate:         m.Rate,
		BaseCurrency: m.BaseCurrency,
		ObservedOn:   domain.DateOnly(m.RecordedDate),
		CreatedAt:    m.CreatedAt,
	}
}

// ToDomainBaseRateSlice converts a slice of model BaseRates to domain BaseRates
func ToDomainBaseRateSlice(ms []models.BaseRate) []domain.BaseRate {
	out := make([]domain.BaseRate, len(ms))
	for i, m := range ms {
		out[i] = ToDomainBaseRate(m)
	}
	return out
}
