package dto

import (
	"github.com/SscSPs/vaultline/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DataDelay is how far published rates trail the market.
const DataDelay = "24h"

// RateResponse is one base rate as returned by the data-plane API.
type RateResponse struct {
	Symbol       string          `json:"symbol"`
	Rate         decimal.Decimal `json:"rate"`
	BaseCurrency string          `json:"base_currency"`
	AssetClass   string          `json:"asset_class"`
	Date         string          `json:"date"`
	DelayedBy    string          `json:"delayed_by"`
}

// RatesResponse is the body of GET /api/v1/rates.
type RatesResponse struct {
	Data     []RateResponse `json:"data"`
	NotFound []string       `json:"not_found,omitempty"`
}

// HistoryPoint is one dated observation in a history response.
type HistoryPoint struct {
	Date string          `json:"date"`
	Rate decimal.Decimal `json:"rate"`
}

// HistoryResponse is the body of GET /api/v1/rates/history.
type HistoryResponse struct {
	Symbol       string         `json:"symbol"`
	BaseCurrency string         `json:"base_currency"`
	AssetClass   string         `json:"asset_class"`
	From         string         `json:"from"`
	To           string         `json:"to"`
	History      []HistoryPoint `json:"history"`
	DelayedBy    string         `json:"delayed_by"`
}

// AssetClassResponse lists the symbols of one asset class.
type AssetClassResponse struct {
	Name        string   `json:"name"`
	SymbolCount int      `json:"symbol_count"`
	Symbols     []string `json:"symbols"`
}

// AssetsResponse is the body of GET /api/v1/assets.
type AssetsResponse struct {
	AssetClasses []AssetClassResponse `json:"asset_classes"`
	TotalSymbols int                  `json:"total_symbols"`
}

// CrossRateResponse is the body of GET /api/v1/exchange-rates/{from}/{to}.
type CrossRateResponse struct {
	From       string          `json:"from"`
	To         string          `json:"to"`
	AssetClass string          `json:"asset_class,omitempty"`
	Rate       decimal.Decimal `json:"rate"`
	Date       string          `json:"date"`
	Path       string          `json:"path"`
	DelayedBy  string          `json:"delayed_by"`
}

// ToRateResponse converts a domain.BaseRate to RateResponse
func ToRateResponse(r domain.BaseRate) RateResponse {
	return RateResponse{
		Symbol:       r.Symbol,
		Rate:         r.Rate,
		BaseCurrency: r.BaseCurrency,
		AssetClass:   string(r.AssetClass),
		Date:         r.ObservedOn.Format(domain.DateLayout),
		DelayedBy:    DataDelay,
	}
}

// ToRatesResponse builds the rates body. Data is never null.
func ToRatesResponse(rates []domain.BaseRate, notFound []string) RatesResponse {
	data := make([]RateResponse, len(rates))
	for i, r := range rates {
		data[i] = ToRateResponse(r)
	}
	return RatesResponse{Data: data, NotFound: notFound}
}

// ToHistoryResponse converts a domain.RateHistory to HistoryResponse
func ToHistoryResponse(h *domain.RateHistory) HistoryResponse {
	points := make([]HistoryPoint, len(h.Points))
	for i, p := range h.Points {
		points[i] = HistoryPoint{Date: p.ObservedOn.Format(domain.DateLayout), Rate: p.Rate}
	}
	return HistoryResponse{
		Symbol:       h.Symbol,
		BaseCurrency: h.BaseCurrency,
		AssetClass:   string(h.AssetClass),
		From:         h.From.Format(domain.DateLayout),
		To:           h.To.Format(domain.DateLayout),
		History:      points,
		DelayedBy:    DataDelay,
	}
}

// ToAssetsResponse converts class summaries and totals their symbol counts.
func ToAssetsResponse(summaries []domain.AssetClassSummary) AssetsResponse {
	resp := AssetsResponse{AssetClasses: make([]AssetClassResponse, len(summaries))}
	for i, s := range summaries {
		symbols := s.Symbols
		if symbols == nil {
			symbols = []string{}
		}
		resp.AssetClasses[i] = AssetClassResponse{Name: string(s.AssetClass), SymbolCount: s.SymbolCount, Symbols: symbols}
		resp.TotalSymbols += s.SymbolCount
	}
	return resp
}

// ToCrossRateResponse converts a domain.CrossRate to CrossRateResponse
func ToCrossRateResponse(r *domain.CrossRate) CrossRateResponse {
	return CrossRateResponse{
		From:       r.From,
		To:         r.To,
		AssetClass: string(r.AssetClass),
		Rate:       r.Rate,
		Date:       r.AsOf.Format(domain.DateLayout),
		Path:       string(r.Path),
		DelayedBy:  DataDelay,
	}
}
