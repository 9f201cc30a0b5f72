package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-date wire format used for observation dates and counter keys.
const DateLayout = "2006-01-02"

// CrossRateDivisionPrecision is the number of fractional digits kept when dividing rates.
const CrossRateDivisionPrecision int32 = 18

// BaseRate is one observation of how many units of Symbol one USD buys on ObservedOn.
type BaseRate struct {
	AssetClass   AssetClass      `json:"assetClass"`
	Symbol       string          `json:"symbol"`
	Rate         decimal.Decimal `json:"rate"`
	BaseCurrency string          `json:"baseCurrency"`
	ObservedOn   time.Time       `json:"observedOn"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// CrossRate is the derived price of one unit of From expressed in To.
type CrossRate struct {
	AssetClass AssetClass      `json:"assetClass"`
	From       string          `json:"from"`
	To         string          `json:"to"`
	Rate       decimal.Decimal `json:"rate"`
	AsOf       time.Time       `json:"asOf"`
	Path       CrossRatePath   `json:"path"`
}

// CrossRatePath records how a CrossRate was derived.
type CrossRatePath string

const (
	PathIdentity CrossRatePath = "identity"
	PathDirect   CrossRatePath = "direct"
	PathInverse  CrossRatePath = "inverse"
	PathCross    CrossRatePath = "cross"
)

// AssetClassSummary counts the distinct symbols stored under a class.
type AssetClassSummary struct {
	AssetClass  AssetClass
	SymbolCount int
	Symbols     []string
}

// DateOnly truncates t to midnight UTC of its UTC calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// EarlierDate returns whichever of a and b is earlier.
func EarlierDate(a, b time.Time) time.Time {
	if b.Before(a) {
		return b
	}
	return a
}
