package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BaseRate is one row of the base_rates table: the price of one unit of USD in Symbol on RecordedDate.
type BaseRate struct {
	ID           int64           `db:"id"`
	AssetClass   string          `db:"asset_class"`
	Symbol       string          `db:"symbol"`
	Rate         decimal.Decimal `db:"rate"`
	BaseCurrency string          `db:"base_currency"`
	RecordedDate time.Time       `db:"recorded_date"`
	CreatedAt    time.Time       `db:"created_at"`
}

// AssetClassCount is one row of the per-class symbol summary.
type AssetClassCount struct {
	AssetClass  string `db:"asset_class"`
	SymbolCount int    `db:"symbol_count"`
}
