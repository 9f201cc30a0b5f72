package domain

import (
	"fmt"
	"strings"
)

// BaseCurrency is the anchor every stored rate is quoted against.
const BaseCurrency = "USD"

// AssetClass groups symbols by market.
type AssetClass string

const (
	AssetClassFiat   AssetClass = "fiat"
	AssetClassCrypto AssetClass = "crypto"
	AssetClassStocks AssetClass = "stocks"
	AssetClassMetals AssetClass = "metals"

	// AssetClassAny matches a symbol in whichever class it is stored under.
	AssetClassAny AssetClass = ""
)

// AssetClasses lists the concrete asset classes in display order.
var AssetClasses = []AssetClass{AssetClassFiat, AssetClassCrypto, AssetClassStocks, AssetClassMetals}

// IsValid reports whether c is one of the concrete asset classes.
func (c AssetClass) IsValid() bool {
	switch c {
	case AssetClassFiat, AssetClassCrypto, AssetClassStocks, AssetClassMetals:
		return true
	}
	return false
}

// ParseAssetClass converts user input into an AssetClass. Empty input yields AssetClassAny.
func ParseAssetClass(s string) (AssetClass, error) {
	c := AssetClass(strings.ToLower(strings.TrimSpace(s)))
	if c == AssetClassAny || c.IsValid() {
		return c, nil
	}
	return AssetClassAny, fmt.Errorf("unknown asset class %q", s)
}

// NormalizeSymbol upper-cases and trims a symbol. "BTC/USD" style pairs are reduced to the quote side.
func NormalizeSymbol(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if base, quote, ok := strings.Cut(s, "/"); ok {
		if quote == BaseCurrency {
			return base
		}
		if base == BaseCurrency {
			return quote
		}
	}
	return s
}

var registry = map[AssetClass][]string{
	AssetClassFiat: {
		"USD", "EUR", "GBP", "CAD", "AUD", "JPY", "CHF", "CNY", "INR", "MXN",
		"BRL", "KRW", "SGD", "HKD", "NOK", "SEK", "DKK", "NZD", "ZAR", "RUB",
	},
	AssetClassCrypto: {"BTC", "ETH", "SOL", "USDT", "USDC", "BNB", "XRP", "ADA", "DOGE", "DOT"},
	AssetClassStocks: {
		"AAPL", "MSFT", "GOOGL", "GOOG", "AMZN", "NVDA", "META", "TSLA", "AVGO", "COST",
		"NFLX", "AMD", "ADBE", "PEP", "CSCO", "INTC", "QCOM", "TXN", "INTU", "PYPL",
	},
	AssetClassMetals: {"XAU", "XAG", "XPT"},
}

var symbolClass = func() map[string]AssetClass {
	m := make(map[string]AssetClass)
	for class, symbols := range registry {
		for _, s := range symbols {
			m[s] = class
		}
	}
	return m
}()

// RegisteredSymbols returns the known symbols of a class. An unknown class yields an empty slice.
func RegisteredSymbols(class AssetClass) []string {
	symbols := registry[class]
	out := make([]string, len(symbols))
	copy(out, symbols)
	return out
}

// RegisteredClass returns the class a symbol is registered under.
func RegisteredClass(symbol string) (AssetClass, bool) {
	c, ok := symbolClass[NormalizeSymbol(symbol)]
	return c, ok
}
