package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/vaultline/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestParseAssetClass(t *testing.T) {
	c, err := domain.ParseAssetClass("Crypto")
	assert.NoError(t, err)
	assert.Equal(t, domain.AssetClassCrypto, c)

	c, err = domain.ParseAssetClass("")
	assert.NoError(t, err)
	assert.Equal(t, domain.AssetClassAny, c)

	_, err = domain.ParseAssetClass("bonds")
	assert.Error(t, err)
}

func TestNormalizeSymbol(t *testing.T) {
	tests := map[string]string{
		" eur ":   "EUR",
		"BTC/USD": "BTC",
		"USD/EUR": "EUR",
		"xau/usd": "XAU",
		"EUR/GBP": "EUR/GBP",
	}
	for in, want := range tests {
		assert.Equal(t, want, domain.NormalizeSymbol(in), in)
	}
}

func TestRegisteredClass(t *testing.T) {
	c, ok := domain.RegisteredClass("btc")
	assert.True(t, ok)
	assert.Equal(t, domain.AssetClassCrypto, c)

	c, ok = domain.RegisteredClass("XAU/USD")
	assert.True(t, ok)
	assert.Equal(t, domain.AssetClassMetals, c)

	_, ok = domain.RegisteredClass("ZZZ")
	assert.False(t, ok)
}

func TestRegisteredSymbols_ReturnsCopy(t *testing.T) {
	symbols := domain.RegisteredSymbols(domain.AssetClassMetals)
	symbols[0] = "XXX"

	assert.Equal(t, "XAU", domain.RegisteredSymbols(domain.AssetClassMetals)[0])
	assert.Empty(t, domain.RegisteredSymbols(domain.AssetClass("bonds")))
}

func TestEarlierDate(t *testing.T) {
	a := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	b := time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, b, domain.EarlierDate(a, b))
	assert.Equal(t, b, domain.EarlierDate(b, a))
	assert.Equal(t, a, domain.EarlierDate(a, a))
}
