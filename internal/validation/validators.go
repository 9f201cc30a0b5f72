package validation

import (
	"fmt"
	"regexp"

	"github.com/SscSPs/vaultline/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// symbolPattern accepts tickers and codes such as EUR, BTC, BRK.B or USDT.
var symbolPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9.\-]{0,15}$`)

// Register adds the custom tags to v.
func Register(v *validator.Validate) error {
	if err := v.RegisterValidation("assetclass", validateAssetClass); err != nil {
		return fmt.Errorf("failed to register assetclass validator: %w", err)
	}
	if err := v.RegisterValidation("symbol", validateSymbol); err != nil {
		return fmt.Errorf("failed to register symbol validator: %w", err)
	}
	return nil
}

// RegisterWithGin adds the custom tags to gin's default binding validator.
func RegisterWithGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected gin validator engine %T", binding.Validator.Engine())
	}
	return Register(v)
}

// validateAssetClass accepts one of the concrete asset classes.
func validateAssetClass(fl validator.FieldLevel) bool {
	return domain.AssetClass(fl.Field().String()).IsValid()
}

// validateSymbol accepts a bare symbol; pairs like EUR/USD are rejected.
func validateSymbol(fl validator.FieldLevel) bool {
	return symbolPattern.MatchString(fl.Field().String())
}
