package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/vaultline/internal/apperrors"
	"github.com/SscSPs/vaultline/internal/core/domain"
	portssvc "github.com/SscSPs/vaultline/internal/core/ports/services"
	"github.com/SscSPs/vaultline/internal/dto"
	"github.com/SscSPs/vaultline/internal/middleware"
	"github.com/gin-gonic/gin"
)

// exchangeRateHandler handles HTTP requests for derived cross rates.
type exchangeRateHandler struct {
	triangulationService portssvc.TriangulationSvc
	usageService         portssvc.UsageSvc
}

// newExchangeRateHandler creates a new exchangeRateHandler.
func newExchangeRateHandler(ts portssvc.TriangulationSvc, us portssvc.UsageSvc) *exchangeRateHandler {
	return &exchangeRateHandler{
		triangulationService: ts,
		usageService:         us,
	}
}

// registerExchangeRateRoutes registers routes related to exchange rates.
func registerExchangeRateRoutes(rg *gin.RouterGroup, triangulationService portssvc.TriangulationSvc, usageService portssvc.UsageSvc) {
	h := newExchangeRateHandler(triangulationService, usageService)

	exchangeRates := rg.Group("/exchange-rates")
	{
		exchangeRates.GET("/:from/:to", h.getExchangeRate)
	}
}

// getExchangeRate godoc
// @Summary Get an exchange rate
// @Description Derives how many units of "to" one unit of "from" buys, via the stored USD rates
// @Tags exchange rates
// @Produce  json
// @Param   from        path  string true  "From symbol"
// @Param   to          path  string true  "To symbol"
// @Param   asset_class query string false "Restrict lookups to one asset class"
// @Success 200 {object} dto.CrossRateResponse
// @Failure 400 {object} map[string]string "Invalid symbol or asset class"
// @Failure 404 {object} map[string]string "No USD rate for a symbol"
// @Failure 422 {object} map[string]string "Rate is zero and cannot be inverted"
// @Failure 503 {object} map[string]string "Rate store unavailable"
// @Security ApiKeyAuth
// @Router /exchange-rates/{from}/{to} [get]
func (h *exchangeRateHandler) getExchangeRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fromCode := c.Param("from")
	toCode := c.Param("to")

	class, err := domain.ParseAssetClass(c.Query("asset_class"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	logger = logger.With(slog.String("from_code", fromCode), slog.String("to_code", toCode))

	rate, err := h.triangulationService.CrossRate(c.Request.Context(), class, fromCode, toCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNonInvertibleRate) {
			logger.Warn("Exchange rate is not invertible", slog.String("error", err.Error()))
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Exchange rate cannot be derived: a USD rate is zero"})
			return
		}
		respondError(c, err, "Failed to retrieve exchange rate")
		return
	}

	recordUsage(c, h.usageService, "/api/v1/exchange-rates")
	logger.Debug("Exchange rate derived", slog.String("path", string(rate.Path)))
	c.JSON(http.StatusOK, dto.ToCrossRateResponse(rate))
}
