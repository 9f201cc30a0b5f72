package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/vaultline/internal/core/domain"
	portssvc "github.com/SscSPs/vaultline/internal/core/ports/services"
	"github.com/SscSPs/vaultline/internal/dto"
	"github.com/SscSPs/vaultline/internal/middleware"
	"github.com/gin-gonic/gin"
)

// rateHandler serves stored base rates to API key holders.
type rateHandler struct {
	rateService  portssvc.RateQuerySvc
	usageService portssvc.UsageSvc
}

func newRateHandler(rs portssvc.RateQuerySvc, us portssvc.UsageSvc) *rateHandler {
	return &rateHandler{rateService: rs, usageService: us}
}

// registerRateRoutes registers the base rate and asset routes.
func registerRateRoutes(rg *gin.RouterGroup, rateService portssvc.RateQuerySvc, usageService portssvc.UsageSvc) {
	h := newRateHandler(rateService, usageService)

	rates := rg.Group("/rates")
	{
		rates.GET("", h.getRates)
		rates.GET("/history", h.getHistory)
	}
	rg.GET("/assets", h.listAssets)
}

// getRates godoc
// @Summary Get latest base rates
// @Description Returns the latest end-of-day USD rate for each symbol, or the rate on a given date. Symbols with no stored rate are listed under not_found.
// @Tags rates
// @Produce  json
// @Param   symbols query string true "Comma separated symbols, e.g. EUR,BTC/USD (max 50)"
// @Param   date    query string false "Observation date (YYYY-MM-DD)"
// @Success 200 {object} dto.RatesResponse
// @Failure 400 {object} map[string]string "Missing or invalid parameters"
// @Failure 401 {object} map[string]string "Missing or invalid API key"
// @Failure 429 {object} map[string]interface{} "Daily quota exceeded"
// @Failure 503 {object} map[string]string "Rate store unavailable"
// @Security ApiKeyAuth
// @Router /rates [get]
func (h *rateHandler) getRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	symbolsParam := strings.TrimSpace(c.Query("symbols"))
	if symbolsParam == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Missing required parameter",
			"message": `Please provide at least one symbol using the "symbols" query parameter`,
		})
		return
	}

	on, err := optionalDateQuery(c, "date")
	if err != nil {
		respondError(c, err, "Invalid date")
		return
	}

	rates, notFound, err := h.rateService.LatestRates(c.Request.Context(), strings.Split(symbolsParam, ","), on)
	if err != nil {
		respondError(c, err, "Failed to retrieve rates")
		return
	}

	recordUsage(c, h.usageService, "/api/v1/rates")
	logger.Debug("Rates served", slog.Int("found", len(rates)), slog.Int("not_found", len(notFound)))
	c.JSON(http.StatusOK, dto.ToRatesResponse(rates, notFound))
}

// getHistory godoc
// @Summary Get rate history
// @Description Returns a symbol's USD rates between two dates. The oldest allowed date depends on the caller's plan.
// @Tags rates
// @Produce  json
// @Param   symbol query string true "Symbol, e.g. BTC"
// @Param   from   query string false "First date (YYYY-MM-DD), defaults to the oldest date the plan allows"
// @Param   to     query string false "Last date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.HistoryResponse
// @Failure 400 {object} map[string]string "Missing or invalid parameters"
// @Failure 403 {object} map[string]string "Requested range exceeds the plan's history window"
// @Failure 404 {object} map[string]string "No data in range"
// @Failure 429 {object} map[string]interface{} "Daily quota exceeded"
// @Security ApiKeyAuth
// @Router /rates/history [get]
func (h *rateHandler) getHistory(c *gin.Context) {
	principal, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing API key"})
		return
	}

	symbol := strings.TrimSpace(c.Query("symbol"))
	if symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Missing required parameter",
			"message": `Please provide a symbol using the "symbol" query parameter`,
		})
		return
	}
	to, err := optionalDateQuery(c, "to")
	if err != nil {
		respondError(c, err, "Invalid date")
		return
	}
	from, err := optionalDateQuery(c, "from")
	if err != nil {
		respondError(c, err, "Invalid date")
		return
	}

	history, err := h.rateService.History(c.Request.Context(), principal.Plan, symbol, from, to)
	if err != nil {
		var windowErr *domain.HistoryWindowError
		if errors.As(err, &windowErr) {
			msg := windowErr.Error()
			if principal.Plan == domain.PlanSandbox {
				msg += ". Upgrade to Standard for longer history."
			}
			c.JSON(http.StatusForbidden, gin.H{
				"error":         "History limit exceeded",
				"message":       msg,
				"max_from_date": windowErr.MaxFrom.Format(domain.DateLayout),
			})
			return
		}
		respondError(c, err, "Failed to retrieve rate history")
		return
	}

	recordUsage(c, h.usageService, "/api/v1/rates/history")
	c.JSON(http.StatusOK, dto.ToHistoryResponse(history))
}

// listAssets godoc
// @Summary List available assets
// @Description Lists stored symbols grouped by asset class
// @Tags assets
// @Produce  json
// @Param   asset_class query string false "fiat, crypto, stocks or metals"
// @Success 200 {object} dto.AssetsResponse
// @Failure 400 {object} map[string]string "Invalid asset class"
// @Failure 429 {object} map[string]interface{} "Daily quota exceeded"
// @Security ApiKeyAuth
// @Router /assets [get]
func (h *rateHandler) listAssets(c *gin.Context) {
	class, err := domain.ParseAssetClass(c.Query("asset_class"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid asset class",
			"message": "Valid asset classes are: fiat, crypto, stocks, metals",
		})
		return
	}

	summaries, err := h.rateService.Assets(c.Request.Context(), class)
	if err != nil {
		respondError(c, err, "Failed to list assets")
		return
	}

	recordUsage(c, h.usageService, "/api/v1/assets")
	c.Header("Cache-Control", "public, max-age=3600")
	c.JSON(http.StatusOK, dto.ToAssetsResponse(summaries))
}
