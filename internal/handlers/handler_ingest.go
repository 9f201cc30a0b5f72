package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/vaultline/internal/apperrors"
	portssvc "github.com/SscSPs/vaultline/internal/core/ports/services"
	"github.com/SscSPs/vaultline/internal/dto"
	"github.com/SscSPs/vaultline/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ingestHandler accepts base rates pushed by the ingestion job.
type ingestHandler struct {
	ingestService portssvc.RateIngestSvc
}

// registerIngestRoutes registers the internal write routes. The group must carry IngestAuth.
func registerIngestRoutes(rg *gin.RouterGroup, ingestService portssvc.RateIngestSvc) {
	h := &ingestHandler{ingestService: ingestService}
	rg.PUT("/base-rates", h.putBaseRates)
}

// putBaseRates godoc
// @Summary Upsert base rates
// @Description Bulk upserts USD base rates keyed by symbol and date. Later rows for the same key win.
// @Tags internal
// @Accept  json
// @Produce  json
// @Param   request body dto.IngestBaseRatesRequest true "Rates"
// @Success 200 {object} dto.IngestBaseRatesResponse
// @Failure 400 {object} map[string]string "Invalid rates"
// @Failure 401 {object} map[string]string "Invalid ingest secret"
// @Failure 503 {object} map[string]string "Rate store unavailable"
// @Security IngestSecret
// @Router /internal/base-rates [put]
func (h *ingestHandler) putBaseRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.IngestBaseRatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for base rate ingest", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	rates, err := req.ToDomain()
	if err != nil {
		respondError(c, apperrors.NewValidationError(err.Error()), "Invalid base rates")
		return
	}

	n, err := h.ingestService.IngestBaseRates(c.Request.Context(), rates)
	if err != nil {
		respondError(c, err, "Failed to store base rates")
		return
	}

	c.JSON(http.StatusOK, dto.IngestBaseRatesResponse{Received: len(rates), Upserted: n})
}
