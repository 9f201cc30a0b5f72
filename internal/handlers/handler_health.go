package handlers

import (
	"net/http"

	"github.com/SscSPs/vaultline/internal/core/domain"
	portssvc "github.com/SscSPs/vaultline/internal/core/ports/services"
	"github.com/SscSPs/vaultline/internal/dto"
	"github.com/gin-gonic/gin"
)

// healthCheck godoc
// @Summary Health check
// @Description Reports the status of the service and its dependencies. Unhealthy responses use 503.
// @Tags health
// @Produce  json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /health [get]
func healthCheck(healthService portssvc.HealthSvc) gin.HandlerFunc {
	return func(c *gin.Context) {
		report := healthService.Check(c.Request.Context())
		status := http.StatusOK
		if report.Status == domain.HealthUnhealthy {
			status = http.StatusServiceUnavailable
		}
		c.Header("Cache-Control", "no-store")
		c.JSON(status, dto.ToHealthResponse(report))
	}
}
