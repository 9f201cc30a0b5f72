package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/vaultline/internal/apperrors"
	"github.com/SscSPs/vaultline/internal/core/domain"
	portssvc "github.com/SscSPs/vaultline/internal/core/ports/services"
	"github.com/SscSPs/vaultline/internal/middleware"
	"github.com/gin-gonic/gin"
)

// respondError writes err with the status apperrors assigns it.
// Client errors echo the error text; server errors only say what failed.
func respondError(c *gin.Context, err error, failure string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status := apperrors.HTTPStatus(err)

	if status < http.StatusInternalServerError {
		logger.Warn(failure, slog.String("error", err.Error()), slog.Int("status", status))
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	logger.Error(failure, slog.String("error", err.Error()), slog.Int("status", status))
	if status == http.StatusServiceUnavailable {
		c.JSON(status, gin.H{"error": "Service temporarily unavailable"})
		return
	}
	c.JSON(status, gin.H{"error": failure})
}

// recordUsage logs a successful data-plane call for the authenticated key.
func recordUsage(c *gin.Context, usage portssvc.UsageSvc, endpoint string) {
	principal, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		return
	}
	usage.Record(c.Request.Context(), *principal, endpoint)
}

// optionalDateQuery reads an optional YYYY-MM-DD query parameter. Absent yields nil.
func optionalDateQuery(c *gin.Context, name string) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	day, err := time.Parse(domain.DateLayout, raw)
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("please provide a valid ISO date for %q (YYYY-MM-DD)", name))
	}
	return &day, nil
}
