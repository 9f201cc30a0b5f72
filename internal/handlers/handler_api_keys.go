package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/vaultline/internal/core/ports/services"
	"github.com/SscSPs/vaultline/internal/dto"
	"github.com/SscSPs/vaultline/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// apiKeyHandler serves the dashboard's key management routes.
type apiKeyHandler struct {
	keyService   portssvc.APIKeyManagerSvc
	usageService portssvc.UsageSvc
}

func newAPIKeyHandler(ks portssvc.APIKeyManagerSvc, us portssvc.UsageSvc) *apiKeyHandler {
	return &apiKeyHandler{keyService: ks, usageService: us}
}

// registerAPIKeyRoutes registers the API key routes. The group must carry JWT auth.
func registerAPIKeyRoutes(rg *gin.RouterGroup, keyService portssvc.APIKeyManagerSvc, usageService portssvc.UsageSvc) {
	h := newAPIKeyHandler(keyService, usageService)

	keys := rg.Group("/keys")
	{
		keys.POST("", h.createKey)
		keys.GET("", h.listKeys)
		keys.DELETE("/:id", h.revokeKey)
		keys.GET("/:id/usage", h.getUsage)
	}
}

// createKey godoc
// @Summary Create an API key
// @Description Issues a new API key. The raw key is returned only in this response.
// @Description Use it as `Authorization: Bearer <key>` on the data endpoints.
// @Tags keys
// @Accept  json
// @Produce  json
// @Param   request body dto.CreateAPIKeyRequest false "Key label"
// @Success 201 {object} dto.CreateAPIKeyResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Plan key limit reached"
// @Failure 500 {object} map[string]string "Failed to create API key"
// @Security BearerAuth
// @Router /keys [post]
func (h *apiKeyHandler) createKey(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.CreateAPIKeyRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind JSON for CreateAPIKey", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}
	}

	rawKey, key, err := h.keyService.CreateKey(c.Request.Context(), userID, req.Label)
	if err != nil {
		respondError(c, err, "Failed to create API key")
		return
	}

	logger.Info("API key created", slog.String("api_key_id", key.ID))
	c.JSON(http.StatusCreated, dto.CreateAPIKeyResponse{
		ID:        key.ID,
		Key:       rawKey,
		Label:     key.Label,
		CreatedAt: key.CreatedAt,
	})
}

// listKeys godoc
// @Summary List API keys
// @Description Lists the caller's API keys, newest first. Raw keys are never returned.
// @Tags keys
// @Produce  json
// @Success 200 {array} dto.APIKeyResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list API keys"
// @Security BearerAuth
// @Router /keys [get]
func (h *apiKeyHandler) listKeys(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	keys, err := h.keyService.ListKeys(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to list API keys")
		return
	}
	c.JSON(http.StatusOK, dto.ToAPIKeyResponses(keys))
}

// revokeKey godoc
// @Summary Revoke an API key
// @Description Deactivates one of the caller's keys. Requests using it are rejected immediately.
// @Tags keys
// @Produce  json
// @Param   id path string true "API key ID" format(uuid)
// @Success 200 {object} map[string]bool
// @Failure 400 {object} map[string]string "Invalid key ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "API key not found"
// @Security BearerAuth
// @Router /keys/{id} [delete]
func (h *apiKeyHandler) revokeKey(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	keyID := c.Param("id")
	if _, err := uuid.Parse(keyID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid API key ID"})
		return
	}

	if err := h.keyService.RevokeKey(c.Request.Context(), userID, keyID); err != nil {
		respondError(c, err, "Failed to revoke API key")
		return
	}

	logger.Info("API key revoked", slog.String("api_key_id", keyID))
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// getUsage godoc
// @Summary Get API key usage
// @Description Returns today's call count from the live quota counter plus the last 30 days of logged calls
// @Tags keys
// @Produce  json
// @Param   id path string true "API key ID" format(uuid)
// @Success 200 {object} dto.UsageResponse
// @Failure 400 {object} map[string]string "Invalid key ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "API key not found"
// @Failure 503 {object} map[string]string "Counter store unavailable"
// @Security BearerAuth
// @Router /keys/{id}/usage [get]
func (h *apiKeyHandler) getUsage(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	keyID := c.Param("id")
	if _, err := uuid.Parse(keyID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid API key ID"})
		return
	}

	summary, err := h.usageService.Summary(c.Request.Context(), userID, keyID)
	if err != nil {
		respondError(c, err, "Failed to load usage")
		return
	}
	c.JSON(http.StatusOK, dto.ToUsageResponse(summary))
}
