package handlers

import (
	"log/slog"
	"time"

	"github.com/SscSPs/vaultline/cmd/docs"
	portssvc "github.com/SscSPs/vaultline/internal/core/ports/services"
	"github.com/SscSPs/vaultline/internal/middleware"
	"github.com/SscSPs/vaultline/internal/platform/config"
	"github.com/SscSPs/vaultline/internal/validation"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
// ipLimiter guards the data plane per client IP and may be nil.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	ipLimiter *limiter.Limiter,
) {
	if err := validation.RegisterWithGin(); err != nil {
		slog.Error("Failed to register request validators", slog.String("error", err.Error()))
	}

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-API-Key", "X-Request-ID"},
			ExposeHeaders:    []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.GET("/health", healthCheck(services.Health))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	setupAPIV1Routes(r, cfg, services, ipLimiter)
	setupInternalRoutes(r, cfg, services, ipLimiter)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group. Data routes authenticate with an API key
// and consume daily quota; key management authenticates with a dashboard JWT.
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	ipLimiter *limiter.Limiter,
) {
	v1 := r.Group("/api/v1")

	dashboard := v1.Group("", middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer))
	registerAPIKeyRoutes(dashboard, services.APIKeys, services.Usage)

	var data *gin.RouterGroup
	if ipLimiter != nil {
		data = v1.Group("", middleware.RateLimit(ipLimiter))
	} else {
		data = v1.Group("")
	}
	data.Use(middleware.APIKeyAuth(services.APIKeys), middleware.Quota(services.RateLimiter, cfg.QuotaFailMode))

	registerRateRoutes(data, services.Rates, services.Usage)
	registerExchangeRateRoutes(data, services.Triangulation, services.Usage)
}

// setupInternalRoutes configures the routes used by the ingestion job.
func setupInternalRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	ipLimiter *limiter.Limiter,
) {
	internal := r.Group("/internal", middleware.IngestAuth(cfg.IngestSecret))
	if ipLimiter != nil {
		internal.Use(middleware.GinMiddlewarize(ipLimiter))
	}
	registerIngestRoutes(internal, services.Rates)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
