package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/vaultline/internal/adapters/cache"
	"github.com/SscSPs/vaultline/internal/adapters/counter"
	"github.com/SscSPs/vaultline/internal/adapters/database/pgsql"
	portsrepo "github.com/SscSPs/vaultline/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/vaultline/internal/core/ports/services"
	"github.com/SscSPs/vaultline/internal/core/services"
	"github.com/SscSPs/vaultline/internal/handlers"
	"github.com/SscSPs/vaultline/internal/middleware"
	"github.com/SscSPs/vaultline/internal/platform/clock"
	"github.com/SscSPs/vaultline/internal/platform/config"
	pkgcache "github.com/SscSPs/vaultline/pkg/cache"
	"github.com/SscSPs/vaultline/pkg/database"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 15 * time.Second

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	var migrateFirst bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long:  "Run the HTTP API. With --migrate, pending database migrations are applied first.",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Initialize structured logger
			logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
			slog.SetDefault(logger)

			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if migrateFirst {
				if err := migrateUp(logger, cfg); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, logger, cfg)
		},
	}

	cmd.Flags().BoolVar(&migrateFirst, "migrate", false, "apply pending migrations before serving")
	return cmd
}

func serve(ctx context.Context, logger *slog.Logger, cfg *config.Config) error {
	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize database pool: %w", err)
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = pkgcache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer pkgcache.CloseRedisClient(rdb)
	}

	var counters portsrepo.CounterStore
	var remote cache.Remote
	if rdb != nil {
		counters = counter.NewRedisStore(rdb)
		remote = cache.NewRedisRemote(rdb)
	} else {
		logger.Warn("Using process-local quota counters; limits are not shared between instances")
		counters = counter.NewMemoryStore(10 * time.Minute)
	}

	repos := pgsql.NewRepositoryProvider(dbPool, counters)
	// Triangulation and the rates endpoints read through the cache; ingest writes invalidate it.
	repos.BaseRateRepo = cache.NewRateCache(repos.BaseRateRepo, remote, cfg.RateCacheTTL)

	probes := []portssvc.DependencyProbe{
		services.NewProbe("database", true, dbPool.Ping),
		services.NewProbe("counters", cfg.QuotaFailMode == config.FailClosed, counters.Ping),
	}
	if rdb != nil {
		probes = append(probes, services.NewProbe("cache", false, func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}))
	}

	container := services.NewServiceContainer(cfg, repos, clock.System{}, probes...)

	ipLimiter, err := middleware.NewIPLimiter(cfg.IPRateLimit, "vaultline:ip", rdb)
	if err != nil {
		return fmt.Errorf("failed to create IP limiter: %w", err)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	if err := r.SetTrustedProxies(nil); err != nil {
		return fmt.Errorf("failed to set trusted proxies: %w", err)
	}

	handlers.RegisterRoutes(r, cfg, container, ipLimiter)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed to run: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("Server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", slog.String("error", err.Error()))
	}

	// Flush usage rows written after their responses went out.
	container.Usage.Wait()
	logger.Info("Server stopped")
	return nil
}
