package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// QuotaFailMode selects what the quota middleware does when the counter store fails.
type QuotaFailMode string

const (
	// FailClosed rejects the request with 503.
	FailClosed QuotaFailMode = "closed"
	// FailOpen admits the request without a quota decision.
	FailOpen QuotaFailMode = "open"
)

const (
	defaultJWTSecret    = "a-very-secret-key-should-be-longer-and-random"
	defaultIngestSecret = "change-me-ingest-secret"
	minCounterTTL       = 24 * time.Hour
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	MigrationsPath string

	// RedisURL points at the shared counter and cache store. Empty selects in-process stores.
	RedisURL string

	JWTSecret    string
	JWTIssuer    string
	IngestSecret string

	StoreTimeout  time.Duration
	CounterTTL    time.Duration
	QuotaFailMode QuotaFailMode

	SandboxDailyLimit   int64
	SandboxHistoryDays  int
	StandardHistoryDays int

	// IPRateLimit is a ulule formatted rate such as "300-M".
	IPRateLimit  string
	RateCacheTTL time.Duration

	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("JWT_SECRET", defaultJWTSecret)
	viper.SetDefault("JWT_ISSUER", "vaultline")
	viper.SetDefault("INGEST_SECRET", defaultIngestSecret)
	viper.SetDefault("STORE_TIMEOUT", "2s")
	viper.SetDefault("COUNTER_TTL", "24h")
	viper.SetDefault("QUOTA_FAIL_MODE", string(FailClosed))
	viper.SetDefault("SANDBOX_DAILY_LIMIT", 1000)
	viper.SetDefault("SANDBOX_HISTORY_DAYS", 30)
	viper.SetDefault("STANDARD_HISTORY_DAYS", 90)
	viper.SetDefault("IP_RATE_LIMIT", "300-M")
	viper.SetDefault("RATE_CACHE_TTL", "1h")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")

	cfg.RedisURL = viper.GetString("REDIS_URL")
	if cfg.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set. Quota counters and rate cache are process-local.")
	}

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
		cfg.JWTSecret = defaultJWTSecret // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.IngestSecret = viper.GetString("INGEST_SECRET")
	if cfg.IngestSecret == "" || cfg.IngestSecret == defaultIngestSecret {
		cfg.IngestSecret = defaultIngestSecret
		log.Println("Warning: INGEST_SECRET not set. Using default insecure secret. THIS IS NOT FOR PRODUCTION.")
	}

	cfg.StoreTimeout = durationOrDefault("STORE_TIMEOUT", 2*time.Second)
	cfg.CounterTTL = durationOrDefault("COUNTER_TTL", minCounterTTL)
	cfg.RateCacheTTL = durationOrDefault("RATE_CACHE_TTL", time.Hour)

	cfg.QuotaFailMode = QuotaFailMode(strings.ToLower(viper.GetString("QUOTA_FAIL_MODE")))
	if cfg.QuotaFailMode == FailOpen {
		log.Println("Warning: QUOTA_FAIL_MODE=open. Requests are admitted without quota checks while the counter store is down.")
	}

	cfg.SandboxDailyLimit = viper.GetInt64("SANDBOX_DAILY_LIMIT")
	cfg.SandboxHistoryDays = viper.GetInt("SANDBOX_HISTORY_DAYS")
	cfg.StandardHistoryDays = viper.GetInt("STANDARD_HISTORY_DAYS")
	cfg.IPRateLimit = viper.GetString("IP_RATE_LIMIT")
	cfg.CORSAllowedOrigins = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings that would break quota or history semantics.
func (c *Config) Validate() error {
	if c.CounterTTL < minCounterTTL {
		return fmt.Errorf("COUNTER_TTL must be at least %s, got %s", minCounterTTL, c.CounterTTL)
	}
	if c.StoreTimeout <= 0 {
		return fmt.Errorf("STORE_TIMEOUT must be positive, got %s", c.StoreTimeout)
	}
	if c.QuotaFailMode != FailClosed && c.QuotaFailMode != FailOpen {
		return fmt.Errorf("QUOTA_FAIL_MODE must be %q or %q, got %q", FailClosed, FailOpen, c.QuotaFailMode)
	}
	if c.SandboxDailyLimit <= 0 {
		return fmt.Errorf("SANDBOX_DAILY_LIMIT must be positive, got %d", c.SandboxDailyLimit)
	}
	if c.SandboxHistoryDays <= 0 || c.StandardHistoryDays <= 0 {
		return fmt.Errorf("history windows must be positive, got sandbox=%d standard=%d", c.SandboxHistoryDays, c.StandardHistoryDays)
	}
	return nil
}

func durationOrDefault(key string, def time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def)
		}
		return def
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
