package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool
	JWTSecret    string
	JWTIssuer    string

	// Idempotency keys: Redis when RedisAddr is set, otherwise an embedded BoltDB file.
	RedisAddr           string
	RedisPassword       string
	IdempotencyBoltPath string
	IdempotencyTTL      time.Duration

	RateLimit          string // ulule/limiter formatted rate, e.g. "100-M"
	CORSAllowedOrigins []string

	PosthogAPIKey   string
	PosthogEndpoint string
	OTLPEndpoint    string
	AuditEnabled    bool

	// Outbox relay
	RelayBatchSize      int
	RelayInterval       time.Duration
	RelayMaxRetries     int
	RelayInitialBackoff time.Duration
	RelayMaxAttempts    int
	RelayConcurrency    int
}

func parseDurationOr(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback.String())
		}
		return fallback
	}
	return d
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("JWT_ISSUER", "")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("IDEMPOTENCY_BOLT_PATH", "idempotency.db")
	viper.SetDefault("IDEMPOTENCY_TTL", "24h")
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("POSTHOG_ENDPOINT", "https://eu.i.posthog.com")
	viper.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	viper.SetDefault("AUDIT_ENABLED", true)
	viper.SetDefault("RELAY_BATCH_SIZE", 50)
	viper.SetDefault("RELAY_INTERVAL", "15s")
	viper.SetDefault("RELAY_MAX_RETRIES", 3)
	viper.SetDefault("RELAY_INITIAL_BACKOFF", "200ms")
	viper.SetDefault("RELAY_MAX_ATTEMPTS", 20)
	viper.SetDefault("RELAY_CONCURRENCY", 4)

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

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.RedisAddr = viper.GetString("REDIS_ADDR")
	cfg.RedisPassword = viper.GetString("REDIS_PASSWORD")
	cfg.IdempotencyBoltPath = viper.GetString("IDEMPOTENCY_BOLT_PATH")
	cfg.IdempotencyTTL = parseDurationOr("IDEMPOTENCY_TTL", 24*time.Hour)

	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	for _, origin := range strings.Split(viper.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")
	cfg.PosthogEndpoint = viper.GetString("POSTHOG_ENDPOINT")
	cfg.OTLPEndpoint = viper.GetString("OTEL_EXPORTER_OTLP_ENDPOINT")
	cfg.AuditEnabled = viper.GetBool("AUDIT_ENABLED")

	cfg.RelayBatchSize = viper.GetInt("RELAY_BATCH_SIZE")
	if cfg.RelayBatchSize <= 0 {
		cfg.RelayBatchSize = 50
	}
	cfg.RelayInterval = parseDurationOr("RELAY_INTERVAL", 15*time.Second)
	cfg.RelayMaxRetries = viper.GetInt("RELAY_MAX_RETRIES")
	cfg.RelayInitialBackoff = parseDurationOr("RELAY_INITIAL_BACKOFF", 200*time.Millisecond)
	cfg.RelayMaxAttempts = viper.GetInt("RELAY_MAX_ATTEMPTS")
	cfg.RelayConcurrency = viper.GetInt("RELAY_CONCURRENCY")
	if cfg.RelayConcurrency <= 0 {
		cfg.RelayConcurrency = 1
	}

	return cfg, nil
}
