package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/branchops/float_ledger/internal/adapters/audit"
	"github.com/branchops/float_ledger/internal/adapters/idempotency"
	"github.com/branchops/float_ledger/internal/adapters/notify"
	"github.com/branchops/float_ledger/internal/core/services"
	"github.com/branchops/float_ledger/internal/handlers"
	"github.com/branchops/float_ledger/internal/middleware"
	"github.com/branchops/float_ledger/internal/platform/config"
	"github.com/branchops/float_ledger/internal/platform/observability"
	"github.com/branchops/float_ledger/internal/repositories/database/pgsql"
	"github.com/branchops/float_ledger/internal/utils"
	"github.com/branchops/float_ledger/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// @title Float Ledger API
// @version 1.0
// @description Unified transaction and ledger consistency engine for branch float and GL postings.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := observability.InitTracer(ctx, cfg.OTLPEndpoint, "ledger_backend")
	if err != nil {
		logger.Error("Failed to initialize tracer", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			logger.Error("Tracer shutdown failed", slog.String("error", err.Error()))
		}
	}()
	metrics := observability.NewMetrics()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	logger.Info("Running database migrations...")
	if err := database.RunMigrations(cfg.DatabaseURL, database.DefaultMigrationsPath, logger); err != nil {
		logger.Error("Migration failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	idemStore, closeIdem, err := newIdempotencyStore(cfg)
	if err != nil {
		logger.Error("Failed to open idempotency store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeIdem()

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid RATE_LIMIT", slog.String("rate", cfg.RateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}
	actorLimiter := limiter.New(memory.NewStore(), rate)

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, cfg.PosthogEndpoint, logger)
	defer posthogClient.Close()

	deps := services.Dependencies{
		Notifier: notify.Fanout{notify.NewLogNotifier(logger), notify.NewPosthogNotifier(posthogClient)},
		Metrics:  metrics,
	}
	if cfg.AuditEnabled {
		auditDB := stdlib.OpenDBFromPool(dbPool)
		defer auditDB.Close()
		deps.Audit = audit.NewSQLRecorder(auditDB)
	}

	serviceContainer := services.NewServiceContainer(cfg, pgsql.NewRepositoryProvider(dbPool), deps)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Idempotency-Key"},
			ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		observability.GinMiddleware(metrics),
		middleware.PosthogMiddleware(posthogClient),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, handlers.RouteDeps{
		IdempotencyStore: idemStore,
		Limiter: actorLimiter,
		Metrics:          metrics,
		Ready: func(c *gin.Context) error {
			return dbPool.Ping(c.Request.Context())
		},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", slog.String("error", err.Error()))
	}
}

// newIdempotencyStore prefers Redis and falls back to the embedded BoltDB file.
func newIdempotencyStore(cfg *config.Config) (idempotency.Store, func(), error) {
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		return idempotency.NewRedisStore(client), func() { _ = client.Close() }, nil
	}
	store, err := idempotency.NewBoltStore(cfg.IdempotencyBoltPath)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { _ = store.Close() }, nil
}
