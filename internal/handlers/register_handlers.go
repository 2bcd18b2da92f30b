package handlers

import (
	"net/http"

	"github.com/branchops/float_ledger/cmd/docs"
	"github.com/branchops/float_ledger/internal/adapters/idempotency"
	portssvc "github.com/branchops/float_ledger/internal/core/ports/services"
	"github.com/branchops/float_ledger/internal/middleware"
	"github.com/branchops/float_ledger/internal/platform/config"
	"github.com/branchops/float_ledger/internal/platform/observability"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

// RouteDeps carries the infrastructure the HTTP layer needs besides services.
// Nil members disable the matching middleware.
type RouteDeps struct {
	IdempotencyStore idempotency.Store
	Limiter          *limiter.Limiter
	Metrics          *observability.Metrics
	// Ready reports whether the backing store is reachable.
	Ready func(c *gin.Context) error
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	deps RouteDeps,
) {
	registerOpsRoutes(r, deps)

	setupAPIV1Routes(r, cfg, services, deps)

	setupSwaggerRoutes(r, cfg)
}

func registerOpsRoutes(r *gin.Engine, deps RouteDeps) {
	r.GET("/health", func(c *gin.Context) {
		if deps.Ready != nil {
			if err := deps.Ready(c); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Metrics.Registry, promhttp.HandlerOpts{})))
	}
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	deps RouteDeps,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer))
	if deps.Limiter != nil {
		v1.Use(middleware.RateLimit(deps.Limiter))
	}
	if deps.IdempotencyStore != nil {
		v1.Use(middleware.Idempotency(deps.IdempotencyStore, cfg.IdempotencyTTL))
	}

	registerTransactionRoutes(v1, services.Dispatcher)
	registerFloatRoutes(v1, services.Float, services.FloatAccount)
	registerReversalRoutes(v1, services.Reversals)
	registerGLRoutes(v1, services.GLConfig, services.GLStatistics)
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
