package handlers

import (
	"fmt"
	"time"

	"github.com/SscSPs/budget_tracker_app/cmd/docs"
	portssvc "github.com/SscSPs/budget_tracker_app/internal/core/ports/services"
	"github.com/SscSPs/budget_tracker_app/internal/middleware"
	"github.com/SscSPs/budget_tracker_app/internal/platform/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using
// interfaces. tracker may be nil, in which case request analytics are off.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	tracker middleware.RequestTracker,
) error {
	if err := registerValidators(); err != nil {
		return fmt.Errorf("failed to register validators: %w", err)
	}

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.GET("/health", getHealth)

	limiter, err := middleware.NewRateLimiter(cfg.RateLimit)
	if err != nil {
		return fmt.Errorf("invalid rate limit %q: %w", cfg.RateLimit, err)
	}

	setupPublicRoutes(r, services, middleware.RateLimit(limiter))
	setupAPIV1Routes(r, cfg, services, middleware.RateLimit(limiter), tracker)
	setupSwaggerRoutes(r, cfg)
	return nil
}

// setupPublicRoutes exposes the reference data that needs no user.
func setupPublicRoutes(r *gin.Engine, services *portssvc.ServiceContainer, rateLimit gin.HandlerFunc) {
	public := r.Group("/api/v1", rateLimit)

	registerCurrencyRoutes(public, services.Currency)
	registerExchangeRateRoutes(public, services.ExchangeRate)
}

// setupAPIV1Routes configures the authenticated part of /api/v1
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	rateLimit gin.HandlerFunc,
	tracker middleware.RequestTracker,
) {
	v1 := r.Group("/api/v1", rateLimit, middleware.AuthMiddleware(cfg.JWTSecret))
	if tracker != nil {
		v1.Use(middleware.PosthogMiddleware(tracker))
	}

	registerLedgerRoutes(v1, services.Sessions)
	registerSessionRoutes(v1, services.Sessions)
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
