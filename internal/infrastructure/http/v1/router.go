// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"transtock/internal/domain/articles"
	"transtock/internal/domain/ledger"
	"transtock/internal/infrastructure/http/v1/handlers"
	"transtock/internal/infrastructure/http/v1/middleware"
	"transtock/internal/infrastructure/metrics"
	"transtock/internal/infrastructure/storage/postgres"
	"transtock/pkg/logger"
)

// RoleStockManager may record movements and trigger recomputation.
// Read access requires any authenticated staff member.
const RoleStockManager = "stock_manager"

// RouterConfig holds the wired services the router exposes.
type RouterConfig struct {
	// Pool is the database connection (for health checks)
	Pool *postgres.Pool

	// Logger for request logging
	Logger *logger.Logger

	// TokenValidator for bearer token validation
	TokenValidator middleware.TokenValidator

	// ArticleService serves the article registry
	ArticleService *articles.Service

	// LedgerService records entries and consumptions
	LedgerService *ledger.Service

	// Recomputer rebuilds article valuation from history
	Recomputer *ledger.Recomputer

	// MetricsEnabled exposes the Prometheus scrape endpoint
	MetricsEnabled bool
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(metrics.Middleware())
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	if cfg.MetricsEnabled {
		router.GET("/metrics", metrics.Handler())
	}

	// API v1
	apiV1 := router.Group("/api/v1")
	apiV1.Use(middleware.Auth(cfg.TokenValidator))
	{
		baseHandler := handlers.NewBaseHandler()

		articleHandler := handlers.NewArticleHandler(baseHandler, cfg.ArticleService)
		stockHandler := handlers.NewStockHandler(baseHandler, cfg.LedgerService)
		maintenanceHandler := handlers.NewMaintenanceHandler(baseHandler, cfg.Recomputer)

		articlesGroup := apiV1.Group("/articles")
		articleHandler.RegisterRoutes(articlesGroup)

		stockGroup := apiV1.Group("/stock")
		stockGroup.Use(middleware.RequireRole(RoleStockManager))
		stockHandler.RegisterRoutes(stockGroup, articlesGroup)
		maintenanceHandler.RegisterRoutes(stockGroup)
	}

	return router
}
