package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/timmy/dishlingo/internal/api/handler"
	"github.com/timmy/dishlingo/internal/api/middleware"
	"github.com/timmy/dishlingo/internal/config"
	"github.com/timmy/dishlingo/internal/logger"
	"github.com/timmy/dishlingo/internal/service"
)

// SetupRouter configures the Gin router with all routes
func SetupRouter(
	analysisService *service.MenuAnalysisService,
	cfg *config.Config,
	log *logger.Logger,
) *gin.Engine {
	// Set Gin mode
	switch cfg.Server.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	// Add middleware
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware(log))
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:  cfg.Server.CORS.AllowedOrigins,
		AllowAllOrigins: cfg.Server.CORS.AllowAllOrigins,
	}))
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics())
	}

	// Create handlers
	healthHandler := handler.NewHealthHandler("dishlingo")
	menuHandler := handler.NewMenuHandler(analysisService)

	// Health check
	r.GET("/health", healthHandler.Health)

	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	apiGroup := r.Group("/api")
	apiGroup.Use(middleware.BodyLimit(int64(cfg.Server.MaxBodyMB) << 20))
	{
		// Full pipeline
		apiGroup.POST("/analyze-menu", menuHandler.AnalyzeMenu)

		// Enrichment lookups on their own
		apiGroup.POST("/pronunciations", menuHandler.Pronunciations)
		apiGroup.POST("/allergens", menuHandler.Allergens)
	}

	return r
}
