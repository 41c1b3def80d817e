package api

import (
	"github.com/Conceptual-Machines/melodycraft-api/internal/api/handlers"
	apimiddleware "github.com/Conceptual-Machines/melodycraft-api/internal/api/middleware"
	"github.com/Conceptual-Machines/melodycraft-api/internal/config"
	"github.com/Conceptual-Machines/melodycraft-api/internal/metrics"
	"github.com/Conceptual-Machines/melodycraft-api/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Dependencies are the long-lived services the router hands to its handlers
type Dependencies struct {
	DB       *gorm.DB // optional usage log
	Hints    *services.HintService
	Recorder metrics.Recorder
}

func SetupRouter(cfg *config.Config, deps Dependencies, version string) *gin.Engine {
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(apimiddleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(apimiddleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(apimiddleware.RequestTracking(deps.Recorder))

	// CORS middleware
	router.Use(apimiddleware.CORS(cfg.AllowedOrigins))

	hintProvider, hintModel := deps.Hints.Describe()
	hintInfo := handlers.HintInfo{Enabled: deps.Hints.Enabled(), Provider: hintProvider, Model: hintModel}

	router.GET("/", handlers.Root(version))

	// Health check
	healthHandler := handlers.NewHealthHandler(deps.DB, hintInfo.Enabled)
	router.GET("/health", healthHandler.HealthCheck)

	// Metrics endpoint
	metricsHandler := handlers.NewMetricsHandler(version, hintInfo)
	router.GET("/api/metrics", metricsHandler.GetMetrics)

	router.GET("/api/instruments", handlers.Instruments)

	genService := services.NewGenerationService(deps.Hints, services.NewUsageStore(deps.DB), deps.Recorder)
	genHandler := handlers.NewGenerationHandler(genService)

	generate := router.Group("/generate")
	generate.Use(apimiddleware.Auth(cfg.AuthMode))
	{
		generate.POST("", genHandler.Generate)
		generate.POST("/midi", genHandler.GenerateMIDI)
	}

	return router
}
