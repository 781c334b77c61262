package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/alkarama/hub/config"
	"github.com/alkarama/hub/internal/metrics"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, log *zap.Logger) *gin.Engine {
	if log == nil {
		log = zap.NewNop()
	}

	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware(log))
	router.Use(LoggerMiddleware(log))
	router.Use(metrics.Middleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		match := v1.Group("/match")
		{
			match.POST("/professionals", handler.MatchProfessionals)
			match.POST("/projects", handler.MatchProjects)
			match.POST("/score", handler.Score)
		}

		v1.GET("/projects/:id/professionals", handler.ProfessionalsForProject)
		v1.GET("/professionals/:id/projects", handler.ProjectsForProfessional)

		matching := v1.Group("/matching")
		{
			matching.GET("/projects", handler.MatchingProjects)
			matching.GET("/reports", handler.MatchingReports)
		}

		v1.GET("/vocabulary/canonicalize", handler.Canonicalize)
	}

	return router
}
