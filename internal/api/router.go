package api

import (
	"github.com/cricketdfs/dream11-optimizer/internal/api/handlers"
	"github.com/cricketdfs/dream11-optimizer/internal/api/middleware"
	"github.com/cricketdfs/dream11-optimizer/internal/predictor"
	"github.com/cricketdfs/dream11-optimizer/internal/services"
	"github.com/cricketdfs/dream11-optimizer/pkg/config"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SetupRoutes configures all API routes on the given router group.
func SetupRoutes(group *gin.RouterGroup, p *predictor.Service, runner services.PipelineRunner, cfg *config.Config, log *logrus.Logger) {
	lineupHandler := handlers.NewLineupHandler(p)
	seasonHandler := handlers.NewSeasonHandler(p)
	pipelineHandler := handlers.NewPipelineHandler(runner, log)

	// Public routes, rate limited per client.
	public := group.Group("")
	public.Use(middleware.RateLimit(cfg.APIRateLimit, cfg.APIRateBurst))
	{
		public.GET("/lineups/match/:id", lineupHandler.GetLineupByMatch)
		public.GET("/lineups/encounter", lineupHandler.GetLineupByEncounter)
		public.GET("/seasons/:year/teams", seasonHandler.GetSeasonTeams)
	}

	// Admin routes.
	admin := group.Group("")
	admin.Use(middleware.AuthRequired(cfg.JWTSecret))
	{
		admin.POST("/pipeline/rebuild", pipelineHandler.RebuildPipeline)
	}
}
