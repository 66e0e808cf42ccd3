package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/cricketdfs/dream11-optimizer/internal/api"
	"github.com/cricketdfs/dream11-optimizer/internal/api/middleware"
	"github.com/cricketdfs/dream11-optimizer/internal/features"
	"github.com/cricketdfs/dream11-optimizer/internal/pipeline"
	"github.com/cricketdfs/dream11-optimizer/internal/predictor"
	"github.com/cricketdfs/dream11-optimizer/internal/selector"
	"github.com/cricketdfs/dream11-optimizer/internal/services"
	"github.com/cricketdfs/dream11-optimizer/internal/store"
	"github.com/cricketdfs/dream11-optimizer/internal/teams"
	"github.com/cricketdfs/dream11-optimizer/pkg/config"
	"github.com/cricketdfs/dream11-optimizer/pkg/database"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Setup logging
	if cfg.IsDevelopment() {
		logrus.SetLevel(logrus.DebugLevel)
		gin.SetMode(gin.DebugMode)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
		logrus.SetFormatter(&logrus.JSONFormatter{})
		gin.SetMode(gin.ReleaseMode)
	}
	log := logrus.StandardLogger()

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Connect to Redis
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logrus.Fatalf("Failed to parse Redis URL: %v", err)
	}
	redisClient := redis.NewClient(opt)
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logrus.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Load model coefficients
	model, err := predictor.LoadCoefficientModel(cfg.ModelCoefficientsPath)
	if err != nil {
		logrus.Fatalf("Failed to load model: %v", err)
	}

	// Initialize services
	cacheService := services.NewCacheService(redisClient)
	dataStore := store.New(db, log)
	resolver := teams.NewResolver(dataStore)
	builder := features.NewBuilder(cfg.FeatureWorkers, log)
	runner := pipeline.NewRunner(db, dataStore, builder, log)
	predictorService := predictor.NewService(
		db, dataStore, resolver, model, cacheService, log,
		selector.Config{LineupSize: cfg.LineupSize, TeamCap: cfg.MaxPerTeam},
		cfg.PredictionCacheTTL,
	)

	// Scheduled rebuilds
	scheduler := services.NewRebuildScheduler(runner, log)
	if err := scheduler.Start(cfg.RebuildSchedule); err != nil {
		logrus.Fatalf("Failed to start rebuild scheduler: %v", err)
	}
	defer scheduler.Stop()

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.CorsOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().UTC(),
		})
	})

	apiV1 := router.Group("/api/v1")
	api.SetupRoutes(apiV1, predictorService, runner, cfg, log)

	// Setup server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logrus.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}
