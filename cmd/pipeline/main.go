package main

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/cricketdfs/dream11-optimizer/internal/features"
	"github.com/cricketdfs/dream11-optimizer/internal/pipeline"
	"github.com/cricketdfs/dream11-optimizer/internal/store"
	"github.com/cricketdfs/dream11-optimizer/pkg/config"
	"github.com/cricketdfs/dream11-optimizer/pkg/database"
)

// One-shot batch run of the feature pipeline.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	log := logrus.StandardLogger()

	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	dataStore := store.New(db, log)
	builder := features.NewBuilder(cfg.FeatureWorkers, log)
	runner := pipeline.NewRunner(db, dataStore, builder, log)

	if err := runner.Run(context.Background()); err != nil {
		logrus.Fatalf("Pipeline run failed: %v", err)
	}
}
