package main

import (
	"github.com/sirupsen/logrus"

	"github.com/cricketdfs/dream11-optimizer/internal/models"
	"github.com/cricketdfs/dream11-optimizer/pkg/config"
	"github.com/cricketdfs/dream11-optimizer/pkg/database"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	err = db.AutoMigrate(
		&models.Match{},
		&models.Delivery{},
		&models.PlayerMatchStat{},
		&models.FeatureRow{},
	)
	if err != nil {
		logrus.Fatalf("Migration failed: %v", err)
	}

	logrus.Info("Migration completed")
}
