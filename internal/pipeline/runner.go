// Package pipeline orchestrates the batch feature build: validate the
// input tables, aggregate deliveries into scored per-player stats,
// derive the historical feature table and persist both artifacts.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/cricketdfs/dream11-optimizer/internal/features"
	"github.com/cricketdfs/dream11-optimizer/internal/models"
	"github.com/cricketdfs/dream11-optimizer/internal/scoring"
	"github.com/cricketdfs/dream11-optimizer/internal/store"
	"github.com/cricketdfs/dream11-optimizer/pkg/database"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const persistBatchSize = 500

type Runner struct {
	db      *database.DB
	store   *store.Store
	builder *features.Builder
	log     *logrus.Logger
}

func NewRunner(db *database.DB, st *store.Store, builder *features.Builder, log *logrus.Logger) *Runner {
	return &Runner{
		db:      db,
		store:   st,
		builder: builder,
		log:     log,
	}
}

// Run executes the full pipeline once. Each stage completes before the
// next begins; the persisted tables are replaced atomically within a
// transaction.
func (r *Runner) Run(ctx context.Context) error {
	started := time.Now()

	if err := r.store.Validate(ctx); err != nil {
		return fmt.Errorf("input validation failed: %w", err)
	}

	matches, err := r.store.Matches(ctx)
	if err != nil {
		return fmt.Errorf("failed to load matches: %w", err)
	}
	deliveries, err := r.store.Deliveries(ctx)
	if err != nil {
		return fmt.Errorf("failed to load deliveries: %w", err)
	}
	r.log.WithFields(logrus.Fields{
		"matches":    len(matches),
		"deliveries": len(deliveries),
	}).Info("Loaded input tables")

	stats := scoring.BuildPlayerMatchStats(deliveries, matches)
	r.log.WithField("rows", len(stats)).Info("Computed player match stats")

	rows := r.builder.Build(stats, matches)
	r.log.WithField("rows", len(rows)).Info("Built feature table")

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.PlayerMatchStat{}).Error; err != nil {
			return err
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.FeatureRow{}).Error; err != nil {
			return err
		}
		if len(stats) > 0 {
			if err := tx.CreateInBatches(stats, persistBatchSize).Error; err != nil {
				return err
			}
		}
		if len(rows) > 0 {
			if err := tx.CreateInBatches(rows, persistBatchSize).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to persist feature table: %w", err)
	}

	r.log.WithField("duration", time.Since(started).String()).Info("Pipeline run completed")
	return nil
}
