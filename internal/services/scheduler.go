package services

import (
	"context"
	"sync/atomic"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// PipelineRunner is implemented by the feature pipeline.
type PipelineRunner interface {
	Run(ctx context.Context) error
}

// RebuildScheduler rebuilds the feature table on a cron schedule.
// Overlapping runs are skipped rather than queued.
type RebuildScheduler struct {
	cron    *cron.Cron
	runner  PipelineRunner
	log     *logrus.Logger
	running atomic.Bool
}

func NewRebuildScheduler(runner PipelineRunner, log *logrus.Logger) *RebuildScheduler {
	return &RebuildScheduler{
		cron:   cron.New(),
		runner: runner,
		log:    log,
	}
}

// Start registers the schedule and begins running. An empty schedule
// disables the scheduler.
func (s *RebuildScheduler) Start(schedule string) error {
	if schedule == "" {
		s.log.Info("Rebuild schedule empty, scheduled rebuilds disabled")
		return nil
	}
	if _, err := s.cron.AddFunc(schedule, s.rebuild); err != nil {
		return err
	}
	s.cron.Start()
	s.log.WithField("schedule", schedule).Info("Rebuild scheduler started")
	return nil
}

func (s *RebuildScheduler) Stop() {
	s.cron.Stop()
}

func (s *RebuildScheduler) rebuild() {
	if !s.running.CompareAndSwap(false, true) {
		s.log.Warn("Previous pipeline run still in progress, skipping scheduled rebuild")
		return
	}
	defer s.running.Store(false)

	if err := s.runner.Run(context.Background()); err != nil {
		s.log.WithError(err).Error("Scheduled pipeline rebuild failed")
		return
	}
	s.log.Info("Scheduled pipeline rebuild completed")
}
