// Copyright (c) 2026 Komiko. All rights reserved.
// Author: hoang.bui.dev@gmail.com

package creator

import (
	"context"
	"log/slog"
	"time"
)

// Scheduler runs the retention sweep on a fixed cadence.
//
// The sweep is at-least-once: a run that fails mid-way keeps its partial
// progress and the next tick picks up the remainder.
type Scheduler struct {
	service  *Service
	interval time.Duration
	logger   *slog.Logger
}

// NewScheduler constructs a retention [Scheduler].
func NewScheduler(service *Service, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		service:  service,
		interval: interval,
		logger:   logger,
	}
}

/*
Run executes the sweep immediately and then on every tick.

Description: Blocks until the context is cancelled. Sweep failures are
logged and never stop the scheduler.

Parameters:
  - context: context.Context
*/
func (scheduler *Scheduler) Run(context context.Context) {
	scheduler.logger.Info("retention_scheduler_started",
		slog.Duration("interval", scheduler.interval),
	)

	// First sweep at startup so a long-stopped deployment catches up
	// without waiting a full interval.
	scheduler.sweep(context)

	ticker := time.NewTicker(scheduler.interval)
	defer ticker.Stop()

	for {
		select {
		case <-context.Done():
			scheduler.logger.Info("retention_scheduler_stopped")
			return
		case <-ticker.C:
			scheduler.sweep(context)
		}
	}
}

// sweep runs one cleanup pass and logs the outcome.
func (scheduler *Scheduler) sweep(context context.Context) {
	result, err := scheduler.service.CleanupExpiredCreatorData(context, time.Now().UTC())
	if err != nil {
		scheduler.logger.Error("retention_sweep_failed",
			slog.Any("error", err),
			slog.Int("scanned", result.ScannedCount),
			slog.Int("deleted", result.DeletedCount),
		)
		return
	}

	scheduler.logger.Info("retention_sweep_finished",
		slog.Int("scanned", result.ScannedCount),
		slog.Int("deleted", result.DeletedCount),
	)
}
