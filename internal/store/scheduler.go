package store

// scheduler.go provides the background job that materializes due
// recurring transactions without waiting for a manual
// /api/recurring/process call.
//
// The scheduler is long-running and context-aware for graceful
// shutdown. It logs progress and errors but never fails the
// application when an individual processing run fails.

import (
	"context"
	"log/slog"
	"time"
)

// StartRecurringScheduler runs the due-template processor immediately,
// then on every tick of checkInterval, until the context is cancelled.
func (s *Store) StartRecurringScheduler(ctx context.Context, checkInterval time.Duration) {
	slog.Info("recurring scheduler started", "check_interval", checkInterval)

	s.runRecurringJob(ctx)

	ticker := time.NewTicker(checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("recurring scheduler stopped")
			return
		case <-ticker.C:
			s.runRecurringJob(ctx)
		}
	}
}

// runRecurringJob performs one process-due cycle.
func (s *Store) runRecurringJob(ctx context.Context) {
	start := time.Now()
	created, err := s.ProcessDueRecurring(ctx, time.Now().Format(time.DateOnly))
	if err != nil {
		slog.Error("recurring processing failed", "error", err, "created_before_failure", len(created))
		return
	}
	if len(created) > 0 {
		slog.Info("recurring transactions materialized",
			"count", len(created),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
