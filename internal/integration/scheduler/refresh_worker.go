// Package scheduler runs the periodic bank summary snapshot refresh.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/pj-finance/backend/internal/application/usecase/snapshot"
)

// SnapshotRefresher refreshes the snapshots of every active account.
type SnapshotRefresher interface {
	Execute(ctx context.Context, now *time.Time) (*snapshot.RefreshReport, error)
}

// RefreshWorker triggers the snapshot refresh on a fixed interval.
type RefreshWorker struct {
	refresher SnapshotRefresher
	locker    Locker
	interval  time.Duration
	timeout   time.Duration
}

// WorkerConfig holds configuration for the refresh worker.
type WorkerConfig struct {
	Interval time.Duration
	Timeout  time.Duration // Upper bound of a single run; zero means no bound
}

// DefaultWorkerConfig returns the default worker configuration.
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		Interval: 6 * time.Hour,
		Timeout:  30 * time.Minute,
	}
}

// NewRefreshWorker creates a new refresh worker. A nil locker runs without coordination.
func NewRefreshWorker(refresher SnapshotRefresher, locker Locker, config WorkerConfig) *RefreshWorker {
	if config.Interval <= 0 {
		config.Interval = DefaultWorkerConfig().Interval
	}
	return &RefreshWorker{
		refresher: refresher,
		locker:    locker,
		interval:  config.Interval,
		timeout:   config.Timeout,
	}
}

// Start begins the worker loop. It blocks until the context is cancelled.
func (w *RefreshWorker) Start(ctx context.Context) {
	slog.Info("Snapshot refresh worker started",
		"interval", w.interval,
		"timeout", w.timeout,
	)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Run immediately on start, then on ticker
	w.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Snapshot refresh worker shutting down")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single guarded refresh run and returns its report.
// It returns nil when the run was skipped or failed.
func (w *RefreshWorker) RunOnce(ctx context.Context) *snapshot.RefreshReport {
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	if w.locker != nil {
		release, err := w.locker.Acquire(ctx)
		if errors.Is(err, ErrLockNotAcquired) {
			slog.Info("Snapshot refresh skipped, another instance is running")
			return nil
		}
		if err != nil {
			slog.Error("Failed to acquire snapshot refresh lock", "error", err)
			return nil
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				slog.Warn("Failed to release snapshot refresh lock", "error", err)
			}
		}()
	}

	started := time.Now()
	report, err := w.refresher.Execute(ctx, nil)
	if err != nil {
		slog.Error("Failed to refresh bank summary snapshots", "error", err)
		return nil
	}

	slog.Info("Snapshot refresh run finished",
		"run_id", report.RunID,
		"refreshed", len(report.Refreshed),
		"failed", len(report.Failed),
		"duration", time.Since(started),
	)
	return report
}
