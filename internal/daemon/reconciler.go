package daemon

import (
	"context"
	"log/slog"
	"time"
)

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Reconciler periodically asks the loop to check for state drift between
// the manager and the window system.
type Reconciler struct {
	interval time.Duration
	trigger  func()
	logger   *slog.Logger
}

// NewReconciler creates a reconciler calling trigger every interval.
func NewReconciler(cfg ReconcilerConfig, trigger func()) *Reconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{
		interval: interval,
		trigger:  trigger,
		logger:   logger.With("component", "reconciler"),
	}
}

func (r *Reconciler) String() string { return "reconciler" }

// Serve starts the reconciliation loop. Blocks until context is cancelled.
func (r *Reconciler) Serve(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("reconciler started", "interval", r.interval)
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return ctx.Err()
		case <-ticker.C:
			r.trigger()
		}
	}
}
