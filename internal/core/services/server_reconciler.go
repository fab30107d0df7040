package services

import (
	"context"
	"log/slog"
	"time"

	portssvc "github.com/SscSPs/auradeploy/internal/core/ports/services"
)

// ServerReconciler periodically settles starting/stopping servers whose
// delay has passed. Because the due time is stored with the record, a
// restart resumes where the previous process left off.
type ServerReconciler struct {
	lifecycle portssvc.ServerLifecycleSvc
	interval  time.Duration
	logger    *slog.Logger
}

func NewServerReconciler(lifecycle portssvc.ServerLifecycleSvc, interval time.Duration, logger *slog.Logger) *ServerReconciler {
	if interval <= 0 {
		interval = time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ServerReconciler{lifecycle: lifecycle, interval: interval, logger: logger}
}

// Run performs one pass immediately and then one per interval until ctx is done.
func (r *ServerReconciler) Run(ctx context.Context) {
	r.logger.Info("Server reconciler started", slog.Duration("interval", r.interval))
	r.RunOnce(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Server reconciler stopped")
			return
		case <-ticker.C:
			r.RunOnce(ctx)
		}
	}
}

// RunOnce settles every overdue transition and returns how many were applied.
func (r *ServerReconciler) RunOnce(ctx context.Context) int {
	n, err := r.lifecycle.CompleteDueTransitions(ctx)
	if err != nil {
		if ctx.Err() == nil {
			r.logger.Error("Server reconciliation failed", slog.String("error", err.Error()))
		}
		return 0
	}
	if n > 0 {
		r.logger.Debug("Completed server transitions", slog.Int("count", n))
	}
	return n
}
