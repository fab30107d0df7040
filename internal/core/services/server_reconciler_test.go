package services_test

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SscSPs/auradeploy/internal/core/domain"
	"github.com/SscSPs/auradeploy/internal/core/services"
	"github.com/stretchr/testify/assert"
)

type stubLifecycle struct {
	calls atomic.Int32
}

func (s *stubLifecycle) ToggleServer(ctx context.Context, ownerID, serverID string) (*domain.Server, error) {
	return nil, nil
}

func (s *stubLifecycle) CompleteDueTransitions(ctx context.Context) (int, error) {
	s.calls.Add(1)
	return 1, nil
}

func TestServerReconciler_RunsImmediatelyAndOnTick(t *testing.T) {
	lifecycle := &stubLifecycle{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := services.NewServerReconciler(lifecycle, 10*time.Millisecond, logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return lifecycle.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reconciler did not stop after cancel")
	}
}

func TestServerReconciler_RunOnce(t *testing.T) {
	lifecycle := &stubLifecycle{}
	r := services.NewServerReconciler(lifecycle, 0, nil)

	assert.Equal(t, 1, r.RunOnce(context.Background()))
	assert.Equal(t, int32(1), lifecycle.calls.Load())
}
