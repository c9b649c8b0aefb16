package background

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type mockPruner struct {
	calls atomic.Int32
	err   error
}

func (m *mockPruner) PruneExpired(context.Context) (int64, error) {
	m.calls.Add(1)
	return 1, m.err
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSessionSweeper_PrunesOnEveryTick(t *testing.T) {
	pruner := &mockPruner{}
	sweeper := NewSessionSweeper(pruner, newTestLogger(), 5*time.Millisecond)

	done := make(chan struct{})
	go func() {
		sweeper.Start(context.Background())
		close(done)
	}()

	assert.Eventually(t, func() bool { return pruner.calls.Load() >= 3 }, time.Second, time.Millisecond)

	sweeper.Stop()
	sweeper.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}

func TestSessionSweeper_KeepsRunningAfterErrors(t *testing.T) {
	pruner := &mockPruner{err: errors.New("boom")}
	sweeper := NewSessionSweeper(pruner, newTestLogger(), 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return pruner.calls.Load() >= 2 }, time.Second, time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper ignored context cancellation")
	}
}
