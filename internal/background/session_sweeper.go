package background

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// SessionPruner drops expired sessions from a store that has no native expiry
type SessionPruner interface {
	PruneExpired(ctx context.Context) (int64, error)
}

// SessionSweeper periodically removes expired sessions from an in-memory store.
// Redis expires keys on its own and needs no sweeper.
type SessionSweeper struct {
	store    SessionPruner
	logger   *slog.Logger
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewSessionSweeper(store SessionPruner, logger *slog.Logger, interval time.Duration) *SessionSweeper {
	return &SessionSweeper{
		store:    store,
		logger:   logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start runs the sweep loop until Stop is called or ctx is cancelled
func (s *SessionSweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep(ctx)
		case <-s.stopCh:
			s.logger.Info("session sweeper stopped")
			return
		case <-ctx.Done():
			s.logger.Info("session sweeper context cancelled")
			return
		}
	}
}

func (s *SessionSweeper) sweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	removed, err := s.store.PruneExpired(sweepCtx)
	if err != nil {
		s.logger.Error("failed to prune expired sessions", slog.Any("error", err))
		return
	}

	if removed > 0 {
		s.logger.Debug("expired sessions pruned", slog.Int64("removed", removed))
	}
}

// Stop signals the sweeper to stop. Safe to call more than once.
func (s *SessionSweeper) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}
