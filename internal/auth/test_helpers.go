package auth

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// MockSessionStore implements SessionStore for testing
type MockSessionStore struct {
	GetFunc    func(ctx context.Context, id string) (Principal, bool, error)
	SaveFunc   func(ctx context.Context, id string, p Principal, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, id string) error
}

func (m *MockSessionStore) Get(ctx context.Context, id string) (Principal, bool, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return Anonymous(), false, nil
}

func (m *MockSessionStore) Save(ctx context.Context, id string, p Principal, ttl time.Duration) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, id, p, ttl)
	}
	return nil
}

func (m *MockSessionStore) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
