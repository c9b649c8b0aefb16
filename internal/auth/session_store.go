package auth

import (
	"context"
	"time"
)

// SessionStore persists principals keyed by opaque session id
type SessionStore interface {
	// Get returns the principal stored under id. found is false when the
	// session does not exist or has expired.
	Get(ctx context.Context, id string) (p Principal, found bool, err error)
	Save(ctx context.Context, id string, p Principal, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}
