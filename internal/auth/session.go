package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// SessionManager ties the session cookie to records in a SessionStore
type SessionManager struct {
	store  SessionStore
	ttl    time.Duration
	cookie CookieConfig
	logger *slog.Logger
}

func NewSessionManager(store SessionStore, ttl time.Duration, cookie CookieConfig, logger *slog.Logger) *SessionManager {
	return &SessionManager{
		store:  store,
		ttl:    ttl,
		cookie: cookie,
		logger: logger,
	}
}

// Load resolves the principal for the request's session cookie. Missing,
// unknown and expired sessions all resolve to the anonymous principal.
func (m *SessionManager) Load(ctx context.Context, r *http.Request) (Principal, error) {
	id, ok := sessionIDFromCookie(r, m.cookie)
	if !ok {
		return Anonymous(), nil
	}

	p, found, err := m.store.Get(ctx, id)
	if err != nil {
		return Anonymous(), err
	}
	if !found {
		return Anonymous(), nil
	}
	return p, nil
}

// Establish replaces whatever session the request carried with a fresh one
// holding only p. The old record is deleted and a new id is issued.
func (m *SessionManager) Establish(ctx context.Context, w http.ResponseWriter, r *http.Request, p Principal) error {
	if oldID, ok := sessionIDFromCookie(r, m.cookie); ok {
		if err := m.store.Delete(ctx, oldID); err != nil {
			return fmt.Errorf("failed to drop previous session: %w", err)
		}
	}

	id := uuid.NewString()
	if err := m.store.Save(ctx, id, p, m.ttl); err != nil {
		return err
	}

	setSessionCookie(w, id, m.ttl, m.cookie)

	m.logger.Debug("session established",
		slog.String("principal_kind", p.Kind().String()),
		slog.Int64("principal_id", p.ID()),
	)
	return nil
}

// Destroy deletes the session record, if any, and always expires the cookie
func (m *SessionManager) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	clearSessionCookie(w, m.cookie)

	id, ok := sessionIDFromCookie(r, m.cookie)
	if !ok {
		return nil
	}
	return m.store.Delete(ctx, id)
}
