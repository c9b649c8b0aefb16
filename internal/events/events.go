// Package events publishes complaint lifecycle notifications to a message broker.
package events

import (
	"context"
	"time"

	"github.com/BradenHooton/complaintbox/internal/models"
)

// StatusChangedEvent is emitted after an admin status change is committed
type StatusChangedEvent struct {
	ComplaintID int64                  `json:"complaint_id"`
	UserID      int64                  `json:"user_id"`
	From        models.ComplaintStatus `json:"from"`
	To          models.ComplaintStatus `json:"to"`
	ChangedAt   time.Time              `json:"changed_at"`
}

// Publisher delivers status change events
type Publisher interface {
	PublishStatusChanged(ctx context.Context, event StatusChangedEvent) error
	Close() error
}

// NoopPublisher drops every event. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishStatusChanged(context.Context, StatusChangedEvent) error { return nil }
func (NoopPublisher) Close() error                                                   { return nil }
