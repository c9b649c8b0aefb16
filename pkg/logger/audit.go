package logger

import (
	"context"
	"log/slog"
	"strconv"
	"time"
)

// Audit event types
const (
	EventLogin        = "login"
	EventAdminLogin   = "admin_login"
	EventLogout       = "logout"
	EventSignup       = "signup"
	EventStatusChange = "complaint_status_change"
)

// AuditEvent represents a security audit event
type AuditEvent struct {
	EventType     string
	PrincipalKind string // "user" or "admin"
	PrincipalID   int64
	Identifier    string // login identifier, sanitized before logging
	IPAddress     string
	UserAgent     string
	Success       bool
	FailureReason string
	Metadata      map[string]string
}

// AuditLogger writes audit records through slog
type AuditLogger struct {
	logger *slog.Logger
}

// NewAuditLogger creates a new audit logger
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	return &AuditLogger{
		logger: logger,
	}
}

// LogAuthAttempt logs login, logout and signup attempts
func (al *AuditLogger) LogAuthAttempt(event AuditEvent) {
	attrs := []slog.Attr{
		slog.String("audit_type", "auth"),
		slog.String("event_type", event.EventType),
		slog.Bool("success", event.Success),
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
	}
	attrs = append(attrs, principalAttrs(event.PrincipalKind, event.PrincipalID)...)

	if event.Identifier != "" {
		attrs = append(attrs, slog.String("identifier", SanitizedIdentifier(event.Identifier)))
	}
	if event.IPAddress != "" {
		attrs = append(attrs, slog.String("ip_address", event.IPAddress))
	}
	if event.UserAgent != "" {
		attrs = append(attrs, slog.String("user_agent", event.UserAgent))
	}
	if event.FailureReason != "" {
		attrs = append(attrs, slog.String("failure_reason", event.FailureReason))
	}
	for key, val := range event.Metadata {
		attrs = append(attrs, slog.String(key, val))
	}

	level := slog.LevelInfo
	if !event.Success {
		level = slog.LevelWarn
	}
	al.logger.LogAttrs(context.Background(), level, "audit", attrs...)
}

// LogStatusChange records an admin moving a complaint between states
func (al *AuditLogger) LogStatusChange(adminID, complaintID int64, from, to string) {
	attrs := []slog.Attr{
		slog.String("audit_type", "complaint"),
		slog.String("event_type", EventStatusChange),
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
		slog.Int64("complaint_id", complaintID),
		slog.String("from_status", from),
		slog.String("to_status", to),
	}
	attrs = append(attrs, principalAttrs("admin", adminID)...)

	al.logger.LogAttrs(context.Background(), slog.LevelInfo, "audit", attrs...)
}

func principalAttrs(kind string, id int64) []slog.Attr {
	if kind == "" {
		return nil
	}
	return []slog.Attr{
		slog.String("principal_kind", kind),
		slog.String("principal_id", strconv.FormatInt(id, 10)),
	}
}
