package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/BradenHooton/complaintbox/internal/auth"
	"github.com/BradenHooton/complaintbox/internal/models"
	pkgauth "github.com/BradenHooton/complaintbox/pkg/auth"
	pkglogger "github.com/BradenHooton/complaintbox/pkg/logger"
)

// CredentialRepository looks up users by login identifier
type CredentialRepository interface {
	FindByIdentifier(ctx context.Context, identifier string) ([]*models.User, error)
}

// AdminRepository defines the admin lookups used for authentication
type AdminRepository interface {
	GetByUsername(ctx context.Context, username string) (*models.Admin, error)
}

// ClientInfo identifies the caller in audit records
type ClientInfo struct {
	IPAddress string
	UserAgent string
}

// AuthService verifies credentials and resolves them to a principal
type AuthService struct {
	users       CredentialRepository
	admins      AdminRepository
	timing      *auth.TimingDelay
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
}

func NewAuthService(users CredentialRepository, admins AdminRepository, timing *auth.TimingDelay, logger *slog.Logger, auditLogger *pkglogger.AuditLogger) *AuthService {
	return &AuthService{
		users:       users,
		admins:      admins,
		timing:      timing,
		logger:      logger,
		auditLogger: auditLogger,
	}
}

// Authenticate resolves identifier/password to a user or an admin. Users
// whose username or email equals identifier are tried first in user_id
// order; the first whose password verifies wins. Admins are consulted only
// when no user matched.
func (s *AuthService) Authenticate(ctx context.Context, identifier, password string, client ClientInfo) (auth.Principal, error) {
	start := time.Now()

	if strings.TrimSpace(identifier) == "" || password == "" {
		return s.fail(ctx, start, pkglogger.EventLogin, identifier, client, "missing_credentials")
	}

	users, err := s.users.FindByIdentifier(ctx, identifier)
	if err != nil {
		s.logger.Error("failed to look up users", slog.Any("error", err))
		return auth.Anonymous(), fmt.Errorf("%w: %v", models.ErrInternalServer, err)
	}

	for _, user := range users {
		if pkgauth.VerifyPassword(user.PasswordHash, password) {
			p := auth.UserPrincipal(user.ID, user.Name)
			s.succeed(pkglogger.EventLogin, p, client)
			return p, nil
		}
	}

	p, err := s.verifyAdmin(ctx, identifier, password)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			return s.fail(ctx, start, pkglogger.EventLogin, identifier, client, "invalid_credentials")
		}
		return auth.Anonymous(), err
	}

	s.succeed(pkglogger.EventLogin, p, client)
	return p, nil
}

// AuthenticateAdmin checks the admins table only
func (s *AuthService) AuthenticateAdmin(ctx context.Context, username, password string, client ClientInfo) (auth.Principal, error) {
	start := time.Now()

	if strings.TrimSpace(username) == "" || password == "" {
		return s.fail(ctx, start, pkglogger.EventAdminLogin, username, client, "missing_credentials")
	}

	p, err := s.verifyAdmin(ctx, username, password)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			return s.fail(ctx, start, pkglogger.EventAdminLogin, username, client, "invalid_credentials")
		}
		return auth.Anonymous(), err
	}

	s.succeed(pkglogger.EventAdminLogin, p, client)
	return p, nil
}

// RecordLogout writes the audit record for a logout
func (s *AuthService) RecordLogout(p auth.Principal, client ClientInfo) {
	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType:     pkglogger.EventLogout,
		PrincipalKind: principalKind(p),
		PrincipalID:   p.ID(),
		IPAddress:     client.IPAddress,
		UserAgent:     client.UserAgent,
		Success:       true,
	})
}

func (s *AuthService) verifyAdmin(ctx context.Context, username, password string) (auth.Principal, error) {
	admin, err := s.admins.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return auth.Anonymous(), models.ErrInvalidCredentials
		}
		s.logger.Error("failed to look up admin", slog.Any("error", err))
		return auth.Anonymous(), fmt.Errorf("%w: %v", models.ErrInternalServer, err)
	}

	if !pkgauth.VerifyPassword(admin.PasswordHash, password) {
		return auth.Anonymous(), models.ErrInvalidCredentials
	}
	return auth.AdminPrincipal(admin.ID, admin.Username), nil
}

func (s *AuthService) succeed(event string, p auth.Principal, client ClientInfo) {
	s.logger.Info("login succeeded",
		slog.String("principal_kind", p.Kind().String()),
		slog.Int64("principal_id", p.ID()),
	)
	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType:     event,
		PrincipalKind: principalKind(p),
		PrincipalID:   p.ID(),
		IPAddress:     client.IPAddress,
		UserAgent:     client.UserAgent,
		Success:       true,
	})
}

// fail pads the response time, records the attempt and returns ErrInvalidCredentials
func (s *AuthService) fail(ctx context.Context, start time.Time, event, identifier string, client ClientInfo, reason string) (auth.Principal, error) {
	s.timing.WaitFrom(ctx, start)

	s.logger.Info("login failed", slog.String("event_type", event), slog.String("reason", reason))
	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType:     event,
		Identifier:    identifier,
		IPAddress:     client.IPAddress,
		UserAgent:     client.UserAgent,
		Success:       false,
		FailureReason: reason,
	})
	return auth.Anonymous(), models.ErrInvalidCredentials
}

func principalKind(p auth.Principal) string {
	if p.IsAnonymous() {
		return ""
	}
	return p.Kind().String()
}
