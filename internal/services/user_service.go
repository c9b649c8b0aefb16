package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/BradenHooton/complaintbox/internal/models"
	pkgauth "github.com/BradenHooton/complaintbox/pkg/auth"
	pkglogger "github.com/BradenHooton/complaintbox/pkg/logger"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
}

// SignupInput carries the raw signup fields
type SignupInput struct {
	Name     string
	Email    string
	Username string
	Password string
}

// UserService handles user business logic
type UserService struct {
	repo        UserRepository
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
}

func NewUserService(repo UserRepository, logger *slog.Logger, auditLogger *pkglogger.AuditLogger) *UserService {
	return &UserService{
		repo:        repo,
		logger:      logger,
		auditLogger: auditLogger,
	}
}

// Signup creates a user account and returns its id. Name, email and username
// are trimmed; an empty username is stored as NULL.
func (s *UserService) Signup(ctx context.Context, in SignupInput, client ClientInfo) (int64, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	username := strings.TrimSpace(in.Username)

	if name == "" || email == "" || in.Password == "" {
		return 0, fmt.Errorf("%w: Name, email, and password are required", models.ErrValidation)
	}

	if err := pkgauth.ValidatePassword(in.Password); err != nil {
		var pwErr *pkgauth.PasswordValidationError
		if errors.As(err, &pwErr) {
			return 0, fmt.Errorf("%w: Password %s", models.ErrValidation, pwErr.Reason)
		}
		return 0, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	hash, err := pkgauth.HashPassword(in.Password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return 0, fmt.Errorf("%w: %v", models.ErrInternalServer, err)
	}

	user := &models.User{Name: name, Email: email, PasswordHash: hash}
	if username != "" {
		user.Username = &username
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			s.logger.Info("signup rejected: email or username taken",
				slog.String("email", pkglogger.SanitizedEmail(email)))
			s.audit(0, email, client, false, "conflict")
			return 0, fmt.Errorf("%w: Email or username already exists", models.ErrConflict)
		}
		s.logger.Error("failed to create user", slog.Any("error", err))
		return 0, fmt.Errorf("%w: %v", models.ErrInternalServer, err)
	}

	s.logger.Info("user signed up", slog.Int64("user_id", created.ID))
	s.audit(created.ID, email, client, true, "")
	return created.ID, nil
}

func (s *UserService) audit(userID int64, email string, client ClientInfo, success bool, reason string) {
	event := pkglogger.AuditEvent{
		EventType:     pkglogger.EventSignup,
		Identifier:    email,
		IPAddress:     client.IPAddress,
		UserAgent:     client.UserAgent,
		Success:       success,
		FailureReason: reason,
	}
	if success {
		event.PrincipalKind = "user"
		event.PrincipalID = userID
	}
	s.auditLogger.LogAuthAttempt(event)
}
