package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/BradenHooton/complaintbox/internal/models"
	pkgauth "github.com/BradenHooton/complaintbox/pkg/auth"
)

// DefaultAdminPassword is the well-known password of the seeded admin
const DefaultAdminPassword = "admin123"

// AdminSeedRepository creates the first admin
type AdminSeedRepository interface {
	Count(ctx context.Context) (int64, error)
	CreateIfNone(ctx context.Context, admin *models.Admin) (bool, error)
}

// EnsureDefaultAdmin seeds one admin when the admins table is empty
func EnsureDefaultAdmin(ctx context.Context, repo AdminSeedRepository, username, password string, logger *slog.Logger) error {
	existing, err := repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if existing > 0 {
		logger.Info("admin account already present, skipping seed", slog.Int64("admins", existing))
		return nil
	}

	hash, err := pkgauth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	created, err := repo.CreateIfNone(ctx, &models.Admin{Username: username, PasswordHash: hash})
	if err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}

	// lost a race with another instance seeding concurrently
	if !created {
		logger.Info("admin account already present, skipping seed")
		return nil
	}

	logger.Info("default admin created", slog.String("username", username))
	if password == DefaultAdminPassword {
		logger.Warn("default admin uses the well-known password; set ADMIN_PASSWORD before exposing the service")
	}
	return nil
}
