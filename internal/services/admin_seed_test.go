package services

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/BradenHooton/complaintbox/internal/models"
	pkgauth "github.com/BradenHooton/complaintbox/pkg/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDefaultAdmin_SeedsAndWarnsOnDefaultPassword(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	var seeded *models.Admin
	repo := &MockAdminRepository{
		CreateIfNoneFunc: func(ctx context.Context, admin *models.Admin) (bool, error) {
			seeded = admin
			return true, nil
		},
	}

	require.NoError(t, EnsureDefaultAdmin(context.Background(), repo, "admin", DefaultAdminPassword, logger))
	assert.Equal(t, "admin", seeded.Username)
	assert.True(t, pkgauth.VerifyPassword(seeded.PasswordHash, DefaultAdminPassword))
	assert.Contains(t, buf.String(), "level=WARN")
}

func TestEnsureDefaultAdmin_ExistingAdminNoWarning(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	repo := &MockAdminRepository{
		CountFunc: func(context.Context) (int64, error) { return 1, nil },
		CreateIfNoneFunc: func(context.Context, *models.Admin) (bool, error) {
			t.Fatal("CreateIfNone should not be called when an admin exists")
			return false, nil
		},
	}

	require.NoError(t, EnsureDefaultAdmin(context.Background(), repo, "admin", DefaultAdminPassword, logger))
	assert.NotContains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "admins=1")
}

func TestEnsureDefaultAdmin_LostRaceSkipsQuietly(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	require.NoError(t, EnsureDefaultAdmin(context.Background(), &MockAdminRepository{}, "admin", DefaultAdminPassword, logger))
	assert.NotContains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "skipping seed")
}

func TestEnsureDefaultAdmin_CountError(t *testing.T) {
	repo := &MockAdminRepository{
		CountFunc: func(context.Context) (int64, error) { return 0, errors.New("down") },
	}
	assert.Error(t, EnsureDefaultAdmin(context.Background(), repo, "admin", "s3cret!", newTestLogger()))
}

func TestEnsureDefaultAdmin_StoreError(t *testing.T) {
	repo := &MockAdminRepository{
		CreateIfNoneFunc: func(context.Context, *models.Admin) (bool, error) { return false, errors.New("down") },
	}
	assert.Error(t, EnsureDefaultAdmin(context.Background(), repo, "admin", "s3cret!", newTestLogger()))
}
