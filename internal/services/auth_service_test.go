package services

import (
	"context"
	"errors"
	"testing"

	"github.com/BradenHooton/complaintbox/internal/auth"
	"github.com/BradenHooton/complaintbox/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(users *MockUserRepository, admins *MockAdminRepository) *AuthService {
	return NewAuthService(users, admins, nil, newTestLogger(), newTestAuditLogger())
}

func TestAuthService_Authenticate_UserByEmailOrUsername(t *testing.T) {
	ann := NewTestUser(1, "Ann", "ann@x.com", "secret1")

	var queried string
	svc := newAuthService(&MockUserRepository{
		FindByIdentifierFunc: func(ctx context.Context, identifier string) ([]*models.User, error) {
			queried = identifier
			return []*models.User{ann}, nil
		},
	}, &MockAdminRepository{
		GetByUsernameFunc: func(ctx context.Context, username string) (*models.Admin, error) {
			t.Fatal("admins must not be consulted when a user matches")
			return nil, nil
		},
	})

	p, err := svc.Authenticate(context.Background(), "ann@x.com", "secret1", ClientInfo{})
	require.NoError(t, err)
	assert.Equal(t, auth.UserPrincipal(1, "Ann"), p)
	assert.Equal(t, "ann@x.com", queried)
}

func TestAuthService_Authenticate_FirstVerifiedMatchWins(t *testing.T) {
	first := NewTestUser(1, "First", "shared@x.com", "first-pass")
	second := NewTestUser(2, "Second", "second@x.com", "second-pass")

	svc := newAuthService(&MockUserRepository{
		FindByIdentifierFunc: func(context.Context, string) ([]*models.User, error) {
			return []*models.User{first, second}, nil
		},
	}, &MockAdminRepository{})

	p, err := svc.Authenticate(context.Background(), "shared@x.com", "second-pass", ClientInfo{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), p.ID())
}

func TestAuthService_Authenticate_FallsBackToAdmin(t *testing.T) {
	admin := NewTestAdmin(1, "admin", "admin123")

	svc := newAuthService(&MockUserRepository{}, &MockAdminRepository{
		GetByUsernameFunc: func(ctx context.Context, username string) (*models.Admin, error) {
			if username == "admin" {
				return admin, nil
			}
			return nil, models.ErrNotFound
		},
	})

	p, err := svc.Authenticate(context.Background(), "admin", "admin123", ClientInfo{})
	require.NoError(t, err)
	assert.Equal(t, auth.AdminPrincipal(1, "admin"), p)
}

func TestAuthService_Authenticate_UserShadowsAdminWithSameName(t *testing.T) {
	user := NewTestUser(4, "Imposter", "i@x.com", "pw-user")
	admin := NewTestAdmin(1, "admin", "pw-admin")

	svc := newAuthService(&MockUserRepository{
		FindByIdentifierFunc: func(context.Context, string) ([]*models.User, error) {
			return []*models.User{user}, nil
		},
	}, &MockAdminRepository{
		GetByUsernameFunc: func(context.Context, string) (*models.Admin, error) { return admin, nil },
	})

	p, err := svc.Authenticate(context.Background(), "admin", "pw-user", ClientInfo{})
	require.NoError(t, err)
	assert.True(t, p.IsUser())

	// the admin password still works when the user's does not verify
	p, err = svc.Authenticate(context.Background(), "admin", "pw-admin", ClientInfo{})
	require.NoError(t, err)
	assert.True(t, p.IsAdmin())
}

func TestAuthService_Authenticate_InvalidCredentials(t *testing.T) {
	ann := NewTestUser(1, "Ann", "ann@x.com", "secret1")

	svc := newAuthService(&MockUserRepository{
		FindByIdentifierFunc: func(ctx context.Context, identifier string) ([]*models.User, error) {
			if identifier == ann.Email {
				return []*models.User{ann}, nil
			}
			return []*models.User{}, nil
		},
	}, &MockAdminRepository{})

	tests := []struct{ identifier, password string }{
		{"ann@x.com", "wrong"},
		{"nobody", "secret1"},
		{"", "secret1"},
		{"ann@x.com", ""},
	}
	for _, tt := range tests {
		p, err := svc.Authenticate(context.Background(), tt.identifier, tt.password, ClientInfo{})
		assert.ErrorIs(t, err, models.ErrInvalidCredentials)
		assert.True(t, p.IsAnonymous())
	}
}

func TestAuthService_Authenticate_StoreError(t *testing.T) {
	svc := newAuthService(&MockUserRepository{
		FindByIdentifierFunc: func(context.Context, string) ([]*models.User, error) {
			return nil, errors.New("connection refused")
		},
	}, &MockAdminRepository{})

	_, err := svc.Authenticate(context.Background(), "ann@x.com", "secret1", ClientInfo{})
	assert.ErrorIs(t, err, models.ErrInternalServer)
	assert.NotErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestAuthService_AuthenticateAdmin_IgnoresUsers(t *testing.T) {
	svc := newAuthService(&MockUserRepository{
		FindByIdentifierFunc: func(context.Context, string) ([]*models.User, error) {
			t.Fatal("admin login must not look at users")
			return nil, nil
		},
	}, &MockAdminRepository{})

	_, err := svc.AuthenticateAdmin(context.Background(), "ann", "secret1", ClientInfo{})
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestAuthService_AuthenticateAdmin_Success(t *testing.T) {
	admin := NewTestAdmin(3, "root", "toor12")
	svc := newAuthService(&MockUserRepository{}, &MockAdminRepository{
		GetByUsernameFunc: func(context.Context, string) (*models.Admin, error) { return admin, nil },
	})

	p, err := svc.AuthenticateAdmin(context.Background(), "root", "toor12", ClientInfo{IPAddress: "127.0.0.1"})
	require.NoError(t, err)
	assert.Equal(t, auth.AdminPrincipal(3, "root"), p)

	_, err = svc.AuthenticateAdmin(context.Background(), "root", "wrong", ClientInfo{})
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}
