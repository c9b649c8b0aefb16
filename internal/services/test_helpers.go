package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/BradenHooton/complaintbox/internal/events"
	"github.com/BradenHooton/complaintbox/internal/models"
	pkgauth "github.com/BradenHooton/complaintbox/pkg/auth"
	pkglogger "github.com/BradenHooton/complaintbox/pkg/logger"
)

// MockUserRepository implements UserRepository and CredentialRepository for testing
type MockUserRepository struct {
	CreateFunc           func(ctx context.Context, user *models.User) (*models.User, error)
	FindByIdentifierFunc func(ctx context.Context, identifier string) ([]*models.User, error)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserRepository) FindByIdentifier(ctx context.Context, identifier string) ([]*models.User, error) {
	if m.FindByIdentifierFunc != nil {
		return m.FindByIdentifierFunc(ctx, identifier)
	}
	return []*models.User{}, nil
}

// MockAdminRepository implements AdminRepository and AdminSeedRepository for testing
type MockAdminRepository struct {
	GetByUsernameFunc func(ctx context.Context, username string) (*models.Admin, error)
	CountFunc         func(ctx context.Context) (int64, error)
	CreateIfNoneFunc  func(ctx context.Context, admin *models.Admin) (bool, error)
}

func (m *MockAdminRepository) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	if m.GetByUsernameFunc != nil {
		return m.GetByUsernameFunc(ctx, username)
	}
	return nil, models.ErrNotFound
}

func (m *MockAdminRepository) Count(ctx context.Context) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

func (m *MockAdminRepository) CreateIfNone(ctx context.Context, admin *models.Admin) (bool, error) {
	if m.CreateIfNoneFunc != nil {
		return m.CreateIfNoneFunc(ctx, admin)
	}
	return false, nil
}

// MockComplaintRepository implements ComplaintRepository and StatsRepository for testing
type MockComplaintRepository struct {
	CreateFunc       func(ctx context.Context, c *models.Complaint) (*models.Complaint, error)
	GetOwnedViewFunc func(ctx context.Context, userID, complaintID int64) (*models.ComplaintView, error)
	ListByUserFunc   func(ctx context.Context, userID int64) ([]*models.ComplaintSummary, error)
	ListAllFunc      func(ctx context.Context) ([]*models.ComplaintView, error)
	MutateOwnedFunc  func(ctx context.Context, userID, complaintID int64, fn func(*models.Complaint) error) (*models.Complaint, error)
	MutateFunc       func(ctx context.Context, complaintID int64, fn func(*models.Complaint) error) (*models.Complaint, error)
	StatsFunc        func(ctx context.Context, since time.Time) (*models.Stats, error)
}

func (m *MockComplaintRepository) Create(ctx context.Context, c *models.Complaint) (*models.Complaint, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, c)
	}
	return nil, models.ErrInternalServer
}

func (m *MockComplaintRepository) GetOwnedView(ctx context.Context, userID, complaintID int64) (*models.ComplaintView, error) {
	if m.GetOwnedViewFunc != nil {
		return m.GetOwnedViewFunc(ctx, userID, complaintID)
	}
	return nil, models.ErrNotFound
}

func (m *MockComplaintRepository) ListByUser(ctx context.Context, userID int64) ([]*models.ComplaintSummary, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return []*models.ComplaintSummary{}, nil
}

func (m *MockComplaintRepository) ListAll(ctx context.Context) ([]*models.ComplaintView, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	return []*models.ComplaintView{}, nil
}

func (m *MockComplaintRepository) MutateOwned(ctx context.Context, userID, complaintID int64, fn func(*models.Complaint) error) (*models.Complaint, error) {
	if m.MutateOwnedFunc != nil {
		return m.MutateOwnedFunc(ctx, userID, complaintID, fn)
	}
	return nil, models.ErrNotFound
}

func (m *MockComplaintRepository) Mutate(ctx context.Context, complaintID int64, fn func(*models.Complaint) error) (*models.Complaint, error) {
	if m.MutateFunc != nil {
		return m.MutateFunc(ctx, complaintID, fn)
	}
	return nil, models.ErrNotFound
}

func (m *MockComplaintRepository) Stats(ctx context.Context, since time.Time) (*models.Stats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx, since)
	}
	return &models.Stats{ByCategory: map[string]int64{}, Monthly: []models.MonthlyCount{}}, nil
}

// MockPublisher records published events
type MockPublisher struct {
	Events      []events.StatusChangedEvent
	PublishFunc func(ctx context.Context, event events.StatusChangedEvent) error
}

func (m *MockPublisher) PublishStatusChanged(ctx context.Context, event events.StatusChangedEvent) error {
	m.Events = append(m.Events, event)
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, event)
	}
	return nil
}

func (m *MockPublisher) Close() error { return nil }

// mutateWith simulates a locked row: fn runs on a copy that is only kept when fn succeeds
func mutateWith(stored *models.Complaint, fn func(*models.Complaint) error) (*models.Complaint, error) {
	working := *stored
	if err := fn(&working); err != nil {
		return nil, err
	}
	*stored = working
	return stored, nil
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestAuditLogger() *pkglogger.AuditLogger {
	return pkglogger.NewAuditLogger(newTestLogger())
}

// NewTestUser builds a user whose password hash matches password
func NewTestUser(id int64, name, email, password string) *models.User {
	hash, err := pkgauth.HashPassword(password)
	if err != nil {
		panic(err)
	}
	return &models.User{ID: id, Name: name, Email: email, PasswordHash: hash}
}

// NewTestAdmin builds an admin whose password hash matches password
func NewTestAdmin(id int64, username, password string) *models.Admin {
	hash, err := pkgauth.HashPassword(password)
	if err != nil {
		panic(err)
	}
	return &models.Admin{ID: id, Username: username, PasswordHash: hash}
}
