package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BradenHooton/complaintbox/internal/auth"
	"github.com/BradenHooton/complaintbox/internal/models"
	"github.com/BradenHooton/complaintbox/internal/services"
	pkghttp "github.com/BradenHooton/complaintbox/pkg/http"
	"github.com/stretchr/testify/assert"
)

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithTestPrincipal attaches p to the request as the session middleware would
func WithTestPrincipal(req *http.Request, p auth.Principal) *http.Request {
	return req.WithContext(auth.WithPrincipal(req.Context(), p))
}

// AssertJSONResponse checks that response has correct status and decodes JSON body
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"), "Content-Type should be application/json")

	if target != nil {
		err := json.Unmarshal(w.Body.Bytes(), target)
		assert.NoError(t, err, "Failed to decode response JSON")
	}
}

// AssertErrorResponse checks status, machine code and human message of an error response
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedCode, expectedMessage string) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	var resp pkghttp.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err, "Failed to decode error response")
	assert.Equal(t, expectedCode, resp.Code, "Error code mismatch")
	assert.Equal(t, expectedMessage, resp.Error, "Error message mismatch")
}

// NewTestLogger returns a logger that discards output
func NewTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// MockAuthService implements AuthServiceInterface for testing
type MockAuthService struct {
	AuthenticateFunc      func(ctx context.Context, identifier, password string, client services.ClientInfo) (auth.Principal, error)
	AuthenticateAdminFunc func(ctx context.Context, username, password string, client services.ClientInfo) (auth.Principal, error)
	Logouts               []auth.Principal
}

func (m *MockAuthService) Authenticate(ctx context.Context, identifier, password string, client services.ClientInfo) (auth.Principal, error) {
	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(ctx, identifier, password, client)
	}
	return auth.Anonymous(), models.ErrInvalidCredentials
}

func (m *MockAuthService) AuthenticateAdmin(ctx context.Context, username, password string, client services.ClientInfo) (auth.Principal, error) {
	if m.AuthenticateAdminFunc != nil {
		return m.AuthenticateAdminFunc(ctx, username, password, client)
	}
	return auth.Anonymous(), models.ErrInvalidCredentials
}

func (m *MockAuthService) RecordLogout(p auth.Principal, _ services.ClientInfo) {
	m.Logouts = append(m.Logouts, p)
}

// MockUserService implements UserServiceInterface for testing
type MockUserService struct {
	SignupFunc func(ctx context.Context, in services.SignupInput, client services.ClientInfo) (int64, error)
}

func (m *MockUserService) Signup(ctx context.Context, in services.SignupInput, client services.ClientInfo) (int64, error) {
	if m.SignupFunc != nil {
		return m.SignupFunc(ctx, in, client)
	}
	return 1, nil
}

// MockSessionManager implements SessionManagerInterface and records what it was asked to do
type MockSessionManager struct {
	EstablishFunc func(ctx context.Context, w http.ResponseWriter, r *http.Request, p auth.Principal) error
	DestroyFunc   func(ctx context.Context, w http.ResponseWriter, r *http.Request) error
	Established   []auth.Principal
	Destroyed     int
}

func (m *MockSessionManager) Establish(ctx context.Context, w http.ResponseWriter, r *http.Request, p auth.Principal) error {
	if m.EstablishFunc != nil {
		if err := m.EstablishFunc(ctx, w, r, p); err != nil {
			return err
		}
	}
	m.Established = append(m.Established, p)
	return nil
}

func (m *MockSessionManager) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	m.Destroyed++
	if m.DestroyFunc != nil {
		return m.DestroyFunc(ctx, w, r)
	}
	return nil
}

// MockComplaintService implements ComplaintServiceInterface for testing
type MockComplaintService struct {
	SubmitFunc            func(ctx context.Context, userID int64, text, category string) (int64, error)
	EditFunc              func(ctx context.Context, userID, complaintID int64, text, category string) error
	TrackFunc             func(ctx context.Context, userID, complaintID int64) (*models.ComplaintView, error)
	ListMineFunc          func(ctx context.Context, userID int64) ([]*models.ComplaintSummary, error)
	AdminListFunc         func(ctx context.Context) ([]*models.ComplaintView, error)
	AdminUpdateStatusFunc func(ctx context.Context, adminID, complaintID int64, status string) error
}

func (m *MockComplaintService) Submit(ctx context.Context, userID int64, text, category string) (int64, error) {
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, userID, text, category)
	}
	return 1, nil
}

func (m *MockComplaintService) Edit(ctx context.Context, userID, complaintID int64, text, category string) error {
	if m.EditFunc != nil {
		return m.EditFunc(ctx, userID, complaintID, text, category)
	}
	return nil
}

func (m *MockComplaintService) Track(ctx context.Context, userID, complaintID int64) (*models.ComplaintView, error) {
	if m.TrackFunc != nil {
		return m.TrackFunc(ctx, userID, complaintID)
	}
	return nil, models.ErrNotFound
}

func (m *MockComplaintService) ListMine(ctx context.Context, userID int64) ([]*models.ComplaintSummary, error) {
	if m.ListMineFunc != nil {
		return m.ListMineFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockComplaintService) AdminList(ctx context.Context) ([]*models.ComplaintView, error) {
	if m.AdminListFunc != nil {
		return m.AdminListFunc(ctx)
	}
	return nil, nil
}

func (m *MockComplaintService) AdminUpdateStatus(ctx context.Context, adminID, complaintID int64, status string) error {
	if m.AdminUpdateStatusFunc != nil {
		return m.AdminUpdateStatusFunc(ctx, adminID, complaintID, status)
	}
	return nil
}

// MockStatsService implements StatsServiceInterface for testing
type MockStatsService struct {
	ComputeStatsFunc func(ctx context.Context) (*models.Stats, error)
}

func (m *MockStatsService) ComputeStats(ctx context.Context) (*models.Stats, error) {
	if m.ComputeStatsFunc != nil {
		return m.ComputeStatsFunc(ctx)
	}
	return &models.Stats{ByCategory: map[string]int64{}, Monthly: []models.MonthlyCount{}}, nil
}
