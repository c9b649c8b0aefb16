package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/BradenHooton/complaintbox/internal/auth"
	"github.com/BradenHooton/complaintbox/internal/models"
	pkghttp "github.com/BradenHooton/complaintbox/pkg/http"
)

// ComplaintServiceInterface defines the complaint operations used by the handlers
type ComplaintServiceInterface interface {
	Submit(ctx context.Context, userID int64, text, category string) (int64, error)
	Edit(ctx context.Context, userID, complaintID int64, text, category string) error
	Track(ctx context.Context, userID, complaintID int64) (*models.ComplaintView, error)
	ListMine(ctx context.Context, userID int64) ([]*models.ComplaintSummary, error)
	AdminList(ctx context.Context) ([]*models.ComplaintView, error)
	AdminUpdateStatus(ctx context.Context, adminID, complaintID int64, status string) error
}

// ComplaintHandler serves the user-facing complaint endpoints.
// Every route is mounted behind auth.RequireUser.
type ComplaintHandler struct {
	service ComplaintServiceInterface
	logger  *slog.Logger
	errs    errorResponder
}

func NewComplaintHandler(service ComplaintServiceInterface, logger *slog.Logger, env string) *ComplaintHandler {
	return &ComplaintHandler{
		service: service,
		logger:  logger,
		errs:    newErrorResponder(env),
	}
}

type SubmitComplaintRequest struct {
	Text     string `json:"complaint_text" validate:"required"`
	Category string `json:"category" validate:"required"`
}

type SubmitComplaintResponse struct {
	Success     bool  `json:"success"`
	ComplaintID int64 `json:"complaint_id"`
}

// EditComplaintRequest carries complaint_id raw so that numbers and numeric
// strings are both accepted.
type EditComplaintRequest struct {
	ComplaintID json.RawMessage `json:"complaint_id"`
	Text        string          `json:"complaint_text" validate:"required"`
	Category    string          `json:"category" validate:"required"`
}

// Submit handles POST /api/submit_complaint
func (h *ComplaintHandler) Submit(w http.ResponseWriter, r *http.Request) {
	p := auth.GetPrincipal(r)

	var req SubmitComplaintRequest
	if err := pkghttp.DecodeJSON(w, r, &req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, "Missing required fields")
		return
	}

	id, err := h.service.Submit(r.Context(), p.ID(), req.Text, req.Category)
	if err != nil {
		h.errs.write(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, SubmitComplaintResponse{Success: true, ComplaintID: id})
}

// Track handles GET /api/track_complaint?id=
func (h *ComplaintHandler) Track(w http.ResponseWriter, r *http.Request) {
	p := auth.GetPrincipal(r)

	raw := strings.TrimSpace(r.URL.Query().Get("id"))
	if raw == "" {
		pkghttp.WriteBadRequest(w, "Complaint ID required")
		return
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		pkghttp.WriteBadRequest(w, "Invalid Complaint ID")
		return
	}

	view, err := h.service.Track(r.Context(), p.ID(), id)
	if err != nil {
		h.errs.write(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, view)
}

// ListMine handles GET /api/user_complaints
func (h *ComplaintHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	p := auth.GetPrincipal(r)

	list, err := h.service.ListMine(r.Context(), p.ID())
	if err != nil {
		h.errs.write(w, err)
		return
	}
	if list == nil {
		list = []*models.ComplaintSummary{}
	}

	pkghttp.WriteJSON(w, http.StatusOK, list)
}

// Edit handles PUT /api/edit_complaint
func (h *ComplaintHandler) Edit(w http.ResponseWriter, r *http.Request) {
	p := auth.GetPrincipal(r)

	var req EditComplaintRequest
	if err := pkghttp.DecodeJSON(w, r, &req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	id, idErr := parseComplaintID(req.ComplaintID)
	if errors.Is(idErr, errIDMissing) || ValidateRequest(req) != nil {
		pkghttp.WriteBadRequest(w, "Missing required fields")
		return
	}
	if idErr != nil {
		pkghttp.WriteBadRequest(w, "Invalid Complaint ID")
		return
	}

	if err := h.service.Edit(r.Context(), p.ID(), id, req.Text, req.Category); err != nil {
		h.errs.write(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, successResponse{Success: true, Message: "Complaint updated successfully"})
}
