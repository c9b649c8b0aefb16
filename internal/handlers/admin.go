package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/BradenHooton/complaintbox/internal/auth"
	"github.com/BradenHooton/complaintbox/internal/models"
	pkghttp "github.com/BradenHooton/complaintbox/pkg/http"
)

// StatsServiceInterface computes the dashboard aggregates
type StatsServiceInterface interface {
	ComputeStats(ctx context.Context) (*models.Stats, error)
}

// AdminHandler serves the admin dashboard endpoints.
// Every route is mounted behind auth.RequireAdmin.
type AdminHandler struct {
	complaints ComplaintServiceInterface
	stats      StatsServiceInterface
	logger     *slog.Logger
	errs       errorResponder
}

func NewAdminHandler(complaints ComplaintServiceInterface, stats StatsServiceInterface, logger *slog.Logger, env string) *AdminHandler {
	return &AdminHandler{
		complaints: complaints,
		stats:      stats,
		logger:     logger,
		errs:       newErrorResponder(env),
	}
}

type UpdateStatusRequest struct {
	ComplaintID json.RawMessage `json:"complaint_id"`
	Status      string          `json:"status" validate:"required"`
}

// ListComplaints handles GET /api/admin/complaints
func (h *AdminHandler) ListComplaints(w http.ResponseWriter, r *http.Request) {
	list, err := h.complaints.AdminList(r.Context())
	if err != nil {
		h.errs.write(w, err)
		return
	}
	if list == nil {
		list = []*models.ComplaintView{}
	}

	pkghttp.WriteJSON(w, http.StatusOK, list)
}

// UpdateStatus handles PUT /api/admin/complaints/update_status
func (h *AdminHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	p := auth.GetPrincipal(r)

	var req UpdateStatusRequest
	if err := pkghttp.DecodeJSON(w, r, &req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	id, idErr := parseComplaintID(req.ComplaintID)
	if errors.Is(idErr, errIDMissing) || ValidateRequest(req) != nil {
		pkghttp.WriteBadRequest(w, "Invalid complaint_id or status")
		return
	}
	if idErr != nil {
		pkghttp.WriteBadRequest(w, "Invalid Complaint ID")
		return
	}

	if err := h.complaints.AdminUpdateStatus(r.Context(), p.ID(), id, req.Status); err != nil {
		h.errs.write(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, successResponse{Success: true, Message: "Status updated successfully"})
}

// Stats handles GET /api/admin/stats
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.ComputeStats(r.Context())
	if err != nil {
		h.errs.write(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, stats)
}
