package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/BradenHooton/complaintbox/internal/events"
	"github.com/BradenHooton/complaintbox/internal/models"
	pkglogger "github.com/BradenHooton/complaintbox/pkg/logger"
)

// ComplaintRepository defines the interface for complaint data access.
// MutateOwned and Mutate lock the row, apply fn and persist the result in
// one transaction; nothing is written when fn fails.
type ComplaintRepository interface {
	Create(ctx context.Context, c *models.Complaint) (*models.Complaint, error)
	GetOwnedView(ctx context.Context, userID, complaintID int64) (*models.ComplaintView, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.ComplaintSummary, error)
	ListAll(ctx context.Context) ([]*models.ComplaintView, error)
	MutateOwned(ctx context.Context, userID, complaintID int64, fn func(*models.Complaint) error) (*models.Complaint, error)
	Mutate(ctx context.Context, complaintID int64, fn func(*models.Complaint) error) (*models.Complaint, error)
}

// ComplaintService runs the complaint lifecycle
type ComplaintService struct {
	repo        ComplaintRepository
	publisher   events.Publisher
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
	now         func() time.Time
}

func NewComplaintService(repo ComplaintRepository, publisher events.Publisher, logger *slog.Logger, auditLogger *pkglogger.AuditLogger) *ComplaintService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &ComplaintService{
		repo:        repo,
		publisher:   publisher,
		logger:      logger,
		auditLogger: auditLogger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Submit files a new Pending complaint for userID
func (s *ComplaintService) Submit(ctx context.Context, userID int64, text, category string) (int64, error) {
	if err := models.ValidateContent(text, category); err != nil {
		return 0, err
	}

	now := s.now()
	created, err := s.repo.Create(ctx, &models.Complaint{
		UserID:      userID,
		Text:        text,
		Category:    category,
		Status:      models.StatusPending,
		SubmittedAt: now,
		UpdatedAt:   now,
	})
	if err != nil {
		s.logger.Error("failed to create complaint", slog.Int64("user_id", userID), slog.Any("error", err))
		return 0, fmt.Errorf("%w: %v", models.ErrInternalServer, err)
	}

	s.logger.Info("complaint submitted",
		slog.Int64("user_id", userID),
		slog.Int64("complaint_id", created.ID),
		slog.String("category", category),
	)
	return created.ID, nil
}

// Edit overwrites text and category of a Pending complaint owned by userID
func (s *ComplaintService) Edit(ctx context.Context, userID, complaintID int64, text, category string) error {
	if err := models.ValidateContent(text, category); err != nil {
		return err
	}

	now := s.now()
	_, err := s.repo.MutateOwned(ctx, userID, complaintID, func(c *models.Complaint) error {
		return c.Edit(text, category, now)
	})
	if err != nil {
		return s.mapMutationError(err, "edit", complaintID)
	}

	s.logger.Info("complaint edited", slog.Int64("user_id", userID), slog.Int64("complaint_id", complaintID))
	return nil
}

// Track returns a complaint owned by userID together with the owner's details
func (s *ComplaintService) Track(ctx context.Context, userID, complaintID int64) (*models.ComplaintView, error) {
	view, err := s.repo.GetOwnedView(ctx, userID, complaintID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("%w: Complaint not found", models.ErrNotFound)
		}
		s.logger.Error("failed to load complaint", slog.Int64("complaint_id", complaintID), slog.Any("error", err))
		return nil, fmt.Errorf("%w: %v", models.ErrInternalServer, err)
	}
	return view, nil
}

// ListMine returns the user's complaints, newest first
func (s *ComplaintService) ListMine(ctx context.Context, userID int64) ([]*models.ComplaintSummary, error) {
	list, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list complaints", slog.Int64("user_id", userID), slog.Any("error", err))
		return nil, fmt.Errorf("%w: %v", models.ErrInternalServer, err)
	}
	return list, nil
}

// AdminList returns every complaint with its owner, newest first
func (s *ComplaintService) AdminList(ctx context.Context) ([]*models.ComplaintView, error) {
	list, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.Error("failed to list all complaints", slog.Any("error", err))
		return nil, fmt.Errorf("%w: %v", models.ErrInternalServer, err)
	}
	return list, nil
}

// AdminUpdateStatus moves a complaint to status. The status is validated
// before the complaint is looked up. A committed change is announced on the
// event publisher; publishing failures are logged and otherwise ignored.
func (s *ComplaintService) AdminUpdateStatus(ctx context.Context, adminID, complaintID int64, status string) error {
	next, err := models.ParseStatus(status)
	if err != nil {
		return err
	}

	now := s.now()
	var previous models.ComplaintStatus
	updated, err := s.repo.Mutate(ctx, complaintID, func(c *models.Complaint) error {
		previous = c.Status
		return c.SetStatus(next, now)
	})
	if err != nil {
		return s.mapMutationError(err, "update status of", complaintID)
	}

	s.logger.Info("complaint status updated",
		slog.Int64("complaint_id", complaintID),
		slog.String("from", string(previous)),
		slog.String("status", string(next)),
	)
	s.auditLogger.LogStatusChange(adminID, complaintID, string(previous), string(next))

	event := events.StatusChangedEvent{
		ComplaintID: updated.ID,
		UserID:      updated.UserID,
		From:        previous,
		To:          next,
		ChangedAt:   now,
	}
	if err := s.publisher.PublishStatusChanged(ctx, event); err != nil {
		s.logger.Warn("failed to publish status change",
			slog.Int64("complaint_id", complaintID),
			slog.Any("error", err),
		)
	}

	return nil
}

func (s *ComplaintService) mapMutationError(err error, action string, complaintID int64) error {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return fmt.Errorf("%w: Complaint not found", models.ErrNotFound)
	case errors.Is(err, models.ErrInvalidState):
		s.logger.Info("complaint change rejected",
			slog.Int64("complaint_id", complaintID),
			slog.String("reason", err.Error()),
		)
		return err
	default:
		s.logger.Error("failed to "+action+" complaint", slog.Int64("complaint_id", complaintID), slog.Any("error", err))
		return fmt.Errorf("%w: %v", models.ErrInternalServer, err)
	}
}
