package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/BradenHooton/complaintbox/internal/models"
)

// StatsRepository computes complaint aggregates from one consistent snapshot
type StatsRepository interface {
	Stats(ctx context.Context, since time.Time) (*models.Stats, error)
}

// StatsService aggregates data for the admin dashboard
type StatsService struct {
	repo   StatsRepository
	logger *slog.Logger
	now    func() time.Time
}

func NewStatsService(repo StatsRepository, logger *slog.Logger) *StatsService {
	return &StatsService{repo: repo, logger: logger, now: time.Now}
}

// ComputeStats returns counts by status and category, and monthly
// submissions over the last StatsWindowMonths months.
func (s *StatsService) ComputeStats(ctx context.Context) (*models.Stats, error) {
	stats, err := s.repo.Stats(ctx, models.StatsWindowStart(s.now()))
	if err != nil {
		s.logger.Error("dashboard: failed to compute stats", slog.Any("error", err))
		return nil, fmt.Errorf("%w: %v", models.ErrInternalServer, err)
	}
	return stats, nil
}
