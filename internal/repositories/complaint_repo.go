package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/BradenHooton/complaintbox/internal/database"
	"github.com/BradenHooton/complaintbox/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ComplaintRepository struct {
	db   *database.DB
	pool *pgxpool.Pool
}

func NewComplaintRepository(db *database.DB) *ComplaintRepository {
	return &ComplaintRepository{db: db, pool: db.Pool}
}

const (
	complaintColumns = `complaint_id, user_id, complaint_text, category, status, submitted_at, updated_at`

	viewColumns = `c.complaint_id, c.complaint_text, c.category, c.status, c.submitted_at, c.updated_at, u.name, u.email`
	viewFrom    = `FROM complaints c JOIN users u ON u.user_id = c.user_id`

	newestFirst = `ORDER BY c.submitted_at DESC, c.complaint_id DESC`
)

func scanComplaintRow(scanner rowScanner) (*models.Complaint, error) {
	var c models.Complaint

	err := scanner.Scan(&c.ID, &c.UserID, &c.Text, &c.Category, &c.Status, &c.SubmittedAt, &c.UpdatedAt)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &c, nil
}

func scanViewRow(scanner rowScanner) (*models.ComplaintView, error) {
	var v models.ComplaintView

	err := scanner.Scan(
		&v.ID, &v.Text, &v.Category, &v.Status, &v.SubmittedAt, &v.UpdatedAt,
		&v.Name, &v.Email,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &v, nil
}

func scanViewRows(rows pgx.Rows) ([]*models.ComplaintView, error) {
	defer rows.Close()

	views := make([]*models.ComplaintView, 0)
	for rows.Next() {
		v, err := scanViewRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan complaint: %w", err)
		}
		views = append(views, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return views, nil
}

// Create inserts a complaint and fills in its generated id
func (r *ComplaintRepository) Create(ctx context.Context, c *models.Complaint) (*models.Complaint, error) {
	query := `
		INSERT INTO complaints (user_id, complaint_text, category, status, submitted_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + complaintColumns

	return scanComplaintRow(r.pool.QueryRow(ctx, query,
		c.UserID, c.Text, c.Category, c.Status, c.SubmittedAt, c.UpdatedAt,
	))
}

// GetOwnedView returns the complaint with its owner's details. A complaint
// owned by somebody else is reported as ErrNotFound.
func (r *ComplaintRepository) GetOwnedView(ctx context.Context, userID, complaintID int64) (*models.ComplaintView, error) {
	query := `SELECT ` + viewColumns + ` ` + viewFrom + ` WHERE c.complaint_id = $1 AND c.user_id = $2`

	return scanViewRow(r.pool.QueryRow(ctx, query, complaintID, userID))
}

func (r *ComplaintRepository) ListByUser(ctx context.Context, userID int64) ([]*models.ComplaintSummary, error) {
	query := `
		SELECT c.complaint_id, c.complaint_text, c.category, c.status, c.submitted_at, c.updated_at
		FROM complaints c WHERE c.user_id = $1
	` + newestFirst

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query complaints: %w", err)
	}
	defer rows.Close()

	summaries := make([]*models.ComplaintSummary, 0)
	for rows.Next() {
		var s models.ComplaintSummary
		if err := rows.Scan(&s.ID, &s.Text, &s.Category, &s.Status, &s.SubmittedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan complaint: %w", err)
		}
		summaries = append(summaries, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return summaries, nil
}

func (r *ComplaintRepository) ListAll(ctx context.Context) ([]*models.ComplaintView, error) {
	query := `SELECT ` + viewColumns + ` ` + viewFrom + ` ` + newestFirst

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query complaints: %w", err)
	}

	return scanViewRows(rows)
}

// MutateOwned locks the complaint owned by userID, applies fn and writes the
// result back. Nothing is written when fn returns an error.
func (r *ComplaintRepository) MutateOwned(ctx context.Context, userID, complaintID int64, fn func(*models.Complaint) error) (*models.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints WHERE complaint_id = $1 AND user_id = $2 FOR UPDATE`
	return r.mutate(ctx, fn, query, complaintID, userID)
}

// Mutate is MutateOwned without the ownership filter, for admin updates
func (r *ComplaintRepository) Mutate(ctx context.Context, complaintID int64, fn func(*models.Complaint) error) (*models.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints WHERE complaint_id = $1 FOR UPDATE`
	return r.mutate(ctx, fn, query, complaintID)
}

func (r *ComplaintRepository) mutate(ctx context.Context, fn func(*models.Complaint) error, query string, args ...interface{}) (*models.Complaint, error) {
	var updated *models.Complaint

	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		c, err := scanComplaintRow(tx.QueryRow(ctx, query, args...))
		if err != nil {
			return err
		}

		if err := fn(c); err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			UPDATE complaints
			SET complaint_text = $1, category = $2, status = $3, updated_at = $4
			WHERE complaint_id = $5
		`, c.Text, c.Category, c.Status, c.UpdatedAt, c.ID)
		if err != nil {
			return database.MapPostgresError(err)
		}

		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Stats computes the dashboard aggregates from a single snapshot so the
// per-status counts always add up to the total.
func (r *ComplaintRepository) Stats(ctx context.Context, since time.Time) (*models.Stats, error) {
	stats := &models.Stats{
		ByCategory: make(map[string]int64),
		Monthly:    make([]models.MonthlyCount, 0),
	}

	err := r.db.WithReadOnlySnapshot(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			SELECT
				COUNT(*),
				COUNT(*) FILTER (WHERE status = $1),
				COUNT(*) FILTER (WHERE status = $2),
				COUNT(*) FILTER (WHERE status = $3)
			FROM complaints
		`, models.StatusPending, models.StatusInProgress, models.StatusResolved).Scan(
			&stats.Total, &stats.Pending, &stats.InProgress, &stats.Resolved,
		)
		if err != nil {
			return fmt.Errorf("failed to count complaints: %w", err)
		}

		rows, err := tx.Query(ctx, `SELECT category, COUNT(*) FROM complaints GROUP BY category`)
		if err != nil {
			return fmt.Errorf("failed to count categories: %w", err)
		}
		for rows.Next() {
			var category string
			var count int64
			if err := rows.Scan(&category, &count); err != nil {
				rows.Close()
				return fmt.Errorf("failed to scan category count: %w", err)
			}
			stats.ByCategory[category] = count
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("error iterating category counts: %w", err)
		}

		rows, err = tx.Query(ctx, `
			SELECT to_char(submitted_at AT TIME ZONE 'UTC', 'YYYY-MM') AS month, COUNT(*)
			FROM complaints
			WHERE submitted_at >= $1
			GROUP BY month
			ORDER BY month DESC
		`, since)
		if err != nil {
			return fmt.Errorf("failed to count monthly submissions: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var m models.MonthlyCount
			if err := rows.Scan(&m.Month, &m.Count); err != nil {
				return fmt.Errorf("failed to scan monthly count: %w", err)
			}
			stats.Monthly = append(stats.Monthly, m)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	return stats, nil
}
