package repositories

import (
	"context"
	"fmt"

	"github.com/BradenHooton/complaintbox/internal/database"
	"github.com/BradenHooton/complaintbox/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AdminRepository struct {
	pool *pgxpool.Pool
}

func NewAdminRepository(db *database.DB) *AdminRepository {
	return &AdminRepository{pool: db.Pool}
}

func (r *AdminRepository) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	query := `SELECT admin_id, username, password_hash FROM admins WHERE username = $1`

	var admin models.Admin
	err := r.pool.QueryRow(ctx, query, username).Scan(&admin.ID, &admin.Username, &admin.PasswordHash)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &admin, nil
}

func (r *AdminRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM admins`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count admins: %w", err)
	}
	return count, nil
}

// CreateIfNone inserts admin only when the admins table is empty. It reports
// whether a row was written.
func (r *AdminRepository) CreateIfNone(ctx context.Context, admin *models.Admin) (bool, error) {
	query := `
		INSERT INTO admins (username, password_hash)
		SELECT $1, $2
		WHERE NOT EXISTS (SELECT 1 FROM admins)
		ON CONFLICT (username) DO NOTHING
		RETURNING admin_id
	`

	rows, err := r.pool.Query(ctx, query, admin.Username, admin.PasswordHash)
	if err != nil {
		return false, database.MapPostgresError(err)
	}
	defer rows.Close()

	created := false
	for rows.Next() {
		if err := rows.Scan(&admin.ID); err != nil {
			return false, fmt.Errorf("failed to scan admin id: %w", err)
		}
		created = true
	}

	if err := rows.Err(); err != nil {
		return false, database.MapPostgresError(err)
	}

	return created, nil
}
