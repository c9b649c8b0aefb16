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

type UserRepository struct {
	db   *database.DB
	pool *pgxpool.Pool
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db, pool: db.Pool}
}

// rowScanner interface for scanning rows (supports both single row and multiple rows)
type rowScanner interface {
	Scan(dest ...interface{}) error
}

const userColumns = `user_id, name, email, username, password_hash`

func scanUserRow(scanner rowScanner) (*models.User, error) {
	var user models.User

	err := scanner.Scan(&user.ID, &user.Name, &user.Email, &user.Username, &user.PasswordHash)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &user, nil
}

// FindByIdentifier returns every user whose username or email equals
// identifier, in ascending user_id order.
func (r *UserRepository) FindByIdentifier(ctx context.Context, identifier string) ([]*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users WHERE username = $1 OR email = $1
		ORDER BY user_id
	`

	rows, err := r.pool.Query(ctx, query, identifier)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := make([]*models.User, 0, 1)
	for rows.Next() {
		user, err := scanUserRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return users, nil
}

// Create inserts a user after checking email and username availability in
// the same transaction. A concurrent insert that slips past the check is
// caught by the unique constraints and reported as ErrConflict.
func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	var created *models.User

	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		var emailTaken, usernameTaken bool
		err := tx.QueryRow(ctx, `
			SELECT
				EXISTS (SELECT 1 FROM users WHERE email = $1),
				$2::text IS NOT NULL AND EXISTS (SELECT 1 FROM users WHERE username = $2)
		`, user.Email, user.Username).Scan(&emailTaken, &usernameTaken)
		if err != nil {
			return fmt.Errorf("failed to check existing user: %w", err)
		}

		if emailTaken {
			return fmt.Errorf("%w: email already registered", models.ErrConflict)
		}
		if usernameTaken {
			return fmt.Errorf("%w: username already taken", models.ErrConflict)
		}

		query := `
			INSERT INTO users (name, email, username, password_hash, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING ` + userColumns

		created, err = scanUserRow(tx.QueryRow(ctx, query,
			user.Name, user.Email, user.Username, user.PasswordHash, time.Now().UTC(),
		))
		return err
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}
