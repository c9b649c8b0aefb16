//go:build integration

package repositories

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/BradenHooton/complaintbox/internal/database"
	"github.com/BradenHooton/complaintbox/internal/models"
)

// testDB manages a PostgreSQL testcontainer with migrations applied
type testDB struct {
	container testcontainers.Container
	db        *database.DB
}

func setupTestDatabase(t *testing.T) *testDB {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		postgres.WithDatabase("complaintbox"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to create connection pool: %v", err)
	}

	db := database.NewFromPool(pool, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err := db.Migrate(ctx); err != nil {
		pool.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to run migrations: %v", err)
	}

	tdb := &testDB{container: container, db: db}
	t.Cleanup(func() {
		pool.Close()
		_ = container.Terminate(context.Background())
	})
	return tdb
}

// truncate empties every table between subtests
func (tdb *testDB) truncate(t *testing.T) {
	t.Helper()
	_, err := tdb.db.Pool.Exec(context.Background(), `TRUNCATE TABLE complaints, admins, users RESTART IDENTITY CASCADE`)
	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}

func seedUser(t *testing.T, repo *UserRepository, name, email string, username *string) *models.User {
	t.Helper()
	u, err := repo.Create(context.Background(), &models.User{
		Name: name, Email: email, Username: username, PasswordHash: "hash-" + email,
	})
	if err != nil {
		t.Fatalf("failed to seed user %s: %v", email, err)
	}
	return u
}

func seedComplaint(t *testing.T, repo *ComplaintRepository, userID int64, text string, at time.Time) *models.Complaint {
	t.Helper()
	c, err := repo.Create(context.Background(), &models.Complaint{
		UserID: userID, Text: text, Category: "noise", Status: models.StatusPending,
		SubmittedAt: at, UpdatedAt: at,
	})
	if err != nil {
		t.Fatalf("failed to seed complaint %q: %v", text, err)
	}
	return c
}

func strPtr(s string) *string { return &s }

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(fmt.Sprintf("bad timestamp %q", s))
	}
	return t
}
