// Package testutil provides test utilities and helpers.
package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"crewhub/internal/auth"
	"crewhub/internal/db"
	"crewhub/internal/models"
)

// TestDB connects to TEST_DATABASE_URL, runs migrations and empties every
// table. The test is skipped when the variable is not set. The connection
// is closed and the data removed when the test finishes.
func TestDB(t *testing.T) *db.DB {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("Skipping integration test: TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	database, err := db.New(ctx, connString)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	if err := database.RunMigrations(connString); err != nil {
		database.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	cleanupTestData(ctx, database.Pool)
	t.Cleanup(func() {
		cleanupTestData(ctx, database.Pool)
		database.Close()
	})

	return database
}

// cleanupTestData removes all test data from the database.
func cleanupTestData(ctx context.Context, pool *pgxpool.Pool) {
	// Delete in order to respect foreign keys
	pool.Exec(ctx, "DELETE FROM crew_edit_requests")
	pool.Exec(ctx, "DELETE FROM crew_accounts")
	pool.Exec(ctx, "DELETE FROM crew_photos")
	pool.Exec(ctx, "DELETE FROM crew_age_ranges")
	pool.Exec(ctx, "DELETE FROM crew_activity_locations")
	pool.Exec(ctx, "DELETE FROM crew_activity_days")
	pool.Exec(ctx, "DELETE FROM crew_locations")
	pool.Exec(ctx, "DELETE FROM crews")
}

// CreateTestCrew inserts a crew with a Seoul address and returns its ID.
func CreateTestCrew(t *testing.T, database *db.DB, name string, visible bool) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	var id uuid.UUID
	err := database.Pool.QueryRow(ctx, `
		INSERT INTO crews (name, description, is_visible)
		VALUES ($1, $2, $3)
		RETURNING id
	`, name, name+" 소개", visible).Scan(&id)
	if err != nil {
		t.Fatalf("failed to create test crew: %v", err)
	}

	_, err = database.Pool.Exec(ctx, `
		INSERT INTO crew_locations (crew_id, main_address, latitude, longitude)
		VALUES ($1, '서울특별시 영등포구 여의동로 330', 37.5284, 126.9327)
	`, id)
	if err != nil {
		t.Fatalf("failed to create test crew location: %v", err)
	}

	return id
}

// CreateTestAccount inserts a login for the crew with the given password.
func CreateTestAccount(t *testing.T, database *db.DB, crewID uuid.UUID, loginID, password string) *models.CrewAccount {
	t.Helper()

	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	account := &models.CrewAccount{
		CrewID:       crewID,
		LoginID:      loginID,
		PasswordHash: hash,
		Email:        loginID + "@example.com",
	}
	if err := database.CreateCrewAccount(context.Background(), account); err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}
