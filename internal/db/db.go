package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"

	"crewhub/internal/auth"
	"crewhub/migrations"
)

// DB wraps a pgxpool connection pool.
type DB struct {
	Pool *pgxpool.Pool
}

// New creates a new database connection pool.
func New(ctx context.Context, connString string) (*DB, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// RunMigrations runs all embedded SQL migrations.
func (d *DB) RunMigrations(connString string) error {
	sourceDriver, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", sourceDriver, connString)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}

// Ping checks the database is reachable.
func (d *DB) Ping(ctx context.Context) error {
	return d.Pool.Ping(ctx)
}

// Close closes the connection pool.
func (d *DB) Close() {
	d.Pool.Close()
}

// SeedDevCrew inserts a visible sample crew with a login for development.
// Skips seeding when the login already exists.
func (d *DB) SeedDevCrew(ctx context.Context) error {
	var exists bool
	if err := d.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM crew_accounts WHERE login_id = 'hangang')`,
	).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check seed account: %w", err)
	}
	if exists {
		return nil
	}

	hash, err := auth.HashPassword("hangang-dev")
	if err != nil {
		return err
	}

	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var crewID string
	if err := tx.QueryRow(ctx, `
		INSERT INTO crews (name, description, instagram, is_visible)
		VALUES ('한강러너스', '매주 수요일 저녁 여의도에서 함께 달려요', 'hangang_runners', TRUE)
		RETURNING id
	`).Scan(&crewID); err != nil {
		return fmt.Errorf("failed to seed crew: %w", err)
	}

	seed := []struct {
		query string
		args  []any
	}{
		{`INSERT INTO crew_locations (crew_id, main_address, latitude, longitude) VALUES ($1, $2, $3, $4)`,
			[]any{crewID, "서울특별시 영등포구 여의동로 330", 37.5284, 126.9327}},
		{`INSERT INTO crew_activity_days (crew_id, day_of_week) VALUES ($1, '수요일'), ($1, '토요일')`,
			[]any{crewID}},
		{`INSERT INTO crew_activity_locations (crew_id, location_name) VALUES ($1, '여의도 한강공원')`,
			[]any{crewID}},
		{`INSERT INTO crew_age_ranges (crew_id, min_age, max_age) VALUES ($1, 20, 39)`,
			[]any{crewID}},
		{`INSERT INTO crew_accounts (crew_id, login_id, password_hash) VALUES ($1, 'hangang', $2)`,
			[]any{crewID, hash}},
	}
	for _, s := range seed {
		if _, err := tx.Exec(ctx, s.query, s.args...); err != nil {
			return fmt.Errorf("failed to seed crew data: %w", err)
		}
	}

	return tx.Commit(ctx)
}
