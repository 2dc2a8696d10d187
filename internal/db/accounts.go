package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"crewhub/internal/models"
)

const accountColumns = `id, crew_id, login_id, password_hash, email, created_at`

func scanAccount(row pgx.Row) (*models.CrewAccount, error) {
	var a models.CrewAccount
	err := row.Scan(&a.ID, &a.CrewID, &a.LoginID, &a.PasswordHash, &a.Email, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetCrewAccountByLoginID looks up an account for password login.
func (d *DB) GetCrewAccountByLoginID(ctx context.Context, loginID string) (*models.CrewAccount, error) {
	return scanAccount(d.Pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM crew_accounts WHERE login_id = $1`, loginID))
}

// GetCrewAccount returns the account only if it belongs to crewID.
func (d *DB) GetCrewAccount(ctx context.Context, crewID, accountID uuid.UUID) (*models.CrewAccount, error) {
	return scanAccount(d.Pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM crew_accounts WHERE id = $1 AND crew_id = $2`, accountID, crewID))
}

// CreateCrewAccount inserts a login for a crew.
func (d *DB) CreateCrewAccount(ctx context.Context, account *models.CrewAccount) error {
	return d.Pool.QueryRow(ctx, `
		INSERT INTO crew_accounts (crew_id, login_id, password_hash, email)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, account.CrewID, account.LoginID, account.PasswordHash, account.Email).Scan(&account.ID, &account.CreatedAt)
}
