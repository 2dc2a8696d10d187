package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"crewhub/internal/models"
)

// accountForeignKey is the default name Postgres gives the account_id
// reference in crew_edit_requests.
const accountForeignKey = "crew_edit_requests_account_id_fkey"

const editRequestColumns = `
	r.id, r.crew_id, r.account_id, r.changes, r.status, r.admin_comment,
	r.decided_by, r.decided_at, r.created_at, r.updated_at, c.name
`

func scanEditRequest(row pgx.Row) (*models.EditRequest, error) {
	var (
		req     models.EditRequest
		changes []byte
	)
	if err := row.Scan(
		&req.ID, &req.CrewID, &req.AccountID, &changes, &req.Status, &req.AdminComment,
		&req.DecidedBy, &req.DecidedAt, &req.CreatedAt, &req.UpdatedAt, &req.CrewName,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(changes, &req.Changes); err != nil {
		return nil, fmt.Errorf("decode changes for edit request %s: %w", req.ID, err)
	}
	return &req, nil
}

func (d *DB) queryEditRequests(ctx context.Context, query string, args ...any) ([]models.EditRequest, error) {
	rows, err := d.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := []models.EditRequest{}
	for rows.Next() {
		req, err := scanEditRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *req)
	}
	return requests, rows.Err()
}

// CreateEditRequest inserts a new pending edit request and fills req with
// the stored row, crew name included.
func (d *DB) CreateEditRequest(ctx context.Context, req *models.EditRequest) error {
	changes, err := json.Marshal(req.Changes)
	if err != nil {
		return fmt.Errorf("encode changes: %w", err)
	}

	created, err := scanEditRequest(d.Pool.QueryRow(ctx, `
		WITH inserted AS (
			INSERT INTO crew_edit_requests (crew_id, account_id, changes)
			VALUES ($1, $2, $3)
			RETURNING *
		)
		SELECT `+editRequestColumns+`
		FROM inserted r
		JOIN crews c ON c.id = r.crew_id
	`, req.CrewID, req.AccountID, changes))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return ErrDuplicatePendingRequest
			case "23503":
				if pgErr.ConstraintName == accountForeignKey {
					return ErrAccountNotFound
				}
				return ErrCrewNotFound
			}
		}
		return err
	}

	*req = *created
	return nil
}

// GetEditRequestByID retrieves an edit request with the crew name.
func (d *DB) GetEditRequestByID(ctx context.Context, id uuid.UUID) (*models.EditRequest, error) {
	req, err := scanEditRequest(d.Pool.QueryRow(ctx, `
		SELECT `+editRequestColumns+`
		FROM crew_edit_requests r
		JOIN crews c ON c.id = r.crew_id
		WHERE r.id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrEditRequestNotFound
	}
	return req, err
}

// ListEditRequests returns requests newest first, filtered by status when
// status is non-empty.
func (d *DB) ListEditRequests(ctx context.Context, status string) ([]models.EditRequest, error) {
	return d.queryEditRequests(ctx, `
		SELECT `+editRequestColumns+`
		FROM crew_edit_requests r
		JOIN crews c ON c.id = r.crew_id
		WHERE ($1 = '' OR r.status = $1)
		ORDER BY r.created_at DESC
	`, status)
}

// ListDecidedEditRequests returns the latest non-pending requests, most
// recently decided first.
func (d *DB) ListDecidedEditRequests(ctx context.Context, limit int) ([]models.EditRequest, error) {
	return d.queryEditRequests(ctx, `
		SELECT `+editRequestColumns+`
		FROM crew_edit_requests r
		JOIN crews c ON c.id = r.crew_id
		WHERE r.status <> 'pending'
		ORDER BY r.updated_at DESC
		LIMIT $1
	`, limit)
}

// ListEditRequestsByCrew returns one crew's requests, newest first.
func (d *DB) ListEditRequestsByCrew(ctx context.Context, crewID uuid.UUID) ([]models.EditRequest, error) {
	return d.queryEditRequests(ctx, `
		SELECT `+editRequestColumns+`
		FROM crew_edit_requests r
		JOIN crews c ON c.id = r.crew_id
		WHERE r.crew_id = $1
		ORDER BY r.created_at DESC
	`, crewID)
}

// ListStalePendingEditRequests returns pending requests created before
// cutoff, oldest first.
func (d *DB) ListStalePendingEditRequests(ctx context.Context, cutoff time.Time, limit int) ([]models.EditRequest, error) {
	return d.queryEditRequests(ctx, `
		SELECT `+editRequestColumns+`
		FROM crew_edit_requests r
		JOIN crews c ON c.id = r.crew_id
		WHERE r.status = 'pending' AND r.created_at < $1
		ORDER BY r.created_at ASC
		LIMIT $2
	`, cutoff, limit)
}

// DecideEditRequest moves a pending request to approved or rejected and
// returns the updated row. The status guard in the UPDATE makes the
// transition happen at most once even under concurrent decisions.
func (d *DB) DecideEditRequest(ctx context.Context, id uuid.UUID, status string, comment *string, decidedBy string) (*models.EditRequest, error) {
	req, err := scanEditRequest(d.Pool.QueryRow(ctx, `
		WITH updated AS (
			UPDATE crew_edit_requests
			SET status = $2, admin_comment = $3, decided_by = $4, decided_at = NOW(), updated_at = NOW()
			WHERE id = $1 AND status = 'pending'
			RETURNING *
		)
		SELECT `+editRequestColumns+`
		FROM updated r
		JOIN crews c ON c.id = r.crew_id
	`, id, status, comment, decidedBy))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, d.notPendingReason(ctx, id, nil)
	}
	return req, err
}

// CancelEditRequest withdraws a pending request owned by crewID.
func (d *DB) CancelEditRequest(ctx context.Context, id, crewID uuid.UUID) (*models.EditRequest, error) {
	req, err := scanEditRequest(d.Pool.QueryRow(ctx, `
		WITH updated AS (
			UPDATE crew_edit_requests
			SET status = 'cancelled', updated_at = NOW()
			WHERE id = $1 AND crew_id = $2 AND status = 'pending'
			RETURNING *
		)
		SELECT `+editRequestColumns+`
		FROM updated r
		JOIN crews c ON c.id = r.crew_id
	`, id, crewID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, d.notPendingReason(ctx, id, &crewID)
	}
	return req, err
}

// notPendingReason explains why a guarded transition matched no row. A
// non-nil crewID restricts the lookup to that crew's requests.
func (d *DB) notPendingReason(ctx context.Context, id uuid.UUID, crewID *uuid.UUID) error {
	var status string
	err := d.Pool.QueryRow(ctx, `
		SELECT status FROM crew_edit_requests
		WHERE id = $1 AND ($2::uuid IS NULL OR crew_id = $2)
	`, id, crewID).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrEditRequestNotFound
	}
	if err != nil {
		return err
	}
	return ErrAlreadyProcessed
}

// CountEditRequestsByStatus returns the number of requests per status.
func (d *DB) CountEditRequestsByStatus(ctx context.Context) (map[string]int64, error) {
	rows, err := d.Pool.Query(ctx, `SELECT status, COUNT(*) FROM crew_edit_requests GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int64{
		models.StatusPending:   0,
		models.StatusApproved:  0,
		models.StatusRejected:  0,
		models.StatusCancelled: 0,
	}
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
