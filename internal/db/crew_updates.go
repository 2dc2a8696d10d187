package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"crewhub/internal/models"
)

// UpdateCrewDescription stores the description verbatim.
func (d *DB) UpdateCrewDescription(ctx context.Context, crewID uuid.UUID, description string) error {
	return d.updateCrewColumn(ctx, crewID, "description", description)
}

// UpdateCrewInstagram sets the handle; nil clears it.
func (d *DB) UpdateCrewInstagram(ctx context.Context, crewID uuid.UUID, instagram *string) error {
	return d.updateCrewColumn(ctx, crewID, "instagram", instagram)
}

// UpdateCrewLogo sets the logo URL; nil removes the logo.
func (d *DB) UpdateCrewLogo(ctx context.Context, crewID uuid.UUID, logoURL *string) error {
	return d.updateCrewColumn(ctx, crewID, "logo_image", logoURL)
}

// column is one of the fixed names above, never user input.
func (d *DB) updateCrewColumn(ctx context.Context, crewID uuid.UUID, column string, value any) error {
	query := fmt.Sprintf(`UPDATE crews SET %s = $1, updated_at = NOW() WHERE id = $2`, column)
	result, err := d.Pool.Exec(ctx, query, value, crewID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrCrewNotFound
	}
	return nil
}

type childTable struct {
	name    string
	columns []string // excluding crew_id
}

var childTables = map[models.ChildKind]childTable{
	models.ChildActivityDays:      {name: "crew_activity_days", columns: []string{"day_of_week"}},
	models.ChildActivityLocations: {name: "crew_activity_locations", columns: []string{"location_name"}},
	models.ChildAgeRange:          {name: "crew_age_ranges", columns: []string{"min_age", "max_age"}},
	models.ChildPhotos:            {name: "crew_photos", columns: []string{"photo_url", "display_order"}},
}

// ReplaceChildren swaps a crew's child collection for set in one
// transaction: every existing row is deleted, then the new rows are copied
// in. An empty set leaves the collection empty.
func (d *DB) ReplaceChildren(ctx context.Context, crewID uuid.UUID, set models.ChildSet) error {
	table, ok := childTables[set.Kind()]
	if !ok {
		return fmt.Errorf("unknown child collection %q", set.Kind())
	}

	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE crew_id = $1`, table.name), crewID); err != nil {
		return err
	}

	rows := set.Rows()
	if len(rows) > 0 {
		withCrew := make([][]any, len(rows))
		for i, row := range rows {
			withCrew[i] = append([]any{crewID}, row...)
		}
		columns := append([]string{"crew_id"}, table.columns...)
		if _, err := tx.CopyFrom(ctx, pgx.Identifier{table.name}, columns, pgx.CopyFromRows(withCrew)); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
