package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"crewhub/internal/models"
)

// ListVisibleCrews returns the public directory: visible crews with their
// location, activity days and age range. Photos and activity locations are
// only loaded on the detail view.
func (d *DB) ListVisibleCrews(ctx context.Context) ([]models.Crew, error) {
	query := `
		SELECT c.id, c.name, c.description, c.instagram, c.founded_at, c.logo_image,
			c.is_visible, c.created_at, c.updated_at,
			l.main_address, l.detail_address, l.latitude, l.longitude,
			COALESCE((
				SELECT array_agg(d.day_of_week ORDER BY d.id)
				FROM crew_activity_days d WHERE d.crew_id = c.id
			), '{}'::text[]),
			ar.min_age, ar.max_age
		FROM crews c
		LEFT JOIN crew_locations l ON l.crew_id = c.id
		LEFT JOIN LATERAL (
			SELECT min_age, max_age FROM crew_age_ranges
			WHERE crew_id = c.id ORDER BY id DESC LIMIT 1
		) ar ON TRUE
		WHERE c.is_visible
		ORDER BY c.name ASC
	`
	rows, err := d.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	crews := []models.Crew{}
	for rows.Next() {
		var (
			crew           models.Crew
			address        *string
			detail         *string
			lat, lng       *float64
			minAge, maxAge *int
		)
		if err := rows.Scan(
			&crew.ID, &crew.Name, &crew.Description, &crew.Instagram, &crew.FoundedAt, &crew.LogoURL,
			&crew.Visible, &crew.CreatedAt, &crew.UpdatedAt,
			&address, &detail, &lat, &lng,
			&crew.ActivityDays,
			&minAge, &maxAge,
		); err != nil {
			return nil, err
		}
		if address != nil {
			crew.Location = &models.CrewLocation{Address: *address, DetailAddress: detail}
			if lat != nil && lng != nil {
				crew.Location.Latitude, crew.Location.Longitude = *lat, *lng
			}
		}
		if minAge != nil && maxAge != nil {
			crew.AgeRange = &models.AgeRange{MinAge: *minAge, MaxAge: *maxAge}
		}
		crews = append(crews, crew)
	}
	return crews, rows.Err()
}

// GetCrewByID loads a crew with every child collection, regardless of
// visibility. Callers serving the public decide whether to show it.
func (d *DB) GetCrewByID(ctx context.Context, id uuid.UUID) (*models.Crew, error) {
	var (
		crew     models.Crew
		address  *string
		detail   *string
		lat, lng *float64
	)
	err := d.Pool.QueryRow(ctx, `
		SELECT c.id, c.name, c.description, c.instagram, c.founded_at, c.logo_image,
			c.is_visible, c.created_at, c.updated_at,
			l.main_address, l.detail_address, l.latitude, l.longitude
		FROM crews c
		LEFT JOIN crew_locations l ON l.crew_id = c.id
		WHERE c.id = $1
	`, id).Scan(
		&crew.ID, &crew.Name, &crew.Description, &crew.Instagram, &crew.FoundedAt, &crew.LogoURL,
		&crew.Visible, &crew.CreatedAt, &crew.UpdatedAt,
		&address, &detail, &lat, &lng,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCrewNotFound
	}
	if err != nil {
		return nil, err
	}
	if address != nil {
		crew.Location = &models.CrewLocation{Address: *address, DetailAddress: detail}
		if lat != nil && lng != nil {
			crew.Location.Latitude, crew.Location.Longitude = *lat, *lng
		}
	}

	if crew.ActivityDays, err = d.listStrings(ctx,
		`SELECT day_of_week FROM crew_activity_days WHERE crew_id = $1 ORDER BY id`, id); err != nil {
		return nil, err
	}
	if crew.ActivityLocations, err = d.listStrings(ctx,
		`SELECT location_name FROM crew_activity_locations WHERE crew_id = $1 ORDER BY id`, id); err != nil {
		return nil, err
	}

	var ar models.AgeRange
	err = d.Pool.QueryRow(ctx, `
		SELECT min_age, max_age FROM crew_age_ranges
		WHERE crew_id = $1 ORDER BY id DESC LIMIT 1
	`, id).Scan(&ar.MinAge, &ar.MaxAge)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
	case err != nil:
		return nil, err
	default:
		crew.AgeRange = &ar
	}

	rows, err := d.Pool.Query(ctx, `
		SELECT photo_url, display_order FROM crew_photos
		WHERE crew_id = $1 ORDER BY display_order, id
	`, id)
	if err != nil {
		return nil, err
	}
	crew.Photos, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.CrewPhoto, error) {
		var p models.CrewPhoto
		err := row.Scan(&p.URL, &p.DisplayOrder)
		return p, err
	})
	if err != nil {
		return nil, err
	}

	return &crew, nil
}

func (d *DB) listStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := d.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// SetCrewVisibility shows or hides a crew in the public directory.
func (d *DB) SetCrewVisibility(ctx context.Context, id uuid.UUID, visible bool) error {
	result, err := d.Pool.Exec(ctx, `
		UPDATE crews SET is_visible = $1, updated_at = NOW() WHERE id = $2
	`, visible, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrCrewNotFound
	}
	return nil
}
