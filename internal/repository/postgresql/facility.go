package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/liefcare/workforce-backend/internal/domain/facility"
	"github.com/liefcare/workforce-backend/internal/pkg/database"
)

type facilityRepository struct {
	db *database.DB
}

func NewFacilityRepository(db *database.DB) facility.SettingsRepository {
	return &facilityRepository{db: db}
}

const facilitySelect = `
	SELECT f.id, f.name, f.latitude, f.longitude, f.radius_km, f.manager_user_id,
		   f.created_at, f.updated_at, u.name
	FROM facility_settings f
	LEFT JOIN users u ON u.id = f.manager_user_id
`

func scanSettings(row pgx.Row) (facility.Settings, error) {
	var s facility.Settings
	err := row.Scan(
		&s.ID, &s.Name, &s.Latitude, &s.Longitude, &s.RadiusKm, &s.ManagerUserID,
		&s.CreatedAt, &s.UpdatedAt, &s.ManagerName,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return facility.Settings{}, facility.ErrSettingsNotFound
		}
		return facility.Settings{}, fmt.Errorf("failed to get facility settings: %w", err)
	}
	return s, nil
}

// GetCurrent implements facility.SettingsRepository.
func (r *facilityRepository) GetCurrent(ctx context.Context) (facility.Settings, error) {
	q := GetQuerier(ctx, r.db)
	return scanSettings(q.QueryRow(ctx, facilitySelect+" ORDER BY f.created_at ASC LIMIT 1"))
}

// GetByID implements facility.SettingsRepository.
func (r *facilityRepository) GetByID(ctx context.Context, id string) (facility.Settings, error) {
	q := GetQuerier(ctx, r.db)
	return scanSettings(q.QueryRow(ctx, facilitySelect+" WHERE f.id = $1", id))
}

// Update implements facility.SettingsRepository.
func (r *facilityRepository) Update(ctx context.Context, id string, req facility.UpdateSettingsRequest) (facility.Settings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE facility_settings
		SET latitude = $1, longitude = $2, radius_km = $3, name = COALESCE($4, name), updated_at = NOW()
		WHERE id = $5
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query, req.Latitude, req.Longitude, req.RadiusKm, req.Name, id).Scan(&updatedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return facility.Settings{}, facility.ErrSettingsNotFound
		}
		return facility.Settings{}, fmt.Errorf("failed to update facility settings: %w", err)
	}

	return r.GetByID(ctx, updatedID)
}
