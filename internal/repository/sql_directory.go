package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nearby/internal/models"
	"nearby/pkg/location"
	"nearby/pkg/proximity"

	"gorm.io/gorm"
)

// SQLDirectory reads candidates from user_profiles joined with user_locations.
// It never writes; exact distances are computed by the caller after the
// bounding box pre-filter done here.
type SQLDirectory struct {
	db *gorm.DB
}

func NewSQLDirectory(db *gorm.DB) *SQLDirectory {
	return &SQLDirectory{db: db}
}

type candidateRow struct {
	UserID         string
	FirstName      string
	PhotoRef       string
	Latitude       float64
	Longitude      float64
	AccuracyMeters float64
	LastUpdatedAt  time.Time
}

func (r *SQLDirectory) Candidates(ctx context.Context, center location.Coordinate, radiusKm float64) ([]proximity.TrackedUser, error) {
	latMin, latMax, lngMin, lngMax := location.BoundingBox(center.Latitude, center.Longitude, radiusKm)

	var rows []candidateRow
	err := r.db.WithContext(ctx).Table("user_profiles up").
		Select(`
			up.user_id, up.first_name, up.photo_ref,
			ul.latitude, ul.longitude, ul.accuracy_meters, ul.last_updated_at
		`).
		Joins("INNER JOIN user_locations ul ON ul.user_id = up.user_id AND ul.deleted_at IS NULL").
		Where("up.deleted_at IS NULL").
		Where("ul.is_location_visible = ?", true).
		Where("ul.latitude BETWEEN ? AND ? AND ul.longitude BETWEEN ? AND ?", latMin, latMax, lngMin, lngMax).
		Order("up.id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("directory candidates: %w", err)
	}

	out := make([]proximity.TrackedUser, len(rows))
	for i, row := range rows {
		out[i] = rowToTrackedUser(row)
	}
	return out, nil
}

func rowToTrackedUser(row candidateRow) proximity.TrackedUser {
	return toTrackedUser(
		&models.Profile{UserID: row.UserID, FirstName: row.FirstName, PhotoRef: row.PhotoRef},
		&models.UserLocation{
			Latitude:       row.Latitude,
			Longitude:      row.Longitude,
			AccuracyMeters: row.AccuracyMeters,
			LastUpdatedAt:  row.LastUpdatedAt,
		},
	)
}

func (r *SQLDirectory) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	var p models.Profile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("directory profile %q: %w", userID, err)
	}
	return &p, nil
}
