package models

import (
	"time"

	"nearby/pkg/location"

	"gorm.io/gorm"
)

// UserLocation is the last fix a directory user shared. Hidden rows are never
// returned as candidates.
type UserLocation struct {
	ID                uint           `gorm:"primaryKey" json:"-"`
	UserID            string         `gorm:"uniqueIndex;size:64;not null" json:"user_id"`
	Latitude          float64        `gorm:"type:decimal(10,8);not null;index:idx_location_lat_lng" json:"-"`
	Longitude         float64        `gorm:"type:decimal(11,8);not null;index:idx_location_lat_lng" json:"-"`
	AccuracyMeters    float64        `gorm:"type:decimal(8,2)" json:"accuracy_meters"`
	IsLocationVisible bool           `gorm:"default:true" json:"is_location_visible"`
	LastUpdatedAt     time.Time      `gorm:"not null;index" json:"last_updated_at"`
	CreatedAt         time.Time      `json:"-"`
	UpdatedAt         time.Time      `json:"-"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

func (UserLocation) TableName() string {
	return "user_locations"
}

// Coordinate converts the stored row to a fix.
func (l *UserLocation) Coordinate() location.Coordinate {
	return location.Coordinate{
		Latitude:       l.Latitude,
		Longitude:      l.Longitude,
		AccuracyMeters: l.AccuracyMeters,
		TimestampMs:    l.LastUpdatedAt.UnixMilli(),
	}
}
