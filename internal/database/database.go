package database

import (
	"context"
	"fmt"
	"time"

	"nearby/config"
	"nearby/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the directory database and verifies the connection.
func Open(ctx context.Context, cfg *config.DirectoryConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Error),
		SkipDefaultTransaction: true, // read-only workload
	})
	if err != nil {
		return nil, fmt.Errorf("open directory db: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("open directory db: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("open directory db: ping: %w", err)
	}
	return db, nil
}

// AutoMigrate creates the directory tables when they are missing. It never touches rows.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Profile{}, &models.UserLocation{}); err != nil {
		return fmt.Errorf("migrate directory: %w", err)
	}
	return nil
}
