package database

import (
	"fmt"

	"jobboard_backend/internal/logger"
	"jobboard_backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens the GORM connection and verifies it is reachable.
func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to GORM: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get *sql.DB from GORM: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database unavailable: %w", err)
	}
	return db, nil
}

// AutoMigrate creates or updates the schema for every model. The uuid
// extension backs the default primary keys.
func AutoMigrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return fmt.Errorf("failed to enable uuid-ossp: %w", err)
	}

	err := db.AutoMigrate(
		&models.User{},
		&models.Job{},
		&models.Application{},
		&models.PaymentRecord{},
	)
	if err != nil {
		return fmt.Errorf("automigrate failed: %w", err)
	}

	logger.Info("AutoMigrate completed")
	return nil
}
