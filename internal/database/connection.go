package database

import (
	"fmt"
	"log"
	"order_ledger/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Initialize(databaseURL string) (*gorm.DB, error) {
	// TranslateError is required: order number collisions must surface as
	// gorm.ErrDuplicatedKey so the mutation engine can retry them.
	config := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	}

	db, err := gorm.Open(postgres.Open(databaseURL), config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Println("Database connected and migrated successfully")
	return db, nil
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Cashier{},
		&models.MenuItem{},
		&models.PosSetting{},
		&models.Shift{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderModification{},
	)
}
