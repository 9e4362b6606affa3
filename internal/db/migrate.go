package db

import (
	"fmt"

	"github.com/itzmeahammed/automate-schdeule-sub000/internal/models"
	"gorm.io/gorm"
)

// AllModels returns every GORM model for migration.
func AllModels() []interface{} {
	return []interface{}{
		&models.Machine{},
		&models.Product{},
		&models.ProcessStep{},
		&models.PurchaseOrder{},
		&models.Shift{},
		&models.Holiday{},
		&models.ScheduleItem{},
		&models.ScheduleConflict{},
		&models.ScheduleRun{},
	}
}

// AutoMigrate creates or updates all tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}
