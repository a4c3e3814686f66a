package database

import (
	"log"

	"notebin-app/notebin/models"

	"gorm.io/gorm"
)

// RunMigrations runs database migrations to ensure tables are up to date
func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&models.Note{},
		&models.Report{},
		&models.ReportGuard{},
		&models.ModerationLogEntry{},
		&models.RateLimitCounter{},
	)

	if err != nil {
		log.Printf("Migration failed: %v", err)
		return err
	}

	return nil
}
