package database

import (
	"fmt"

	"swissprop/server/internal/models"
)

func (d *Database) RunMigrations() error {
	if err := d.db.AutoMigrate(&models.SearchLog{}); err != nil {
		return fmt.Errorf("failed to migrate search_logs table: %w", err)
	}

	// Composite index for per-city history queries
	if err := d.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_search_logs_city_created
		ON search_logs(city, created_at);
	`).Error; err != nil {
		return err
	}

	return nil
}
