package database

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"swissprop/server/internal/failure"
	"swissprop/server/internal/models"
	"swissprop/server/internal/search"
)

// maxRecentSearches caps RecentSearches regardless of the requested limit.
const maxRecentSearches = 100

type Database struct {
	db *gorm.DB
}

// NewDatabase opens the SQLite search log at dbPath, creating its directory
// when needed. ":memory:" opens an in-memory database.
func NewDatabase(dbPath string) (*Database, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows a single writer
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	return &Database{db: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// NewSearchLog builds the log entry for one executed search. err is the
// error returned by the search, if any.
func NewSearchLog(q search.Query, result search.Result, err error, elapsed time.Duration) models.SearchLog {
	entry := models.SearchLog{
		City:         q.City,
		Canton:       q.Canton,
		PropertyType: q.PropertyType,
		MinPrice:     finite(q.MinPrice),
		MaxPrice:     finite(q.MaxPrice),
		Limit:        q.Limit,
		ResultCount:  len(result.Properties),
		UnderFilled:  result.UnderFilled,
		DurationMs:   elapsed.Milliseconds(),
	}
	if result.CantonCode != "" {
		entry.Canton = result.CantonCode
	}
	if err != nil {
		entry.ResultCount = 0
		entry.UnderFilled = false
		entry.FailureReason = err.Error()
		var ferr *failure.Error
		if errors.As(err, &ferr) {
			entry.FailureKind = ferr.Kind.String()
		}
	}
	return entry
}

// finite maps NaN and infinities to 0 so rejected queries still store and
// encode as JSON.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// RecordSearch stores entry, assigning an ID and timestamp when unset.
func (d *Database) RecordSearch(entry *models.SearchLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if err := d.db.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to record search: %w", err)
	}
	return nil
}

// RecentSearches returns the latest searches, newest first. city, when set,
// restricts the result to that city (case-insensitive).
func (d *Database) RecentSearches(limit int, city string) ([]models.SearchLog, error) {
	if limit <= 0 || limit > maxRecentSearches {
		limit = maxRecentSearches
	}

	query := d.db.Model(&models.SearchLog{})
	if city != "" {
		query = query.Where("LOWER(city) = LOWER(?)", city)
	}

	var logs []models.SearchLog
	if err := query.Order("created_at DESC").Limit(limit).Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to query searches: %w", err)
	}
	return logs, nil
}

// SearchStats summarizes the stored search log.
type SearchStats struct {
	TotalSearches int64   `json:"total_searches"`
	Failed        int64   `json:"failed"`
	UnderFilled   int64   `json:"under_filled"`
	AvgResults    float64 `json:"avg_results"`
	AvgDurationMs float64 `json:"avg_duration_ms"`
}

// GetSearchStats aggregates the search log, optionally for one city.
func (d *Database) GetSearchStats(city string) (SearchStats, error) {
	query := d.db.Model(&models.SearchLog{})
	if city != "" {
		query = query.Where("LOWER(city) = LOWER(?)", city)
	}

	var stats SearchStats
	err := query.Select(`
		COUNT(*) AS total_searches,
		COALESCE(SUM(CASE WHEN failure_kind <> '' THEN 1 ELSE 0 END), 0) AS failed,
		COALESCE(SUM(CASE WHEN under_filled THEN 1 ELSE 0 END), 0) AS under_filled,
		COALESCE(AVG(result_count), 0) AS avg_results,
		COALESCE(AVG(duration_ms), 0) AS avg_duration_ms
	`).Scan(&stats).Error
	if err != nil {
		return SearchStats{}, fmt.Errorf("failed to aggregate searches: %w", err)
	}
	return stats, nil
}
