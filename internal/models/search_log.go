package models

import "time"

// SearchLog is one executed search query. Only the query and its outcome are
// stored; listings themselves are never persisted.
type SearchLog struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	City          string    `gorm:"index" json:"city"`
	Canton        string    `json:"canton"`
	PropertyType  string    `json:"property_type"`
	MinPrice      float64   `json:"min_price"`
	MaxPrice      float64   `json:"max_price"`
	Limit         int       `gorm:"column:result_limit" json:"limit"`
	ResultCount   int       `json:"result_count"`
	UnderFilled   bool      `json:"under_filled"`
	FailureKind   string    `json:"failure_kind,omitempty"`
	FailureReason string    `json:"failure_reason,omitempty"`
	DurationMs    int64     `json:"duration_ms"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
}
