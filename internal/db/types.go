package db

import (
	"context"
	"time"
)

// SelectionRecord is one archived analysis outcome.
type SelectionRecord struct {
	ID        int64     `json:"id"`
	ConfigKey string    `json:"config_key"`
	Dir       string    `json:"dir"`
	Winner    string    `json:"winner"`
	Mean      float64   `json:"mean"`
	Groups    int       `json:"groups"`
	CreatedAt time.Time `json:"created_at"`
}

// GroupRecord holds the statistics of one group of an archived analysis.
type GroupRecord struct {
	SelectionID int64   `json:"selection_id"`
	Identity    string  `json:"identity"`
	N           int     `json:"n"`
	Mean        float64 `json:"mean"`
	Variance    float64 `json:"variance"`
	StdDev      float64 `json:"std_dev"`
}

// Store archives analysis results.
type Store interface {
	Close() error
	// SaveSelection stores a selection and its group statistics atomically
	// and returns the new selection ID.
	SaveSelection(ctx context.Context, rec SelectionRecord, groups []GroupRecord) (int64, error)
	// History returns the most recent selections, newest first. An empty
	// configKey matches every configuration.
	History(ctx context.Context, configKey string, limit int) ([]SelectionRecord, error)
	GroupStats(ctx context.Context, selectionID int64) ([]GroupRecord, error)
}
