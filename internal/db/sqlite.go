package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteStore implements Store using SQLite
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store and applies migrations
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS selections (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			config_key TEXT NOT NULL,
			dir TEXT NOT NULL,
			winner TEXT NOT NULL,
			mean REAL NOT NULL,
			groups_count INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS group_stats (
			selection_id INTEGER NOT NULL REFERENCES selections(id) ON DELETE CASCADE,
			identity TEXT NOT NULL,
			n INTEGER NOT NULL,
			mean REAL NOT NULL,
			variance REAL NOT NULL,
			std_dev REAL NOT NULL,
			PRIMARY KEY (selection_id, identity)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_selections_config_created ON selections(config_key, created_at DESC);`,
	}
	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveSelection stores a selection with its group statistics.
func (s *SQLiteStore) SaveSelection(ctx context.Context, rec SelectionRecord, groups []GroupRecord) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO selections (config_key, dir, winner, mean, groups_count, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ConfigKey, rec.Dir, rec.Winner, rec.Mean, rec.Groups, rec.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert selection: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, g := range groups {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO group_stats (selection_id, identity, n, mean, variance, std_dev) VALUES (?, ?, ?, ?, ?, ?)`,
			id, g.Identity, g.N, g.Mean, g.Variance, g.StdDev)
		if err != nil {
			return 0, fmt.Errorf("failed to insert group %s: %w", g.Identity, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit selection: %w", err)
	}
	return id, nil
}

// History retrieves the most recent selections
func (s *SQLiteStore) History(ctx context.Context, configKey string, limit int) ([]SelectionRecord, error) {
	query := `SELECT id, config_key, dir, winner, mean, groups_count, created_at FROM selections
		WHERE (? = '' OR config_key = ?) ORDER BY created_at DESC, id DESC LIMIT ?`
	rows, err := s.db.QueryContext(ctx, query, configKey, configKey, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSelections(rows)
}

// GroupStats returns the group statistics archived with a selection.
func (s *SQLiteStore) GroupStats(ctx context.Context, selectionID int64) ([]GroupRecord, error) {
	query := `SELECT selection_id, identity, n, mean, variance, std_dev FROM group_stats WHERE selection_id = ? ORDER BY identity`
	rows, err := s.db.QueryContext(ctx, query, selectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanGroups(rows)
}

func scanSelections(rows *sql.Rows) ([]SelectionRecord, error) {
	var results []SelectionRecord
	for rows.Next() {
		var rec SelectionRecord
		if err := rows.Scan(&rec.ID, &rec.ConfigKey, &rec.Dir, &rec.Winner, &rec.Mean, &rec.Groups, &rec.CreatedAt); err != nil {
			return nil, err
		}
		results = append(results, rec)
	}
	return results, rows.Err()
}

func scanGroups(rows *sql.Rows) ([]GroupRecord, error) {
	var results []GroupRecord
	for rows.Next() {
		var g GroupRecord
		if err := rows.Scan(&g.SelectionID, &g.Identity, &g.N, &g.Mean, &g.Variance, &g.StdDev); err != nil {
			return nil, err
		}
		results = append(results, g)
	}
	return results, rows.Err()
}
