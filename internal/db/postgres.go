package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"
)

// PostgresStore implements Store using PostgreSQL
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new Postgres store and applies migrations
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

func (s *PostgresStore) migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS selections (
			id SERIAL PRIMARY KEY,
			config_key TEXT NOT NULL,
			dir TEXT NOT NULL,
			winner TEXT NOT NULL,
			mean DOUBLE PRECISION NOT NULL,
			groups_count INTEGER NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS group_stats (
			selection_id INTEGER NOT NULL REFERENCES selections(id) ON DELETE CASCADE,
			identity TEXT NOT NULL,
			n INTEGER NOT NULL,
			mean DOUBLE PRECISION NOT NULL,
			variance DOUBLE PRECISION NOT NULL,
			std_dev DOUBLE PRECISION NOT NULL,
			PRIMARY KEY (selection_id, identity)
		);`,
	}
	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return err
		}
	}

	// Indexes are an optimization; a failure here does not block archiving.
	if _, err := s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_selections_config_created ON selections(config_key, created_at DESC)`); err != nil {
		slog.Debug("failed to create selections index", "error", err)
	}
	return nil
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// SaveSelection stores a selection with its group statistics.
func (s *PostgresStore) SaveSelection(ctx context.Context, rec SelectionRecord, groups []GroupRecord) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	var id int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO selections (config_key, dir, winner, mean, groups_count, created_at) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		rec.ConfigKey, rec.Dir, rec.Winner, rec.Mean, rec.Groups, rec.CreatedAt).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert selection: %w", err)
	}

	for _, g := range groups {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO group_stats (selection_id, identity, n, mean, variance, std_dev) VALUES ($1, $2, $3, $4, $5, $6)`,
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
func (s *PostgresStore) History(ctx context.Context, configKey string, limit int) ([]SelectionRecord, error) {
	query := `SELECT id, config_key, dir, winner, mean, groups_count, created_at FROM selections
		WHERE ($1 = '' OR config_key = $1) ORDER BY created_at DESC, id DESC LIMIT $2`
	rows, err := s.db.QueryContext(ctx, query, configKey, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSelections(rows)
}

// GroupStats returns the group statistics archived with a selection.
func (s *PostgresStore) GroupStats(ctx context.Context, selectionID int64) ([]GroupRecord, error) {
	query := `SELECT selection_id, identity, n, mean, variance, std_dev FROM group_stats WHERE selection_id = $1 ORDER BY identity`
	rows, err := s.db.QueryContext(ctx, query, selectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanGroups(rows)
}
