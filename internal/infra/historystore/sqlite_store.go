package historystore

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/yanqian/nutrisnap/internal/domain/history"
)

// SQLiteStore persists history in an embedded SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and if needed creates) the database at path.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite history: %w", err)
	}
	db.SetMaxOpenConns(1)
	store := &SQLiteStore{db: db}
	if err := store.initSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS nutrition_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		recorded_at TEXT NOT NULL,
		source TEXT NOT NULL,
		total_calories INTEGER NOT NULL,
		items TEXT NOT NULL,
		nutrients TEXT NOT NULL,
		assessment TEXT NOT NULL
	);
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create history schema: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Append(ctx context.Context, entry history.Entry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO nutrition_history (recorded_at, source, total_calories, items, nutrients, assessment)
		VALUES (?, ?, ?, ?, ?, ?)
	`, entry.Timestamp, entry.Source, entry.TotalCalories, entry.Items, entry.Nutrients, entry.Assessment)
	if err != nil {
		return fmt.Errorf("insert history row: %w", err)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]history.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT recorded_at, source, total_calories, items, nutrients, assessment
		FROM nutrition_history
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()
	var entries []history.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

var _ history.Repository = (*SQLiteStore)(nil)
