package historystore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/nutrisnap/internal/domain/history"
)

// PostgresStore persists history in Postgres using pgx.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore constructs the store and ensures its table exists.
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool) (*PostgresStore, error) {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS nutrition_history (
			id BIGSERIAL PRIMARY KEY,
			recorded_at TEXT NOT NULL,
			source TEXT NOT NULL,
			total_calories INTEGER NOT NULL,
			items TEXT NOT NULL,
			nutrients TEXT NOT NULL,
			assessment TEXT NOT NULL
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("create history table: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Append inserts one history row.
func (r *PostgresStore) Append(ctx context.Context, entry history.Entry) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO nutrition_history (recorded_at, source, total_calories, items, nutrients, assessment)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, entry.Timestamp, entry.Source, entry.TotalCalories, entry.Items, entry.Nutrients, entry.Assessment)
	return err
}

// List returns every row in insertion order.
func (r *PostgresStore) List(ctx context.Context) ([]history.Entry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT recorded_at, source, total_calories, items, nutrients, assessment
		FROM nutrition_history
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (history.Entry, error) {
	var entry history.Entry
	if err := row.Scan(
		&entry.Timestamp,
		&entry.Source,
		&entry.TotalCalories,
		&entry.Items,
		&entry.Nutrients,
		&entry.Assessment,
	); err != nil {
		return history.Entry{}, fmt.Errorf("scan history row: %w", err)
	}
	return entry, nil
}

var _ history.Repository = (*PostgresStore)(nil)
