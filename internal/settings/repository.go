package settings

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Row is a single persisted setting as stored in the database.
type Row struct {
	Category  Category  `json:"category" db:"category"`
	Key       string    `json:"key" db:"key"`
	Value     string    `json:"value" db:"value"` // JSON-encoded scalar/list/object or raw string
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Store is the read surface the resolver depends on.
type Store interface {
	ListAll(ctx context.Context) ([]Row, error)
}

// Repository handles database operations for settings
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new settings repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// ListAll returns every persisted setting row. The resolver reads this once
// per cache miss.
func (r *Repository) ListAll(ctx context.Context) ([]Row, error) {
	query := `SELECT category, key, value, updated_at FROM settings ORDER BY category, key`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	defer rows.Close()

	var result []Row
	for rows.Next() {
		var row Row
		if err := rows.Scan(&row.Category, &row.Key, &row.Value, &row.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		result = append(result, row)
	}

	return result, rows.Err()
}

// ListCategory returns the persisted rows for one category.
func (r *Repository) ListCategory(ctx context.Context, category Category) ([]Row, error) {
	query := `SELECT category, key, value, updated_at FROM settings WHERE category = $1 ORDER BY key`

	rows, err := r.db.Query(ctx, query, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings for %s: %w", category, err)
	}
	defer rows.Close()

	var result []Row
	for rows.Next() {
		var row Row
		if err := rows.Scan(&row.Category, &row.Key, &row.Value, &row.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		result = append(result, row)
	}

	return result, rows.Err()
}

// Upsert writes one setting value, replacing any existing row for the same
// (category, key) pair.
func (r *Repository) Upsert(ctx context.Context, category Category, key, value string) error {
	query := `
		INSERT INTO settings (category, key, value, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (category, key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`

	if _, err := r.db.Exec(ctx, query, category, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to upsert setting %s.%s: %w", category, key, err)
	}

	return nil
}

// UpsertMany writes a batch of settings for one category in a transaction.
func (r *Repository) UpsertMany(ctx context.Context, category Category, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin settings tx: %w", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()
	query := `
		INSERT INTO settings (category, key, value, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (category, key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`

	for key, value := range values {
		if _, err := tx.Exec(ctx, query, category, key, value, now); err != nil {
			return fmt.Errorf("failed to upsert setting %s.%s: %w", category, key, err)
		}
	}

	return tx.Commit(ctx)
}

// Delete removes one setting row, reverting the key to its default.
func (r *Repository) Delete(ctx context.Context, category Category, key string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM settings WHERE category = $1 AND key = $2`, category, key); err != nil {
		return fmt.Errorf("failed to delete setting %s.%s: %w", category, key, err)
	}
	return nil
}
