package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// LocalStorageRepository stores key/value documents in the local_storage
// table. It satisfies storage.Storage.
type LocalStorageRepository struct {
	db *sql.DB
}

func NewLocalStorageRepository(db *sql.DB) *LocalStorageRepository {
	return &LocalStorageRepository{db: db}
}

func (r *LocalStorageRepository) GetItem(ctx context.Context, key string) ([]byte, bool, error) {
	query := `
		SELECT value
		FROM local_storage
		WHERE key = ?
	`

	var value []byte
	err := r.db.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get item %q: %w", key, err)
	}

	return value, true, nil
}

func (r *LocalStorageRepository) SetItem(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO local_storage (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`

	if _, err := r.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to set item %q: %w", key, err)
	}
	return nil
}

func (r *LocalStorageRepository) RemoveItem(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM local_storage WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to remove item %q: %w", key, err)
	}
	return nil
}

// Keys lists the stored keys in lexical order.
func (r *LocalStorageRepository) Keys(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT key FROM local_storage ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("failed to query keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan key: %w", err)
		}
		keys = append(keys, key)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return keys, nil
}
