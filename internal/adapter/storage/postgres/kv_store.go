package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// KVStore implements ports.KeyValueStore over the wallet_kv table.
type KVStore struct {
	pool Pool
}

// NewKVStore creates a new PostgreSQL-backed key-value store.
func NewKVStore(pool Pool) *KVStore {
	return &KVStore{pool: pool}
}

// Get returns the stored value, or nil, nil when the key is absent.
func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT value FROM wallet_kv WHERE key = $1`

	var value string
	err := s.pool.QueryRow(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get wallet kv entry: %w", err)
	}
	return []byte(value), nil
}

// Set upserts the value under the key.
func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	query := `INSERT INTO wallet_kv (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`

	if _, err := s.pool.Exec(ctx, query, key, string(value)); err != nil {
		return fmt.Errorf("upsert wallet kv entry: %w", err)
	}
	return nil
}

// Delete removes the key. Deleting an absent key is not an error.
func (s *KVStore) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM wallet_kv WHERE key = $1`

	if _, err := s.pool.Exec(ctx, query, key); err != nil {
		return fmt.Errorf("delete wallet kv entry: %w", err)
	}
	return nil
}
