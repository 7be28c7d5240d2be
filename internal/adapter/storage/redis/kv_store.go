// Package redis provides a Redis-backed KeyValueStore for the wallet's
// persisted balance and purchase history.
package redis

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
)

// KVStore implements ports.KeyValueStore using Redis. Keys are namespaced
// under a prefix so a shared Redis instance stays tidy.
type KVStore struct {
	client *goredis.Client
	prefix string
}

// NewKVStore creates a new Redis-backed key-value store.
func NewKVStore(client *goredis.Client) *KVStore {
	return &KVStore{
		client: client,
		prefix: "wallet:",
	}
}

// Get returns the stored value, or nil, nil when the key is absent.
func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis kv get: %w", err)
	}
	return val, nil
}

// Set stores a value under the key. Wallet state has no expiry.
func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis kv set: %w", err)
	}
	return nil
}

// Delete removes the key. Deleting an absent key is not an error.
func (s *KVStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis kv delete: %w", err)
	}
	return nil
}
