package ports

import "context"

// KeyValueStore is the persistence port for the wallet's durable state.
// Values are opaque byte strings; the engine owns the encoding.
type KeyValueStore interface {
	// Get returns the stored value, or nil, nil when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores a value under the key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes the key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
