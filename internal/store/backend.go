package store

import "context"

// Backend is the durable key-value persistence collaborator. Implementations
// live in internal/infrastructure/kv (memory, redis, postgres).
type Backend interface {
	// Get returns the value for key, or found=false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	// Set durably writes the value for key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
}
