package repository

import (
	"context"
)

// CartStore is the persistence port behind the cart service. It stores the
// serialized cart envelope under an opaque per-session key and knows nothing
// about its contents. Backed by Redis in production and an in-memory map in
// tests; the storefront treats both as a single-writer store, so concurrent
// writers race last-writer-wins by design of the original storage model.
type CartStore interface {
	// Load returns the raw persisted cart, or nil when none exists.
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyRegistry remembers idempotency keys that already completed a
// submission so a replay of the same logical attempt is refused before it
// reaches the provider.
type IdempotencyRegistry interface {
	// Register claims the key. It returns false when the key was already
	// claimed by an earlier successful submission.
	Register(ctx context.Context, key string) (bool, error)
	// Release frees a claimed key after a failed submission so the same
	// logical attempt can be retried.
	Release(ctx context.Context, key string) error
}
