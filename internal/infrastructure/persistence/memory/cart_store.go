package memory

import (
	"context"
	"sync"
)

// CartStore is the in-memory CartStore used by tests and local development.
type CartStore struct {
	mu    sync.RWMutex
	carts map[string][]byte
}

func NewCartStore() *CartStore {
	return &CartStore{carts: make(map[string][]byte)}
}

func (s *CartStore) Load(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.carts[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (s *CartStore) Save(ctx context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	s.carts[key] = stored
	return nil
}

func (s *CartStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, key)
	return nil
}

// IdempotencyRegistry is the in-memory counterpart of the Redis registry.
type IdempotencyRegistry struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewIdempotencyRegistry() *IdempotencyRegistry {
	return &IdempotencyRegistry{seen: make(map[string]struct{})}
}

func (r *IdempotencyRegistry) Register(ctx context.Context, key string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.seen[key]; ok {
		return false, nil
	}
	r.seen[key] = struct{}{}
	return true, nil
}

func (r *IdempotencyRegistry) Release(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.seen, key)
	return nil
}
