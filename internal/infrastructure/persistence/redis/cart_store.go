package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/Visionary-Advance/xoco-coffee/internal/config"
)

// idempotencyTTL bounds how long a completed submission blocks replays.
const idempotencyTTL = 24 * time.Hour

// NewClient connects to Redis and verifies the connection.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// CartStore persists serialized carts in Redis, one key per browser
// session. Idle carts expire after the configured TTL; every write renews
// it.
type CartStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCartStore(client *redis.Client, ttlHours int) *CartStore {
	if ttlHours <= 0 {
		ttlHours = 72
	}
	return &CartStore{
		client: client,
		ttl:    time.Duration(ttlHours) * time.Hour,
	}
}

func (s *CartStore) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, cartKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart %s: %w", key, err)
	}
	return data, nil
}

func (s *CartStore) Save(ctx context.Context, key string, data []byte) error {
	if err := s.client.Set(ctx, cartKey(key), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save cart %s: %w", key, err)
	}
	return nil
}

func (s *CartStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, cartKey(key)).Err(); err != nil {
		return fmt.Errorf("delete cart %s: %w", key, err)
	}
	return nil
}

func cartKey(key string) string {
	return "cart:" + key
}

// IdempotencyRegistry claims submission keys with SETNX so a replayed
// submission is refused even across instances.
type IdempotencyRegistry struct {
	client *redis.Client
}

func NewIdempotencyRegistry(client *redis.Client) *IdempotencyRegistry {
	return &IdempotencyRegistry{client: client}
}

func (r *IdempotencyRegistry) Register(ctx context.Context, key string) (bool, error) {
	claimed, err := r.client.SetNX(ctx, idempotencyKey(key), "1", idempotencyTTL).Result()
	if err != nil {
		return false, fmt.Errorf("claim idempotency key %s: %w", key, err)
	}
	return claimed, nil
}

func (r *IdempotencyRegistry) Release(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, idempotencyKey(key)).Err(); err != nil {
		return fmt.Errorf("release idempotency key %s: %w", key, err)
	}
	return nil
}

func idempotencyKey(key string) string {
	return "order:idempotency:" + key
}
