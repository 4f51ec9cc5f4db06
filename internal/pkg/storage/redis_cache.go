package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mxxx222/TennisBot-sub003/internal/pkg/config"
)

// Ensure RedisCache implements DedupCache
var _ DedupCache = (*RedisCache)(nil)

const dedupKeyPrefix = "fixture_seen:"

// RedisCache is the restart-surviving idempotency set. Keys expire after the
// configured TTL so the set tracks the scraping window instead of growing
// forever.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(cfg config.RedisConfig, ttl time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCache{client: client, ttl: ttl}, nil
}

func (c *RedisCache) Seen(ctx context.Context, id string) (bool, error) {
	n, err := c.client.Exists(ctx, dedupKeyPrefix+id).Result()
	if err != nil {
		return false, fmt.Errorf("check dedup key: %w", err)
	}
	return n > 0, nil
}

func (c *RedisCache) Add(ctx context.Context, id string) error {
	if err := c.client.Set(ctx, dedupKeyPrefix+id, 1, c.ttl).Err(); err != nil {
		return fmt.Errorf("set dedup key: %w", err)
	}
	return nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
