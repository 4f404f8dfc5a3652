package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"pizza-store/internal/domain"
)

// MenuCache fronts menu listings. A miss (or any cache error) falls through
// to the database; the cache is never authoritative.
type MenuCache interface {
	Get(ctx context.Context, key string) ([]domain.Item, bool)
	Set(ctx context.Context, key string, items []domain.Item)
	Invalidate(ctx context.Context)
}

type redisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedis(rdb *redis.Client, ttl time.Duration) MenuCache {
	return &redisCache{rdb: rdb, ttl: ttl}
}

// Keys carry a generation number; Invalidate bumps the generation, which
// orphans every existing entry at once and lets TTL reap them.
func (c *redisCache) generation(ctx context.Context) int64 {
	gen, err := c.rdb.Get(ctx, "menu:gen").Int64()
	if err != nil {
		return 0
	}
	return gen
}

func (c *redisCache) fullKey(ctx context.Context, key string) string {
	return fmt.Sprintf("menu:%d:%s", c.generation(ctx), key)
}

func (c *redisCache) Get(ctx context.Context, key string) ([]domain.Item, bool) {
	raw, err := c.rdb.Get(ctx, c.fullKey(ctx, key)).Bytes()
	if err != nil {
		return nil, false
	}
	var items []domain.Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	return items, true
}

func (c *redisCache) Set(ctx context.Context, key string, items []domain.Item) {
	raw, err := json.Marshal(items)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, c.fullKey(ctx, key), raw, c.ttl).Err()
}

func (c *redisCache) Invalidate(ctx context.Context) {
	_ = c.rdb.Incr(ctx, "menu:gen").Err()
}

// Noop disables caching when no redis address is configured.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]domain.Item, bool) { return nil, false }
func (Noop) Set(context.Context, string, []domain.Item)        {}
func (Noop) Invalidate(context.Context)                        {}
