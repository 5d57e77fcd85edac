package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache TTLs
const (
	TTLCommentPage = 30 * time.Second // comment pages (invalidated on mutation anyway)
	TTLDefault     = 5 * time.Minute
)

// Cache key prefixes
const (
	PrefixCommentPage = "comments:page:"
)

// Service Redis cache service interface
type Service interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error

	// Comment page cache
	GetCommentPage(ctx context.Context, page, limit int, dest interface{}) error
	SetCommentPage(ctx context.Context, page, limit int, data interface{}) error
	InvalidateCommentPages(ctx context.Context) error

	IsAvailable() bool
}

type redisCache struct {
	client *redis.Client
}

// NewService creates a Redis-backed cache service
func NewService(client *redis.Client) Service {
	return &redisCache{client: client}
}

func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func commentPageKey(page, limit int) string {
	return fmt.Sprintf("%s%d:%d", PrefixCommentPage, page, limit)
}

func (c *redisCache) GetCommentPage(ctx context.Context, page, limit int, dest interface{}) error {
	return c.Get(ctx, commentPageKey(page, limit), dest)
}

func (c *redisCache) SetCommentPage(ctx context.Context, page, limit int, data interface{}) error {
	return c.Set(ctx, commentPageKey(page, limit), data, TTLCommentPage)
}

// InvalidateCommentPages drops every cached comment page. Pages are keyed by
// page and limit, so a pattern scan is the only safe way to catch them all.
func (c *redisCache) InvalidateCommentPages(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, PrefixCommentPage+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	return c.Delete(ctx, keys...)
}

func (c *redisCache) IsAvailable() bool {
	return c.client != nil
}
