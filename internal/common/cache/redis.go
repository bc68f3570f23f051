// internal/common/cache/redis.go
package cache

import (
	"context"
	"fmt"
	"time"

	"release-note-workers/internal/common/config"

	"github.com/redis/go-redis/v9"
)

// Client wraps the Redis client used for the terminology-definition cache.
type Client struct {
	Client *redis.Client
	ttl    time.Duration
}

// New creates a new Redis cache client.
func New(cfg config.CacheConfig) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	return &Client{Client: rdb, ttl: time.Duration(cfg.TTL) * time.Second}, nil
}

// NewWithClient wraps an existing *redis.Client (used by tests).
func NewWithClient(rdb *redis.Client, ttl time.Duration) *Client {
	return &Client{Client: rdb, ttl: ttl}
}

// Ping tests the Redis connection.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	if c.Client != nil {
		return c.Client.Close()
	}
	return nil
}

// GetDefinition returns a cached layperson definition for a keyword.
func (c *Client) GetDefinition(ctx context.Context, keyword string) (string, error) {
	return c.Client.Get(ctx, definitionKey(keyword)).Result()
}

// SetDefinition stores a layperson definition for a keyword with the
// configured TTL.
func (c *Client) SetDefinition(ctx context.Context, keyword, definition string) error {
	return c.Client.Set(ctx, definitionKey(keyword), definition, c.ttl).Err()
}

func definitionKey(keyword string) string {
	return "kwdef:" + keyword
}
