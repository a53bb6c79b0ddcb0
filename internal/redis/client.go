package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"order_ledger/internal/models"
)

// Client caches menu lookups so the order screen doesn't hit postgres for
// every catalog read. The ledger never depends on it for correctness; a cache
// miss or a dead redis just falls through to the database.
type Client struct {
	rdb *redis.Client
}

func Initialize(redisURL string) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	// Test connection
	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

var ErrCacheMiss = fmt.Errorf("cache miss")

func (c *Client) SetMenuItem(ctx context.Context, item *models.MenuItem, ttl time.Duration) error {
	jsonData, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal menu item: %w", err)
	}
	key := fmt.Sprintf("menu:%d", item.ID)
	return c.rdb.Set(ctx, key, jsonData, ttl).Err()
}

func (c *Client) GetMenuItem(ctx context.Context, id uint) (*models.MenuItem, error) {
	key := fmt.Sprintf("menu:%d", id)
	val, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get menu item: %w", err)
	}

	var item models.MenuItem
	if err := json.Unmarshal([]byte(val), &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal menu item: %w", err)
	}
	return &item, nil
}

func (c *Client) InvalidateMenuItem(ctx context.Context, id uint) error {
	return c.rdb.Del(ctx, fmt.Sprintf("menu:%d", id)).Err()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
