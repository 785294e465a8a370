package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"todo-back/pkg/config"
	"todo-back/pkg/logger"
)

const (
	lockTTL       = 10 * time.Second
	lockRetryWait = 100 * time.Millisecond
	lockRetries   = 20
)

var ErrLockTimeout = errors.New("timed out waiting for cache lock")

// Client wraps the Redis client used as the task list cache.
type Client struct {
	rdb *redis.Client
}

func NewClient(cfg *config.RedisConfig) (*Client, error) {
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if cfg.Password != "" {
		opt.Password = cfg.Password
	}
	if cfg.DB > 0 {
		opt.DB = cfg.DB
	}

	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}

	logger.Info("Redis connected", "addr", opt.Addr, "db", opt.DB)
	return &Client{rdb: rdb}, nil
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// ScanAndDelete deletes all keys matching a pattern.
func (c *Client) ScanAndDelete(ctx context.Context, pattern string) (int64, error) {
	var deleted int64
	var cursor uint64

	for {
		keys, next, err := c.rdb.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return deleted, err
		}
		if len(keys) > 0 {
			n, err := c.rdb.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, err
			}
			deleted += n
		}
		cursor = next
		if cursor == 0 {
			return deleted, nil
		}
	}
}

// ═══════════════════════════════════════════════════════════════════════════════
// Counters
// ═══════════════════════════════════════════════════════════════════════════════

func (c *Client) Incr(ctx context.Context, key string) (int64, error) {
	return c.rdb.Incr(ctx, key).Result()
}

// GetInt64 returns 0 when the key does not exist.
func (c *Client) GetInt64(ctx context.Context, key string) (int64, error) {
	n, err := c.rdb.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

// ═══════════════════════════════════════════════════════════════════════════════
// JSON Cache Helpers
// ═══════════════════════════════════════════════════════════════════════════════

func (c *Client) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, data, expiration).Err()
}

// GetJSON returns redis.Nil when the key does not exist.
func (c *Client) GetJSON(ctx context.Context, key string, target interface{}) error {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}

// GetOrSet reads key into target, or loads it with getter under a short lock so
// only one instance hits the database on a miss.
func (c *Client) GetOrSet(ctx context.Context, key string, target interface{}, ttl time.Duration, getter func() (interface{}, error)) error {
	lockKey := "lock:" + key

	for attempt := 0; attempt < lockRetries; attempt++ {
		err := c.GetJSON(ctx, key, target)
		if err == nil {
			return nil
		}
		if !errors.Is(err, redis.Nil) {
			return err
		}

		locked, err := c.rdb.SetNX(ctx, lockKey, "1", lockTTL).Result()
		if err != nil {
			return err
		}
		if !locked {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(lockRetryWait):
			}
			continue
		}

		return c.fill(ctx, key, lockKey, target, ttl, getter)
	}
	return ErrLockTimeout
}

func (c *Client) fill(ctx context.Context, key, lockKey string, target interface{}, ttl time.Duration, getter func() (interface{}, error)) error {
	defer c.rdb.Del(context.WithoutCancel(ctx), lockKey)

	// another holder may have filled it between our miss and the lock
	if err := c.GetJSON(ctx, key, target); err == nil {
		return nil
	}

	result, err := getter()
	if err != nil {
		return err
	}

	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	if err := c.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		logger.WarnContext(ctx, "Failed to cache result", "key", key, "error", err)
	}
	return json.Unmarshal(data, target)
}
