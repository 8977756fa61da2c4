package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Client wraps the Redis connection used as the application's persistent
// key-value store: get, set, delete, and prefix scan.
type Client struct {
	rdb        *redis.Client
	KeyBuilder *KeyBuilder
	log        *zap.Logger
}

// Key patterns for stored records
const (
	KeyProfile     = "profile:%s"        // profile:{userID}
	KeyPersonality = "personality:%s"    // personality:{userID}
	KeyChatMessage = "chat:%s:%020d:%s"  // chat:{matchID}:{unixNano}:{msgID}
	KeyChatPrefix  = "chat:%s:"          // conversation scan prefix
	KeyDailyAnswer = "answer:%s:%s"      // answer:{userID}:{questionID}
)

// NewClient creates a new Redis client
func NewClient(redisURL string, environment string, log *zap.Logger) (*Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opts.PoolSize = 20
	opts.MinIdleConns = 2
	opts.MaxRetries = 3
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb, KeyBuilder: NewKeyBuilder(environment), log: log}, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	if c.rdb != nil {
		return c.rdb.Close()
	}
	return nil
}

// IsNotFound reports whether err is the Redis "key absent" sentinel
func IsNotFound(err error) bool {
	return err == redis.Nil
}

// Get retrieves a value
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	start := time.Now()
	val, err := c.rdb.Get(ctx, key).Result()
	dur := time.Since(start)
	if err != nil && err != redis.Nil {
		c.log.Info("redis_get",
			zap.String("key_prefix", prefixForLog(key)),
			zap.Duration("duration", dur),
			zap.Error(err))
	} else {
		c.log.Debug("redis_get",
			zap.String("key_prefix", prefixForLog(key)),
			zap.Duration("duration", dur))
	}
	return val, err
}

// Set stores a value; a zero ttl means the key does not expire
func (c *Client) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	start := time.Now()
	err := c.rdb.Set(ctx, key, value, ttl).Err()
	dur := time.Since(start)
	if err != nil {
		c.log.Info("redis_set",
			zap.String("key_prefix", prefixForLog(key)),
			zap.Duration("duration", dur),
			zap.Error(err))
	} else {
		c.log.Debug("redis_set",
			zap.String("key_prefix", prefixForLog(key)),
			zap.Duration("duration", dur))
	}
	return err
}

// Delete removes keys
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	start := time.Now()
	err := c.rdb.Del(ctx, keys...).Err()
	dur := time.Since(start)
	c.log.Debug("redis_del",
		zap.Int("keys", len(keys)),
		zap.Duration("duration", dur),
		zap.Error(err))
	return err
}

// ScanPrefix returns every key beginning with prefix, in unspecified order
func (c *Client) ScanPrefix(ctx context.Context, prefix string) ([]string, error) {
	start := time.Now()
	var keys []string
	iter := c.rdb.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	dur := time.Since(start)
	if err := iter.Err(); err != nil {
		c.log.Info("redis_scan",
			zap.String("key_prefix", prefixForLog(prefix)),
			zap.Duration("duration", dur),
			zap.Error(err))
		return nil, err
	}
	c.log.Debug("redis_scan",
		zap.String("key_prefix", prefixForLog(prefix)),
		zap.Int("keys", len(keys)),
		zap.Duration("duration", dur))
	return keys, nil
}

// MGet retrieves multiple values; absent keys come back as empty strings
func (c *Client) MGet(ctx context.Context, keys ...string) ([]string, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	start := time.Now()
	vals, err := c.rdb.MGet(ctx, keys...).Result()
	dur := time.Since(start)
	if err != nil {
		c.log.Info("redis_mget",
			zap.Int("keys", len(keys)),
			zap.Duration("duration", dur),
			zap.Error(err))
		return nil, err
	}
	c.log.Debug("redis_mget",
		zap.Int("keys", len(keys)),
		zap.Duration("duration", dur))

	result := make([]string, len(vals))
	for i, v := range vals {
		if s, ok := v.(string); ok {
			result[i] = s
		}
	}
	return result, nil
}

// Health checks the Redis connection
func (c *Client) Health(ctx context.Context) error {
	start := time.Now()
	err := c.rdb.Ping(ctx).Err()
	dur := time.Since(start)
	if err != nil {
		c.log.Info("redis_ping",
			zap.Duration("duration", dur),
			zap.Error(err))
	} else {
		c.log.Debug("redis_ping", zap.Duration("duration", dur))
	}
	return err
}

// prefixForLog returns a safe prefix of a key to avoid logging PII
func prefixForLog(key string) string {
	if len(key) <= 24 {
		return key
	}
	return key[:24] + "…"
}
