// Package cache is the Redis layer behind the product cache and the access
// token deny list. Every read or write degrades to a miss or a no-op when
// Redis is unreachable, so callers never fail because of it.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Options configures the client.
type Options struct {
	Addr     string
	Password string
	DB       int
	// Namespace prefixes every key, e.g. "cartify".
	Namespace string
	// OpTimeout bounds a single command. Zero means 500ms.
	OpTimeout time.Duration
}

// Client is a fail-safe key/value store over Redis.
type Client struct {
	rdb       *redis.Client
	namespace string
	timeout   time.Duration
}

// New creates a client. No connection is made until the first command.
func New(opts Options) *Client {
	timeout := opts.OpTimeout
	if timeout <= 0 {
		timeout = 500 * time.Millisecond
	}
	return &Client{
		rdb: redis.NewClient(&redis.Options{
			Addr:         opts.Addr,
			Password:     opts.Password,
			DB:           opts.DB,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		}),
		namespace: opts.Namespace,
		timeout:   timeout,
	}
}

func (c *Client) usable() bool { return c != nil && c.rdb != nil }

func (c *Client) key(k string) string {
	if c.namespace == "" {
		return k
	}
	return c.namespace + ":" + k
}

func (c *Client) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}

// Ping reports whether Redis answered within the given context.
func (c *Client) Ping(ctx context.Context) error {
	if !c.usable() {
		return redis.ErrClosed
	}
	return c.rdb.Ping(ctx).Err()
}

// Redis exposes the underlying client for Lua scripts. It may be nil.
func (c *Client) Redis() *redis.Client {
	if c == nil {
		return nil
	}
	return c.rdb
}

// Get returns the stored bytes, or nil on a miss or when Redis is down.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	if !c.usable() {
		return nil, nil
	}
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	res, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, nil
	case err != nil:
		slog.Debug("cache get degraded to miss", "key", key, "error", err)
		return nil, nil
	}
	return res, nil
}

// Set stores value with a TTL. Failures are logged and dropped.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if !c.usable() {
		return nil
	}
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	if err := c.rdb.Set(ctx, c.key(key), value, ttl).Err(); err != nil {
		slog.Debug("cache set dropped", "key", key, "error", err)
	}
	return nil
}

// Delete removes keys. Failures are logged and dropped.
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	if !c.usable() || len(keys) == 0 {
		return nil
	}
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.key(k)
	}
	if err := c.rdb.Del(ctx, full...).Err(); err != nil {
		slog.Warn("cache delete dropped", "keys", keys, "error", err)
	}
	return nil
}

// Close releases the connection pool.
func (c *Client) Close() error {
	if !c.usable() {
		return nil
	}
	return c.rdb.Close()
}
