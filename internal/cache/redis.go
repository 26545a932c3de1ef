package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

type Client struct {
	Cli    *redis.Client
	prefix string
}

// NewRedis connects and pings; the returned client is ready to use.
func NewRedis(ctx context.Context, addr, password string, db int, prefix string) (*Client, error) {
	r := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := r.Ping(ctx).Err(); err != nil {
		_ = r.Close()
		return nil, err
	}
	return &Client{Cli: r, prefix: prefix}, nil
}

func (c *Client) Close() error {
	return c.Cli.Close()
}

func (c *Client) key(k string) string {
	if c.prefix == "" {
		return k
	}
	return c.prefix + ":" + k
}

// GetJSON decodes the cached value into out. It reports false on a miss.
func (c *Client) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	b, err := c.Cli.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Client) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Cli.Set(ctx, c.key(key), b, ttl).Err()
}
