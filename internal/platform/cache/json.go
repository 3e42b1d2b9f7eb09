package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// JSONCache stores JSON documents in Redis under a namespace whose version is
// bumped to invalidate everything at once.
type JSONCache struct {
	client    *redis.Client
	namespace string
	ttl       time.Duration
	group     singleflight.Group
}

// NewJSONCache constructs a cache. A nil client disables caching and every
// Fetch goes straight to the loader.
func NewJSONCache(client *redis.Client, namespace string, ttl time.Duration) *JSONCache {
	return &JSONCache{client: client, namespace: namespace, ttl: ttl}
}

func (c *JSONCache) versionKey() string {
	return c.namespace + ":version"
}

// Version returns the current namespace version, initialising it when missing.
func (c *JSONCache) Version(ctx context.Context) (int64, error) {
	ver, err := c.client.Get(ctx, c.versionKey()).Int64()
	if errors.Is(err, redis.Nil) {
		if err := c.client.SetNX(ctx, c.versionKey(), 1, 0).Err(); err != nil {
			return 0, err
		}
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

func (c *JSONCache) key(ctx context.Context, parts ...string) (string, error) {
	ver, err := c.Version(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%s:%d", c.namespace, strings.Join(parts, ":"), ver), nil
}

// Fetch loads a cached value into dest or fills it using loader. Concurrent
// misses for the same key share one loader call. Redis failures fall back to
// the loader.
func (c *JSONCache) Fetch(ctx context.Context, dest any, loader func(context.Context) (any, error), parts ...string) error {
	if loader == nil {
		return errors.New("cache: loader required")
	}
	if c == nil || c.client == nil {
		return loadInto(ctx, dest, loader)
	}
	key, err := c.key(ctx, parts...)
	if err != nil {
		return loadInto(ctx, dest, loader)
	}
	if payload, err := c.client.Get(ctx, key).Bytes(); err == nil {
		return json.Unmarshal(payload, dest)
	}
	raw, err, _ := c.group.Do(key, func() (any, error) {
		value, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		_ = c.client.Set(ctx, key, data, c.ttl).Err()
		return data, nil
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(raw.([]byte), dest)
}

// Bump invalidates every entry of the namespace.
func (c *JSONCache) Bump(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Incr(ctx, c.versionKey()).Err()
}

func loadInto(ctx context.Context, dest any, loader func(context.Context) (any, error)) error {
	value, err := loader(ctx)
	if err != nil {
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}
