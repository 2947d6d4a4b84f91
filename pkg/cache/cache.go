// Package cache stores fetched sky documents so repeated loads of the same
// resource skip the network.
//
// Three backends are provided: [NullCache] disables caching, [FileCache]
// keeps entries on local disk for the CLI, and [RedisCache] shares entries
// between server processes.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
//
// Get reports a miss as (nil, false, nil); an error means the backend
// itself failed. A ttl of 0 stores the entry without expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Backend names accepted by [Open].
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Config selects and configures a backend.
type Config struct {
	Backend string
	Dir     string
	Redis   RedisConfig
}

// Open returns the backend named by cfg.Backend. An empty name means none.
func Open(ctx context.Context, cfg Config) (Cache, error) {
	switch cfg.Backend {
	case "", BackendNone:
		return NewNullCache(), nil
	case BackendFile:
		return NewFileCache(cfg.Dir)
	case BackendRedis:
		return NewRedisCache(ctx, cfg.Redis)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// NullCache misses on every Get and discards every Set. It backs --no-cache
// and the zero value of consumers that were given no cache.
type NullCache struct{}

func NewNullCache() *NullCache { return &NullCache{} }

func (*NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (*NullCache) Delete(context.Context, string) error                     { return nil }
func (*NullCache) Close() error                                             { return nil }

// Namespaced prefixes every key before delegating to an inner cache, so
// several consumers can share one backend.
type Namespaced struct {
	inner  Cache
	prefix string
}

// WithPrefix wraps c so all keys gain prefix. Nil c wraps a NullCache.
func WithPrefix(c Cache, prefix string) *Namespaced {
	if c == nil {
		c = NewNullCache()
	}
	if n, ok := c.(*Namespaced); ok {
		return &Namespaced{inner: n.inner, prefix: n.prefix + prefix}
	}
	return &Namespaced{inner: c, prefix: prefix}
}

func (n *Namespaced) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return n.inner.Get(ctx, n.prefix+key)
}

func (n *Namespaced) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return n.inner.Set(ctx, n.prefix+key, data, ttl)
}

func (n *Namespaced) Delete(ctx context.Context, key string) error {
	return n.inner.Delete(ctx, n.prefix+key)
}

// Close closes the inner cache.
func (n *Namespaced) Close() error { return n.inner.Close() }

var (
	_ Cache = (*NullCache)(nil)
	_ Cache = (*Namespaced)(nil)
)
