package repository

import (
	"context"
	"errors"
	"time"

	"github.com/go-logr/logr"
	"github.com/redis/go-redis/v9"

	"github.com/bayleafwalker/forge-core/internal/forge"
	"github.com/bayleafwalker/forge-core/internal/semver"
)

// missMarker is stored for queries the backing repository answered with
// "not found".
const missMarker = "-"

// CacheConfig holds cache configuration shared by all keys.
type CacheConfig struct {
	// Prefix is prepended to every key.
	Prefix string
	// TTL bounds how long an answer is reused. Zero uses the default.
	TTL time.Duration
}

// DefaultCacheConfig returns a default cache configuration.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		Prefix: "forge:",
		TTL:    10 * time.Minute,
	}
}

// CachedRepository memoizes the answers of another Repository in Redis.
//
// Redis failures degrade to a direct query of the backing repository; only
// errors from the backing repository are returned.
type CachedRepository struct {
	next   Repository
	client *redis.Client
	config CacheConfig
	log    logr.Logger
}

// NewCached wraps next with a Redis-backed answer cache.
func NewCached(next Repository, client *redis.Client, config CacheConfig) *CachedRepository {
	if config.TTL == 0 {
		config.TTL = DefaultCacheConfig().TTL
	}
	return &CachedRepository{
		next:   next,
		client: client,
		config: config,
		log:    logr.Discard(),
	}
}

// WithLogger sets the logger used to report cache failures.
func (c *CachedRepository) WithLogger(log logr.Logger) *CachedRepository {
	c.log = log
	return c
}

func (c *CachedRepository) Resolve(ctx context.Context, dep forge.Dependency) (*forge.Metadata, bool, error) {
	key := c.config.Prefix + "resolve:" + dep.Name.String() + ":" + dep.Range.Canonical()
	return c.cached(ctx, key, func() (*forge.Metadata, bool, error) {
		return c.next.Resolve(ctx, dep)
	})
}

func (c *CachedRepository) Lookup(ctx context.Context, name forge.ModuleName, version semver.Version) (*forge.Metadata, bool, error) {
	key := c.config.Prefix + "release:" + name.String() + "@" + version.String()
	return c.cached(ctx, key, func() (*forge.Metadata, bool, error) {
		return c.next.Lookup(ctx, name, version)
	})
}

// Invalidate drops every cached answer under the configured prefix.
func (c *CachedRepository) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, c.config.Prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (c *CachedRepository) cached(ctx context.Context, key string, query func() (*forge.Metadata, bool, error)) (*forge.Metadata, bool, error) {
	value, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil && value == missMarker:
		return nil, false, nil
	case err == nil:
		m, perr := forge.ParseMetadata([]byte(value))
		if perr == nil {
			return m, true, nil
		}
		c.log.Error(perr, "discarding undecodable cache entry", "key", key)
	case !errors.Is(err, redis.Nil):
		c.log.Error(err, "cache read failed", "key", key)
	}

	m, found, err := query()
	if err != nil {
		return nil, false, err
	}

	store := missMarker
	if found {
		data, eerr := forge.EncodeMetadata(m)
		if eerr != nil {
			c.log.Error(eerr, "cannot encode release for cache", "release", m.Release())
			return m, found, nil
		}
		store = string(data)
	}
	if serr := c.client.Set(ctx, key, store, c.config.TTL).Err(); serr != nil {
		c.log.Error(serr, "cache write failed", "key", key)
	}
	return m, found, nil
}
