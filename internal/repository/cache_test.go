package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bayleafwalker/forge-core/internal/forge"
	"github.com/bayleafwalker/forge-core/internal/semver"
)

// countingRepository records how often the backing store is queried.
type countingRepository struct {
	Repository
	resolves int
	lookups  int
	err      error
}

func (c *countingRepository) Resolve(ctx context.Context, dep forge.Dependency) (*forge.Metadata, bool, error) {
	c.resolves++
	if c.err != nil {
		return nil, false, c.err
	}
	return c.Repository.Resolve(ctx, dep)
}

func (c *countingRepository) Lookup(ctx context.Context, name forge.ModuleName, version semver.Version) (*forge.Metadata, bool, error) {
	c.lookups++
	if c.err != nil {
		return nil, false, c.err
	}
	return c.Repository.Lookup(ctx, name, version)
}

func setupTestCache(t *testing.T, next Repository) (*CachedRepository, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewCached(next, client, DefaultCacheConfig()), mr
}

func TestCachedRepository_ResolveHit(t *testing.T) {
	backing := &countingRepository{Repository: NewMemory(
		release("acme-util", "1.0.0", forge.MustDependency("acme/base", ">= 1.0.0 < 2.0.0")),
		release("acme-util", "1.3.0"),
	)}
	cache, mr := setupTestCache(t, backing)
	ctx := context.Background()
	dep := forge.MustDependency("acme-util", "1.x")

	first, ok, err := cache.Resolve(ctx, dep)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "1.3.0", first.Version.String())

	second, ok, err := cache.Resolve(ctx, dep)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, first.Release(), second.Release())
	assert.Equal(t, 1, backing.resolves)
	assert.True(t, mr.Exists("forge:resolve:acme-util:>=1.0.0 <2.0.0"))
}

func TestCachedRepository_CachesNotFound(t *testing.T) {
	backing := &countingRepository{Repository: NewMemory()}
	cache, _ := setupTestCache(t, backing)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		m, ok, err := cache.Resolve(ctx, forge.MustDependency("acme-missing", ""))
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, m)
	}
	assert.Equal(t, 1, backing.resolves)
}

func TestCachedRepository_LookupRoundTripsDependencies(t *testing.T) {
	backing := &countingRepository{Repository: NewMemory(
		release("acme-app", "2.1.0", forge.MustDependency("acme/util", ">= 1.0.0 < 2.0.0")),
	)}
	cache, _ := setupTestCache(t, backing)
	ctx := context.Background()
	name := forge.MustParseModuleName("acme-app")

	_, _, err := cache.Lookup(ctx, name, semver.MustParseVersion("2.1.0"))
	require.NoError(t, err)
	got, ok, err := cache.Lookup(ctx, name, semver.MustParseVersion("2.1.0"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got.Dependencies, 1)
	assert.Equal(t, ">= 1.0.0 < 2.0.0", got.Dependencies[0].Range.String())
	assert.Equal(t, 1, backing.lookups)
}

func TestCachedRepository_BackingErrorNotCached(t *testing.T) {
	backing := &countingRepository{Repository: NewMemory(), err: errors.New("registry down")}
	cache, mr := setupTestCache(t, backing)

	_, _, err := cache.Resolve(context.Background(), forge.MustDependency("acme-util", ""))
	assert.Error(t, err)
	assert.Empty(t, mr.Keys())
}

func TestCachedRepository_RedisDownFallsThrough(t *testing.T) {
	backing := &countingRepository{Repository: NewMemory(release("acme-util", "1.0.0"))}
	cache, mr := setupTestCache(t, backing)
	mr.Close()

	m, ok, err := cache.Resolve(context.Background(), forge.MustDependency("acme-util", ""))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "1.0.0", m.Version.String())
}

func TestCachedRepository_TTLAndInvalidate(t *testing.T) {
	backing := &countingRepository{Repository: NewMemory(release("acme-util", "1.0.0"))}
	cache, mr := setupTestCache(t, backing)
	ctx := context.Background()
	dep := forge.MustDependency("acme-util", "")

	_, _, err := cache.Resolve(ctx, dep)
	require.NoError(t, err)
	mr.FastForward(11 * time.Minute)
	_, _, err = cache.Resolve(ctx, dep)
	require.NoError(t, err)
	assert.Equal(t, 2, backing.resolves)

	require.NoError(t, cache.Invalidate(ctx))
	assert.Empty(t, mr.Keys())
}
