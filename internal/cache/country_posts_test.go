package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/country-posts/internal/model"
)

func newCache(t *testing.T, ttl time.Duration) (*CountryPosts, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCountryPosts(client, ttl), mr
}

func TestCountryPosts_MissThenHit(t *testing.T) {
	c, _ := newCache(t, time.Minute)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	posts := []*model.Post{{ID: 100, UserID: 10, Title: "a"}, {ID: 101, UserID: 11, Title: "b"}}
	require.NoError(t, c.Set(ctx, 1, posts))

	got, ok, err := c.Get(ctx, 1)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got, 2)
	assert.Equal(t, uint64(100), got[0].ID)
	assert.Equal(t, "b", got[1].Title)

	hits, misses := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}

func TestCountryPosts_EmptyListIsAHit(t *testing.T) {
	c, _ := newCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, 3, []*model.Post{}))
	got, ok, err := c.Get(ctx, 3)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCountryPosts_TTLAndInvalidate(t *testing.T) {
	c, mr := newCache(t, 30*time.Second)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, 1, []*model.Post{{ID: 1}}))
	assert.Equal(t, 30*time.Second, mr.TTL("country_posts:1"))

	mr.FastForward(31 * time.Second)
	_, ok, err := c.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, 1, []*model.Post{{ID: 1}}))
	require.NoError(t, c.Invalidate(ctx, 1))
	_, ok, err = c.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCountryPosts_CorruptPayloadIsMiss(t *testing.T) {
	c, mr := newCache(t, time.Minute)
	require.NoError(t, mr.Set("country_posts:1", "{not json"))

	_, ok, err := c.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCountryPosts_ServerDown(t *testing.T) {
	c, mr := newCache(t, time.Minute)
	mr.Close()

	_, _, err := c.Get(context.Background(), 1)
	assert.Error(t, err)
}
