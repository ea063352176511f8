package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/d60-Lab/country-posts/internal/model"
)

// CountryPosts caches the resolved post list of a country as a JSON blob.
type CountryPosts struct {
	client *redis.Client
	ttl    time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

// NewCountryPosts builds a cache using the provided Redis client.
func NewCountryPosts(client *redis.Client, ttl time.Duration) *CountryPosts {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CountryPosts{client: client, ttl: ttl}
}

func key(countryID uint64) string {
	return fmt.Sprintf("country_posts:%d", countryID)
}

// Get returns ok=false on a miss. A payload that fails to decode counts as a miss.
func (c *CountryPosts) Get(ctx context.Context, countryID uint64) ([]*model.Post, bool, error) {
	data, err := c.client.Get(ctx, key(countryID)).Bytes()
	if errors.Is(err, redis.Nil) {
		c.misses.Add(1)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var out []*model.Post
	if uErr := json.Unmarshal(data, &out); uErr != nil {
		c.misses.Add(1)
		return nil, false, nil
	}
	if out == nil {
		out = make([]*model.Post, 0)
	}
	c.hits.Add(1)
	return out, true, nil
}

func (c *CountryPosts) Set(ctx context.Context, countryID uint64, posts []*model.Post) error {
	payload, err := json.Marshal(posts)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key(countryID), payload, c.ttl).Err()
}

func (c *CountryPosts) Invalidate(ctx context.Context, countryID uint64) error {
	return c.client.Del(ctx, key(countryID)).Err()
}

// Stats exposes hit/miss counters.
func (c *CountryPosts) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}
