package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"FibScope/internal/model"
)

// CachingFetcher decorates a Fetcher with Redis caching. Windows are keyed
// by their bounds truncated to the timeframe interval, so rebuilds within
// the same bar reuse the cached response.
type CachingFetcher struct {
	inner     Fetcher
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// NewCachingFetcher decorates inner with Redis caching.
// If ttl is 0, it defaults to 1 minute. If namespace is empty, it uses "bars".
func NewCachingFetcher(rdb *redis.Client, ttl time.Duration, inner Fetcher, namespace string) *CachingFetcher {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if namespace == "" {
		namespace = "bars"
	}
	return &CachingFetcher{inner: inner, rdb: rdb, ttl: ttl, namespace: namespace}
}

func (c *CachingFetcher) Name() string { return c.inner.Name() + "+redis" }

func (c *CachingFetcher) FetchBars(ctx context.Context, symbol string, tf model.Timeframe, from, to time.Time) ([]model.Bar, error) {
	if c.rdb == nil {
		return c.inner.FetchBars(ctx, symbol, tf, from, to)
	}
	key := c.cacheKey(symbol, tf, from, to)

	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []model.Bar
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		_ = c.rdb.Del(ctx, key).Err()
	}

	out, err := c.inner.FetchBars(ctx, symbol, tf, from, to)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
	return out, nil
}

func (c *CachingFetcher) cacheKey(symbol string, tf model.Timeframe, from, to time.Time) string {
	iv := tf.Interval()
	if iv <= 0 {
		iv = time.Minute
	}
	return fmt.Sprintf("%s:%s:%s:%d:%d",
		c.namespace,
		safe(c.inner.Name()+"/"+symbol),
		tf,
		from.Truncate(iv).Unix(),
		to.Truncate(iv).Unix(),
	)
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
