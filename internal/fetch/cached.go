package fetch

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/stagelist/venue-cli/internal/store"
)

// Cached wraps a Client with the SQLite fetch cache so repeated runs within
// the TTL do not re-hit venue sites. Cache failures degrade to a live fetch,
// never to an error.
type Cached struct {
	client Client
	cache  *store.Cache
	ttl    time.Duration
}

// WithCache wraps client with the given cache. A nil cache returns the
// client unwrapped.
func WithCache(client Client, cache *store.Cache, ttl time.Duration) Client {
	if cache == nil {
		return client
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Cached{client: client, cache: cache, ttl: ttl}
}

// Fetch returns the cached snapshot when fresh, otherwise fetches live and
// stores the result.
func (c *Cached) Fetch(ctx context.Context, url string) (*Result, error) {
	if raw, ok, err := c.cache.GetPage(ctx, url); err == nil && ok {
		var res Result
		if err := json.Unmarshal([]byte(raw), &res); err == nil {
			return &res, nil
		}
	} else if err != nil {
		zap.L().Warn("fetch cache read failed", zap.String("url", url), zap.Error(err))
	}

	res, err := c.client.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(res); err == nil {
		if err := c.cache.SetPage(ctx, url, string(raw), c.ttl); err != nil {
			zap.L().Warn("fetch cache write failed", zap.String("url", url), zap.Error(err))
		}
	}
	return res, nil
}

// Close closes the underlying client. The cache is owned by the caller.
func (c *Cached) Close() error {
	return c.client.Close()
}
