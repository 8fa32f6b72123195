package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheVersionKey = "report:version"

// Cache is a Redis decorator around report assembly. Caching sits outside
// the pure pipeline: the assembler always recomputes from raw data, and the
// cache only memoizes whole WeeklyReport values keyed by shop and window.
// A nil client degrades to pass-through.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache instantiates the cache helper.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Fetch returns the cached report for the request or computes and stores it
// using the loader.
func (c *Cache) Fetch(ctx context.Context, req ReportRequest, loader func(context.Context) (*WeeklyReport, error)) (*WeeklyReport, error) {
	if loader == nil {
		return nil, errors.New("report: cache loader required")
	}
	if c == nil || c.client == nil {
		return loader(ctx)
	}
	key, err := c.buildKey(ctx, req)
	if err != nil {
		return nil, err
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var cached WeeklyReport
		if err := json.Unmarshal(payload, &cached); err == nil {
			return &cached, nil
		}
		// Corrupt entry: fall through and recompute.
	} else if err != redis.Nil {
		return nil, fmt.Errorf("report: cache get: %w", err)
	}

	rep, err := loader(ctx)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(rep)
	if err != nil {
		return nil, err
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return nil, fmt.Errorf("report: cache set: %w", err)
	}
	return rep, nil
}

// WeeklyReporter produces weekly reports for a shop and week.
type WeeklyReporter interface {
	WeeklyReport(ctx context.Context, req ReportRequest) (*WeeklyReport, error)
}

// CachedService decorates a WeeklyReporter with the Redis cache.
type CachedService struct {
	inner WeeklyReporter
	cache *Cache
}

// NewCachedService wraps a reporter with a cache.
func NewCachedService(inner WeeklyReporter, cache *Cache) *CachedService {
	return &CachedService{inner: inner, cache: cache}
}

// WeeklyReport serves from cache when possible, computing otherwise.
func (s *CachedService) WeeklyReport(ctx context.Context, req ReportRequest) (*WeeklyReport, error) {
	return s.cache.Fetch(ctx, req, func(ctx context.Context) (*WeeklyReport, error) {
		return s.inner.WeeklyReport(ctx, req)
	})
}

// Bump invalidates all cached reports by incrementing the global version.
func (c *Cache) Bump(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Incr(ctx, cacheVersionKey).Err()
}

func (c *Cache) buildKey(ctx context.Context, req ReportRequest) (string, error) {
	ver, err := c.version(ctx)
	if err != nil {
		return "", err
	}
	parts := []string{
		"report", "weekly", req.ShopID,
		truncateDay(req.WeekStart).Format(dateLayout),
		truncateDay(req.WeekEnd).Format(dateLayout),
	}
	return fmt.Sprintf("%s:%d", strings.Join(parts, ":"), ver), nil
}

func (c *Cache) version(ctx context.Context) (int64, error) {
	ver, err := c.client.Get(ctx, cacheVersionKey).Int64()
	if err == redis.Nil {
		if err := c.client.Set(ctx, cacheVersionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	if ver <= 0 {
		ver = 1
		if err := c.client.Set(ctx, cacheVersionKey, ver, 0).Err(); err != nil {
			return 0, err
		}
	}
	return ver, nil
}
