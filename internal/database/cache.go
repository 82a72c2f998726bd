package database

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/thomas-dorrington/Runescape2Vec/internal/crawler"
	"github.com/thomas-dorrington/Runescape2Vec/internal/model"
)

// FetchCache is a crawler.PageSource that serves pages from the database
// while they are younger than a maximum age, and fetches and stores them
// otherwise.
//
// Concurrent requests for the same URL share one upstream fetch. Only
// successful responses are stored; errors are passed through and never
// cached.
type FetchCache struct {
	db     *CrawlDB
	source crawler.PageSource
	maxAge time.Duration
	logger *slog.Logger

	group singleflight.Group
	now   func() time.Time

	hits    atomic.Int64
	misses  atomic.Int64
	changed atomic.Int64
}

// CacheOption configures a FetchCache.
type CacheOption func(*FetchCache)

// WithCacheLogger sets the logger.
func WithCacheLogger(logger *slog.Logger) CacheOption {
	return func(c *FetchCache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// withClock replaces time.Now in tests.
func withClock(now func() time.Time) CacheOption {
	return func(c *FetchCache) {
		c.now = now
	}
}

// NewFetchCache wraps source with the fetches table of db.
// A non-positive maxAge disables reads from the cache; fetched pages are
// still stored.
func NewFetchCache(db *CrawlDB, source crawler.PageSource, maxAge time.Duration, opts ...CacheOption) *FetchCache {
	c := &FetchCache{
		db:     db,
		source: source,
		maxAge: maxAge,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchPage implements crawler.PageSource.
func (c *FetchCache) FetchPage(ctx context.Context, address string) (*model.Page, error) {
	if c.maxAge > 0 {
		cached, err := c.db.GetPage(ctx, address)
		if err != nil {
			c.logger.Warn("cache lookup failed", "url", address, "error", err)
		} else if cached != nil && cached.Age(c.now()) < c.maxAge {
			c.hits.Add(1)
			c.logger.Debug("cache hit", "url", address)
			return cached, nil
		}
	}

	v, err, _ := c.group.Do(address, func() (any, error) {
		return c.fetch(ctx, address)
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.Page), nil
}

func (c *FetchCache) fetch(ctx context.Context, address string) (*model.Page, error) {
	c.misses.Add(1)

	page, err := c.source.FetchPage(ctx, address)
	if err != nil {
		return nil, err
	}

	if prev, err := c.db.GetPage(ctx, address); err == nil && prev != nil && prev.Hash != page.Hash {
		c.changed.Add(1)
		c.logger.Debug("page changed since last fetch", "url", address)
	}
	if err := c.db.PutPage(ctx, page); err != nil {
		// The page is still usable; the next run simply refetches it.
		c.logger.Warn("failed to cache page", "url", address, "error", err)
	}
	return page, nil
}

// CacheStats counts cache outcomes since the cache was created.
type CacheStats struct {
	Hits    int64
	Misses  int64
	Changed int64
}

// Stats returns the cache counters.
func (c *FetchCache) Stats() CacheStats {
	return CacheStats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Changed: c.changed.Load(),
	}
}
