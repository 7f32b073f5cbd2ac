package provider

import (
	"context"
	"fmt"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitch-prophet/internal/metrics"
	"github.com/yourusername/pitch-prophet/internal/models"
)

// tableKey identifies one cached season table
type tableKey struct {
	League    string
	Season    string
	StartDate string
	EndDate   string
}

// String returns the cache key string
func (k tableKey) String() string {
	return fmt.Sprintf("%s:%s:%s:%s", k.League, k.Season, k.StartDate, k.EndDate)
}

// CachedProvider decorates a StatsProvider with an explicit season-table
// cache keyed by (season, league) and the date bounds of the request.
// The TTL is caller-controlled; there is no hidden process-wide state, so a
// test gets a fresh cache per instance.
type CachedProvider struct {
	StatsProvider

	tables    *cache.Cache
	ttl       time.Duration
	logger    *logrus.Logger
	mu        sync.Mutex
	hitCount  uint64
	missCount uint64
}

// NewCachedProvider wraps the given provider with a season-table cache
func NewCachedProvider(inner StatsProvider, ttl time.Duration, logger *logrus.Logger) *CachedProvider {
	return &CachedProvider{
		StatsProvider: inner,
		tables:        cache.New(ttl, ttl*2),
		ttl:           ttl,
		logger:        logger,
	}
}

// GetLeagueTable returns the cached table when present, fetching otherwise
func (c *CachedProvider) GetLeagueTable(ctx context.Context, league, season string, startDate, endDate time.Time) (*models.SeasonTable, error) {
	key := tableKey{
		League: league,
		Season: season,
	}
	if !startDate.IsZero() {
		key.StartDate = startDate.Format(models.DateLayout)
	}
	if !endDate.IsZero() {
		key.EndDate = endDate.Format(models.DateLayout)
	}

	if cached, found := c.tables.Get(key.String()); found {
		c.recordLookup(true)
		c.logger.WithField("cache_key", key.String()).Debug("Season table cache hit")
		return cached.(*models.SeasonTable), nil
	}
	c.recordLookup(false)

	table, err := c.StatsProvider.GetLeagueTable(ctx, league, season, startDate, endDate)
	if err != nil {
		return nil, err
	}

	c.tables.Set(key.String(), table, c.ttl)
	return table, nil
}

// Invalidate drops the cached tables for one (season, league) pair
func (c *CachedProvider) Invalidate(league, season string) {
	prefix := fmt.Sprintf("%s:%s:", league, season)
	for k := range c.tables.Items() {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			c.tables.Delete(k)
		}
	}
}

// Clear flushes the whole cache
func (c *CachedProvider) Clear() {
	c.tables.Flush()
	c.mu.Lock()
	c.hitCount, c.missCount = 0, 0
	c.mu.Unlock()
}

// Stats returns hit/miss counts and ratio
func (c *CachedProvider) Stats() (hits, misses uint64, ratio float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	hits, misses = c.hitCount, c.missCount
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

func (c *CachedProvider) recordLookup(hit bool) {
	c.mu.Lock()
	if hit {
		c.hitCount++
	} else {
		c.missCount++
	}
	hits, misses := c.hitCount, c.missCount
	c.mu.Unlock()

	if total := hits + misses; total > 0 {
		metrics.SeasonTableCacheHitRatio.Set(float64(hits) / float64(total))
	}
}
