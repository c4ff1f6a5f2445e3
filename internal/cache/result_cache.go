package cache

import (
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/bbernstein/chargefinder/backend-go/internal/config"
	"github.com/bbernstein/chargefinder/backend-go/internal/models"
	"github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"
)

// ResultEntry is one cached station search.
type ResultEntry struct {
	Key       string
	Stations  []models.Station
	CreatedAt time.Time
}

// ResultCache holds normalized station lists per quantized query location.
// Entries are served for at most ttl; expired entries read as misses and are
// purged by Sweep, which runs after every Store.
type ResultCache struct {
	lru   *lru.Cache[string, *ResultEntry]
	ttl   time.Duration
	clock clock
	mu    sync.Mutex
}

func NewResultCache(cfg *config.CacheConfig) (*ResultCache, error) {
	if cfg.GetResultTTL() <= 0 {
		return nil, fmt.Errorf("result cache TTL must be positive, got %v", cfg.GetResultTTL())
	}

	lruCache, err := lru.New[string, *ResultEntry](cfg.ResultLRUSize)
	if err != nil {
		return nil, fmt.Errorf("creating LRU cache: %w", err)
	}

	return &ResultCache{
		lru:   lruCache,
		ttl:   cfg.GetResultTTL(),
		clock: systemClock{},
	}, nil
}

// CacheKey rounds both axes to two decimals (roughly 1 km) so that nearby
// queries share an entry, e.g. "43.47_-80.54". Axes use the shortest
// decimal form, so whole degrees print without a fraction ("43.5_-80").
func CacheKey(c models.Coordinate) string {
	return formatAxis(c.Latitude) + "_" + formatAxis(c.Longitude)
}

func formatAxis(v float64) string {
	rounded := math.Round(v*100) / 100
	if rounded == 0 {
		rounded = 0 // drop the sign of -0
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}

// Lookup returns the entry for key if it is younger than the TTL.
func (c *ResultCache) Lookup(key string) (*ResultEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.lru.Get(key)
	if !ok {
		return nil, false
	}
	if !c.fresh(entry, c.clock.Now()) {
		return nil, false
	}
	return entry, true
}

// Store records stations under key and sweeps expired entries.
func (c *ResultCache) Store(key string, stations []models.Station) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	c.lru.Add(key, &ResultEntry{
		Key:       key,
		Stations:  stations,
		CreatedAt: now,
	})

	if removed := c.sweepLocked(now); removed > 0 {
		log.Debug().Int("removed", removed).Msg("Swept expired result cache entries")
	}
}

// Sweep removes every entry whose age at now is at least the TTL and reports
// how many were removed.
func (c *ResultCache) Sweep(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sweepLocked(now)
}

func (c *ResultCache) sweepLocked(now time.Time) int {
	removed := 0
	for _, key := range c.lru.Keys() {
		entry, ok := c.lru.Peek(key)
		if ok && c.fresh(entry, now) {
			continue
		}
		c.lru.Remove(key)
		removed++
	}
	return removed
}

func (c *ResultCache) fresh(entry *ResultEntry, now time.Time) bool {
	return now.Sub(entry.CreatedAt) < c.ttl
}

// Len reports the number of entries held, including expired ones not yet swept.
func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

func (c *ResultCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Purge()
}
