package collector

import (
	"context"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"

	"DoubleDown/internal/model"
)

// CachedFetcher memoizes another fetcher's series per code and date range.
type CachedFetcher struct {
	Fetcher Fetcher
	cache   *cache.Cache
}

// NewCachedFetcher wraps f with a cache whose entries live for ttl.
func NewCachedFetcher(f Fetcher, ttl time.Duration) *CachedFetcher {
	return &CachedFetcher{
		Fetcher: f,
		cache:   cache.New(ttl, 2*ttl),
	}
}

func (c *CachedFetcher) Name() string { return c.Fetcher.Name() + "+cache" }

func (c *CachedFetcher) FetchDailyBars(ctx context.Context, code, startDate, endDate string) ([]model.Bar, error) {
	key := strings.Join([]string{c.Fetcher.Name(), code, startDate, endDate}, "|")
	if v, found := c.cache.Get(key); found {
		log.Debugf("cache hit: %s", key)
		return v.([]model.Bar), nil
	}
	bars, err := c.Fetcher.FetchDailyBars(ctx, code, startDate, endDate)
	if err != nil {
		return nil, err
	}
	// Empty results are not cached so that a range can fill in later.
	if len(bars) > 0 {
		c.cache.SetDefault(key, bars)
	}
	return bars, nil
}

// Flush drops every cached series.
func (c *CachedFetcher) Flush() {
	n := c.cache.ItemCount()
	c.cache.Flush()
	log.Infof("price cache flushed (%d series)", n)
}

// Len is the number of cached series.
func (c *CachedFetcher) Len() int { return c.cache.ItemCount() }
