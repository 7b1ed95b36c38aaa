package statistics

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"
)

const (
	CacheKeyListings = "statistics:listings:total"
	CacheKeyUsers    = "statistics:users:total"
	CacheKeyReviews  = "statistics:reviews:total"
	CacheExpiration  = 30 * time.Minute
)

// Counter is satisfied by every repository with a Count method.
type Counter interface {
	Count() (int64, error)
}

// StatisticsData holds the site totals shown on the about page
type StatisticsData struct {
	TotalListings int64
	TotalUsers    int64
	TotalReviews  int64
}

// Provider reads totals from the cache and falls back to the database.
type Provider struct {
	listings Counter
	users    Counter
	reviews  Counter
	rdb      *redis.Client
}

// NewProvider wires the counters. rdb may be nil to disable caching.
func NewProvider(listings, users, reviews Counter, rdb *redis.Client) *Provider {
	return &Provider{listings: listings, users: users, reviews: reviews, rdb: rdb}
}

// Get returns the statistics, counting in the database for every value the cache misses
func (p *Provider) Get(ctx context.Context) StatisticsData {
	return StatisticsData{
		TotalListings: p.value(ctx, CacheKeyListings, p.listings),
		TotalUsers:    p.value(ctx, CacheKeyUsers, p.users),
		TotalReviews:  p.value(ctx, CacheKeyReviews, p.reviews),
	}
}

func (p *Provider) value(ctx context.Context, key string, counter Counter) int64 {
	if p.rdb != nil {
		if raw, err := p.rdb.Get(ctx, key).Result(); err == nil {
			if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
				return v
			}
		}
	}

	v, err := counter.Count()
	if err != nil {
		log.Errorf("statistics: counting %s: %v", key, err)
		return 0
	}
	if p.rdb != nil {
		if err := p.rdb.Set(ctx, key, strconv.FormatInt(v, 10), CacheExpiration).Err(); err != nil {
			log.Warnf("statistics: caching %s: %v", key, err)
		}
	}
	return v
}

// Invalidate drops the cached totals so the next read recounts them
func (p *Provider) Invalidate(ctx context.Context) {
	if p == nil || p.rdb == nil {
		return
	}
	if err := p.rdb.Del(ctx, CacheKeyListings, CacheKeyUsers, CacheKeyReviews).Err(); err != nil {
		log.Warnf("statistics: invalidating cache: %v", err)
	}
}
