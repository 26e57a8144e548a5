// Package cache holds the redis-backed read caches. Everything here is
// best-effort: a miss, a marshal failure or a dead redis never fails
// the request, it just recomputes.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/teleretail/salespoint/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const keyDealsPhone = "deals:phone:%s"

// DealCache memoizes ranked deal responses per phone. The TTL follows
// the hot-reloaded offers config; a zero TTL disables writes.
type DealCache struct {
	client *redis.Client
	offers *config.OffersConfigHolder
	log    *zap.Logger
}

type DealCacheParam struct {
	fx.In

	Redis  *redis.Client `optional:"true"`
	Offers *config.OffersConfigHolder
	Log    *zap.Logger
}

func NewDealCache(p DealCacheParam) *DealCache {
	return &DealCache{
		client: p.Redis,
		offers: p.Offers,
		log:    p.Log.Named("cache.deals"),
	}
}

func (c *DealCache) Enabled() bool {
	return c != nil && c.client != nil
}

// Get unmarshals a cached response into out and reports whether it hit.
func (c *DealCache) Get(ctx context.Context, phoneID string, out any) bool {
	if !c.Enabled() {
		return false
	}
	raw, err := c.client.Get(ctx, fmt.Sprintf(keyDealsPhone, phoneID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("deal cache read failed", zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		c.log.Warn("deal cache entry corrupt, ignoring", zap.Error(err))
		return false
	}
	return true
}

func (c *DealCache) Set(ctx context.Context, phoneID string, value any) {
	if !c.Enabled() {
		return
	}
	ttl := time.Duration(c.offers.Current().DealCacheTTL) * time.Second
	if ttl <= 0 {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		c.log.Warn("deal cache marshal failed", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, fmt.Sprintf(keyDealsPhone, phoneID), raw, ttl).Err(); err != nil {
		c.log.Warn("deal cache write failed", zap.Error(err))
	}
}

// Invalidate drops the cached response for one phone, used when spot
// deals or pricing change underneath it.
func (c *DealCache) Invalidate(ctx context.Context, phoneID string) {
	if !c.Enabled() {
		return
	}
	if err := c.client.Del(ctx, fmt.Sprintf(keyDealsPhone, phoneID)).Err(); err != nil {
		c.log.Warn("deal cache invalidation failed", zap.Error(err))
	}
}

var Module = fx.Module("cache",
	fx.Provide(NewDealCache),
)
