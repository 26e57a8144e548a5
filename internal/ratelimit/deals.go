package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/teleretail/salespoint/internal/config"
	"github.com/teleretail/salespoint/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const keyDealsClient = "deals:client:%s"

// DealsLimiter throttles the deal-listing endpoint per client. Limits
// come from the hot-reloaded offers configuration, so a config change
// takes effect without restart. A nil redis client disables limiting
// entirely.
type DealsLimiter struct {
	bucket  *TokenBucket
	offers  *config.OffersConfigHolder
	metrics *metrics.Metrics
	log     *zap.Logger
}

type DealsLimiterParam struct {
	fx.In

	Redis   *redis.Client `optional:"true"`
	Offers  *config.OffersConfigHolder
	Metrics *metrics.Metrics
	Log     *zap.Logger
}

func NewDealsLimiter(p DealsLimiterParam) *DealsLimiter {
	return &DealsLimiter{
		bucket:  NewTokenBucket(p.Redis),
		offers:  p.Offers,
		metrics: p.Metrics,
		log:     p.Log.Named("ratelimit.deals"),
	}
}

func (l *DealsLimiter) Enabled() bool {
	return l != nil && l.bucket != nil
}

// Allow consumes one token for the client. Redis trouble fails open:
// sellers keep working when the limiter backend is down.
func (l *DealsLimiter) Allow(ctx context.Context, clientID string) bool {
	if !l.Enabled() {
		return true
	}

	limits := l.offers.Current().DealsRateLimit
	rate := float64(limits.PerMinute) / 60
	key := fmt.Sprintf(keyDealsClient, strings.TrimSpace(clientID))

	res, err := l.bucket.Allow(ctx, key, rate, limits.Burst)
	if err != nil {
		l.log.Warn("rate limiter unavailable, failing open", zap.Error(err))
		return true
	}
	if res.Allowed {
		l.metrics.RecordRateLimitAllowed(ctx, "deals")
		return true
	}
	l.metrics.RecordRateLimitDenied(ctx, "deals", "bucket_empty")
	return false
}

func parseFloat(raw string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(raw), 64)
}
