package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/iho/ledgergen/internal/usecase"
)

// RateCache decorates a usecase.RateProvider with a Redis lookup cache.
// Historical rates never change once published, so cached values only
// expire to bound memory.
type RateCache struct {
	client *redis.Client
	next   usecase.RateProvider
	prefix string
	ttl    time.Duration
}

// NewRateCache creates a new RateCache in front of the given provider.
func NewRateCache(client *redis.Client, next usecase.RateProvider, ttl time.Duration) *RateCache {
	return &RateCache{
		client: client,
		next:   next,
		prefix: "rate:",
		ttl:    ttl,
	}
}

// Rate returns the cached rate for currency and date, falling through to
// the underlying provider on a miss. Cache failures degrade to the
// provider; a miss is never an error on its own.
func (c *RateCache) Rate(ctx context.Context, currency string, date time.Time) (decimal.Decimal, error) {
	key := c.prefix + currency + ":" + date.Format(time.DateOnly)

	cached, err := c.client.Get(ctx, key).Result()
	if err == nil {
		rate, parseErr := decimal.NewFromString(cached)
		if parseErr == nil {
			return rate, nil
		}
		// A corrupt entry falls through to the provider.
	} else if !errors.Is(err, redis.Nil) {
		return c.next.Rate(ctx, currency, date)
	}

	rate, err := c.next.Rate(ctx, currency, date)
	if err != nil {
		return decimal.Zero, err
	}

	// Best effort; a failed write only costs the next lookup.
	_ = c.client.Set(ctx, key, rate.String(), c.ttl).Err()

	return rate, nil
}
