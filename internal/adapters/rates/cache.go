package rates

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	portssvc "github.com/SscSPs/budget_tracker_app/internal/core/ports/services"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const (
	DefaultCacheTTL = 30 * time.Minute
	cacheNamespace  = "rates"
)

// CachedSource keeps fetched rate tables in Redis under "rates:<BASE>". Any
// cache failure degrades to a direct fetch.
type CachedSource struct {
	next   portssvc.RateSource
	client redis.UniversalClient
	ttl    time.Duration
	logger *slog.Logger
}

var _ portssvc.RateSource = (*CachedSource)(nil)

// NewRedisClient creates a client for addr.
func NewRedisClient(addr, password string) redis.UniversalClient {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
}

// NewCachedSource wraps next with a Redis cache.
func NewCachedSource(next portssvc.RateSource, client redis.UniversalClient, ttl time.Duration, logger *slog.Logger) *CachedSource {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedSource{next: next, client: client, ttl: ttl, logger: logger}
}

func cacheKey(base string) string {
	return cacheNamespace + ":" + strings.ToUpper(base)
}

func (c *CachedSource) FetchRates(ctx context.Context, base string) (map[string]decimal.Decimal, error) {
	key := cacheKey(base)

	cached, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		var rates map[string]decimal.Decimal
		if jsonErr := json.Unmarshal([]byte(cached), &rates); jsonErr == nil && len(rates) > 0 {
			return rates, nil
		}
		c.logger.Warn("Discarding unreadable cached rates", slog.String("key", key))
	case errors.Is(err, redis.Nil):
	default:
		c.logger.Warn("Rate cache unavailable", slog.String("key", key), slog.String("error", err.Error()))
	}

	rates, err := c.next.FetchRates(ctx, base)
	if err != nil {
		return nil, err
	}

	if doc, err := json.Marshal(rates); err == nil {
		if err := c.client.Set(ctx, key, doc, c.ttl).Err(); err != nil {
			c.logger.Warn("Failed to cache rates", slog.String("key", key), slog.String("error", err.Error()))
		}
	}
	return rates, nil
}

// Close releases the Redis connection.
func (c *CachedSource) Close() error {
	return c.client.Close()
}
