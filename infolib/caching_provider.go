package infolib

import (
	"context"
	"time"

	"github.com/dgraph-io/ristretto"
)

type cachingProvider struct {
	Provider

	cache *ristretto.Cache
	ttl   time.Duration
}

func (c cachingProvider) Lookup(ctx context.Context, query Query) (*IPInfo, error) {
	cacheKey := query.IP.String()

	if value, ok := c.cache.Get(cacheKey); ok {
		info := value.(IPInfo)

		return &info, nil
	}

	result, err := c.Provider.Lookup(ctx, query)
	if err != nil || result == nil {
		return result, err
	}

	c.cache.SetWithTTL(cacheKey, *result, 1, c.ttl)

	return result, nil
}

// NewCachingProvider wraps a provider with a cache. Only successful
// answers are cached, failures go to the wrapped provider each time.
// A cache is keyed by IP address.
func NewCachingProvider(provider Provider, itemsCount uint, ttl time.Duration) Provider {
	cacheConfig := &ristretto.Config{
		MaxCost:     int64(itemsCount),
		NumCounters: 10 * int64(itemsCount),
		Metrics:     false,
		BufferItems: 64,
	}

	cache, err := ristretto.NewCache(cacheConfig)
	if err != nil {
		panic(err)
	}

	return cachingProvider{
		Provider: provider,
		cache:    cache,
		ttl:      ttl,
	}
}
