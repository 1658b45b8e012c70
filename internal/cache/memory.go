package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/voyago/fareopt/internal/models"
)

// MemoryCache is the default backend: an in-process TTL map. Expiry is
// checked lazily on read; the background janitor only bounds memory and is
// not needed for correctness.
type MemoryCache struct {
	store *gocache.Cache
}

// NewMemoryCache creates a cache whose entries expire after ttl. Pass a
// zero sweepInterval to disable the janitor.
func NewMemoryCache(ttl, sweepInterval time.Duration) *MemoryCache {
	return &MemoryCache{
		store: gocache.New(ttl, sweepInterval),
	}
}

func (c *MemoryCache) Get(ctx context.Context, key string) (models.FetchOutcome, bool) {
	v, ok := c.store.Get(key)
	if !ok {
		return models.FetchOutcome{}, false
	}
	outcome, ok := v.(models.FetchOutcome)
	return outcome, ok
}

func (c *MemoryCache) Put(ctx context.Context, key string, outcome models.FetchOutcome) error {
	c.store.Set(key, outcome, gocache.DefaultExpiration)
	return nil
}

func (c *MemoryCache) Close() error {
	c.store.Flush()
	return nil
}
