package cache

import (
	"context"

	"github.com/voyago/fareopt/internal/models"
)

// Cache memoizes fetch outcomes per candidate tuple within a search
// session, so revisiting a tuple inside the TTL never re-queries the fare
// source. Implementations must be safe for the scheduler's concurrent
// workers. Entries are overwritten on re-query after expiry, never edited.
type Cache interface {
	Get(ctx context.Context, key string) (models.FetchOutcome, bool)
	Put(ctx context.Context, key string, outcome models.FetchOutcome) error
	Close() error
}

// NoOpCache disables memoization; every tuple hits the network.
type NoOpCache struct{}

func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

func (c *NoOpCache) Get(ctx context.Context, key string) (models.FetchOutcome, bool) {
	return models.FetchOutcome{}, false
}

func (c *NoOpCache) Put(ctx context.Context, key string, outcome models.FetchOutcome) error {
	return nil
}

func (c *NoOpCache) Close() error {
	return nil
}
