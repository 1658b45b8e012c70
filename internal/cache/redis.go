package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/voyago/fareopt/internal/models"
)

// RedisCache shares memoized outcomes across server instances. The TTL is
// enforced by Redis itself, so reads never see an expired entry.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

func NewRedisCache(cfg RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Host + ":" + cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisCache{
		client: client,
		ttl:    cfg.TTL,
	}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) (models.FetchOutcome, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return models.FetchOutcome{}, false
	}

	var outcome models.FetchOutcome
	if err := json.Unmarshal(data, &outcome); err != nil {
		return models.FetchOutcome{}, false
	}
	return outcome, true
}

func (c *RedisCache) Put(ctx context.Context, key string, outcome models.FetchOutcome) error {
	data, err := json.Marshal(outcome)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
