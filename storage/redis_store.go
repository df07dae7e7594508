package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"price-dashboard/models"
	"price-dashboard/utils"
)

// RedisOptions configures a RedisStore.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Key      string
	TTL      time.Duration
}

// RedisStore shares the dataset between dashboard replicas through a single
// JSON value in Redis.
type RedisStore struct {
	rdb *goredis.Client
	key string
	ttl time.Duration
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, opts RedisOptions, retry *utils.RetryConfig) (*RedisStore, error) {
	if opts.Addr == "" {
		return nil, fmt.Errorf("redis: missing address")
	}
	if opts.Key == "" {
		return nil, fmt.Errorf("redis: missing key")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: 5 * time.Second,
	})

	err := retry.Do(ctx, "redis-ping", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	if err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: %w", err)
	}

	return NewRedisStoreWithClient(rdb, opts.Key, opts.TTL), nil
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(rdb *goredis.Client, key string, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, key: key, ttl: ttl}
}

func (r *RedisStore) Load(ctx context.Context) ([]*models.Observation, bool, error) {
	raw, err := r.rdb.Get(ctx, r.key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis: get %s: %w", r.key, err)
	}

	var obs []*models.Observation
	if err := json.Unmarshal(raw, &obs); err != nil {
		return nil, false, fmt.Errorf("redis: decode %s: %w", r.key, err)
	}
	return obs, true, nil
}

func (r *RedisStore) Save(ctx context.Context, obs []*models.Observation) error {
	raw, err := json.Marshal(obs)
	if err != nil {
		return fmt.Errorf("redis: encode: %w", err)
	}
	if err := r.rdb.Set(ctx, r.key, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set %s: %w", r.key, err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	return r.rdb.Close()
}
