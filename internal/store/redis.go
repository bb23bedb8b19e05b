package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/i474232898/forecast-blend/internal/forecast"
)

const redisKeyPrefix = "forecast:"

// redisClient is the subset of *redis.Client the store uses.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisStore shares the latest document per point between instances.
type RedisStore struct {
	client redisClient
	ttl    time.Duration
}

// NewRedisStore wraps an existing client. Keys expire after ttl (0 = never).
func NewRedisStore(client redisClient, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// DialRedis parses a redis:// URL, connects and pings.
func DialRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func redisKey(p forecast.Point) string {
	return redisKeyPrefix + p.Key()
}

// Save stores the document under forecast:<point key>.
func (s *RedisStore) Save(ctx context.Context, p forecast.Point, doc forecast.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal forecast: %w", err)
	}
	if err := s.client.Set(ctx, redisKey(p), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", redisKey(p), err)
	}
	return nil
}

// Latest loads the document of a point.
func (s *RedisStore) Latest(ctx context.Context, p forecast.Point) (forecast.Document, error) {
	data, err := s.client.Get(ctx, redisKey(p)).Bytes()
	if errors.Is(err, redis.Nil) {
		return forecast.Document{}, ErrNotFound
	}
	if err != nil {
		return forecast.Document{}, fmt.Errorf("redis get %s: %w", redisKey(p), err)
	}

	var doc forecast.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return forecast.Document{}, fmt.Errorf("decode cached forecast: %w", err)
	}
	return doc, nil
}

var _ forecast.Store = (*RedisStore)(nil)
