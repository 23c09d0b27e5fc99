package artifact

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/JonMunkholm/catalog-import/internal/core"
)

// redisClient is the subset of *redis.Client used by RedisSink.
type redisClient interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// RedisSink stores artifacts as redis strings that expire after ttl.
type RedisSink struct {
	client redisClient
	prefix string
	ttl    time.Duration
}

var _ core.ArtifactSink = (*RedisSink)(nil)

func NewRedisSink(client redisClient, prefix string, ttl time.Duration) *RedisSink {
	return &RedisSink{client: client, prefix: prefix, ttl: ttl}
}

// NewRedisClient parses url and pings the server.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (s *RedisSink) Put(ctx context.Context, name string, data []byte) (core.ArtifactHandle, error) {
	key := NewKey(name)
	if err := s.client.Set(ctx, s.prefix+key, data, s.ttl).Err(); err != nil {
		return core.ArtifactHandle{}, fmt.Errorf("redis set: %w", err)
	}
	return core.ArtifactHandle{Key: key, Name: name, Size: len(data)}, nil
}

func (s *RedisSink) Get(ctx context.Context, key string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}

	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return data, nil
}
