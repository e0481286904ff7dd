package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Idempotency and rate limiting sit on the posting path, so Redis calls are
// kept short and retried at most once.
const (
	redisDialTimeout = 2 * time.Second
	redisIOTimeout   = 500 * time.Millisecond
	redisMaxRetries  = 1
)

// RedisOptions parses a redis:// URL, filling timeouts and retries the URL
// leaves unset.
func RedisOptions(url string) (*redis.Options, error) {
	if url == "" {
		return nil, fmt.Errorf("redis url is required")
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if opt.DialTimeout == 0 {
		opt.DialTimeout = redisDialTimeout
	}
	if opt.ReadTimeout == 0 {
		opt.ReadTimeout = redisIOTimeout
	}
	if opt.WriteTimeout == 0 {
		opt.WriteTimeout = redisIOTimeout
	}
	if opt.MaxRetries == 0 {
		opt.MaxRetries = redisMaxRetries
	}
	return opt, nil
}

// NewRedisClient connects with RedisOptions and checks that the server answers.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := RedisOptions(url)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)
	if err := verify(ctx, "redis", func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}
