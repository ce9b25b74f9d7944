// Package redis opens the shared go-redis client used by the session cache, rate limiter and mail queue.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Options describes how to reach Redis
type Options struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int

	// Attempts is how many pings are tried before giving up; at least one
	Attempts int
	// Backoff is the pause before the second ping and doubles after each failure
	Backoff time.Duration
}

// NewClient creates a Redis client and waits until it answers a ping
func NewClient(ctx context.Context, opts Options) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", opts.Host, opts.Port),
		Password: opts.Password,
		DB:       opts.DB,
		PoolSize: opts.PoolSize,
	})

	if err := waitReady(ctx, client, opts.Attempts, opts.Backoff); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", client.Options().Addr, err)
	}
	return client, nil
}

func waitReady(ctx context.Context, client *redis.Client, attempts int, backoff time.Duration) error {
	if attempts < 1 {
		attempts = 1
	}
	if backoff <= 0 {
		backoff = 250 * time.Millisecond
	}

	var err error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err = client.Ping(pingCtx).Err()
		cancel()
		if err == nil {
			return nil
		}
	}
	return err
}
