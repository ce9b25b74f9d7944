// Package cache keeps a short-lived Redis copy of session lookups so authenticated
// requests skip the auth_tokens table.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultSessionTTL applies when no TTL is configured
const DefaultSessionTTL = 10 * time.Minute

// keyPrefix namespaces session entries. Keys carry a digest, never the session key itself.
const keyPrefix = "prm:session:"

// ErrMiss is returned when an entry is absent or the cache is disabled
var ErrMiss = errors.New("cache miss")

// Service caches session key to user id lookups.
// Without Redis every lookup misses and every write is a no-op.
type Service interface {
	GetSession(ctx context.Context, token string) (uint64, error)
	SetSession(ctx context.Context, token string, userID uint64) error
	DeleteSession(ctx context.Context, token string) error

	IsAvailable() bool
	Ping(ctx context.Context) error
}

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewService creates a session cache. client may be nil.
func NewService(client *redis.Client, ttl time.Duration) Service {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &redisCache{client: client, ttl: ttl}
}

// sessionKey derives the Redis key for a session credential
func sessionKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return keyPrefix + hex.EncodeToString(sum[:])
}

func (c *redisCache) IsAvailable() bool {
	return c.client != nil
}

func (c *redisCache) Ping(ctx context.Context) error {
	if c.client == nil {
		return fmt.Errorf("session cache is disabled")
	}
	return c.client.Ping(ctx).Err()
}

func (c *redisCache) GetSession(ctx context.Context, token string) (uint64, error) {
	if c.client == nil {
		return 0, ErrMiss
	}
	raw, err := c.client.Get(ctx, sessionKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrMiss
	}
	if err != nil {
		return 0, err
	}
	userID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		// Unreadable entries are treated as absent and overwritten on the next store
		return 0, ErrMiss
	}
	return userID, nil
}

func (c *redisCache) SetSession(ctx context.Context, token string, userID uint64) error {
	if c.client == nil {
		return nil
	}
	return c.client.Set(ctx, sessionKey(token), strconv.FormatUint(userID, 10), c.ttl).Err()
}

func (c *redisCache) DeleteSession(ctx context.Context, token string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, sessionKey(token)).Err()
}
