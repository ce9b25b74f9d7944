package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewService(client, time.Minute), mr
}

func TestSession_SetGetDelete(t *testing.T) {
	svc, mr := newTestCache(t)
	ctx := context.Background()

	_, err := svc.GetSession(ctx, "abc")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, svc.SetSession(ctx, "abc", 42))
	userID, err := svc.GetSession(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), userID)
	assert.Equal(t, time.Minute, mr.TTL(sessionKey("abc")))

	mr.FastForward(2 * time.Minute)
	_, err = svc.GetSession(ctx, "abc")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, svc.SetSession(ctx, "abc", 42))
	require.NoError(t, svc.DeleteSession(ctx, "abc"))
	_, err = svc.GetSession(ctx, "abc")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestSession_KeyNeverContainsToken(t *testing.T) {
	svc, mr := newTestCache(t)
	token := "0123456789abcdef0123456789abcdef01234567"
	require.NoError(t, svc.SetSession(context.Background(), token, 7))

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.True(t, strings.HasPrefix(keys[0], keyPrefix))
	assert.NotContains(t, keys[0], token)
}

func TestSession_CorruptEntryIsMiss(t *testing.T) {
	svc, mr := newTestCache(t)
	require.NoError(t, mr.Set(sessionKey("abc"), "not-a-number"))

	_, err := svc.GetSession(context.Background(), "abc")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestDisabledCache(t *testing.T) {
	svc := NewService(nil, 0)
	ctx := context.Background()

	assert.False(t, svc.IsAvailable())
	assert.NoError(t, svc.SetSession(ctx, "abc", 1))
	_, err := svc.GetSession(ctx, "abc")
	assert.ErrorIs(t, err, ErrMiss)
	assert.NoError(t, svc.DeleteSession(ctx, "abc"))
	assert.Error(t, svc.Ping(ctx))
}
