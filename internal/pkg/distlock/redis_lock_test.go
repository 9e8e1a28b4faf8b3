package distlock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestRedisLockAcquireRelease(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	lock := NewRedisLock(client, "sendlock:email-1", time.Minute)
	ok, err := lock.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, lock.Release(ctx))

	// released lock can be taken again
	again := NewRedisLock(client, "sendlock:email-1", time.Minute)
	ok, err = again.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLockMutualExclusion(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	first := NewRedisLock(client, "sendlock:email-2", time.Minute)
	ok, err := first.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	second := NewRedisLock(client, "sendlock:email-2", time.Minute)
	ok, err = second.Acquire(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "second holder must not acquire a held lock")
}

func TestRedisLockReleaseOnlyByOwner(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	owner := NewRedisLock(client, "sendlock:email-3", time.Minute)
	ok, err := owner.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	// a non-owner release is a no-op; the owner still holds the lock
	impostor := NewRedisLock(client, "sendlock:email-3", time.Minute)
	require.NoError(t, impostor.Release(ctx))

	third := NewRedisLock(client, "sendlock:email-3", time.Minute)
	ok, err = third.Acquire(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisLockDefaultTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	ctx := context.Background()

	lock := NewRedisLock(client, "sendlock:email-6", 0)
	ok, err := lock.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	// an unset TTL would leave a crashed sender's lock stuck forever
	assert.Equal(t, 30*time.Second, mr.TTL("outreach:lock:sendlock:email-6"))
}

func TestNewLockPrefersRedis(t *testing.T) {
	client := newTestClient(t)

	lock := NewLock(client, nil, "sendlock:email-4", time.Minute)
	_, isRedis := lock.(*RedisLock)
	assert.True(t, isRedis)
}

func TestNewLockFallsBackToPostgres(t *testing.T) {
	lock := NewLock(nil, nil, "sendlock:email-5", time.Minute)
	_, isPG := lock.(*PGAdvisoryLock)
	assert.True(t, isPG)
}
