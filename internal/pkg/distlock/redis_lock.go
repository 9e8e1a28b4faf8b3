package distlock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	lockPrefix = "outreach:lock:"
	defaultTTL = 30 * time.Second
)

// releaseScript deletes the key only when the stored token matches, so a
// lock that expired and was re-acquired by another sender is never torn
// down by the previous holder.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisLock is a single-use send lock backed by SET NX with a TTL. Each
// instance carries its own random token and only the instance that
// acquired the key can release it. The TTL bounds how long a crashed
// sender can block a retry of the same email.
type RedisLock struct {
	client *redis.Client
	key    string
	token  string
	ttl    time.Duration
}

// NewRedisLock builds a lock for the given key. A non-positive ttl falls
// back to 30 seconds, which covers one transport dispatch.
func NewRedisLock(client *redis.Client, key string, ttl time.Duration) *RedisLock {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisLock{
		client: client,
		key:    lockPrefix + key,
		token:  uuid.NewString(),
		ttl:    ttl,
	}
}

// Acquire takes the lock if nobody holds it. Never blocks waiting.
func (l *RedisLock) Acquire(ctx context.Context) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.key, l.token, l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire %s: %w", l.key, err)
	}
	return ok, nil
}

// Release drops the lock if this instance still owns it. A lock held by
// someone else is left alone.
func (l *RedisLock) Release(ctx context.Context) error {
	return releaseScript.Run(ctx, l.client, []string{l.key}, l.token).Err()
}
