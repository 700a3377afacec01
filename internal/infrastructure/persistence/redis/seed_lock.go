package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/alem-hub/academic-records/internal/domain/shared"
)

// DefaultLockTTL bounds how long a crashed holder can block other runs.
const DefaultLockTTL = 10 * time.Minute

// releaseScript deletes the key only while it still holds our token, so an
// expired lock taken over by another run is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Lock is a single-key distributed mutex built on SET NX PX.
type Lock struct {
	client *Client
	key    string
	ttl    time.Duration
}

// NewLock creates a lock on the named resource.
func NewLock(client *Client, resource string, ttl time.Duration) *Lock {
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	return &Lock{
		client: client,
		key:    client.LockKey(resource),
		ttl:    ttl,
	}
}

// Key returns the Redis key guarded by the lock.
func (l *Lock) Key() string {
	return l.key
}

// Acquire takes the lock or fails with shared.ErrSeedInProgress when another
// holder owns it. The returned release func is safe to call once the lock has
// expired.
func (l *Lock) Acquire(ctx context.Context) (func(context.Context) error, error) {
	token := uuid.NewString()

	ok, err := l.client.rdb.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, shared.WrapError("redis", "Acquire", shared.ErrStoreUnavailable, "failed to take lock", err)
	}
	if !ok {
		return nil, shared.ErrSeedInProgress
	}

	release := func(ctx context.Context) error {
		if _, err := releaseScript.Run(ctx, l.client.rdb, []string{l.key}, token).Int(); err != nil {
			return fmt.Errorf("redis: release %s: %w", l.key, err)
		}
		return nil
	}
	return release, nil
}
