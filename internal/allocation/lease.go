package allocation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Lease guards an allocation run against concurrent runs in other
// processes. Acquire returns ErrRunInProgress when the lease is held
// elsewhere; the returned release function gives it back.
type Lease interface {
	Acquire(ctx context.Context) (release func(context.Context) error, err error)
}

// DefaultLeaseKey is the Redis key used by RedisLease when none is given.
const DefaultLeaseKey = "seating:allocation:lease"

// releaseScript deletes the lease key only while it still carries our
// token, so a run that outlived its TTL cannot drop a successor's lease.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLease is a Lease backed by a single Redis key set with NX and a
// TTL. The TTL bounds how long a crashed run can block later runs.
type RedisLease struct {
	rdb      *redis.Client
	key      string
	ttl      time.Duration
	newToken func() string
}

// NewRedisLease returns a lease stored under key. An empty key falls
// back to DefaultLeaseKey and a non-positive ttl to five minutes.
func NewRedisLease(rdb *redis.Client, key string, ttl time.Duration) *RedisLease {
	if key == "" {
		key = DefaultLeaseKey
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisLease{rdb: rdb, key: key, ttl: ttl, newToken: uuid.NewString}
}

// Acquire implements Lease.
func (l *RedisLease) Acquire(ctx context.Context) (func(context.Context) error, error) {
	token := l.newToken()
	ok, err := l.rdb.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire lease %s: %w", l.key, err)
	}
	if !ok {
		return nil, ErrRunInProgress
	}
	return func(ctx context.Context) error {
		err := releaseScript.Run(ctx, l.rdb, []string{l.key}, token).Err()
		if err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("release lease %s: %w", l.key, err)
		}
		return nil
	}, nil
}
