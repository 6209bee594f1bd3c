package lock

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker is a SETNX lock shared across processes. The TTL bounds how long a
// crashed holder can block others.
type RedisLocker struct {
	client   redis.Cmdable
	prefix   string
	ttl      time.Duration
	retry    time.Duration
	newToken func() string
}

type RedisOption func(*RedisLocker)

func WithPrefix(prefix string) RedisOption {
	return func(r *RedisLocker) { r.prefix = prefix }
}

func WithTTL(ttl time.Duration) RedisOption {
	return func(r *RedisLocker) { r.ttl = ttl }
}

func WithRetryInterval(d time.Duration) RedisOption {
	return func(r *RedisLocker) { r.retry = d }
}

func NewRedisLocker(client redis.Cmdable, opts ...RedisOption) *RedisLocker {
	r := &RedisLocker{
		client:   client,
		prefix:   "hris:lock:",
		ttl:      30 * time.Second,
		retry:    50 * time.Millisecond,
		newToken: uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *RedisLocker) Acquire(ctx context.Context, key string) (func(), error) {
	fullKey := r.prefix + key
	token := r.newToken()

	ticker := time.NewTicker(r.retry)
	defer ticker.Stop()

	for {
		ok, err := r.client.SetNX(ctx, fullKey, token, r.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w %q: %w", ErrLockTimeout, key, ctx.Err())
			}
			return nil, fmt.Errorf("acquire lock %q: %w", key, err)
		}
		if ok {
			return r.releaser(fullKey, token), nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w %q: %w", ErrLockTimeout, key, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (r *RedisLocker) releaser(fullKey, token string) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := releaseScript.Run(ctx, r.client, []string{fullKey}, token).Err(); err != nil {
				slog.Warn("failed to release lock", "key", fullKey, "error", err)
			}
		})
	}
}
