// Package lock provides the critical section that serializes schedule
// generation. A single process uses the in-memory locker; several processes
// sharing one database coordinate through Redis.
package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// DefaultTTL bounds how long a Redis lock is held if its owner dies.
const DefaultTTL = 30 * time.Second

// ErrNotObtained is returned when another holder owns the key.
var ErrNotObtained = errors.New("lock: not obtained")

// ReleaseFunc gives up a held lock.
type ReleaseFunc func(ctx context.Context) error

// Locker obtains named locks without blocking.
type Locker interface {
	Obtain(ctx context.Context, key string) (ReleaseFunc, error)
}

// Local is an in-process Locker.
type Local struct {
	mu   sync.Mutex
	held map[string]bool
}

// NewLocal creates an in-process locker.
func NewLocal() *Local {
	return &Local{held: make(map[string]bool)}
}

// Obtain takes key if it is free and returns ErrNotObtained otherwise.
func (l *Local) Obtain(ctx context.Context, key string) (ReleaseFunc, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] {
		return nil, ErrNotObtained
	}
	l.held[key] = true

	var once sync.Once
	return func(context.Context) error {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, key)
			l.mu.Unlock()
		})
		return nil
	}, nil
}

// Redis is a Locker backed by redislock, shared by every process pointed at
// the same Redis instance.
type Redis struct {
	client *redislock.Client
	ttl    time.Duration
}

// NewRedis wraps client. A non-positive ttl uses DefaultTTL.
func NewRedis(client redis.UniversalClient, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{client: redislock.New(client), ttl: ttl}
}

// Obtain tries once to take key in Redis.
func (r *Redis) Obtain(ctx context.Context, key string) (ReleaseFunc, error) {
	l, err := r.client.Obtain(ctx, key, r.ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, ErrNotObtained
	}
	if err != nil {
		return nil, fmt.Errorf("lock: obtain %s: %w", key, err)
	}
	return func(ctx context.Context) error {
		if err := l.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			return fmt.Errorf("lock: release %s: %w", key, err)
		}
		return nil
	}, nil
}
