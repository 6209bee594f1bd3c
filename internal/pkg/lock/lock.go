package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrLockTimeout is returned when the lock could not be acquired before the
// context expired.
var ErrLockTimeout = errors.New("timed out waiting for lock")

// Locker serializes work on a key. Release is safe to call more than once.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// LocalLocker is an in-process keyed mutex. Entries are dropped once no goroutine
// holds or waits on them.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	sem  chan struct{}
	refs int
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[string]*entry)}
}

func (l *LocalLocker) Acquire(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	e, ok := l.locks[key]
	if !ok {
		e = &entry{sem: make(chan struct{}, 1)}
		l.locks[key] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.sem <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-e.sem
				l.drop(key, e)
			})
		}, nil
	case <-ctx.Done():
		l.drop(key, e)
		return nil, fmt.Errorf("%w %q: %w", ErrLockTimeout, key, ctx.Err())
	}
}

func (l *LocalLocker) drop(key string, e *entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.locks, key)
	}
}

// size reports the number of live keys.
func (l *LocalLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
