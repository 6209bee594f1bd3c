package lock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisLocker(t *testing.T) (*RedisLocker, redismock.ClientMock) {
	t.Helper()
	client, mock := redismock.NewClientMock()
	l := NewRedisLocker(client, WithTTL(10*time.Second), WithRetryInterval(time.Millisecond))
	l.newToken = func() string { return "token-1" }
	return l, mock
}

func TestRedisLocker_AcquireAndRelease(t *testing.T) {
	l, mock := newTestRedisLocker(t)
	key := "hris:lock:attendance:emp-1"

	mock.ExpectSetNX(key, "token-1", 10*time.Second).SetVal(true)
	mock.ExpectEvalSha(releaseScript.Hash(), []string{key}, "token-1").SetVal(int64(1))

	release, err := l.Acquire(context.Background(), "attendance:emp-1")
	require.NoError(t, err)
	release()
	release()

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisLocker_RetriesWhileHeld(t *testing.T) {
	l, mock := newTestRedisLocker(t)
	key := "hris:lock:attendance:emp-1"

	mock.ExpectSetNX(key, "token-1", 10*time.Second).SetVal(false)
	mock.ExpectSetNX(key, "token-1", 10*time.Second).SetVal(false)
	mock.ExpectSetNX(key, "token-1", 10*time.Second).SetVal(true)

	_, err := l.Acquire(context.Background(), "attendance:emp-1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisLocker_BackendError(t *testing.T) {
	l, mock := newTestRedisLocker(t)
	mock.ExpectSetNX("hris:lock:k", "token-1", 10*time.Second).SetErr(errors.New("connection refused"))

	_, err := l.Acquire(context.Background(), "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrLockTimeout)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestRedisLocker_CancelledContext(t *testing.T) {
	l, mock := newTestRedisLocker(t)
	mock.ExpectSetNX("hris:lock:k", "token-1", 10*time.Second).SetVal(false)

	ctx, cancel := context.WithCancel(context.Background())
	l.retry = time.Hour
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := l.Acquire(ctx, "k")
	assert.ErrorIs(t, err, ErrLockTimeout)
}
