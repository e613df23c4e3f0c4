package allocation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLease(t *testing.T) (*RedisLease, redismock.ClientMock) {
	t.Helper()
	db, mock := redismock.NewClientMock()
	l := NewRedisLease(db, "", 0)
	l.newToken = func() string { return "token-1" }
	return l, mock
}

func TestRedisLeaseDefaults(t *testing.T) {
	l, _ := newTestLease(t)
	assert.Equal(t, DefaultLeaseKey, l.key)
	assert.Equal(t, 5*time.Minute, l.ttl)
}

func TestRedisLeaseAcquireAndRelease(t *testing.T) {
	l, mock := newTestLease(t)
	mock.ExpectSetNX(DefaultLeaseKey, "token-1", 5*time.Minute).SetVal(true)
	mock.ExpectEvalSha(releaseScript.Hash(), []string{DefaultLeaseKey}, "token-1").SetVal(int64(1))

	release, err := l.Acquire(context.Background())
	require.NoError(t, err)
	require.NoError(t, release(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisLeaseHeld(t *testing.T) {
	l, mock := newTestLease(t)
	mock.ExpectSetNX(DefaultLeaseKey, "token-1", 5*time.Minute).SetVal(false)

	release, err := l.Acquire(context.Background())
	assert.ErrorIs(t, err, ErrRunInProgress)
	assert.Nil(t, release)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisLeaseAcquireError(t *testing.T) {
	l, mock := newTestLease(t)
	down := errors.New("connection refused")
	mock.ExpectSetNX(DefaultLeaseKey, "token-1", 5*time.Minute).SetErr(down)

	_, err := l.Acquire(context.Background())
	assert.ErrorIs(t, err, down)
	assert.NotErrorIs(t, err, ErrRunInProgress)
}

func TestRedisLeaseReleaseAfterExpiry(t *testing.T) {
	l, mock := newTestLease(t)
	mock.ExpectSetNX(DefaultLeaseKey, "token-1", 5*time.Minute).SetVal(true)
	// The key now belongs to another holder; the script deletes nothing.
	mock.ExpectEvalSha(releaseScript.Hash(), []string{DefaultLeaseKey}, "token-1").SetVal(int64(0))

	release, err := l.Acquire(context.Background())
	require.NoError(t, err)
	assert.NoError(t, release(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunWithRedisLease(t *testing.T) {
	l, mock := newTestLease(t)
	mock.ExpectSetNX(DefaultLeaseKey, "token-1", 5*time.Minute).SetVal(false)

	a := New(nil, nil, WithLease(l))
	_, err := a.Run(context.Background(), StrategyUniversity)
	assert.ErrorIs(t, err, ErrRunInProgress)
	assert.NoError(t, mock.ExpectationsWereMet())
}
