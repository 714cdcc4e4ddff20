package lock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/coop_backoffice/internal/apperrors"
	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisLocker_AcquireAndRelease(t *testing.T) {
	client, mock := redismock.NewClientMock()
	locker := NewRedisLocker(client)
	locker.newToken = func() string { return "token-1" }
	ctx := context.Background()

	mock.ExpectSetNX("coop:lock:ckpn:2024-03", "token-1", time.Minute).SetVal(true)
	mock.ExpectEval(releaseScript, []string{"coop:lock:ckpn:2024-03"}, "token-1").SetVal(int64(1))

	release, err := locker.Acquire(ctx, "ckpn:2024-03", time.Minute)
	require.NoError(t, err)
	require.NoError(t, release(ctx))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisLocker_Held(t *testing.T) {
	client, mock := redismock.NewClientMock()
	locker := NewRedisLocker(client)
	locker.newToken = func() string { return "token-2" }

	mock.ExpectSetNX("coop:lock:ckpn:2024-03", "token-2", time.Minute).SetVal(false)

	release, err := locker.Acquire(context.Background(), "ckpn:2024-03", time.Minute)
	assert.Nil(t, release)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisLocker_RedisDown(t *testing.T) {
	client, mock := redismock.NewClientMock()
	locker := NewRedisLocker(client)
	locker.newToken = func() string { return "token-3" }

	mock.ExpectSetNX("coop:lock:ckpn:2024-03", "token-3", time.Minute).SetErr(errors.New("connection refused"))

	_, err := locker.Acquire(context.Background(), "ckpn:2024-03", time.Minute)
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrConflict)
}

func TestLocalLocker(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)
	locker := NewLocalLocker()
	locker.nowFn = func() time.Time { return now }

	release, err := locker.Acquire(ctx, "ckpn:2024-03", time.Minute)
	require.NoError(t, err)

	_, err = locker.Acquire(ctx, "ckpn:2024-03", time.Minute)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	// another period is independent
	other, err := locker.Acquire(ctx, "ckpn:2024-04", time.Minute)
	require.NoError(t, err)
	require.NoError(t, other(ctx))

	require.NoError(t, release(ctx))
	again, err := locker.Acquire(ctx, "ckpn:2024-03", time.Minute)
	require.NoError(t, err)

	// an expired lock can be taken over and the stale release leaves it alone
	now = now.Add(2 * time.Minute)
	takeover, err := locker.Acquire(ctx, "ckpn:2024-03", time.Minute)
	require.NoError(t, err)
	require.NoError(t, again(ctx))
	_, err = locker.Acquire(ctx, "ckpn:2024-03", time.Minute)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	require.NoError(t, takeover(ctx))
}
