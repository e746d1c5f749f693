package infra

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"planner-core/persistence/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseAsyncStore(t *testing.T, s domain.AsyncStore) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Load(ctx, "ci_messages")
	require.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, s.Save(ctx, "ci_messages", []byte(`{"x":1}`)))
	require.NoError(t, s.Save(ctx, "ci_messages", []byte(`{"x":2}`)))
	require.NoError(t, s.Save(ctx, "ci_assets", []byte(`[]`)))

	got, err := s.Load(ctx, "ci_messages")
	require.NoError(t, err)
	assert.Equal(t, `{"x":2}`, string(got))

	got, err = s.Load(ctx, "ci_assets")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))
}

func TestMemoryAsyncStore(t *testing.T) {
	exerciseAsyncStore(t, NewMemoryAsyncStore())
}

func TestMemoryAsyncStore_LatencyHonorsContext(t *testing.T) {
	s := NewMemoryAsyncStore(WithLatency(func(op, key string) time.Duration { return time.Hour }))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := s.Load(ctx, "k")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "async.db"))
	require.NoError(t, err)
	defer s.Close()

	exerciseAsyncStore(t, s)
}

func TestSQLiteStore_InMemory(t *testing.T) {
	s, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer s.Close()

	exerciseAsyncStore(t, s)
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	s := NewRedisStore(rdb, WithKeyPrefix("test:docs:"))
	exerciseAsyncStore(t, s)

	v, err := mr.Get("test:docs:ci_messages")
	require.NoError(t, err)
	assert.Equal(t, `{"x":2}`, v)
}

func TestRedisStore_ServerDownIsAnError(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer func() { _ = rdb.Close() }()
	mr.Close()

	_, err := NewRedisStore(rdb).Load(context.Background(), "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestWritePool_LimitsConcurrentSlots(t *testing.T) {
	p := NewWritePool(1)
	assert.Equal(t, 1, p.Size())

	release, ok := p.Acquire(context.Background())
	require.True(t, ok)
	assert.Equal(t, 1, p.InUse())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, ok = p.Acquire(ctx)
	assert.False(t, ok, "second acquire must time out while the slot is held")

	release()
	release2, ok := p.Acquire(context.Background())
	require.True(t, ok)
	release2()
	assert.Zero(t, p.InUse())
}

func TestWritePool_ReleaseIsIdempotent(t *testing.T) {
	p := NewWritePool(2)

	first, ok := p.Acquire(context.Background())
	require.True(t, ok)
	second, ok := p.Acquire(context.Background())
	require.True(t, ok)

	first()
	first()
	assert.Equal(t, 1, p.InUse(), "a repeated release must not free the other writer's slot")
	second()
	assert.Zero(t, p.InUse())
}

func TestWritePool_CanceledContextNeverAcquires(t *testing.T) {
	p := NewWritePool(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, ok := p.Acquire(ctx)
	assert.False(t, ok)
	assert.Zero(t, p.InUse())
}
