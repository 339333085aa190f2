package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"call-auditor-go/internal/types"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func TestMemoryKV_ExpiresAfterTTL(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	kv := NewMemoryKV(WithClock(clock.Now))

	require.NoError(t, kv.Put(ctx, "k", []byte("v"), time.Minute))

	got, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	clock.Advance(time.Minute)
	_, err = kv.Get(ctx, "k")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestMemoryKV_OverwriteRearmsTTL(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	kv := NewMemoryKV(WithClock(clock.Now))

	require.NoError(t, kv.Put(ctx, "k", []byte("1"), time.Hour))
	clock.Advance(50 * time.Minute)
	require.NoError(t, kv.Put(ctx, "k", []byte("2"), time.Hour))
	clock.Advance(50 * time.Minute)

	got, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), got)
}

func TestMemoryKV_Sweep(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	kv := NewMemoryKV(WithClock(clock.Now))

	require.NoError(t, kv.Put(ctx, "short", []byte("a"), time.Second))
	require.NoError(t, kv.Put(ctx, "long", []byte("b"), time.Hour))
	clock.Advance(time.Minute)

	assert.Equal(t, 1, kv.Sweep())
	_, err := kv.Get(ctx, "long")
	assert.NoError(t, err)
}

func TestMemoryKV_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	val := []byte("abc")
	require.NoError(t, kv.Put(ctx, "k", val, time.Hour))
	val[0] = 'x'

	got, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	got[1] = 'y'

	again, _ := kv.Get(ctx, "k")
	assert.Equal(t, []byte("abc"), again)
}
