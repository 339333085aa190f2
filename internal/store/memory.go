package store

import (
	"context"
	"sync"
	"time"

	"call-auditor-go/internal/types"
)

type memEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryKV is an in-process KV. Expired entries are hidden on read and
// removed by Sweep.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string]memEntry
	now  func() time.Time
}

type MemoryOption func(*MemoryKV)

// WithClock overrides the time source, used by tests to advance past TTLs.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *MemoryKV) {
		if now != nil {
			m.now = now
		}
	}
}

func NewMemoryKV(opts ...MemoryOption) *MemoryKV {
	m := &MemoryKV{data: make(map[string]memEntry), now: time.Now}
	for _, o := range opts {
		o(m)
	}
	return m
}

func (m *MemoryKV) Put(_ context.Context, key string, value []byte, ttl time.Duration) error {
	v := make([]byte, len(value))
	copy(v, value)
	m.mu.Lock()
	m.data[key] = memEntry{value: v, expiresAt: m.now().Add(ttl)}
	m.mu.Unlock()
	return nil
}

func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	e, ok := m.data[key]
	m.mu.RUnlock()
	if !ok || !m.now().Before(e.expiresAt) {
		return nil, types.ErrNotFound
	}
	v := make([]byte, len(e.value))
	copy(v, e.value)
	return v, nil
}

func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

// Sweep drops expired entries and returns how many were removed.
func (m *MemoryKV) Sweep() int {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k, e := range m.data {
		if !now.Before(e.expiresAt) {
			delete(m.data, k)
			n++
		}
	}
	return n
}

// RunSweeper calls Sweep every interval until ctx is done.
func (m *MemoryKV) RunSweeper(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			m.Sweep()
		}
	}
}

func (m *MemoryKV) Close() error { return nil }
