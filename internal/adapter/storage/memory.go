package storage

import (
	"context"
	"strings"
	"sync"

	"github.com/niksmo/kvshop/internal/core/port"
)

var _ port.KVBackend = (*Memory)(nil)

// A Memory is a process local [port.KVBackend].
type Memory struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string][]byte)}
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	const op = "Memory.Get"

	if err := ctx.Err(); err != nil {
		return nil, opErr(err, op)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.entries[key]
	if !ok {
		return nil, opErr(port.ErrKeyNotFound, op)
	}
	return clone(v), nil
}

func (m *Memory) Put(ctx context.Context, key string, value []byte) error {
	const op = "Memory.Put"

	if err := ctx.Err(); err != nil {
		return opErr(err, op)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = clone(value)
	return nil
}

func (m *Memory) PutBatch(ctx context.Context, entries map[string][]byte) error {
	const op = "Memory.PutBatch"

	if err := ctx.Err(); err != nil {
		return opErr(err, op)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range entries {
		m.entries[k] = clone(v)
	}
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	const op = "Memory.Delete"

	if err := ctx.Err(); err != nil {
		return opErr(err, op)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func (m *Memory) DeletePrefix(ctx context.Context, prefix string) error {
	const op = "Memory.DeletePrefix"

	if err := ctx.Err(); err != nil {
		return opErr(err, op)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.entries {
		if strings.HasPrefix(k, prefix) {
			delete(m.entries, k)
		}
	}
	return nil
}

func (m *Memory) Usage(ctx context.Context) (int64, error) {
	const op = "Memory.Usage"

	if err := ctx.Err(); err != nil {
		return 0, opErr(err, op)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var n int64
	for k, v := range m.entries {
		n += entrySize(k, v)
	}
	return n, nil
}

func (m *Memory) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (m *Memory) Close() error {
	return nil
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
