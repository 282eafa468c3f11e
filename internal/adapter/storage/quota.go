package storage

import (
	"context"
	"errors"
	"sync"

	"github.com/niksmo/kvshop/internal/core/port"
)

var _ port.KVBackend = (*Quota)(nil)

// A Quota limits the total size of the entries in the wrapped backend.
//
// A write that would grow the usage above the limit fails with
// [port.ErrQuotaExceeded] before anything is written.
type Quota struct {
	port.KVBackend
	mu    sync.Mutex
	limit int64
}

func NewQuota(backend port.KVBackend, limit int64) *Quota {
	return &Quota{KVBackend: backend, limit: limit}
}

func (q *Quota) Put(ctx context.Context, key string, value []byte) error {
	const op = "Quota.Put"

	q.mu.Lock()
	defer q.mu.Unlock()

	if err := q.admit(ctx, map[string][]byte{key: value}); err != nil {
		return opErr(err, op)
	}
	return q.KVBackend.Put(ctx, key, value)
}

func (q *Quota) PutBatch(ctx context.Context, entries map[string][]byte) error {
	const op = "Quota.PutBatch"

	q.mu.Lock()
	defer q.mu.Unlock()

	if err := q.admit(ctx, entries); err != nil {
		return opErr(err, op)
	}
	return q.KVBackend.PutBatch(ctx, entries)
}

func (q *Quota) admit(ctx context.Context, entries map[string][]byte) error {
	usage, err := q.KVBackend.Usage(ctx)
	if err != nil {
		return err
	}

	for k, v := range entries {
		old, err := q.KVBackend.Get(ctx, k)
		switch {
		case err == nil:
			usage -= entrySize(k, old)
		case !errors.Is(err, port.ErrKeyNotFound):
			return err
		}
		usage += entrySize(k, v)
	}

	if usage > q.limit {
		return port.ErrQuotaExceeded
	}
	return nil
}
