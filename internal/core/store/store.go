package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/niksmo/kvshop/internal/core/port"
)

var _ port.Store = (*Adapter)(nil)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	probeKey     = "__storage_test__"
	QuotaMessage = "Storage limit exceeded. Please clear some data."
)

// A QuotaWarner surfaces a capacity fault to the user.
type QuotaWarner interface {
	WarnQuota(ctx context.Context, key, message string)
}

type QuotaWarnerFunc func(ctx context.Context, key, message string)

func (f QuotaWarnerFunc) WarnQuota(ctx context.Context, key, message string) {
	f(ctx, key, message)
}

type logWarner struct{}

func (logWarner) WarnQuota(ctx context.Context, key, message string) {
	slog.WarnContext(ctx, message, "op", "store.logWarner", "key", key)
}

// An Adapter keeps JSON encoded values in a [port.KVBackend] under
// its namespace.
//
// Faults are logged at the boundary and returned wrapped around one of
// the package errors, so callers can degrade on [errors.Is] checks.
type Adapter struct {
	backend   port.KVBackend
	namespace string
	warner    QuotaWarner
}

type Opt func(*Adapter)

// NamespaceOpt prefixes every key. Clear removes only prefixed keys.
func NamespaceOpt(namespace string) Opt {
	return func(a *Adapter) {
		a.namespace = namespace
	}
}

func QuotaWarnerOpt(w QuotaWarner) Opt {
	return func(a *Adapter) {
		if w != nil {
			a.warner = w
		}
	}
}

func New(backend port.KVBackend, opts ...Opt) *Adapter {
	a := &Adapter{backend: backend, warner: logWarner{}}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Load decodes the value stored at key into dst.
//
// A missing key returns [ErrNotFound] and is not logged.
func (a *Adapter) Load(ctx context.Context, key string, dst any) error {
	const op = "Adapter.Load"

	data, err := a.backend.Get(ctx, a.key(key))
	if err != nil {
		if errors.Is(err, port.ErrKeyNotFound) {
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return a.fault(ctx, op, key, ErrUnavailable, err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return a.fault(ctx, op, key, ErrDeserialization, err)
	}
	return nil
}

func (a *Adapter) Set(ctx context.Context, key string, v any) error {
	const op = "Adapter.Set"

	data, err := json.Marshal(v)
	if err != nil {
		return a.fault(ctx, op, key, ErrSerialization, err)
	}

	if err := a.backend.Put(ctx, a.key(key), data); err != nil {
		return a.writeFault(ctx, op, key, err)
	}
	return nil
}

// SetMany writes all entries or none of them.
func (a *Adapter) SetMany(ctx context.Context, entries map[string]any) error {
	const op = "Adapter.SetMany"

	batch := make(map[string][]byte, len(entries))
	for key, v := range entries {
		data, err := json.Marshal(v)
		if err != nil {
			return a.fault(ctx, op, key, ErrSerialization, err)
		}
		batch[a.key(key)] = data
	}

	if err := a.backend.PutBatch(ctx, batch); err != nil {
		return a.writeFault(ctx, op, batchKeys(entries), err)
	}
	return nil
}

func (a *Adapter) Remove(ctx context.Context, key string) error {
	const op = "Adapter.Remove"

	if err := a.backend.Delete(ctx, a.key(key)); err != nil {
		return a.fault(ctx, op, key, ErrUnavailable, err)
	}
	return nil
}

func (a *Adapter) Clear(ctx context.Context) error {
	const op = "Adapter.Clear"

	if err := a.backend.DeletePrefix(ctx, a.namespace); err != nil {
		return a.fault(ctx, op, a.namespace+"*", ErrUnavailable, err)
	}
	return nil
}

// IsAvailable probes the backend with a throwaway write and delete.
func (a *Adapter) IsAvailable(ctx context.Context) bool {
	const op = "Adapter.IsAvailable"
	log := slog.With("op", op)

	key := a.key(probeKey)
	if err := a.backend.Put(ctx, key, []byte(`"`+probeKey+`"`)); err != nil {
		log.Warn("storage probe failed", "err", err)
		return false
	}
	if err := a.backend.Delete(ctx, key); err != nil {
		log.Warn("storage probe failed", "err", err)
		return false
	}
	return true
}

func (a *Adapter) key(key string) string {
	return a.namespace + key
}

func (a *Adapter) writeFault(ctx context.Context, op, key string, err error) error {
	if errors.Is(err, port.ErrQuotaExceeded) {
		a.warner.WarnQuota(ctx, key, QuotaMessage)
		return a.fault(ctx, op, key, ErrCapacity, err)
	}
	return a.fault(ctx, op, key, ErrUnavailable, err)
}

func (a *Adapter) fault(
	ctx context.Context, op, key string, kind, err error,
) error {
	slog.ErrorContext(ctx, kind.Error(), "op", op, "key", key, "err", err)
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}

func batchKeys(entries map[string]any) string {
	return strings.Join(slices.Sorted(maps.Keys(entries)), ",")
}

type Loader interface {
	Load(ctx context.Context, key string, dst any) error
}

// Get returns the value stored at key, or def when the key is missing
// or the value cannot be read.
func Get[T any](ctx context.Context, l Loader, key string, def T) T {
	var v T
	if err := l.Load(ctx, key, &v); err != nil {
		return def
	}
	return v
}
