package storage

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/niksmo/kvshop/internal/core/port"
	"github.com/redis/go-redis/v9"
)

var _ port.KVBackend = (*Redis)(nil)

const scanCount = 100

// A Redis keeps every entry as a plain string key without expiration.
type Redis struct {
	cl *redis.Client
}

func OpenRedis(ctx context.Context, opts *redis.Options) (*Redis, error) {
	const op = "OpenRedis"

	r := &Redis{redis.NewClient(opts)}
	if err := r.Ping(ctx); err != nil {
		_ = r.cl.Close()
		return nil, opErr(err, op)
	}
	slog.Info("redis is available", "op", op, "addr", opts.Addr)
	return r, nil
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	const op = "Redis.Get"

	v, err := r.cl.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, opErr(port.ErrKeyNotFound, op)
		}
		return nil, opErr(err, op)
	}
	return v, nil
}

func (r *Redis) Put(ctx context.Context, key string, value []byte) error {
	const op = "Redis.Put"

	if err := r.cl.Set(ctx, key, value, 0).Err(); err != nil {
		return opErr(err, op)
	}
	return nil
}

func (r *Redis) PutBatch(ctx context.Context, entries map[string][]byte) error {
	const op = "Redis.PutBatch"

	_, err := r.cl.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for k, v := range entries {
			pipe.Set(ctx, k, v, 0)
		}
		return nil
	})
	if err != nil {
		return opErr(err, op)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	const op = "Redis.Delete"

	if err := r.cl.Del(ctx, key).Err(); err != nil {
		return opErr(err, op)
	}
	return nil
}

func (r *Redis) DeletePrefix(ctx context.Context, prefix string) error {
	const op = "Redis.DeletePrefix"

	keys, err := r.scan(ctx, escapeGlob(prefix)+"*")
	if err != nil {
		return opErr(err, op)
	}
	if len(keys) == 0 {
		return nil
	}

	if err := r.cl.Del(ctx, keys...).Err(); err != nil {
		return opErr(err, op)
	}
	return nil
}

func (r *Redis) Usage(ctx context.Context) (int64, error) {
	const op = "Redis.Usage"

	keys, err := r.scan(ctx, "*")
	if err != nil {
		return 0, opErr(err, op)
	}

	pipe := r.cl.Pipeline()
	lens := make([]*redis.IntCmd, len(keys))
	for i, k := range keys {
		lens[i] = pipe.StrLen(ctx, k)
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return 0, opErr(err, op)
	}

	var n int64
	for i, k := range keys {
		n += int64(len(k)) + lens[i].Val()
	}
	return n, nil
}

func (r *Redis) Ping(ctx context.Context) error {
	const op = "Redis.Ping"
	if err := r.cl.Ping(ctx).Err(); err != nil {
		return opErr(err, op)
	}
	return nil
}

func (r *Redis) Close() error {
	const op = "Redis.Close"
	log := slog.With("op", op)

	log.Info("closing redis client...")
	if err := r.cl.Close(); err != nil {
		return opErr(err, op)
	}
	log.Info("redis client is closed")
	return nil
}

func (r *Redis) scan(ctx context.Context, match string) ([]string, error) {
	var keys []string
	iter := r.cl.Scan(ctx, 0, match, scanCount).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	return keys, iter.Err()
}

var globEscaper = strings.NewReplacer(
	`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`,
)

func escapeGlob(s string) string {
	return globEscaper.Replace(s)
}
