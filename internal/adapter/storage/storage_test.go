package storage

import (
	"context"
	"os"
	"testing"

	"github.com/niksmo/kvshop/internal/core/port"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	postgresDSNEnv = "KVSHOP_TEST_POSTGRES_DSN"
	redisAddrEnv   = "KVSHOP_TEST_REDIS_ADDR"
)

// testBackend checks the contract every port.KVBackend honors.
// Keys are put under prefix so shared servers are left as they were.
func testBackend(t *testing.T, b port.KVBackend, prefix string) {
	ctx := context.Background()
	key := func(k string) string { return prefix + k }

	t.Cleanup(func() {
		assert.NoError(t, b.DeletePrefix(ctx, prefix))
	})

	t.Run("Ping", func(t *testing.T) {
		assert.NoError(t, b.Ping(ctx))
	})

	t.Run("MissingKey", func(t *testing.T) {
		_, err := b.Get(ctx, key("missing"))
		assert.ErrorIs(t, err, port.ErrKeyNotFound)
	})

	t.Run("PutGet", func(t *testing.T) {
		require.NoError(t, b.Put(ctx, key("a"), []byte(`{"n":1}`)))
		v, err := b.Get(ctx, key("a"))
		require.NoError(t, err)
		assert.Equal(t, []byte(`{"n":1}`), v)

		require.NoError(t, b.Put(ctx, key("a"), []byte(`{"n":2}`)))
		v, err = b.Get(ctx, key("a"))
		require.NoError(t, err)
		assert.Equal(t, []byte(`{"n":2}`), v)
	})

	t.Run("PutBatch", func(t *testing.T) {
		err := b.PutBatch(ctx, map[string][]byte{
			key("b1"): []byte("1"),
			key("b2"): []byte("2"),
		})
		require.NoError(t, err)

		for k, want := range map[string]string{"b1": "1", "b2": "2"} {
			v, err := b.Get(ctx, key(k))
			require.NoError(t, err)
			assert.Equal(t, want, string(v))
		}
	})

	t.Run("DeleteIdempotent", func(t *testing.T) {
		require.NoError(t, b.Put(ctx, key("d"), []byte("x")))
		require.NoError(t, b.Delete(ctx, key("d")))
		require.NoError(t, b.Delete(ctx, key("d")))

		_, err := b.Get(ctx, key("d"))
		assert.ErrorIs(t, err, port.ErrKeyNotFound)
	})

	t.Run("DeletePrefix", func(t *testing.T) {
		require.NoError(t, b.Put(ctx, key("ns1/x"), []byte("1")))
		require.NoError(t, b.Put(ctx, key("ns1/y"), []byte("1")))
		require.NoError(t, b.Put(ctx, key("ns2/x"), []byte("1")))

		require.NoError(t, b.DeletePrefix(ctx, key("ns1/")))

		_, err := b.Get(ctx, key("ns1/x"))
		assert.ErrorIs(t, err, port.ErrKeyNotFound)
		_, err = b.Get(ctx, key("ns1/y"))
		assert.ErrorIs(t, err, port.ErrKeyNotFound)
		_, err = b.Get(ctx, key("ns2/x"))
		assert.NoError(t, err)
	})

	t.Run("Usage", func(t *testing.T) {
		before, err := b.Usage(ctx)
		require.NoError(t, err)

		k := key("usage")
		require.NoError(t, b.Put(ctx, k, []byte("12345")))

		after, err := b.Usage(ctx)
		require.NoError(t, err)
		assert.Equal(t, entrySize(k, []byte("12345")), after-before)
	})
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	testBackend(t, m, "mem/")

	t.Run("ValueIsCopied", func(t *testing.T) {
		ctx := context.Background()
		v := []byte("abc")
		require.NoError(t, m.Put(ctx, "copy", v))
		v[0] = 'x'

		got, err := m.Get(ctx, "copy")
		require.NoError(t, err)
		assert.Equal(t, "abc", string(got))
	})

	t.Run("CanceledContext", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, m.Put(ctx, "k", nil), context.Canceled)
	})
}

func TestLevelDB(t *testing.T) {
	t.Run("InMemory", func(t *testing.T) {
		l, err := OpenLevelDB("")
		require.NoError(t, err)
		t.Cleanup(func() { assert.NoError(t, l.Close()) })

		testBackend(t, l, "lvl/")
	})

	t.Run("File", func(t *testing.T) {
		ctx := context.Background()
		path := t.TempDir()

		l, err := OpenLevelDB(path)
		require.NoError(t, err)
		require.NoError(t, l.Put(ctx, "kept", []byte("1")))
		require.NoError(t, l.Close())

		l, err = OpenLevelDB(path)
		require.NoError(t, err)
		t.Cleanup(func() { assert.NoError(t, l.Close()) })

		v, err := l.Get(ctx, "kept")
		require.NoError(t, err)
		assert.Equal(t, "1", string(v))
	})
}

func TestQuota(t *testing.T) {
	ctx := context.Background()

	t.Run("Contract", func(t *testing.T) {
		testBackend(t, NewQuota(NewMemory(), 1<<20), "quota/")
	})

	t.Run("RejectsWriteAboveLimit", func(t *testing.T) {
		inner := NewMemory()
		q := NewQuota(inner, 10)

		require.NoError(t, q.Put(ctx, "k", []byte("12345")))

		err := q.Put(ctx, "k", []byte("1234567890"))
		assert.ErrorIs(t, err, port.ErrQuotaExceeded)

		v, err := inner.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "12345", string(v))
	})

	t.Run("OverwriteCountsOnce", func(t *testing.T) {
		q := NewQuota(NewMemory(), 10)

		require.NoError(t, q.Put(ctx, "k", []byte("123456789")))
		require.NoError(t, q.Put(ctx, "k", []byte("987654321")))
	})

	t.Run("BatchAllOrNothing", func(t *testing.T) {
		inner := NewMemory()
		q := NewQuota(inner, 7)

		err := q.PutBatch(ctx, map[string][]byte{
			"a": []byte("123"),
			"b": []byte("456"),
		})
		assert.ErrorIs(t, err, port.ErrQuotaExceeded)

		_, err = inner.Get(ctx, "a")
		assert.ErrorIs(t, err, port.ErrKeyNotFound)
		_, err = inner.Get(ctx, "b")
		assert.ErrorIs(t, err, port.ErrKeyNotFound)
	})

	t.Run("DeleteFreesSpace", func(t *testing.T) {
		q := NewQuota(NewMemory(), 10)

		require.NoError(t, q.Put(ctx, "a", []byte("12345678")))
		require.ErrorIs(t, q.Put(ctx, "b", []byte("12345678")), port.ErrQuotaExceeded)

		require.NoError(t, q.Delete(ctx, "a"))
		assert.NoError(t, q.Put(ctx, "b", []byte("12345678")))
	})
}

func TestRedis(t *testing.T) {
	addr, ok := os.LookupEnv(redisAddrEnv)
	if !ok {
		t.Skipf("%s is not set", redisAddrEnv)
	}

	r, err := OpenRedis(context.Background(), &redis.Options{Addr: addr})
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, r.Close()) })

	testBackend(t, r, "kvshop-test/")
}

func TestPostgres(t *testing.T) {
	dsn, ok := os.LookupEnv(postgresDSNEnv)
	if !ok {
		t.Skipf("%s is not set", postgresDSNEnv)
	}

	ctx := context.Background()
	p, err := OpenPostgres(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, p.Close()) })

	_, err = p.sqldb.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS kv_entries (
			key   TEXT PRIMARY KEY,
			value BYTEA NOT NULL
		);`)
	require.NoError(t, err)

	testBackend(t, p, "kvshop-test/")
}

func TestEscapeGlob(t *testing.T) {
	assert.Equal(t, `kv\*shop\?\[1\]/`, escapeGlob("kv*shop?[1]/"))
	assert.Equal(t, "plain/", escapeGlob("plain/"))
}
