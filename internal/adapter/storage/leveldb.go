package storage

import (
	"context"
	"errors"
	"log/slog"

	"github.com/niksmo/kvshop/internal/core/port"
	"github.com/syndtr/goleveldb/leveldb"
	lvlstorage "github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

var _ port.KVBackend = (*LevelDB)(nil)

// A LevelDB is a [port.KVBackend] on top of an embedded LevelDB database.
type LevelDB struct {
	db *leveldb.DB
}

// OpenLevelDB opens the database at path. An empty path opens
// an in-memory database.
func OpenLevelDB(path string) (*LevelDB, error) {
	const op = "OpenLevelDB"

	var (
		db  *leveldb.DB
		err error
	)
	if path == "" {
		db, err = leveldb.Open(lvlstorage.NewMemStorage(), nil)
	} else {
		db, err = leveldb.OpenFile(path, nil)
	}
	if err != nil {
		return nil, opErr(err, op)
	}
	slog.Info("leveldb is opened", "op", op, "path", path)
	return &LevelDB{db}, nil
}

func (l *LevelDB) Get(ctx context.Context, key string) ([]byte, error) {
	const op = "LevelDB.Get"

	if err := ctx.Err(); err != nil {
		return nil, opErr(err, op)
	}

	v, err := l.db.Get([]byte(key), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, opErr(port.ErrKeyNotFound, op)
		}
		return nil, opErr(err, op)
	}
	return v, nil
}

func (l *LevelDB) Put(ctx context.Context, key string, value []byte) error {
	const op = "LevelDB.Put"

	if err := ctx.Err(); err != nil {
		return opErr(err, op)
	}

	if err := l.db.Put([]byte(key), value, nil); err != nil {
		return opErr(err, op)
	}
	return nil
}

func (l *LevelDB) PutBatch(ctx context.Context, entries map[string][]byte) error {
	const op = "LevelDB.PutBatch"

	if err := ctx.Err(); err != nil {
		return opErr(err, op)
	}

	batch := new(leveldb.Batch)
	for k, v := range entries {
		batch.Put([]byte(k), v)
	}
	if err := l.db.Write(batch, nil); err != nil {
		return opErr(err, op)
	}
	return nil
}

func (l *LevelDB) Delete(ctx context.Context, key string) error {
	const op = "LevelDB.Delete"

	if err := ctx.Err(); err != nil {
		return opErr(err, op)
	}

	if err := l.db.Delete([]byte(key), nil); err != nil {
		return opErr(err, op)
	}
	return nil
}

func (l *LevelDB) DeletePrefix(ctx context.Context, prefix string) error {
	const op = "LevelDB.DeletePrefix"

	if err := ctx.Err(); err != nil {
		return opErr(err, op)
	}

	batch := new(leveldb.Batch)
	iter := l.db.NewIterator(util.BytesPrefix([]byte(prefix)), nil)
	for iter.Next() {
		batch.Delete(iter.Key())
	}
	iter.Release()
	if err := iter.Error(); err != nil {
		return opErr(err, op)
	}

	if err := l.db.Write(batch, nil); err != nil {
		return opErr(err, op)
	}
	return nil
}

func (l *LevelDB) Usage(ctx context.Context) (int64, error) {
	const op = "LevelDB.Usage"

	if err := ctx.Err(); err != nil {
		return 0, opErr(err, op)
	}

	var n int64
	iter := l.db.NewIterator(nil, nil)
	for iter.Next() {
		n += int64(len(iter.Key()) + len(iter.Value()))
	}
	iter.Release()
	if err := iter.Error(); err != nil {
		return 0, opErr(err, op)
	}
	return n, nil
}

func (l *LevelDB) Ping(ctx context.Context) error {
	const op = "LevelDB.Ping"

	if err := ctx.Err(); err != nil {
		return opErr(err, op)
	}

	if _, err := l.db.GetProperty("leveldb.num-files-at-level0"); err != nil {
		return opErr(err, op)
	}
	return nil
}

func (l *LevelDB) Close() error {
	const op = "LevelDB.Close"
	log := slog.With("op", op)

	log.Info("closing leveldb...")
	if err := l.db.Close(); err != nil {
		return opErr(err, op)
	}
	log.Info("leveldb is closed")
	return nil
}
