package storage

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/niksmo/kvshop/internal/core/port"
)

var _ port.KVBackend = (*Postgres)(nil)

type sqldb interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PingContext(ctx context.Context) error
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	Close() error
}

// A Postgres keeps entries in the kv_entries table,
// see migrations/000001_create_kv_entries.up.sql.
type Postgres struct {
	sqldb sqldb
}

func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	const op = "OpenPostgres"

	connConfig, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, opErr(err, op)
	}
	connStr := stdlib.RegisterConnConfig(connConfig)
	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, opErr(err, op)
	}

	p := &Postgres{db}
	if err := p.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, opErr(err, op)
	}
	slog.Info("database is available", "op", op)
	return p, nil
}

func (p *Postgres) Get(ctx context.Context, key string) ([]byte, error) {
	const op = "Postgres.Get"

	query := `SELECT value FROM kv_entries WHERE key = $1;`

	var v []byte
	err := p.sqldb.QueryRowContext(ctx, query, key).Scan(&v)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, opErr(port.ErrKeyNotFound, op)
		}
		return nil, opErr(err, op)
	}
	return v, nil
}

const upsertQuery = `
	INSERT INTO kv_entries (key, value)
	VALUES ($1, $2)
	ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value;
`

func (p *Postgres) Put(ctx context.Context, key string, value []byte) error {
	const op = "Postgres.Put"

	if _, err := p.sqldb.ExecContext(ctx, upsertQuery, key, value); err != nil {
		return opErr(err, op)
	}
	return nil
}

func (p *Postgres) PutBatch(
	ctx context.Context, entries map[string][]byte,
) (putErr error) {
	const op = "Postgres.PutBatch"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return opErr(err, op)
	}

	tx, err := p.sqldb.BeginTx(ctx, nil)
	if err != nil {
		return opErr(err, op)
	}

	defer func() {
		if putErr == nil {
			if err := tx.Commit(); err != nil {
				putErr = opErr(err, op)
			}
			return
		}

		if err := tx.Rollback(); err != nil {
			log.Error("failed to rollback tx", "err", err)
		}
	}()

	stmt, err := tx.PrepareContext(ctx, upsertQuery)
	if err != nil {
		return opErr(err, op)
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			log.Error("failed to close prepared stmt", "err", err)
		}
	}()

	for k, v := range entries {
		if _, err := stmt.ExecContext(ctx, k, v); err != nil {
			return opErr(err, op)
		}
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, key string) error {
	const op = "Postgres.Delete"

	query := `DELETE FROM kv_entries WHERE key = $1;`
	if _, err := p.sqldb.ExecContext(ctx, query, key); err != nil {
		return opErr(err, op)
	}
	return nil
}

func (p *Postgres) DeletePrefix(ctx context.Context, prefix string) error {
	const op = "Postgres.DeletePrefix"

	query := `DELETE FROM kv_entries WHERE left(key, length($1)) = $1;`
	if _, err := p.sqldb.ExecContext(ctx, query, prefix); err != nil {
		return opErr(err, op)
	}
	return nil
}

func (p *Postgres) Usage(ctx context.Context) (int64, error) {
	const op = "Postgres.Usage"

	query := `
		SELECT COALESCE(SUM(octet_length(key) + octet_length(value)), 0)
		FROM kv_entries;`

	var n int64
	if err := p.sqldb.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, opErr(err, op)
	}
	return n, nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	const op = "Postgres.Ping"
	if err := p.sqldb.PingContext(ctx); err != nil {
		return opErr(err, op)
	}
	return nil
}

func (p *Postgres) Close() error {
	const op = "Postgres.Close"
	log := slog.With("op", op)

	log.Info("closing sql database...")
	if err := p.sqldb.Close(); err != nil {
		return opErr(err, op)
	}
	log.Info("sql database is closed")
	return nil
}
