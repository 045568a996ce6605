package pg

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:generate mockgen -source=pg.go -destination=mock_pg.go -package=pg

// Database is the query surface shared by the pool and pgxmock. Calls run
// inside the transaction stored in ctx when there is one.
type Database interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type TransactionalFn func(ctx context.Context) error

type TXManager interface {
	Begin(ctx context.Context, fn TransactionalFn) error
}

type txKey struct{}

func withTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

func txFromContext(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(pgx.Tx)
	return tx, ok
}

type Conn struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Conn {
	return &Conn{pool: pool}
}

func (c *Conn) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx, ok := txFromContext(ctx); ok {
		tag, err := tx.Exec(ctx, sql, args...)
		return tag, TranslateError(err)
	}
	tag, err := c.pool.Exec(ctx, sql, args...)
	return tag, TranslateError(err)
}

func (c *Conn) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx, ok := txFromContext(ctx); ok {
		rows, err := tx.Query(ctx, sql, args...)
		return rows, TranslateError(err)
	}
	rows, err := c.pool.Query(ctx, sql, args...)
	return rows, TranslateError(err)
}

func (c *Conn) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	var row pgx.Row
	if tx, ok := txFromContext(ctx); ok {
		row = tx.QueryRow(ctx, sql, args...)
	} else {
		row = c.pool.QueryRow(ctx, sql, args...)
	}
	return translatedRow{row: row}
}

type translatedRow struct {
	row pgx.Row
}

func (r translatedRow) Scan(dest ...any) error {
	return TranslateError(r.row.Scan(dest...))
}
