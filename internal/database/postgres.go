package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresDriver struct {
	pool *pgxpool.Pool
}

func (pd *PostgresDriver) Connect(ctx context.Context, dsn string) error {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return err
	}
	pd.pool = pool
	return nil
}

func (pd *PostgresDriver) Close() error {
	pd.pool.Close()
	return nil
}

func (pd *PostgresDriver) ExecuteTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	tx, err := pd.pool.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback(ctx)
			panic(p) // re-panic after rollback
		} else if err != nil {
			tx.Rollback(ctx) // err is non-nil; don't change it
		} else {
			err = tx.Commit(ctx) // err is nil; if Commit returns error, update err
		}
	}()

	err = fn(withTx(ctx, tx))
	return err
}

func (pd *PostgresDriver) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	if tx, ok := txFrom(ctx).(pgx.Tx); ok {
		tag, err := tx.Exec(ctx, query, args...)
		return tag.RowsAffected(), err
	}
	tag, err := pd.pool.Exec(ctx, query, args...)
	return tag.RowsAffected(), err
}

func (pd *PostgresDriver) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	if tx, ok := txFrom(ctx).(pgx.Tx); ok {
		return tx.Query(ctx, query, args...)
	}
	return pd.pool.Query(ctx, query, args...)
}

func (pd *PostgresDriver) QueryRow(ctx context.Context, query string, args ...any) Row {
	if tx, ok := txFrom(ctx).(pgx.Tx); ok {
		return tx.QueryRow(ctx, query, args...)
	}
	return pd.pool.QueryRow(ctx, query, args...)
}
