// Package database abstracts the relational stores the back-office runs
// against. Queries are written with Postgres-style $N placeholders; the
// MySQL driver rebinds them. Transactions travel in the context: calls made
// with the context ExecuteTx hands to its closure run inside the
// transaction, calls made with any other context run against the pool.
package database

import "context"

type Row interface {
	Scan(dest ...any) error
}

type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

type Driver interface {
	Connect(ctx context.Context, dsn string) error
	Close() error
	// ExecuteTx begins a transaction, runs fn with a transaction-scoped
	// context, and commits; any error from fn rolls the whole unit back.
	ExecuteTx(ctx context.Context, fn func(ctx context.Context) error) error
	// Exec runs a statement and returns the number of rows affected.
	Exec(ctx context.Context, query string, args ...any) (int64, error)
	Query(ctx context.Context, query string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) Row
}

type txKey struct{}

func withTx(ctx context.Context, tx any) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

func txFrom(ctx context.Context) any {
	return ctx.Value(txKey{})
}
