package database

import (
	"context"
	"database/sql"
	"strings"
	"unicode"

	"github.com/go-sql-driver/mysql"
)

type MySQLDriver struct {
	db *sql.DB
}

func (md *MySQLDriver) Connect(ctx context.Context, dsn string) error {
	dsn, err := withFoundRows(dsn)
	if err != nil {
		return err
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return err
	}
	md.db = db
	return nil
}

func (md *MySQLDriver) Close() error {
	return md.db.Close()
}

func (md *MySQLDriver) ExecuteTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := md.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(withTx(ctx, tx)); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (md *MySQLDriver) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	var res sql.Result
	var err error
	if tx, ok := txFrom(ctx).(*sql.Tx); ok {
		res, err = tx.ExecContext(ctx, rebind(query), args...)
	} else {
		res, err = md.db.ExecContext(ctx, rebind(query), args...)
	}
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (md *MySQLDriver) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	var rows *sql.Rows
	var err error
	if tx, ok := txFrom(ctx).(*sql.Tx); ok {
		rows, err = tx.QueryContext(ctx, rebind(query), args...)
	} else {
		rows, err = md.db.QueryContext(ctx, rebind(query), args...)
	}
	if err != nil {
		return nil, err
	}
	return &sqlRows{rows: rows}, nil
}

func (md *MySQLDriver) QueryRow(ctx context.Context, query string, args ...any) Row {
	if tx, ok := txFrom(ctx).(*sql.Tx); ok {
		return tx.QueryRowContext(ctx, rebind(query), args...)
	}
	return md.db.QueryRowContext(ctx, rebind(query), args...)
}

type sqlRows struct {
	rows *sql.Rows
}

func (r *sqlRows) Next() bool             { return r.rows.Next() }
func (r *sqlRows) Scan(dest ...any) error { return r.rows.Scan(dest...) }
func (r *sqlRows) Err() error             { return r.rows.Err() }
func (r *sqlRows) Close()                 { r.rows.Close() }

// withFoundRows forces CLIENT_FOUND_ROWS on the connection. Without it
// the server reports rows changed rather than rows matched, and an
// idempotent UPDATE (same value written again) would look like a missing
// row to the store's existence checks.
func withFoundRows(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", err
	}
	cfg.ClientFoundRows = true
	return cfg.FormatDSN(), nil
}

// rebind converts $N placeholders to the ? placeholders MySQL expects.
// Arguments are always passed in positional order, so the numbers can be
// dropped.
func rebind(query string) string {
	var b strings.Builder
	b.Grow(len(query))
	for i := 0; i < len(query); i++ {
		if query[i] == '$' && i+1 < len(query) && unicode.IsDigit(rune(query[i+1])) {
			b.WriteByte('?')
			for i+1 < len(query) && unicode.IsDigit(rune(query[i+1])) {
				i++
			}
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}
