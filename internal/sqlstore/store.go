// Package sqlstore implements shop.Store over a relational database
// driver. All statements use $N placeholders; the MySQL driver rebinds
// them. Row-level locking (FOR UPDATE) serializes concurrent stock
// adjustments against the same product.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"shop-backoffice/internal/database"
	"shop-backoffice/internal/shop"
)

type Store struct {
	db database.Driver
}

func New(db database.Driver) *Store {
	return &Store{db: db}
}

func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.db.ExecuteTx(ctx, fn)
}

// mapErr translates driver-level conditions into the store contract's
// sentinel errors.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return shop.ErrNotFound
	}
	return err
}

// isDuplicate reports a unique-constraint violation on either backend.
func isDuplicate(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == 1062
}

// isForeignKey reports a foreign-key violation on either backend.
func isForeignKey(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return true
	}
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && (myErr.Number == 1451 || myErr.Number == 1452)
}

// nullable turns the empty string into SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
