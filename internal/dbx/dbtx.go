// Package dbx holds the database handle abstraction shared by the Postgres
// repositories.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by *sql.DB, *sql.Tx and *sql.Conn, so a repository can be
// bound to a pool or to a transaction without changing its code.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
