package postgres

import (
	"context"
	"database/sql"
)

// Querier is the subset of database/sql the history repository needs. Both
// *sql.DB and *sql.Tx satisfy it, so repositories run unchanged inside a
// transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

var (
	_ Querier = (*sql.DB)(nil)
	_ Querier = (*sql.Tx)(nil)
)
