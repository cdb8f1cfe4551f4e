// Package dbtx carries a shared *sql.Tx across several postgres adapter
// packages, so a command handler's multi-table write commits or rolls back as
// one unit (spec §4.5-§4.7, §9 design notes, Open Question decision 5).
package dbtx

import (
	"context"
	"database/sql"
)

type key struct{}

// WithTx returns a context carrying tx. Any adapter repository in this module
// calls Conn(ctx, r.db) instead of using r.db directly, so it transparently
// joins tx when one is present.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, key{}, tx)
}

// Execer is satisfied by both *sql.DB and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Conn returns the *sql.Tx carried on ctx, or fallback if none is present.
func Conn(ctx context.Context, fallback *sql.DB) Execer {
	if tx, ok := ctx.Value(key{}).(*sql.Tx); ok && tx != nil {
		return tx
	}

	return fallback
}
