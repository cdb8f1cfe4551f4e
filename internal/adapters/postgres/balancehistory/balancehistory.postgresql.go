// Package balancehistory adapts the balance-history domain repository to
// Postgres. The table is append-only: no update or delete methods exist.
package balancehistory

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerd/coreengine/internal/adapters/postgres/dbtx"
	"github.com/ledgerd/coreengine/internal/domain/balancehistory"
)

const tableName = "balance_history_entries"

// Repository is the Postgres-backed balancehistory.Repository implementation.
type Repository struct {
	db *sql.DB
}

// NewRepository constructs a Repository bound to db.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, e *balancehistory.Entry) (*balancehistory.Entry, error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.Must(uuid.NewV7())
	}

	e.InsertedAt = time.Now().UTC()

	const q = `
		INSERT INTO ` + tableName + ` (
			id, entry_id, account_id, posted_debit, posted_credit,
			pending_debit, pending_credit, available, inserted_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`

	_, err := dbtx.Conn(ctx, r.db).ExecContext(ctx, q,
		e.ID, e.EntryID, e.AccountID, e.Posted.Debit, e.Posted.Credit,
		e.Pending.Debit, e.Pending.Credit, e.Available, e.InsertedAt,
	)
	if err != nil {
		return nil, err
	}

	return e, nil
}

func (r *Repository) ListByAccountID(ctx context.Context, accountID uuid.UUID) ([]*balancehistory.Entry, error) {
	const q = `
		SELECT id, entry_id, account_id, posted_debit, posted_credit,
			pending_debit, pending_credit, available, inserted_at
		FROM ` + tableName + ` WHERE account_id = $1 ORDER BY inserted_at ASC`

	rows, err := dbtx.Conn(ctx, r.db).QueryContext(ctx, q, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*balancehistory.Entry

	for rows.Next() {
		var e balancehistory.Entry
		if err := rows.Scan(&e.ID, &e.EntryID, &e.AccountID, &e.Posted.Debit, &e.Posted.Credit,
			&e.Pending.Debit, &e.Pending.Credit, &e.Available, &e.InsertedAt); err != nil {
			return nil, err
		}

		out = append(out, &e)
	}

	return out, rows.Err()
}
