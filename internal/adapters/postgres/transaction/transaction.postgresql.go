// Package transaction adapts the transaction domain repository to Postgres.
package transaction

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerd/coreengine/internal/adapters/postgres/dbtx"
	"github.com/ledgerd/coreengine/internal/apperr"
	"github.com/ledgerd/coreengine/internal/domain/transaction"
)

const (
	transactionsTable = "transactions"
	entriesTable      = "entries"
)

// Repository is the Postgres-backed transaction.Repository implementation.
// Create/ReplaceEntries run inside the caller-supplied *sql.Tx when one is
// present on the context (see dbtx.WithTx), so they compose into the atomic
// multi-step commits described in spec §9.
type Repository struct {
	db *sql.DB
}

// NewRepository constructs a Repository bound to db.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, t *transaction.Transaction) (*transaction.Transaction, error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.Must(uuid.NewV7())
	}

	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	conn := dbtx.Conn(ctx, r.db)

	const insertTxn = `INSERT INTO ` + transactionsTable + ` (id, instance_id, status, created_at, updated_at) VALUES ($1,$2,$3,$4,$5)`
	if _, err := conn.ExecContext(ctx, insertTxn, t.ID, t.InstanceID, t.Status, t.CreatedAt, t.UpdatedAt); err != nil {
		return nil, err
	}

	for _, e := range t.Entries {
		if e.ID == uuid.Nil {
			e.ID = uuid.Must(uuid.NewV7())
		}

		e.TransactionID = t.ID

		const insertEntry = `INSERT INTO ` + entriesTable + ` (id, transaction_id, account_id, value, currency, type) VALUES ($1,$2,$3,$4,$5,$6)`
		if _, err := conn.ExecContext(ctx, insertEntry, e.ID, e.TransactionID, e.AccountID, e.Value, e.Currency, e.Type); err != nil {
			return nil, err
		}
	}

	return t, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	conn := dbtx.Conn(ctx, r.db)

	const q = `SELECT id, instance_id, status, created_at, updated_at FROM ` + transactionsTable + ` WHERE id = $1`

	var t transaction.Transaction

	if err := conn.QueryRowContext(ctx, q, id).Scan(&t.ID, &t.InstanceID, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ValidateBusinessError(apperr.ErrTransactionNotFound, "Transaction")
		}

		return nil, err
	}

	entries, err := r.listEntries(ctx, id)
	if err != nil {
		return nil, err
	}

	t.Entries = entries

	return &t, nil
}

func (r *Repository) listEntries(ctx context.Context, transactionID uuid.UUID) ([]*transaction.Entry, error) {
	conn := dbtx.Conn(ctx, r.db)

	const q = `SELECT id, transaction_id, account_id, value, currency, type FROM ` + entriesTable + ` WHERE transaction_id = $1`

	rows, err := conn.QueryContext(ctx, q, transactionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*transaction.Entry

	for rows.Next() {
		var e transaction.Entry
		if err := rows.Scan(&e.ID, &e.TransactionID, &e.AccountID, &e.Value, &e.Currency, &e.Type); err != nil {
			return nil, err
		}

		out = append(out, &e)
	}

	return out, rows.Err()
}

func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, to transaction.Status) error {
	conn := dbtx.Conn(ctx, r.db)

	const q = `UPDATE ` + transactionsTable + ` SET status = $1, updated_at = $2 WHERE id = $3`

	res, err := conn.ExecContext(ctx, q, to, time.Now().UTC(), id)
	if err != nil {
		return err
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ValidateBusinessError(apperr.ErrTransactionNotFound, "Transaction")
	}

	return nil
}

func (r *Repository) ReplaceEntries(ctx context.Context, transactionID uuid.UUID, entries []*transaction.Entry) error {
	conn := dbtx.Conn(ctx, r.db)

	const del = `DELETE FROM ` + entriesTable + ` WHERE transaction_id = $1`
	if _, err := conn.ExecContext(ctx, del, transactionID); err != nil {
		return err
	}

	for _, e := range entries {
		if e.ID == uuid.Nil {
			e.ID = uuid.Must(uuid.NewV7())
		}

		e.TransactionID = transactionID

		const ins = `INSERT INTO ` + entriesTable + ` (id, transaction_id, account_id, value, currency, type) VALUES ($1,$2,$3,$4,$5,$6)`
		if _, err := conn.ExecContext(ctx, ins, e.ID, e.TransactionID, e.AccountID, e.Value, e.Currency, e.Type); err != nil {
			return err
		}
	}

	return nil
}
