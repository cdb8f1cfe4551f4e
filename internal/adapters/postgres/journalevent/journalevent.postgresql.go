// Package journalevent adapts the journal-event domain repository to
// Postgres. Events and links compose into the same atomic commit as the
// command/account/transaction writes that produced them via WithTx.
package journalevent

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerd/coreengine/internal/adapters/postgres/dbtx"
	"github.com/ledgerd/coreengine/internal/domain/command"
	"github.com/ledgerd/coreengine/internal/domain/journalevent"
)

const (
	eventsTable           = "journal_events"
	accountLinksTable     = "event_account_links"
	transactionLinksTable = "event_transaction_links"
)

// Repository is the Postgres-backed journalevent.Repository implementation.
type Repository struct {
	db *sql.DB
}

// NewRepository constructs a Repository bound to db.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, e *journalevent.Event) (*journalevent.Event, error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.Must(uuid.NewV7())
	}

	e.CreatedAt = time.Now().UTC()

	mapJSON, err := json.Marshal(e.CommandMap)
	if err != nil {
		return nil, err
	}

	const q = `
		INSERT INTO ` + eventsTable + ` (id, instance_id, command_id, command_map, created_at)
		VALUES ($1,$2,$3,$4,$5)`

	_, err = dbtx.Conn(ctx, r.db).ExecContext(ctx, q, e.ID, e.InstanceID, e.CommandID, mapJSON, e.CreatedAt)

	return e, err
}

func (r *Repository) LinkAccount(ctx context.Context, l *journalevent.AccountLink) error {
	const q = `INSERT INTO ` + accountLinksTable + ` (event_id, account_id) VALUES ($1,$2)`
	_, err := dbtx.Conn(ctx, r.db).ExecContext(ctx, q, l.EventID, l.AccountID)

	return err
}

func (r *Repository) LinkTransaction(ctx context.Context, l *journalevent.TransactionLink) error {
	const q = `INSERT INTO ` + transactionLinksTable + ` (event_id, transaction_id) VALUES ($1,$2)`
	_, err := dbtx.Conn(ctx, r.db).ExecContext(ctx, q, l.EventID, l.TransactionID)

	return err
}

func (r *Repository) ListByAccountID(ctx context.Context, accountID uuid.UUID) ([]*journalevent.Event, error) {
	const q = `
		SELECT e.id, e.instance_id, e.command_id, e.command_map, e.created_at
		FROM ` + eventsTable + ` e
		JOIN ` + accountLinksTable + ` l ON l.event_id = e.id
		WHERE l.account_id = $1
		ORDER BY e.created_at ASC`

	return r.scanMany(ctx, q, accountID)
}

func (r *Repository) ListByTransactionID(ctx context.Context, transactionID uuid.UUID) ([]*journalevent.Event, error) {
	const q = `
		SELECT e.id, e.instance_id, e.command_id, e.command_map, e.created_at
		FROM ` + eventsTable + ` e
		JOIN ` + transactionLinksTable + ` l ON l.event_id = e.id
		WHERE l.transaction_id = $1
		ORDER BY e.created_at ASC`

	return r.scanMany(ctx, q, transactionID)
}

func (r *Repository) scanMany(ctx context.Context, q string, arg any) ([]*journalevent.Event, error) {
	rows, err := dbtx.Conn(ctx, r.db).QueryContext(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*journalevent.Event

	for rows.Next() {
		var e journalevent.Event
		var mapJSON []byte

		if err := rows.Scan(&e.ID, &e.InstanceID, &e.CommandID, &mapJSON, &e.CreatedAt); err != nil {
			return nil, err
		}

		var cm command.CommandMap
		if err := json.Unmarshal(mapJSON, &cm); err != nil {
			return nil, err
		}

		e.CommandMap = &cm
		out = append(out, &e)
	}

	return out, rows.Err()
}
