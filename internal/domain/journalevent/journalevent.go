// Package journalevent models the immutable, append-only log row written for
// every successful side effect, with link rows tying it to the accounts
// and/or transaction it affected.
package journalevent

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerd/coreengine/internal/domain/command"
)

// Event is one append-only journal row. CommandMap is carried verbatim so
// external consumers can replay exactly what was submitted.
type Event struct {
	ID         uuid.UUID
	InstanceID uuid.UUID
	CommandID  uuid.UUID
	CommandMap *command.CommandMap
	CreatedAt  time.Time
}

// AccountLink ties an Event to one affected Account.
type AccountLink struct {
	EventID   uuid.UUID
	AccountID uuid.UUID
}

// TransactionLink ties an Event to one affected Transaction.
type TransactionLink struct {
	EventID       uuid.UUID
	TransactionID uuid.UUID
}

// Repository persists Events and their link rows.
type Repository interface {
	Create(ctx context.Context, e *Event) (*Event, error)
	LinkAccount(ctx context.Context, l *AccountLink) error
	LinkTransaction(ctx context.Context, l *TransactionLink) error
	ListByAccountID(ctx context.Context, accountID uuid.UUID) ([]*Event, error)
	ListByTransactionID(ctx context.Context, transactionID uuid.UUID) ([]*Event, error)
}
