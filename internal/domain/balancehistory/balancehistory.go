// Package balancehistory models the append-only snapshot written every time
// an entry changes an account's balances.
package balancehistory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerd/coreengine/internal/domain/account"
)

// Entry is one append-only snapshot of an account's balance fields, taken
// immediately after applying the given ledger Entry.
type Entry struct {
	ID         uuid.UUID
	EntryID    uuid.UUID
	AccountID  uuid.UUID
	Posted     account.BalanceSide
	Pending    account.BalanceSide
	Available  int64
	InsertedAt time.Time
}

// Repository persists BalanceHistoryEntry rows. There is no update or delete:
// the table is strictly append-only (spec §3).
type Repository interface {
	Create(ctx context.Context, e *Entry) (*Entry, error)
	ListByAccountID(ctx context.Context, accountID uuid.UUID) ([]*Entry, error)
}
