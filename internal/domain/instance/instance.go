// Package instance models the ledger tenant boundary: every Account,
// Transaction, and Command belongs to exactly one Instance.
package instance

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Instance is a ledger tenant, identified externally by its human-readable
// Address (e.g. "acme").
type Instance struct {
	ID        uuid.UUID
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository persists and resolves Instances. Instances are never deleted
// while they still own Accounts, Transactions, or Commands (spec §3).
type Repository interface {
	Create(ctx context.Context, i *Instance) (*Instance, error)
	FindByAddress(ctx context.Context, address string) (*Instance, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Instance, error)
}
