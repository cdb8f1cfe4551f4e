// Package transaction models the atomic, balanced movement between accounts:
// its entries, its pending/posted/archived state machine, and the balanced
// resolved shape the transformer produces from a TransactionData payload.
package transaction

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerd/coreengine/internal/domain/account"
)

// Status is the transaction's lifecycle state.
type Status string

const (
	StatusPending  Status = "pending"
	StatusPosted   Status = "posted"
	StatusArchived Status = "archived"
)

// CanTransitionTo reports whether moving from from to to is a legal
// Transaction status transition (spec §3: pending → posted, pending →
// archived, pending → pending; posted and archived are terminal).
func CanTransitionTo(from, to Status) bool {
	if from == StatusPosted || from == StatusArchived {
		return false
	}

	switch to {
	case StatusPosted, StatusArchived, StatusPending:
		return from == StatusPending
	default:
		return false
	}
}

// IsTerminal reports whether s accepts no further transitions.
func IsTerminal(s Status) bool {
	return s == StatusPosted || s == StatusArchived
}

// Entry is a single leg of a Transaction, referring to its Account by id.
// Created with its transaction; never mutated after posting (spec §3).
type Entry struct {
	ID            uuid.UUID
	TransactionID uuid.UUID
	AccountID     uuid.UUID
	Value         int64
	Currency      string
	Type          account.EntryType
}

// Transaction is an atomic, balanced movement across two or more accounts.
type Transaction struct {
	ID         uuid.UUID
	InstanceID uuid.UUID
	Status     Status
	Entries    []*Entry
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// EntryData is one leg of an incoming TransactionData payload, referring to
// its account by address rather than id.
type EntryData struct {
	AccountAddress string
	Amount         int64 // signed, minor units; sign + account normal_balance determines debit/credit
	Currency       string
}

// TransactionData is the validated payload embedded in a CommandMap for
// create_transaction / update_transaction.
type TransactionData struct {
	Status  Status
	Entries []EntryData
}

// ResolvedEntry is one leg of a transformer output: the account has been
// resolved to an id and the signed amount has been classified into a
// debit/credit value (spec §4.3).
type ResolvedEntry struct {
	AccountID uuid.UUID
	Value     int64
	Type      account.EntryType
	Currency  string
}

// ResolvedTransaction is the transformer's output: a TransactionData with
// addresses resolved to ids and amounts classified. Entries is empty for a
// status-only update (spec §4.3 step 1).
type ResolvedTransaction struct {
	InstanceID uuid.UUID
	Status     Status
	Entries    []ResolvedEntry
}

// Repository is the store-facing contract for Transaction + Entry reads and
// writes. Account balance mutation that accompanies a transaction write is
// performed through account.Repository, not here, so callers can interleave
// it with the OCC-guarded steps in services/occ.
type Repository interface {
	Create(ctx context.Context, t *Transaction) (*Transaction, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error)

	// UpdateStatus transitions an existing transaction's status.
	UpdateStatus(ctx context.Context, id uuid.UUID, to Status) error

	// ReplaceEntries swaps a pending transaction's entries wholesale, used by
	// the pending → pending rewrite path (spec §4.6 step 4).
	ReplaceEntries(ctx context.Context, transactionID uuid.UUID, entries []*Entry) error
}
