// Package account models the balance-bearing ledger line: its type-derived
// normal balance, its posted/pending/available balances, and the row_version
// every write must carry for optimistic concurrency control.
package account

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Type is the account classification. NormalBalance is derived from it.
type Type string

const (
	TypeAsset     Type = "asset"
	TypeLiability Type = "liability"
	TypeEquity    Type = "equity"
	TypeRevenue   Type = "revenue"
	TypeExpense   Type = "expense"
)

// NormalBalance is the side (debit or credit) on which an account's positive
// balance sits.
type NormalBalance string

const (
	NormalBalanceDebit  NormalBalance = "debit"
	NormalBalanceCredit NormalBalance = "credit"
)

// EntryType mirrors NormalBalance's vocabulary but names one leg of an entry,
// not an account's resting side.
type EntryType string

const (
	EntryTypeDebit  EntryType = "debit"
	EntryTypeCredit EntryType = "credit"
)

// DeriveNormalBalance maps an account Type to its NormalBalance. Asset and
// expense accounts are debit-normal; liability, equity, and revenue accounts
// are credit-normal.
func DeriveNormalBalance(t Type) (NormalBalance, error) {
	switch t {
	case TypeAsset, TypeExpense:
		return NormalBalanceDebit, nil
	case TypeLiability, TypeEquity, TypeRevenue:
		return NormalBalanceCredit, nil
	default:
		return "", fmt.Errorf("account: unknown type %q", t)
	}
}

// AddressPattern is the validation regex for both account addresses
// (spec §6) and the account_address field of a transaction entry (spec §4.3).
var AddressPattern = regexp.MustCompile(`^[A-Za-z0-9_]+(:[A-Za-z0-9_]+)*$`)

// BalanceSide is a debit/credit pair of minor-unit amounts.
type BalanceSide struct {
	Debit  int64
	Credit int64
}

// Account is a balance-bearing ledger line.
type Account struct {
	ID            uuid.UUID
	InstanceID    uuid.UUID
	Address       string
	Name          string
	Description   string
	Type          Type
	Currency      string
	NormalBalance NormalBalance
	Posted        BalanceSide
	Pending       BalanceSide
	RowVersion    int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Available returns the derived available balance: posted.debit - posted.credit
// for debit-normal accounts, negated for credit-normal accounts (spec §3).
func (a *Account) Available() int64 {
	net := a.Posted.Debit - a.Posted.Credit
	if a.NormalBalance == NormalBalanceCredit {
		return -net
	}

	return net
}

// CreateAccountInput is the validated AccountData payload for create_account.
type CreateAccountInput struct {
	Address     string
	Name        string
	Type        Type
	Currency    string
	Description string
}

// UpdateAccountInput carries only the fields update_account is allowed to
// change. Type, currency, address, and normal_balance are immutable after
// creation (spec §4.7).
type UpdateAccountInput struct {
	Name        *string
	Description *string
}

// Repository is the store-facing contract for Account reads and writes.
type Repository interface {
	Create(ctx context.Context, a *Account) (*Account, error)

	FindByAddress(ctx context.Context, instanceID uuid.UUID, address string) (*Account, error)

	// FindByID re-reads a single account by id, used by the transaction
	// handlers to refresh row_version on each OCC retry attempt (spec §4.2).
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)

	// FindByAddresses resolves every given address in one batched query,
	// returning only the accounts found; callers detect missing addresses by
	// comparing input length to the result (spec §4.3 step 3).
	FindByAddresses(ctx context.Context, instanceID uuid.UUID, addresses []string) ([]*Account, error)

	// UpdateFields applies name/description changes, no row_version check
	// (spec §4.7: no contended read-modify-write on these fields alone).
	UpdateFields(ctx context.Context, a *Account) (*Account, error)

	// UpdateWithVersion performs the OCC-guarded balance write: it succeeds
	// only if a.RowVersion still matches the stored row, atomically bumping
	// the version and writing the new balances. Returns apperr.StaleVersionError
	// on a version mismatch.
	UpdateWithVersion(ctx context.Context, a *Account) (*Account, error)
}
