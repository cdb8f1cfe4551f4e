// Package transformer converts a validated TransactionData payload (entries
// referring to accounts by address) into a store-ready ResolvedTransaction
// (entries referring to accounts by id, with value/type classified), per
// spec §4.3.
package transformer

import (
	"context"
	"fmt"

	"github.com/ledgerd/coreengine/internal/apperr"
	"github.com/ledgerd/coreengine/internal/domain/account"
	"github.com/ledgerd/coreengine/internal/domain/transaction"
	"github.com/google/uuid"
)

// SupportedCurrencies is the closed set of currency codes entries may use.
// This engine ships USD/EUR/GBP/BRL/JPY as a representative set and expects
// deployments to extend it.
var SupportedCurrencies = map[string]bool{
	"USD": true,
	"EUR": true,
	"GBP": true,
	"BRL": true,
	"JPY": true,
}

// Transformer resolves TransactionData payloads against a given instance's
// accounts.
type Transformer struct {
	AccountRepo account.Repository
}

// Transform implements spec §4.3's algorithm.
func (t *Transformer) Transform(ctx context.Context, instanceID uuid.UUID, data transaction.TransactionData) (*transaction.ResolvedTransaction, error) {
	status := transaction.Status(data.Status)

	// Step 1: status-only path.
	if len(data.Entries) == 0 || status == transaction.StatusArchived {
		return &transaction.ResolvedTransaction{
			InstanceID: instanceID,
			Status:     status,
		}, nil
	}

	// Step 2: per-entry validation.
	addresses := make([]string, 0, len(data.Entries))
	seen := make(map[string]bool, len(data.Entries))

	for _, e := range data.Entries {
		if e.AccountAddress == "" || !account.AddressPattern.MatchString(e.AccountAddress) {
			return nil, apperr.ValidateBusinessError(apperr.ErrInvalidEntryData, "TransactionData", fmt.Sprintf("invalid account_address %q", e.AccountAddress))
		}

		if e.Amount == 0 {
			return nil, apperr.ValidateBusinessError(apperr.ErrInvalidEntryData, "TransactionData", "amount must be a non-zero integer")
		}

		if !SupportedCurrencies[e.Currency] {
			return nil, apperr.ValidateBusinessError(apperr.ErrInvalidEntryData, "TransactionData", fmt.Sprintf("unsupported currency %q", e.Currency))
		}

		if !seen[e.AccountAddress] {
			addresses = append(addresses, e.AccountAddress)
			seen[e.AccountAddress] = true
		}
	}

	if len(addresses) == 0 {
		return nil, apperr.ValidateBusinessError(apperr.ErrNoAccountsOrEntries, "TransactionData")
	}

	// Step 3: batched account resolution.
	accounts, err := t.AccountRepo.FindByAddresses(ctx, instanceID, addresses)
	if err != nil {
		return nil, apperr.ValidateBusinessError(err, "Account")
	}

	if len(accounts) == 0 {
		return nil, apperr.ValidateBusinessError(apperr.ErrNoAccountsFound, "Account")
	}

	byAddress := make(map[string]*account.Account, len(accounts))
	for _, a := range accounts {
		byAddress[a.Address] = a
	}

	if len(accounts) != len(addresses) {
		return nil, apperr.ValidateBusinessError(apperr.ErrSomeAccountsNotFound, "Account", missingAddresses(addresses, byAddress))
	}

	// addresses is deduplicated via seen above, so entries outnumbering it
	// means two or more entries repeated the same account_address. Neither
	// CreateTransaction nor UpdateTransaction checks distinctness on their
	// own, so this is the one place a repeated address is caught, for both.
	if len(data.Entries) != len(addresses) {
		return nil, apperr.ValidateBusinessError(apperr.ErrAccountEntriesMismatch, "TransactionData")
	}

	// Step 4: classify.
	resolved := make([]transaction.ResolvedEntry, 0, len(data.Entries))

	for _, e := range data.Entries {
		acc, ok := byAddress[e.AccountAddress]
		if !ok {
			return nil, apperr.ValidateBusinessError(apperr.ErrMissingEntryForAccount, "TransactionData", e.AccountAddress)
		}

		entryType := classify(acc.NormalBalance, e.Amount)

		resolved = append(resolved, transaction.ResolvedEntry{
			AccountID: acc.ID,
			Value:     abs(e.Amount),
			Type:      entryType,
			Currency:  e.Currency,
		})
	}

	return &transaction.ResolvedTransaction{
		InstanceID: instanceID,
		Status:     status,
		Entries:    resolved,
	}, nil
}

// classify implements spec §4.3 step 4's debit/credit decision table.
func classify(normal account.NormalBalance, amount int64) account.EntryType {
	positive := amount > 0

	switch normal {
	case account.NormalBalanceDebit:
		if positive {
			return account.EntryTypeDebit
		}

		return account.EntryTypeCredit
	default: // credit-normal
		if positive {
			return account.EntryTypeCredit
		}

		return account.EntryTypeDebit
	}
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}

	return v
}

func missingAddresses(requested []string, found map[string]*account.Account) string {
	missing := make([]string, 0)
	for _, a := range requested {
		if _, ok := found[a]; !ok {
			missing = append(missing, a)
		}
	}

	return fmt.Sprintf("accounts not found: %v", missing)
}

// ValidateBalance enforces the double-entry invariant: for every currency,
// sum of debit values equals sum of credit values (spec §4.5 step 4,
// §8 invariant 1). Called downstream of Transform, not by it (spec §4.3 step 5).
func ValidateBalance(entries []transaction.ResolvedEntry) error {
	totals := make(map[string]int64)

	for _, e := range entries {
		switch e.Type {
		case account.EntryTypeDebit:
			totals[e.Currency] += e.Value
		case account.EntryTypeCredit:
			totals[e.Currency] -= e.Value
		}
	}

	for currency, net := range totals {
		if net != 0 {
			return apperr.ValidateBusinessError(apperr.ErrUnbalancedTransaction, "Transaction", fmt.Sprintf("currency %s debits/credits differ by %d", currency, net))
		}
	}

	return nil
}
