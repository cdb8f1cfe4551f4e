package command

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerd/coreengine/internal/adapters/postgres/dbtx"
	"github.com/ledgerd/coreengine/internal/apperr"
	"github.com/ledgerd/coreengine/internal/domain/account"
	"github.com/ledgerd/coreengine/internal/domain/balancehistory"
	commanddomain "github.com/ledgerd/coreengine/internal/domain/command"
	"github.com/ledgerd/coreengine/internal/domain/journalevent"
	"github.com/ledgerd/coreengine/internal/domain/transaction"
	"github.com/ledgerd/coreengine/internal/mcontext"
	"github.com/ledgerd/coreengine/internal/motel"
	"github.com/ledgerd/coreengine/internal/services/transformer"
	"github.com/ledgerd/coreengine/internal/services/txstep"
)

// UpdateTransaction implements spec §4.6. It locates its create predecessor
// through the PendingTransactionLookup keyed on (instance, source,
// source_idempk) shared with that predecessor, and its own dependency state
// determines whether this update can run yet at all.
func (h *Handlers) UpdateTransaction(ctx context.Context, cm *commanddomain.CommandMap) (*commanddomain.Command, error) {
	tracer := mcontext.Tracer(ctx)

	ctx, span := tracer.Start(ctx, "command.update_transaction")
	defer span.End()

	inst, err := h.InstanceRepo.FindByAddress(ctx, cm.InstanceAddress)
	if err != nil {
		motel.HandleSpanError(&span, "instance lookup failed", err)
		return nil, err
	}

	if cm.TransactionPayload == nil {
		err := apperr.ValidateBusinessError(apperr.ErrNoAccountsOrEntries, "CommandMap")
		motel.HandleSpanError(&span, "missing transaction payload", err)

		return nil, err
	}

	cmd, err := h.persistCommand(ctx, cm, inst.ID, nil)
	if err != nil {
		motel.HandleSpanError(&span, "command persistence failed", err)
		return nil, err
	}

	if err := h.runUpdateTransaction(ctx, inst.ID, cmd, cm); err != nil {
		motel.HandleSpanError(&span, "update_transaction failed", err)
		return cmd, err
	}

	return cmd, nil
}

// runUpdateTransaction is UpdateTransaction's business effect, split out so
// a worker resuming an already-persisted Command can run it again without
// re-running persistCommand. It reports its own outcome against cmd's queue
// item on every exit path (revert to pending, dead letter, or failed).
func (h *Handlers) runUpdateTransaction(ctx context.Context, instanceID uuid.UUID, cmd *commanddomain.Command, cm *commanddomain.CommandMap) error {
	lookup, err := h.PendingRepo.FindByCoordinates(ctx, instanceID, cm.Source, cm.SourceIdempk)
	if err != nil {
		h.failCommand(ctx, cmd.ID, err)
		return err
	}

	if lookup == nil {
		h.deadLetter(ctx, cmd.ID, ":create_command_not_found")
		return apperr.ValidateBusinessError(apperr.ErrCreateCommandNotFound, "CommandMap")
	}

	predecessorItem, err := h.QueueRepo.FindByCommandID(ctx, lookup.CommandID)
	if err != nil {
		h.failCommand(ctx, cmd.ID, err)
		return err
	}

	switch predecessorItem.Status {
	case commanddomain.QueueStatusPending, commanddomain.QueueStatusProcessing,
		commanddomain.QueueStatusOCCTimeout, commanddomain.QueueStatusFailed:
		reason := "predecessor create_transaction command not yet processed"
		return h.Queue.RevertToPending(ctx, cmd.ID, reason)
	case commanddomain.QueueStatusDeadLetter:
		h.deadLetter(ctx, cmd.ID, "predecessor create_transaction command is dead_letter")
		return apperr.ValidateBusinessError(apperr.ErrCreateCommandNotFound, "CommandMap")
	case commanddomain.QueueStatusProcessed:
		// proceed
	default:
		h.failCommand(ctx, cmd.ID, apperr.ErrCreateCommandNotFound)
		return apperr.ValidateBusinessError(apperr.ErrCreateCommandNotFound, "CommandMap")
	}

	if lookup.TransactionID == nil {
		h.failCommand(ctx, cmd.ID, apperr.ErrTransactionNotFound)
		return apperr.ValidateBusinessError(apperr.ErrTransactionNotFound, "CommandMap")
	}

	toStatus := transaction.Status(cm.TransactionPayload.Status)

	work := func(ctx context.Context, attempt int) error {
		existing, err := h.TransactionRepo.FindByID(ctx, *lookup.TransactionID)
		if err != nil {
			return err
		}

		if !transaction.CanTransitionTo(existing.Status, toStatus) {
			return apperr.ValidateBusinessError(apperr.ErrTransactionNotPending, "Transaction",
				"cannot transition from "+string(existing.Status)+" to "+string(toStatus))
		}

		var resolved *transaction.ResolvedTransaction

		if len(cm.TransactionPayload.Entries) > 0 && toStatus == transaction.StatusPending {
			resolved, err = h.Transformer.Transform(ctx, instanceID, toTransactionData(cm.TransactionPayload))
			if err != nil {
				return err
			}

			if err := transformer.ValidateBalance(resolved.Entries); err != nil {
				return err
			}
		} else {
			resolved = &transaction.ResolvedTransaction{InstanceID: instanceID, Status: toStatus}
		}

		return txstep.RunSteps(ctx, h.DB, h.updateTransactionSteps(instanceID, cmd, existing, resolved))
	}

	if err := h.OCC.Run(ctx, work, func(ctx context.Context, attempt int, err error) {
		h.Queue.IncrementOCCRetry(ctx, cmd.ID)
	}, func(ctx context.Context, retries int) error {
		return h.Queue.OCCFinalTimeout(ctx, cmd.ID, retries)
	}); err != nil {
		h.failCommand(ctx, cmd.ID, err)
		return err
	}

	return nil
}

// updateTransactionSteps builds the atomic-write step sequence for one OCC
// attempt of an update: apply the status/entries change to the existing
// Transaction, move each affected Account's balances per the transition, and
// record the JournalEvent (spec §4.6 steps 4-5).
func (h *Handlers) updateTransactionSteps(instanceID uuid.UUID, cmd *commanddomain.Command, existing *transaction.Transaction, resolved *transaction.ResolvedTransaction) []txstep.Step {
	// Captured before the "transaction" step below can overwrite
	// existing.Entries with the rewritten set — applyTransition needs the
	// pre-update entries to reverse, independent of what resolved carries.
	oldEntries := existing.Entries

	touched := make(map[uuid.UUID]struct{})

	for _, e := range oldEntries {
		touched[e.AccountID] = struct{}{}
	}

	for _, e := range resolved.Entries {
		touched[e.AccountID] = struct{}{}
	}

	return []txstep.Step{
		{Name: "transaction", Run: func(ctx context.Context, tx *sql.Tx) error {
			txCtx := dbtx.WithTx(ctx, tx)

			if resolved.Status == transaction.StatusPending && len(resolved.Entries) > 0 {
				entries := make([]*transaction.Entry, 0, len(resolved.Entries))
				for _, re := range resolved.Entries {
					entries = append(entries, &transaction.Entry{
						AccountID: re.AccountID,
						Value:     re.Value,
						Currency:  re.Currency,
						Type:      re.Type,
					})
				}

				if err := h.TransactionRepo.ReplaceEntries(txCtx, existing.ID, entries); err != nil {
					return err
				}

				existing.Entries = entries

				return nil
			}

			return h.TransactionRepo.UpdateStatus(txCtx, existing.ID, resolved.Status)
		}},
		{Name: "account_balances", Run: func(ctx context.Context, tx *sql.Tx) error {
			txCtx := dbtx.WithTx(ctx, tx)

			for accountID := range touched {
				if err := h.applyTransition(txCtx, accountID, oldEntries, resolved); err != nil {
					return err
				}
			}

			return nil
		}},
		{Name: "journal_event", Run: func(ctx context.Context, tx *sql.Tx) error {
			txCtx := dbtx.WithTx(ctx, tx)

			return h.writeJournalEvent(txCtx, instanceID, cmd, func(ctx context.Context, eventID uuid.UUID) error {
				if err := h.JournalRepo.LinkTransaction(ctx, &journalevent.TransactionLink{EventID: eventID, TransactionID: existing.ID}); err != nil {
					return err
				}

				for accountID := range touched {
					if err := h.JournalRepo.LinkAccount(ctx, &journalevent.AccountLink{EventID: eventID, AccountID: accountID}); err != nil {
						return err
					}
				}

				return nil
			})
		}},
		{Name: "mark_processed", Run: func(ctx context.Context, tx *sql.Tx) error {
			return h.QueueRepo.MarkProcessed(dbtx.WithTx(ctx, tx), cmd.ID, time.Now().UTC())
		}},
	}
}

// applyTransition moves accountID's balance contribution per the
// pending→posted, pending→archived, or pending→pending transition (spec
// §4.6 step 4), then appends the resulting BalanceHistoryEntry snapshot. Old
// and new per-account totals are both folded in a single read-modify-write so
// a pending→pending entry rewrite is a reverse-and-reapply in one step.
func (h *Handlers) applyTransition(ctx context.Context, accountID uuid.UUID, oldEntries []*transaction.Entry, resolved *transaction.ResolvedTransaction) error {
	acc, err := h.AccountRepo.FindByID(ctx, accountID)
	if err != nil {
		return err
	}

	for _, e := range oldEntries {
		if e.AccountID != accountID {
			continue
		}

		switch resolved.Status {
		case transaction.StatusPosted:
			movePendingToPosted(acc, e.Type, e.Value)
		case transaction.StatusArchived:
			removePending(acc, e.Type, e.Value)
		case transaction.StatusPending:
			removePending(acc, e.Type, e.Value)
		}
	}

	if resolved.Status == transaction.StatusPending {
		for _, re := range resolved.Entries {
			if re.AccountID != accountID {
				continue
			}

			addPending(acc, re.Type, re.Value)
		}
	}

	updated, err := h.AccountRepo.UpdateWithVersion(ctx, acc)
	if err != nil {
		return err
	}

	var entryID uuid.UUID

	for _, e := range oldEntries {
		if e.AccountID == accountID {
			entryID = e.ID
			break
		}
	}

	_, err = h.BalanceHistRepo.Create(ctx, &balancehistory.Entry{
		EntryID:   entryID,
		AccountID: updated.ID,
		Posted:    updated.Posted,
		Pending:   updated.Pending,
		Available: updated.Available(),
	})

	return err
}

func movePendingToPosted(acc *account.Account, t account.EntryType, value int64) {
	switch t {
	case account.EntryTypeDebit:
		acc.Pending.Debit -= value
		acc.Posted.Debit += value
	case account.EntryTypeCredit:
		acc.Pending.Credit -= value
		acc.Posted.Credit += value
	}
}

func removePending(acc *account.Account, t account.EntryType, value int64) {
	switch t {
	case account.EntryTypeDebit:
		acc.Pending.Debit -= value
	case account.EntryTypeCredit:
		acc.Pending.Credit -= value
	}
}

func addPending(acc *account.Account, t account.EntryType, value int64) {
	switch t {
	case account.EntryTypeDebit:
		acc.Pending.Debit += value
	case account.EntryTypeCredit:
		acc.Pending.Credit += value
	}
}
