package command

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerd/coreengine/internal/adapters/postgres/dbtx"
	"github.com/ledgerd/coreengine/internal/apperr"
	"github.com/ledgerd/coreengine/internal/domain/account"
	"github.com/ledgerd/coreengine/internal/domain/balancehistory"
	commanddomain "github.com/ledgerd/coreengine/internal/domain/command"
	"github.com/ledgerd/coreengine/internal/domain/idempotency"
	"github.com/ledgerd/coreengine/internal/domain/journalevent"
	"github.com/ledgerd/coreengine/internal/domain/transaction"
	"github.com/ledgerd/coreengine/internal/mcontext"
	"github.com/ledgerd/coreengine/internal/motel"
	"github.com/ledgerd/coreengine/internal/services/transformer"
	"github.com/ledgerd/coreengine/internal/services/txstep"
)

// CreateTransaction implements spec §4.5. Entries created here land on each
// affected account's pending side; UpdateTransaction is what moves pending
// into posted, zeroes it on archive, or reverses and reapplies it.
func (h *Handlers) CreateTransaction(ctx context.Context, cm *commanddomain.CommandMap) (*commanddomain.Command, error) {
	tracer := mcontext.Tracer(ctx)

	ctx, span := tracer.Start(ctx, "command.create_transaction")
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

	if len(cm.TransactionPayload.Entries) < 2 {
		err := apperr.ValidateBusinessError(apperr.ErrNoAccountsOrEntries, "TransactionData", "create_transaction requires at least 2 entries")
		motel.HandleSpanError(&span, "too few entries", err)

		return nil, err
	}

	// A PendingTransactionLookup is only useful if a later update_transaction
	// could ever find this one: a create landing directly in a terminal
	// status has nothing left to update (spec §4.1's enqueue operation).
	extra := func(cmd *commanddomain.Command) []txstep.Step {
		if transaction.Status(cm.TransactionPayload.Status) != transaction.StatusPending {
			return nil
		}

		return []txstep.Step{{Name: "pending_lookup", Run: func(ctx context.Context, tx *sql.Tx) error {
			_, err := h.PendingRepo.Create(dbtx.WithTx(ctx, tx), &idempotency.PendingLookup{
				InstanceID:   inst.ID,
				Source:       cm.Source,
				SourceIdempk: cm.SourceIdempk,
				CommandID:    cmd.ID,
			})

			return err
		}}}
	}

	cmd, err := h.persistCommand(ctx, cm, inst.ID, extra)
	if err != nil {
		motel.HandleSpanError(&span, "command persistence failed", err)
		return nil, err
	}

	if err := h.runCreateTransaction(ctx, inst.ID, cmd, cm); err != nil {
		motel.HandleSpanError(&span, "create_transaction failed", err)
		return cmd, err
	}

	return cmd, nil
}

// runCreateTransaction is CreateTransaction's business effect, split out so
// a worker resuming an already-persisted Command can run it again (after an
// OCC timeout or transient failure, spec §4.1) without re-running
// persistCommand or re-inserting the PendingTransactionLookup.
func (h *Handlers) runCreateTransaction(ctx context.Context, instanceID uuid.UUID, cmd *commanddomain.Command, cm *commanddomain.CommandMap) error {
	txData := toTransactionData(cm.TransactionPayload)

	var txn *transaction.Transaction

	work := func(ctx context.Context, attempt int) error {
		resolved, err := h.Transformer.Transform(ctx, instanceID, txData)
		if err != nil {
			return err
		}

		if err := transformer.ValidateBalance(resolved.Entries); err != nil {
			return err
		}

		return txstep.RunSteps(ctx, h.DB, h.createTransactionSteps(instanceID, cmd, resolved, &txn))
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

// createTransactionSteps builds the atomic-write step sequence for one OCC
// attempt: insert the Transaction and its Entries, move each affected
// Account's pending balance and append a BalanceHistoryEntry, record the
// JournalEvent and its link rows, then mark the queue item processed.
func (h *Handlers) createTransactionSteps(instanceID uuid.UUID, cmd *commanddomain.Command, resolved *transaction.ResolvedTransaction, out **transaction.Transaction) []txstep.Step {
	return []txstep.Step{
		{Name: "transaction", Run: func(ctx context.Context, tx *sql.Tx) error {
			entries := make([]*transaction.Entry, 0, len(resolved.Entries))
			for _, re := range resolved.Entries {
				entries = append(entries, &transaction.Entry{
					AccountID: re.AccountID,
					Value:     re.Value,
					Currency:  re.Currency,
					Type:      re.Type,
				})
			}

			t := &transaction.Transaction{
				InstanceID: instanceID,
				Status:     resolved.Status,
				Entries:    entries,
			}

			created, err := h.TransactionRepo.Create(dbtx.WithTx(ctx, tx), t)
			if err != nil {
				return err
			}

			*out = created

			return nil
		}},
		{Name: "pending_lookup_link", Run: func(ctx context.Context, tx *sql.Tx) error {
			return h.PendingRepo.SetTransactionID(dbtx.WithTx(ctx, tx), cmd.ID, (*out).ID)
		}},
		{Name: "account_balances", Run: func(ctx context.Context, tx *sql.Tx) error {
			txCtx := dbtx.WithTx(ctx, tx)

			for _, e := range (*out).Entries {
				if err := h.applyPendingContribution(txCtx, e); err != nil {
					return err
				}
			}

			return nil
		}},
		{Name: "journal_event", Run: func(ctx context.Context, tx *sql.Tx) error {
			txCtx := dbtx.WithTx(ctx, tx)

			return h.writeJournalEvent(txCtx, instanceID, cmd, func(ctx context.Context, eventID uuid.UUID) error {
				if err := h.JournalRepo.LinkTransaction(ctx, &journalevent.TransactionLink{EventID: eventID, TransactionID: (*out).ID}); err != nil {
					return err
				}

				for _, e := range (*out).Entries {
					if err := h.JournalRepo.LinkAccount(ctx, &journalevent.AccountLink{EventID: eventID, AccountID: e.AccountID}); err != nil {
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

// applyPendingContribution reads e's account fresh, adds e's value to the
// matching side of its pending balance, writes it back under OCC, and
// appends the resulting BalanceHistoryEntry snapshot.
func (h *Handlers) applyPendingContribution(ctx context.Context, e *transaction.Entry) error {
	acc, err := h.AccountRepo.FindByID(ctx, e.AccountID)
	if err != nil {
		return err
	}

	switch e.Type {
	case account.EntryTypeDebit:
		acc.Pending.Debit += e.Value
	case account.EntryTypeCredit:
		acc.Pending.Credit += e.Value
	default:
		return errors.New("command: entry has no type")
	}

	updated, err := h.AccountRepo.UpdateWithVersion(ctx, acc)
	if err != nil {
		return err
	}

	_, err = h.BalanceHistRepo.Create(ctx, &balancehistory.Entry{
		EntryID:   e.ID,
		AccountID: updated.ID,
		Posted:    updated.Posted,
		Pending:   updated.Pending,
		Available: updated.Available(),
	})

	return err
}
