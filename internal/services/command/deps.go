// Package command implements the four action handlers the dispatcher
// (services/dispatcher) routes to: CreateAccount, UpdateAccount,
// CreateTransaction, UpdateTransaction (spec §4.5-§4.7).
//
// Command persistence is split from the business effect it describes. A
// small transaction inserts the idempotency key, the Command, and its
// CommandQueueItem{pending} and commits immediately, so the queue item has a
// durable row to carry retry/dead-letter state even when the business effect
// that follows fails or collides. The business effect then runs in its own
// atomic write (retried whole on OCC collision by services/occ), and queue
// state is updated afterward by a separate call, outside that write's
// transaction, so a rollback there never erases the attempt record.
package command

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ledgerd/coreengine/internal/adapters/postgres/dbtx"
	"github.com/ledgerd/coreengine/internal/apperr"
	"github.com/ledgerd/coreengine/internal/domain/account"
	commanddomain "github.com/ledgerd/coreengine/internal/domain/command"
	"github.com/ledgerd/coreengine/internal/domain/balancehistory"
	"github.com/ledgerd/coreengine/internal/domain/idempotency"
	"github.com/ledgerd/coreengine/internal/domain/journalevent"
	"github.com/ledgerd/coreengine/internal/domain/transaction"
	"github.com/ledgerd/coreengine/internal/domain/instance"
	"github.com/ledgerd/coreengine/internal/mcontext"
	"github.com/ledgerd/coreengine/internal/services/occ"
	"github.com/ledgerd/coreengine/internal/services/queue"
	"github.com/ledgerd/coreengine/internal/services/transformer"
	"github.com/ledgerd/coreengine/internal/services/txstep"
)

// Handlers wires the four command handlers to their repositories and
// services. One instance is shared across all worker goroutines.
type Handlers struct {
	DB *sql.DB

	InstanceRepo    instance.Repository
	AccountRepo     account.Repository
	TransactionRepo transaction.Repository
	BalanceHistRepo balancehistory.Repository
	CommandRepo     commanddomain.Repository
	QueueRepo       commanddomain.QueueRepository
	KeyRepo         idempotency.KeyRepository
	PendingRepo     idempotency.PendingLookupRepository
	JournalRepo     journalevent.Repository

	Queue       *queue.Service
	Transformer *transformer.Transformer
	OCC         *occ.Processor

	IdempotencySecret []byte
}

// persistCommand performs the save-on-error entry mode's fixed prelude: an
// idempotency key, a Command, and a pending CommandQueueItem, committed as
// one small transaction (spec §4.4, §4.5 step 1). A unique-index collision on
// the idempotency key surfaces as apperr.ErrIdempotencyViolation and nothing
// is persisted.
// extra lets a caller fold action-specific rows (CreateTransaction's pending
// PendingTransactionLookup, spec §4.1's enqueue operation) into the same
// atomic write, instead of a second, separately-committed call. It is handed
// the same Command persistCommand is about to create, so it can reference
// cmd.ID even though that field isn't set until the "new_command" step runs.
func (h *Handlers) persistCommand(ctx context.Context, cm *commanddomain.CommandMap, instanceID uuid.UUID, extra func(cmd *commanddomain.Command) []txstep.Step) (*commanddomain.Command, error) {
	keyHash := idempotency.HashKey(h.IdempotencySecret, string(cm.Action), cm.Source, cm.SourceIdempk, cm.UpdateIdempk)

	cmd := &commanddomain.Command{
		InstanceID:   instanceID,
		CommandMap:   cm,
		Action:       cm.Action,
		Source:       cm.Source,
		SourceIdempk: cm.SourceIdempk,
		UpdateIdempk: cm.UpdateIdempk,
		UpdateSource: cm.UpdateSource,
	}

	steps := []txstep.Step{
		{Name: "idempotency", Run: func(ctx context.Context, tx *sql.Tx) error {
			_, err := h.KeyRepo.Create(dbtx.WithTx(ctx, tx), &idempotency.Key{InstanceID: instanceID, KeyHash: keyHash})
			return err
		}},
		{Name: "new_command", Run: func(ctx context.Context, tx *sql.Tx) error {
			txCtx := dbtx.WithTx(ctx, tx)

			if _, err := h.CommandRepo.Create(txCtx, cmd); err != nil {
				return err
			}

			_, err := h.QueueRepo.Create(txCtx, &commanddomain.CommandQueueItem{CommandID: cmd.ID})

			return err
		}},
	}

	if extra != nil {
		steps = append(steps, extra(cmd)...)
	}

	err := txstep.RunSteps(ctx, h.DB, steps)
	if err != nil {
		var stepErr *txstep.Error
		if errors.As(err, &stepErr) {
			return nil, apperr.ValidateBusinessError(stepErr.Err, "CommandMap")
		}

		return nil, err
	}

	return cmd, nil
}

// writeJournalEvent inserts the append-only Event row for cmd's effect and
// calls link to attach whichever Account/Transaction rows it touched (spec
// §4.5 step 5, §4.7).
func (h *Handlers) writeJournalEvent(ctx context.Context, instanceID uuid.UUID, cmd *commanddomain.Command, link func(ctx context.Context, eventID uuid.UUID) error) error {
	event := &journalevent.Event{InstanceID: instanceID, CommandID: cmd.ID, CommandMap: cmd.CommandMap}

	if _, err := h.JournalRepo.Create(ctx, event); err != nil {
		return err
	}

	return link(ctx, event.ID)
}

// failCommand records a business-step failure against an already-persisted
// Command's queue item, attributing the error to the named step that raised
// it (spec §4.8). OCC exhaustion is reported separately by the occ.Processor
// via queue.Service.OCCFinalTimeout, so it is not re-reported here.
func (h *Handlers) failCommand(ctx context.Context, commandID uuid.UUID, stepErr error) {
	logger := mcontext.Logger(ctx)

	if errors.Is(stepErr, apperr.ErrOCCRetriesExhausted) {
		return
	}

	reason := stepErr.Error()

	var se *txstep.Error
	if errors.As(stepErr, &se) {
		reason = fmt.Sprintf(":%s %v", se.Step, se.Err)
	}

	if err := h.Queue.MarkFailed(ctx, commandID, reason, commanddomain.QueueStatusFailed); err != nil {
		logger.Errorf("failed to record command %s failure: %v", commandID, err)
	}
}

// toTransactionData converts a CommandMap's command-package-local
// TransactionData into the transformer's transaction.TransactionData, the one
// place the two parallel EntryData shapes (kept separate so the command
// package has no dependency on the transaction package) are reconciled.
func toTransactionData(d *commanddomain.TransactionData) transaction.TransactionData {
	if d == nil {
		return transaction.TransactionData{}
	}

	entries := make([]transaction.EntryData, 0, len(d.Entries))
	for _, e := range d.Entries {
		entries = append(entries, transaction.EntryData{
			AccountAddress: e.AccountAddress,
			Amount:         e.Amount,
			Currency:       e.Currency,
		})
	}

	return transaction.TransactionData{
		Status:  transaction.Status(d.Status),
		Entries: entries,
	}
}

// Resume re-runs the business effect of an already-persisted, already-claimed
// Command, for the worker pool's retry path (spec §4.1's claim operation):
// a queue item previously left pending/failed/occ_timeout by a prior attempt
// carries everything the original handler needed in cmd.CommandMap, so this
// never touches persistCommand again.
func (h *Handlers) Resume(ctx context.Context, cmd *commanddomain.Command) error {
	cm := cmd.CommandMap

	switch cmd.Action {
	case commanddomain.ActionCreateAccount:
		return h.runCreateAccount(ctx, cmd.InstanceID, cmd, cm)
	case commanddomain.ActionUpdateAccount:
		return h.runUpdateAccount(ctx, cmd.InstanceID, cmd, cm)
	case commanddomain.ActionCreateTransaction:
		return h.runCreateTransaction(ctx, cmd.InstanceID, cmd, cm)
	case commanddomain.ActionUpdateTransaction:
		return h.runUpdateTransaction(ctx, cmd.InstanceID, cmd, cm)
	default:
		err := apperr.ValidateBusinessError(apperr.ErrActionNotSupported, "Command", string(cmd.Action))
		h.failCommand(ctx, cmd.ID, err)

		return err
	}
}

// deadLetter marks commandID dead_letter directly, bypassing the normal
// retry ladder, used for the no-predecessor and predecessor-dead-letter
// outcomes of UpdateTransaction (spec §4.6 step 2) and UpdateAccount's
// missing-account outcome (spec §4.7).
func (h *Handlers) deadLetter(ctx context.Context, commandID uuid.UUID, reason string) {
	logger := mcontext.Logger(ctx)

	if err := h.Queue.MarkDeadLetter(ctx, commandID, reason); err != nil {
		logger.Errorf("failed to dead-letter command %s: %v", commandID, err)
	}
}
