package command

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerd/coreengine/internal/adapters/postgres/dbtx"
	"github.com/ledgerd/coreengine/internal/apperr"
	commanddomain "github.com/ledgerd/coreengine/internal/domain/command"
	"github.com/ledgerd/coreengine/internal/domain/journalevent"
	"github.com/ledgerd/coreengine/internal/mcontext"
	"github.com/ledgerd/coreengine/internal/motel"
	"github.com/ledgerd/coreengine/internal/services/txstep"
)

// UpdateAccount implements spec §4.7: resolve the account by
// (instance_address, account_address), apply the only mutable fields (name,
// description), and record a JournalEvent. A missing account dead-letters the
// command rather than entering the normal retry ladder, since the account
// will never come to exist on its own.
func (h *Handlers) UpdateAccount(ctx context.Context, cm *commanddomain.CommandMap) (*commanddomain.Command, error) {
	tracer := mcontext.Tracer(ctx)

	ctx, span := tracer.Start(ctx, "command.update_account")
	defer span.End()

	inst, err := h.InstanceRepo.FindByAddress(ctx, cm.InstanceAddress)
	if err != nil {
		motel.HandleSpanError(&span, "instance lookup failed", err)
		return nil, err
	}

	if cm.AccountPayload == nil {
		err := apperr.ValidateBusinessError(apperr.ErrNoAccountsOrEntries, "CommandMap")
		motel.HandleSpanError(&span, "missing account payload", err)

		return nil, err
	}

	cmd, err := h.persistCommand(ctx, cm, inst.ID, nil)
	if err != nil {
		motel.HandleSpanError(&span, "command persistence failed", err)
		return nil, err
	}

	if err := h.runUpdateAccount(ctx, inst.ID, cmd, cm); err != nil {
		motel.HandleSpanError(&span, "update_account failed", err)
		return cmd, err
	}

	return cmd, nil
}

// runUpdateAccount is UpdateAccount's business effect, split out so a worker
// resuming an already-persisted Command can run it again without re-running
// persistCommand. It reports its own outcome against cmd's queue item (dead
// letter on a missing account, failed otherwise), matching what UpdateAccount
// did inline before the split.
func (h *Handlers) runUpdateAccount(ctx context.Context, instanceID uuid.UUID, cmd *commanddomain.Command, cm *commanddomain.CommandMap) error {
	acc, err := h.AccountRepo.FindByAddress(ctx, instanceID, cm.AccountPayload.Address)
	if err != nil {
		var notFound apperr.EntityNotFoundError
		if errors.As(err, &notFound) {
			h.deadLetter(ctx, cmd.ID, "Account does not exist")
			return err
		}

		h.failCommand(ctx, cmd.ID, err)
		return err
	}

	acc.Name = cm.AccountPayload.Name
	acc.Description = cm.AccountPayload.Description

	steps := []txstep.Step{
		{Name: "account", Run: func(ctx context.Context, tx *sql.Tx) error {
			_, err := h.AccountRepo.UpdateFields(dbtx.WithTx(ctx, tx), acc)
			return err
		}},
		{Name: "journal_event", Run: func(ctx context.Context, tx *sql.Tx) error {
			txCtx := dbtx.WithTx(ctx, tx)
			return h.writeJournalEvent(txCtx, instanceID, cmd, func(ctx context.Context, eventID uuid.UUID) error {
				return h.JournalRepo.LinkAccount(ctx, &journalevent.AccountLink{EventID: eventID, AccountID: acc.ID})
			})
		}},
		{Name: "mark_processed", Run: func(ctx context.Context, tx *sql.Tx) error {
			return h.QueueRepo.MarkProcessed(dbtx.WithTx(ctx, tx), cmd.ID, time.Now().UTC())
		}},
	}

	if err := txstep.RunSteps(ctx, h.DB, steps); err != nil {
		h.failCommand(ctx, cmd.ID, err)
		return err
	}

	return nil
}
