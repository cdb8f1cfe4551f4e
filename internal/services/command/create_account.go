package command

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerd/coreengine/internal/adapters/postgres/dbtx"
	"github.com/ledgerd/coreengine/internal/apperr"
	"github.com/ledgerd/coreengine/internal/domain/account"
	commanddomain "github.com/ledgerd/coreengine/internal/domain/command"
	"github.com/ledgerd/coreengine/internal/domain/journalevent"
	"github.com/ledgerd/coreengine/internal/mcontext"
	"github.com/ledgerd/coreengine/internal/motel"
	"github.com/ledgerd/coreengine/internal/services/txstep"
)

// CreateAccount implements spec §4.7: insert the Account, a JournalEvent and
// its link row, then mark the queue item processed. No OCC loop: account
// creation has no contended read-modify-write.
func (h *Handlers) CreateAccount(ctx context.Context, cm *commanddomain.CommandMap) (*commanddomain.Command, error) {
	tracer := mcontext.Tracer(ctx)

	ctx, span := tracer.Start(ctx, "command.create_account")
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

	_, derr := account.DeriveNormalBalance(account.Type(cm.AccountPayload.Type))
	if derr != nil {
		err := apperr.ValidateBusinessError(apperr.ErrInvalidEntryData, "AccountData", derr.Error())
		motel.HandleSpanError(&span, "invalid account type", err)

		return nil, err
	}

	cmd, err := h.persistCommand(ctx, cm, inst.ID, nil)
	if err != nil {
		motel.HandleSpanError(&span, "command persistence failed", err)
		return nil, err
	}

	if err := h.runCreateAccount(ctx, inst.ID, cmd, cm); err != nil {
		h.failCommand(ctx, cmd.ID, err)
		motel.HandleSpanError(&span, "create_account failed", err)

		return cmd, err
	}

	return cmd, nil
}

// runCreateAccount is CreateAccount's business effect, split out so a worker
// resuming an already-persisted Command (spec §4.1's claim/process loop) can
// run it again without re-running persistCommand.
func (h *Handlers) runCreateAccount(ctx context.Context, instanceID uuid.UUID, cmd *commanddomain.Command, cm *commanddomain.CommandMap) error {
	normalBalance, derr := account.DeriveNormalBalance(account.Type(cm.AccountPayload.Type))
	if derr != nil {
		return apperr.ValidateBusinessError(apperr.ErrInvalidEntryData, "AccountData", derr.Error())
	}

	acc := &account.Account{
		InstanceID:    instanceID,
		Address:       cm.AccountPayload.Address,
		Name:          cm.AccountPayload.Name,
		Description:   cm.AccountPayload.Description,
		Type:          account.Type(cm.AccountPayload.Type),
		Currency:      cm.AccountPayload.Currency,
		NormalBalance: normalBalance,
	}

	steps := []txstep.Step{
		{Name: "account", Run: func(ctx context.Context, tx *sql.Tx) error {
			_, err := h.AccountRepo.Create(dbtx.WithTx(ctx, tx), acc)
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

	return txstep.RunSteps(ctx, h.DB, steps)
}
