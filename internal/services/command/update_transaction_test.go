package command

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	accountmock "github.com/ledgerd/coreengine/internal/gen/mock/account"
	balancehistorymock "github.com/ledgerd/coreengine/internal/gen/mock/balancehistory"
	commandmock "github.com/ledgerd/coreengine/internal/gen/mock/command"
	idempotencymock "github.com/ledgerd/coreengine/internal/gen/mock/idempotency"
	instancemock "github.com/ledgerd/coreengine/internal/gen/mock/instance"
	journaleventmock "github.com/ledgerd/coreengine/internal/gen/mock/journalevent"
	transactionmock "github.com/ledgerd/coreengine/internal/gen/mock/transaction"

	"github.com/ledgerd/coreengine/internal/domain/account"
	commanddomain "github.com/ledgerd/coreengine/internal/domain/command"
	"github.com/ledgerd/coreengine/internal/domain/idempotency"
	"github.com/ledgerd/coreengine/internal/domain/instance"
	"github.com/ledgerd/coreengine/internal/domain/journalevent"
	"github.com/ledgerd/coreengine/internal/domain/transaction"
	"github.com/ledgerd/coreengine/internal/services/occ"
	"github.com/ledgerd/coreengine/internal/services/transformer"
)

func validUpdateTransactionCommandMap(status string) *commanddomain.CommandMap {
	return &commanddomain.CommandMap{
		Action:          commanddomain.ActionUpdateTransaction,
		InstanceAddress: "main",
		Source:          "api",
		SourceIdempk:    "req-1",
		UpdateIdempk:    "upd-1",
		TransactionPayload: &commanddomain.TransactionData{
			Status: status,
		},
	}
}

func TestUpdateTransaction_PendingToPosted(t *testing.T) {
	h, mockDB, ctrl := newTestHandlers(t)
	h.Transformer = &transformer.Transformer{AccountRepo: h.AccountRepo}
	h.OCC = &occ.Processor{MaxRetries: 2, BackoffBaseMS: 1}

	instanceID := uuid.New()
	predecessorCmdID := uuid.New()
	transactionID := uuid.New()
	cashID := uuid.New()
	revenueID := uuid.New()

	cash := &account.Account{ID: cashID, InstanceID: instanceID, Address: "assets:cash", Currency: "USD", NormalBalance: account.NormalBalanceDebit,
		Pending: account.BalanceSide{Debit: 1000}}
	revenue := &account.Account{ID: revenueID, InstanceID: instanceID, Address: "revenue:sales", Currency: "USD", NormalBalance: account.NormalBalanceCredit,
		Pending: account.BalanceSide{Credit: 1000}}

	existing := &transaction.Transaction{
		ID:         transactionID,
		InstanceID: instanceID,
		Status:     transaction.StatusPending,
		Entries: []*transaction.Entry{
			{ID: uuid.New(), TransactionID: transactionID, AccountID: cashID, Value: 1000, Currency: "USD", Type: account.EntryTypeDebit},
			{ID: uuid.New(), TransactionID: transactionID, AccountID: revenueID, Value: 1000, Currency: "USD", Type: account.EntryTypeCredit},
		},
	}

	instRepo := h.InstanceRepo.(*instancemock.MockRepository)
	instRepo.EXPECT().FindByAddress(gomock.Any(), "main").Return(&instance.Instance{ID: instanceID, Address: "main"}, nil)

	keyRepo := h.KeyRepo.(*idempotencymock.MockKeyRepository)
	keyRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, nil)

	cmdRepo := h.CommandRepo.(*commandmock.MockRepository)
	cmdRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, c *commanddomain.Command) (*commanddomain.Command, error) {
			c.ID = uuid.New()
			return c, nil
		})

	queueRepo := h.QueueRepo.(*commandmock.MockQueueRepository)
	queueRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, nil)
	queueRepo.EXPECT().FindByCommandID(gomock.Any(), predecessorCmdID).
		Return(&commanddomain.CommandQueueItem{CommandID: predecessorCmdID, Status: commanddomain.QueueStatusProcessed}, nil)
	queueRepo.EXPECT().MarkProcessed(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	pendingRepo := h.PendingRepo.(*idempotencymock.MockPendingLookupRepository)
	pendingRepo.EXPECT().FindByCoordinates(gomock.Any(), instanceID, "api", "req-1").
		Return(&idempotency.PendingLookup{CommandID: predecessorCmdID, TransactionID: &transactionID}, nil)

	txnRepo := h.TransactionRepo.(*transactionmock.MockRepository)
	txnRepo.EXPECT().FindByID(gomock.Any(), transactionID).Return(existing, nil)
	txnRepo.EXPECT().UpdateStatus(gomock.Any(), transactionID, transaction.StatusPosted).Return(nil)

	accRepo := h.AccountRepo.(*accountmock.MockRepository)
	accRepo.EXPECT().FindByID(gomock.Any(), cashID).Return(cash, nil)
	accRepo.EXPECT().FindByID(gomock.Any(), revenueID).Return(revenue, nil)
	accRepo.EXPECT().UpdateWithVersion(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, a *account.Account) (*account.Account, error) { return a, nil }).Times(2)

	balHistRepo := h.BalanceHistRepo.(*balancehistorymock.MockRepository)
	balHistRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, nil).Times(2)

	journalRepo := h.JournalRepo.(*journaleventmock.MockRepository)
	journalRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, e *journalevent.Event) (*journalevent.Event, error) {
			e.ID = uuid.New()
			return e, nil
		})
	journalRepo.EXPECT().LinkTransaction(gomock.Any(), gomock.Any()).Return(nil)
	journalRepo.EXPECT().LinkAccount(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	mockDB.ExpectBegin()
	mockDB.ExpectCommit()
	mockDB.ExpectBegin()
	mockDB.ExpectCommit()

	cmd, err := h.UpdateTransaction(context.Background(), validUpdateTransactionCommandMap("posted"))

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, cmd.ID)
	assert.NoError(t, mockDB.ExpectationsWereMet())
	ctrl.Finish()
}

func TestUpdateTransaction_PredecessorNotFoundDeadLetters(t *testing.T) {
	h, mockDB, ctrl := newTestHandlers(t)

	instanceID := uuid.New()

	instRepo := h.InstanceRepo.(*instancemock.MockRepository)
	instRepo.EXPECT().FindByAddress(gomock.Any(), "main").Return(&instance.Instance{ID: instanceID, Address: "main"}, nil)

	keyRepo := h.KeyRepo.(*idempotencymock.MockKeyRepository)
	keyRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, nil)

	cmdRepo := h.CommandRepo.(*commandmock.MockRepository)
	cmdRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, c *commanddomain.Command) (*commanddomain.Command, error) {
			c.ID = uuid.New()
			return c, nil
		})

	queueRepo := h.QueueRepo.(*commandmock.MockQueueRepository)
	queueRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, nil)
	queueRepo.EXPECT().MarkDeadLetter(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	pendingRepo := h.PendingRepo.(*idempotencymock.MockPendingLookupRepository)
	pendingRepo.EXPECT().FindByCoordinates(gomock.Any(), instanceID, "api", "req-1").Return(nil, nil)

	mockDB.ExpectBegin()
	mockDB.ExpectCommit()

	_, err := h.UpdateTransaction(context.Background(), validUpdateTransactionCommandMap("posted"))

	assert.Error(t, err)
	assert.NoError(t, mockDB.ExpectationsWereMet())
	ctrl.Finish()
}

func TestUpdateTransaction_PredecessorStillPendingReverts(t *testing.T) {
	h, mockDB, ctrl := newTestHandlers(t)
	h.Queue.MaxRetries = 5
	h.Queue.RetryIntervalMS = 10

	instanceID := uuid.New()
	predecessorCmdID := uuid.New()
	transactionID := uuid.New()

	instRepo := h.InstanceRepo.(*instancemock.MockRepository)
	instRepo.EXPECT().FindByAddress(gomock.Any(), "main").Return(&instance.Instance{ID: instanceID, Address: "main"}, nil)

	keyRepo := h.KeyRepo.(*idempotencymock.MockKeyRepository)
	keyRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, nil)

	cmdRepo := h.CommandRepo.(*commandmock.MockRepository)
	cmdRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, c *commanddomain.Command) (*commanddomain.Command, error) {
			c.ID = uuid.New()
			return c, nil
		})

	queueRepo := h.QueueRepo.(*commandmock.MockQueueRepository)
	queueRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, nil)
	queueRepo.EXPECT().FindByCommandID(gomock.Any(), predecessorCmdID).
		Return(&commanddomain.CommandQueueItem{CommandID: predecessorCmdID, Status: commanddomain.QueueStatusPending}, nil)
	queueRepo.EXPECT().RevertToPending(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	pendingRepo := h.PendingRepo.(*idempotencymock.MockPendingLookupRepository)
	pendingRepo.EXPECT().FindByCoordinates(gomock.Any(), instanceID, "api", "req-1").
		Return(&idempotency.PendingLookup{CommandID: predecessorCmdID, TransactionID: &transactionID}, nil)

	mockDB.ExpectBegin()
	mockDB.ExpectCommit()

	_, err := h.UpdateTransaction(context.Background(), validUpdateTransactionCommandMap("posted"))

	require.NoError(t, err)
	assert.NoError(t, mockDB.ExpectationsWereMet())
	ctrl.Finish()
}

func TestUpdateTransaction_IllegalStatusTransitionFailsCommand(t *testing.T) {
	h, mockDB, ctrl := newTestHandlers(t)
	h.Transformer = &transformer.Transformer{AccountRepo: h.AccountRepo}
	h.OCC = &occ.Processor{MaxRetries: 0, BackoffBaseMS: 1}

	instanceID := uuid.New()
	predecessorCmdID := uuid.New()
	transactionID := uuid.New()

	existing := &transaction.Transaction{ID: transactionID, InstanceID: instanceID, Status: transaction.StatusPosted}

	instRepo := h.InstanceRepo.(*instancemock.MockRepository)
	instRepo.EXPECT().FindByAddress(gomock.Any(), "main").Return(&instance.Instance{ID: instanceID, Address: "main"}, nil)

	keyRepo := h.KeyRepo.(*idempotencymock.MockKeyRepository)
	keyRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, nil)

	cmdRepo := h.CommandRepo.(*commandmock.MockRepository)
	cmdRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, c *commanddomain.Command) (*commanddomain.Command, error) {
			c.ID = uuid.New()
			return c, nil
		})

	queueRepo := h.QueueRepo.(*commandmock.MockQueueRepository)
	queueRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, nil)
	queueRepo.EXPECT().FindByCommandID(gomock.Any(), predecessorCmdID).
		Return(&commanddomain.CommandQueueItem{CommandID: predecessorCmdID, Status: commanddomain.QueueStatusProcessed}, nil)
	queueRepo.EXPECT().FindByCommandID(gomock.Any(), gomock.Any()).
		Return(&commanddomain.CommandQueueItem{RetryCount: 0}, nil)
	queueRepo.EXPECT().MarkFailed(gomock.Any(), gomock.Any(), gomock.Any(), commanddomain.QueueStatusFailed, gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	pendingRepo := h.PendingRepo.(*idempotencymock.MockPendingLookupRepository)
	pendingRepo.EXPECT().FindByCoordinates(gomock.Any(), instanceID, "api", "req-1").
		Return(&idempotency.PendingLookup{CommandID: predecessorCmdID, TransactionID: &transactionID}, nil)

	txnRepo := h.TransactionRepo.(*transactionmock.MockRepository)
	txnRepo.EXPECT().FindByID(gomock.Any(), transactionID).Return(existing, nil)

	mockDB.ExpectBegin()
	mockDB.ExpectCommit()

	_, err := h.UpdateTransaction(context.Background(), validUpdateTransactionCommandMap("posted"))

	assert.Error(t, err)
	assert.NoError(t, mockDB.ExpectationsWereMet())
	ctrl.Finish()
}
