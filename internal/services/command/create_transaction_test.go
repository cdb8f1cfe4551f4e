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
	"github.com/ledgerd/coreengine/internal/domain/balancehistory"
	commanddomain "github.com/ledgerd/coreengine/internal/domain/command"
	"github.com/ledgerd/coreengine/internal/domain/instance"
	"github.com/ledgerd/coreengine/internal/domain/journalevent"
	"github.com/ledgerd/coreengine/internal/domain/transaction"
	"github.com/ledgerd/coreengine/internal/services/occ"
	"github.com/ledgerd/coreengine/internal/services/transformer"
)

func validCreateTransactionCommandMap() *commanddomain.CommandMap {
	return &commanddomain.CommandMap{
		Action:          commanddomain.ActionCreateTransaction,
		InstanceAddress: "main",
		Source:          "api",
		SourceIdempk:    "req-1",
		TransactionPayload: &commanddomain.TransactionData{
			Status: "pending",
			Entries: []commanddomain.EntryData{
				{AccountAddress: "assets:cash", Amount: 1000, Currency: "USD"},
				{AccountAddress: "revenue:sales", Amount: 1000, Currency: "USD"},
			},
		},
	}
}

func TestCreateTransaction_Success(t *testing.T) {
	h, mockDB, ctrl := newTestHandlers(t)
	h.Transformer = &transformer.Transformer{AccountRepo: h.AccountRepo}
	h.OCC = &occ.Processor{MaxRetries: 2, BackoffBaseMS: 1}

	instanceID := uuid.New()
	cash := &account.Account{ID: uuid.New(), InstanceID: instanceID, Address: "assets:cash", Currency: "USD", NormalBalance: account.NormalBalanceDebit}
	revenue := &account.Account{ID: uuid.New(), InstanceID: instanceID, Address: "revenue:sales", Currency: "USD", NormalBalance: account.NormalBalanceCredit}

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
	queueRepo.EXPECT().MarkProcessed(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	pendingRepo := h.PendingRepo.(*idempotencymock.MockPendingLookupRepository)
	pendingRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, nil)
	pendingRepo.EXPECT().SetTransactionID(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	accRepo := h.AccountRepo.(*accountmock.MockRepository)
	accRepo.EXPECT().FindByAddresses(gomock.Any(), instanceID, gomock.Any()).Return([]*account.Account{cash, revenue}, nil)
	accRepo.EXPECT().FindByID(gomock.Any(), cash.ID).Return(cash, nil)
	accRepo.EXPECT().FindByID(gomock.Any(), revenue.ID).Return(revenue, nil)
	accRepo.EXPECT().UpdateWithVersion(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, a *account.Account) (*account.Account, error) { return a, nil }).Times(2)

	balHistRepo := h.BalanceHistRepo.(*balancehistorymock.MockRepository)
	balHistRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, nil).Times(2)

	txnRepo := h.TransactionRepo.(*transactionmock.MockRepository)
	txnRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, tr *transaction.Transaction) (*transaction.Transaction, error) {
			tr.ID = uuid.New()
			for _, e := range tr.Entries {
				e.ID = uuid.New()
				e.TransactionID = tr.ID
			}
			return tr, nil
		})

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

	cmd, err := h.CreateTransaction(context.Background(), validCreateTransactionCommandMap())

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, cmd.ID)
	assert.NoError(t, mockDB.ExpectationsWereMet())
	ctrl.Finish()
}

func TestCreateTransaction_TooFewEntriesRejected(t *testing.T) {
	h, _, ctrl := newTestHandlers(t)
	instanceID := uuid.New()

	instRepo := h.InstanceRepo.(*instancemock.MockRepository)
	instRepo.EXPECT().FindByAddress(gomock.Any(), "main").Return(&instance.Instance{ID: instanceID, Address: "main"}, nil)

	cm := validCreateTransactionCommandMap()
	cm.TransactionPayload.Entries = cm.TransactionPayload.Entries[:1]

	_, err := h.CreateTransaction(context.Background(), cm)

	assert.Error(t, err)
	ctrl.Finish()
}

func TestCreateTransaction_UnbalancedEntriesFailCommand(t *testing.T) {
	h, mockDB, ctrl := newTestHandlers(t)
	h.Transformer = &transformer.Transformer{AccountRepo: h.AccountRepo}
	h.OCC = &occ.Processor{MaxRetries: 0, BackoffBaseMS: 1}

	instanceID := uuid.New()
	cash := &account.Account{ID: uuid.New(), InstanceID: instanceID, Address: "assets:cash", Currency: "USD", NormalBalance: account.NormalBalanceDebit}
	revenue := &account.Account{ID: uuid.New(), InstanceID: instanceID, Address: "revenue:sales", Currency: "USD", NormalBalance: account.NormalBalanceCredit}

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
	queueRepo.EXPECT().FindByCommandID(gomock.Any(), gomock.Any()).Return(&commanddomain.CommandQueueItem{RetryCount: 0}, nil)
	queueRepo.EXPECT().MarkFailed(gomock.Any(), gomock.Any(), gomock.Any(), commanddomain.QueueStatusFailed, gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	pendingRepo := h.PendingRepo.(*idempotencymock.MockPendingLookupRepository)
	pendingRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, nil)

	accRepo := h.AccountRepo.(*accountmock.MockRepository)
	accRepo.EXPECT().FindByAddresses(gomock.Any(), instanceID, gomock.Any()).Return([]*account.Account{cash, revenue}, nil)

	mockDB.ExpectBegin()
	mockDB.ExpectCommit()

	cm := validCreateTransactionCommandMap()
	cm.TransactionPayload.Entries[1].Amount = -900 // unbalanced against +1000

	_, err := h.CreateTransaction(context.Background(), cm)

	assert.Error(t, err)
	assert.NoError(t, mockDB.ExpectationsWereMet())
	ctrl.Finish()
}
