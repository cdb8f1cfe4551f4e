package transformer

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ledgerd/coreengine/internal/apperr"
	"github.com/ledgerd/coreengine/internal/domain/account"
	"github.com/ledgerd/coreengine/internal/domain/transaction"
	mock "github.com/ledgerd/coreengine/internal/gen/mock/account"
)

func newAccount(addr string, normal account.NormalBalance) *account.Account {
	return &account.Account{
		ID:            uuid.New(),
		Address:       addr,
		Currency:      "USD",
		NormalBalance: normal,
	}
}

func TestTransform_StatusOnlyArchive(t *testing.T) {
	tr := &Transformer{}

	out, err := tr.Transform(context.Background(), uuid.New(), transaction.TransactionData{
		Status: transaction.StatusArchived,
	})

	require.NoError(t, err)
	assert.Equal(t, transaction.StatusArchived, out.Status)
	assert.Empty(t, out.Entries)
}

func TestTransform_ClassifiesDebitAndCreditNormalAccounts(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockRepository(ctrl)
	instanceID := uuid.New()

	cash := newAccount("assets:cash", account.NormalBalanceDebit)
	revenue := newAccount("revenue:sales", account.NormalBalanceCredit)

	repo.EXPECT().
		FindByAddresses(gomock.Any(), instanceID, gomock.Any()).
		Return([]*account.Account{cash, revenue}, nil)

	tr := &Transformer{AccountRepo: repo}

	out, err := tr.Transform(context.Background(), instanceID, transaction.TransactionData{
		Status: transaction.StatusPending,
		Entries: []transaction.EntryData{
			{AccountAddress: "assets:cash", Amount: 1000, Currency: "USD"},
			{AccountAddress: "revenue:sales", Amount: 1000, Currency: "USD"},
		},
	})

	require.NoError(t, err)
	require.Len(t, out.Entries, 2)

	byAccount := map[uuid.UUID]transaction.ResolvedEntry{}
	for _, e := range out.Entries {
		byAccount[e.AccountID] = e
	}

	assert.Equal(t, account.EntryTypeDebit, byAccount[cash.ID].Type)
	assert.Equal(t, int64(1000), byAccount[cash.ID].Value)
	assert.Equal(t, account.EntryTypeCredit, byAccount[revenue.ID].Type)
	assert.Equal(t, int64(1000), byAccount[revenue.ID].Value)
}

func TestTransform_NegativeAmountOnCreditNormalIsDebit(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockRepository(ctrl)
	instanceID := uuid.New()

	liability := newAccount("liabilities:ap", account.NormalBalanceCredit)

	repo.EXPECT().FindByAddresses(gomock.Any(), instanceID, gomock.Any()).
		Return([]*account.Account{liability}, nil)

	tr := &Transformer{AccountRepo: repo}

	out, err := tr.Transform(context.Background(), instanceID, transaction.TransactionData{
		Status: transaction.StatusPending,
		Entries: []transaction.EntryData{
			{AccountAddress: "liabilities:ap", Amount: -250, Currency: "USD"},
		},
	})

	require.NoError(t, err)
	require.Len(t, out.Entries, 1)
	assert.Equal(t, account.EntryTypeDebit, out.Entries[0].Type)
	assert.Equal(t, int64(250), out.Entries[0].Value)
}

func TestTransform_InvalidAddress(t *testing.T) {
	tr := &Transformer{}

	_, err := tr.Transform(context.Background(), uuid.New(), transaction.TransactionData{
		Status: transaction.StatusPending,
		Entries: []transaction.EntryData{
			{AccountAddress: "bad address", Amount: 100, Currency: "USD"},
		},
	})

	assert.True(t, errors.Is(err, apperr.ErrInvalidEntryData))
}

func TestTransform_ZeroAmount(t *testing.T) {
	tr := &Transformer{}

	_, err := tr.Transform(context.Background(), uuid.New(), transaction.TransactionData{
		Status: transaction.StatusPending,
		Entries: []transaction.EntryData{
			{AccountAddress: "assets:cash", Amount: 0, Currency: "USD"},
		},
	})

	assert.True(t, errors.Is(err, apperr.ErrInvalidEntryData))
}

func TestTransform_UnsupportedCurrency(t *testing.T) {
	tr := &Transformer{}

	_, err := tr.Transform(context.Background(), uuid.New(), transaction.TransactionData{
		Status: transaction.StatusPending,
		Entries: []transaction.EntryData{
			{AccountAddress: "assets:cash", Amount: 100, Currency: "XXX"},
		},
	})

	assert.True(t, errors.Is(err, apperr.ErrInvalidEntryData))
}

func TestTransform_SomeAccountsNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockRepository(ctrl)
	instanceID := uuid.New()

	cash := newAccount("assets:cash", account.NormalBalanceDebit)

	repo.EXPECT().FindByAddresses(gomock.Any(), instanceID, gomock.Any()).
		Return([]*account.Account{cash}, nil)

	tr := &Transformer{AccountRepo: repo}

	_, err := tr.Transform(context.Background(), instanceID, transaction.TransactionData{
		Status: transaction.StatusPending,
		Entries: []transaction.EntryData{
			{AccountAddress: "assets:cash", Amount: 100, Currency: "USD"},
			{AccountAddress: "assets:missing", Amount: -100, Currency: "USD"},
		},
	})

	assert.True(t, errors.Is(err, apperr.ErrSomeAccountsNotFound))
}

func TestTransform_NoAccountsFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockRepository(ctrl)
	instanceID := uuid.New()

	repo.EXPECT().FindByAddresses(gomock.Any(), instanceID, gomock.Any()).
		Return([]*account.Account{}, nil)

	tr := &Transformer{AccountRepo: repo}

	_, err := tr.Transform(context.Background(), instanceID, transaction.TransactionData{
		Status: transaction.StatusPending,
		Entries: []transaction.EntryData{
			{AccountAddress: "assets:cash", Amount: 100, Currency: "USD"},
		},
	})

	assert.True(t, errors.Is(err, apperr.ErrNoAccountsFound))
}

func TestValidateBalance_Balanced(t *testing.T) {
	err := ValidateBalance([]transaction.ResolvedEntry{
		{Value: 500, Type: account.EntryTypeDebit, Currency: "USD"},
		{Value: 500, Type: account.EntryTypeCredit, Currency: "USD"},
	})

	assert.NoError(t, err)
}

func TestValidateBalance_MultiCurrencyIndependentlyBalanced(t *testing.T) {
	err := ValidateBalance([]transaction.ResolvedEntry{
		{Value: 500, Type: account.EntryTypeDebit, Currency: "USD"},
		{Value: 500, Type: account.EntryTypeCredit, Currency: "USD"},
		{Value: 200, Type: account.EntryTypeDebit, Currency: "EUR"},
		{Value: 200, Type: account.EntryTypeCredit, Currency: "EUR"},
	})

	assert.NoError(t, err)
}

func TestValidateBalance_Unbalanced(t *testing.T) {
	err := ValidateBalance([]transaction.ResolvedEntry{
		{Value: 500, Type: account.EntryTypeDebit, Currency: "USD"},
		{Value: 400, Type: account.EntryTypeCredit, Currency: "USD"},
	})

	assert.True(t, errors.Is(err, apperr.ErrUnbalancedTransaction))
}
