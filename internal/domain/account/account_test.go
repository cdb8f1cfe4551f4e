package account

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveNormalBalance(t *testing.T) {
	tests := []struct {
		typ  Type
		want NormalBalance
	}{
		{TypeAsset, NormalBalanceDebit},
		{TypeExpense, NormalBalanceDebit},
		{TypeLiability, NormalBalanceCredit},
		{TypeEquity, NormalBalanceCredit},
		{TypeRevenue, NormalBalanceCredit},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			got, err := DeriveNormalBalance(tt.typ)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeriveNormalBalance_UnknownType(t *testing.T) {
	_, err := DeriveNormalBalance(Type("bogus"))
	assert.Error(t, err)
}

func TestAccount_Available_DebitNormal(t *testing.T) {
	a := &Account{
		NormalBalance: NormalBalanceDebit,
		Posted:        BalanceSide{Debit: 500, Credit: 120},
	}

	assert.Equal(t, int64(380), a.Available())
}

func TestAccount_Available_CreditNormal(t *testing.T) {
	a := &Account{
		NormalBalance: NormalBalanceCredit,
		Posted:        BalanceSide{Debit: 120, Credit: 500},
	}

	assert.Equal(t, int64(380), a.Available())
}

func TestAccount_Available_CreditNormal_Overdrawn(t *testing.T) {
	a := &Account{
		NormalBalance: NormalBalanceCredit,
		Posted:        BalanceSide{Debit: 500, Credit: 120},
	}

	assert.Equal(t, int64(-380), a.Available())
}

func TestAddressPattern(t *testing.T) {
	valid := []string{"cash", "assets:cash", "liabilities:ap:vendor_1", "A1:B2:C3"}
	invalid := []string{"", ":leading", "trailing:", "has space", "bad/char", "double::colon"}

	for _, addr := range valid {
		t.Run("valid_"+addr, func(t *testing.T) {
			assert.True(t, AddressPattern.MatchString(addr))
		})
	}

	for _, addr := range invalid {
		t.Run("invalid_"+addr, func(t *testing.T) {
			assert.False(t, AddressPattern.MatchString(addr))
		})
	}
}
