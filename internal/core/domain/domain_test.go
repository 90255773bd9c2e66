package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWallet(t *testing.T) {
	w := NewWallet("user-1")
	assert.Equal(t, "user-1", w.UserID)
	assert.Zero(t, w.Balance)
	assert.Zero(t, w.FrozenAmount)
	assert.False(t, w.UpdatedAt.IsZero())
}

func TestWallet_Total(t *testing.T) {
	w := &Wallet{Balance: 2000, FrozenAmount: 500}
	assert.Equal(t, int64(2500), w.Total())
}

func TestNewOrder(t *testing.T) {
	o := NewOrder("user-1", "Shiny Shop", 8000)
	assert.NotEmpty(t, o.OrderID)
	assert.Equal(t, "user-1", o.UserID)
	assert.Equal(t, "Shiny Shop", o.MerchantName)
	assert.Equal(t, int64(8000), o.Amount)
	assert.Equal(t, OrderStatusReady, o.Status)
	assert.False(t, o.IsTerminal())

	other := NewOrder("user-1", "Shiny Shop", 8000)
	assert.NotEqual(t, o.OrderID, other.OrderID)
}

func TestOrder_IsTerminal(t *testing.T) {
	cases := []struct {
		status   OrderStatus
		terminal bool
	}{
		{OrderStatusReady, false},
		{OrderStatusCompleted, true},
		{OrderStatusCanceled, true},
	}
	for _, tc := range cases {
		o := &Order{Status: tc.status}
		assert.Equal(t, tc.terminal, o.IsTerminal(), "status %s", tc.status)
	}
}

func TestNewBuyEntry(t *testing.T) {
	e := NewBuyEntry("user-1", 10000)
	assert.NotEmpty(t, e.TxID)
	assert.Equal(t, "user-1", e.WalletID)
	assert.Equal(t, LedgerTypeBuy, e.Type)
	assert.Equal(t, int64(10000), e.Amount)
	assert.Nil(t, e.RelatedOrderID)
}

func TestNewPayEntry(t *testing.T) {
	e := NewPayEntry("user-1", 8000, "order-42")
	assert.Equal(t, LedgerTypePay, e.Type)
	require.NotNil(t, e.RelatedOrderID)
	assert.Equal(t, "order-42", *e.RelatedOrderID)
}

func TestNewRefundEntry(t *testing.T) {
	e := NewRefundEntry("user-1", 8000, "order-42")
	assert.Equal(t, LedgerTypeRefund, e.Type)
	require.NotNil(t, e.RelatedOrderID)
	assert.Equal(t, "order-42", *e.RelatedOrderID)
}
