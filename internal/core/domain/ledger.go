package domain

import (
	"time"

	"github.com/google/uuid"
)

// LedgerType classifies a ledger entry by the transfer it records.
type LedgerType string

const (
	// LedgerTypeBuy records funds credited to a wallet.
	LedgerTypeBuy LedgerType = "BUY"
	// LedgerTypePay records frozen funds paid out on settlement.
	LedgerTypePay LedgerType = "PAY"
	// LedgerTypeRefund records frozen funds returned on release.
	LedgerTypeRefund LedgerType = "REFUND"
)

// LedgerEntry is one immutable row of the transaction ledger. Entries are
// only ever appended, never updated or deleted.
type LedgerEntry struct {
	TxID           string     `json:"tx_id"`
	WalletID       string     `json:"wallet_id"`
	Type           LedgerType `json:"type"`
	Amount         int64      `json:"amount"`
	RelatedOrderID *string    `json:"related_order_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// NewBuyEntry records a wallet credit. Funding has no associated order.
func NewBuyEntry(walletID string, amount int64) *LedgerEntry {
	return newEntry(walletID, LedgerTypeBuy, amount, nil)
}

// NewPayEntry records a settled payment for the given order.
func NewPayEntry(walletID string, amount int64, orderID string) *LedgerEntry {
	return newEntry(walletID, LedgerTypePay, amount, &orderID)
}

// NewRefundEntry records a released (refunded) payment for the given order.
func NewRefundEntry(walletID string, amount int64, orderID string) *LedgerEntry {
	return newEntry(walletID, LedgerTypeRefund, amount, &orderID)
}

func newEntry(walletID string, t LedgerType, amount int64, orderID *string) *LedgerEntry {
	return &LedgerEntry{
		TxID:           uuid.New().String(),
		WalletID:       walletID,
		Type:           t,
		Amount:         amount,
		RelatedOrderID: orderID,
		CreatedAt:      time.Now().UTC(),
	}
}
