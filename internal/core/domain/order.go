package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the lifecycle state of a payment order.
type OrderStatus string

const (
	// OrderStatusReady means the amount is frozen and the order awaits
	// settlement or release.
	OrderStatusReady OrderStatus = "READY"
	// OrderStatusCompleted means the frozen amount was paid out.
	OrderStatusCompleted OrderStatus = "COMPLETED"
	// OrderStatusCanceled means the frozen amount was returned.
	OrderStatusCanceled OrderStatus = "CANCELED"
)

// Order is an escrow over a frozen slice of a wallet's balance. It is born
// READY and moves exactly once, to COMPLETED or CANCELED.
type Order struct {
	OrderID      string      `json:"order_id"`
	UserID       string      `json:"user_id"`
	MerchantName string      `json:"merchant_name"`
	Amount       int64       `json:"amount"`
	Status       OrderStatus `json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
}

// NewOrder creates a READY order with a freshly generated identifier.
func NewOrder(userID, merchantName string, amount int64) *Order {
	return &Order{
		OrderID:      uuid.New().String(),
		UserID:       userID,
		MerchantName: merchantName,
		Amount:       amount,
		Status:       OrderStatusReady,
		CreatedAt:    time.Now().UTC(),
	}
}

// IsTerminal reports whether the order has reached a final state.
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusCompleted || o.Status == OrderStatusCanceled
}
