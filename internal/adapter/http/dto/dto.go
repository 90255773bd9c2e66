package dto

import "stablepay/internal/core/domain"

// FundRequest is the request body for wallet funding.
type FundRequest struct {
	UserID string `json:"user_id" binding:"required,max=255"`
	// Amount positivity is validated by the service so that zero and
	// negative amounts both map to the same error code.
	Amount int64 `json:"amount"`
}

// FundResponse is the response body for successful funding.
type FundResponse struct {
	UserID     string `json:"user_id"`
	NewBalance int64  `json:"new_balance"`
}

// FreezeRequest is the request body for the payment freeze step.
type FreezeRequest struct {
	UserID       string `json:"user_id" binding:"required,max=255"`
	MerchantName string `json:"merchant_name" binding:"required,max=255"`
	Amount       int64  `json:"amount"`
}

// FreezeResponse is the response body for a created payment order.
type FreezeResponse struct {
	OrderID      string `json:"order_id"`
	Status       string `json:"status"`
	FrozenAmount int64  `json:"frozen_amount"`
}

// OrderRef is the request body for settle and release, which act on an
// existing order.
type OrderRef struct {
	OrderID string `json:"order_id" binding:"required,max=255"`
}

// OrderResponse is the response body for a terminal order transition.
type OrderResponse struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

// LedgerEntryResponse is one ledger entry in listing responses.
type LedgerEntryResponse struct {
	TxID           string  `json:"tx_id"`
	WalletID       string  `json:"wallet_id"`
	Type           string  `json:"type"`
	Amount         int64   `json:"amount"`
	RelatedOrderID *string `json:"related_order_id,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

// OrderListItem is one order in listing responses.
type OrderListItem struct {
	OrderID      string `json:"order_id"`
	UserID       string `json:"user_id"`
	MerchantName string `json:"merchant_name"`
	Amount       int64  `json:"amount"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
}

// ToLedgerEntryResponse converts a domain ledger entry to its DTO.
func ToLedgerEntryResponse(e domain.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		TxID:           e.TxID,
		WalletID:       e.WalletID,
		Type:           string(e.Type),
		Amount:         e.Amount,
		RelatedOrderID: e.RelatedOrderID,
		CreatedAt:      e.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// ToOrderListItem converts a domain order to its listing DTO.
func ToOrderListItem(o domain.Order) OrderListItem {
	return OrderListItem{
		OrderID:      o.OrderID,
		UserID:       o.UserID,
		MerchantName: o.MerchantName,
		Amount:       o.Amount,
		Status:       string(o.Status),
		CreatedAt:    o.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
