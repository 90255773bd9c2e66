package ports

import (
	"context"
	"time"

	"stablepay/internal/core/domain"
)

// SnapshotCache is the Redis-layer cache for wallet snapshot projections.
// Mutating operations invalidate best-effort after commit; a stale read is
// bounded by the TTL.
type SnapshotCache interface {
	Get(ctx context.Context, userID string) ([]byte, error) // Returns cached snapshot JSON or nil
	Set(ctx context.Context, userID string, value []byte, ttl time.Duration) error
	Invalidate(ctx context.Context, userID string) error
}

// --- Service Ports (Business Logic) ---

// PaymentService defines the wallet/order state machine. Each operation runs
// as a single atomic database transaction: all of the wallet mutation, order
// mutation, and ledger append commit together, or none do.
type PaymentService interface {
	// Fund credits a wallet, creating it on first use, and records a BUY
	// ledger entry. Fails with ErrInvalidAmount on non-positive amounts.
	Fund(ctx context.Context, req FundRequest) (*FundResult, error)
	// Freeze moves amount from balance to frozen and creates a READY order.
	// No ledger entry is written; freezing is not a realized transfer.
	Freeze(ctx context.Context, req FreezeRequest) (*FreezeResult, error)
	// Settle permanently deducts a READY order's frozen amount, marks the
	// order COMPLETED, and records a PAY ledger entry.
	Settle(ctx context.Context, orderID string) (*domain.Order, error)
	// Release returns a READY order's frozen amount to the balance, marks
	// the order CANCELED, and records a REFUND ledger entry.
	Release(ctx context.Context, orderID string) (*domain.Order, error)
}

// FundRequest holds validated input for wallet funding.
type FundRequest struct {
	UserID string
	Amount int64
}

// FundResult holds the outcome of a funding operation.
type FundResult struct {
	UserID     string
	NewBalance int64
}

// FreezeRequest holds validated input for the freeze step.
type FreezeRequest struct {
	UserID       string
	MerchantName string
	Amount       int64
}

// FreezeResult holds the outcome of a freeze: the created order and the
// amount now held against it.
type FreezeResult struct {
	OrderID      string
	Status       domain.OrderStatus
	FrozenAmount int64
}

// ReportingService defines the read-only query surface.
type ReportingService interface {
	// WalletSnapshot returns the wallet state plus its most recent ledger
	// entries (up to 10, newest first). Creates the wallet lazily if absent.
	WalletSnapshot(ctx context.Context, userID string) (*WalletSnapshot, error)
	// ListLedger returns the most recent ledger entries across all wallets.
	ListLedger(ctx context.Context, limit int) ([]domain.LedgerEntry, error)
	// ListOrders returns the most recent orders.
	ListOrders(ctx context.Context, limit int) ([]domain.Order, error)
}

// WalletSnapshot is the wallet projection returned by the query surface.
type WalletSnapshot struct {
	UserID             string               `json:"user_id"`
	Balance            int64                `json:"balance"`
	FrozenAmount       int64                `json:"frozen_amount"`
	RecentTransactions []domain.LedgerEntry `json:"recent_transactions"`
}
