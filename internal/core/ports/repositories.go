package ports

import (
	"context"

	"stablepay/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// WalletRepository defines persistence operations for user wallets.
// Methods accepting pgx.Tx are used inside transaction blocks for pessimistic
// locking; the commit boundary always belongs to the caller.
type WalletRepository interface {
	// GetOrCreate returns the wallet for userID, creating a zero-balance row
	// if none exists. Used by the query path, where lazy creation is a
	// documented side effect.
	GetOrCreate(ctx context.Context, userID string) (*domain.Wallet, error)
	GetByUserID(ctx context.Context, userID string) (*domain.Wallet, error)
	// GetForUpdate acquires an exclusive row lock on the wallet. Blocks until
	// any concurrent holder commits or aborts. Returns nil if no row exists.
	GetForUpdate(ctx context.Context, tx pgx.Tx, userID string) (*domain.Wallet, error)
	// Create inserts a zero-balance wallet within the caller's transaction.
	// Inserting an already-existing user is a no-op.
	Create(ctx context.Context, tx pgx.Tx, wallet *domain.Wallet) error
	// UpdateBalances persists new balance and frozen amounts within the
	// caller's transaction.
	UpdateBalances(ctx context.Context, tx pgx.Tx, userID string, balance, frozen int64) error
}

// OrderRepository defines persistence operations for payment orders.
type OrderRepository interface {
	// Create inserts a new order. An identifier collision fails with
	// apperror.ErrDuplicateOrder.
	Create(ctx context.Context, tx pgx.Tx, order *domain.Order) error
	GetByID(ctx context.Context, orderID string) (*domain.Order, error)
	// GetForUpdate acquires an exclusive row lock on the order.
	// Returns nil if no row exists.
	GetForUpdate(ctx context.Context, tx pgx.Tx, orderID string) (*domain.Order, error)
	// UpdateStatus moves an order from one status to another within the
	// caller's transaction. The update is guarded on the expected current
	// status so a lost race surfaces as an error, never a double transition.
	UpdateStatus(ctx context.Context, tx pgx.Tx, orderID string, from, to domain.OrderStatus) error
	// List returns the most recent orders, newest first.
	List(ctx context.Context, limit int) ([]domain.Order, error)
}

// LedgerRepository defines persistence for the append-only transaction
// ledger. Entries are never updated or deleted.
type LedgerRepository interface {
	// Append inserts a ledger entry within the caller's transaction so the
	// entry commits atomically with the wallet/order mutation it records.
	Append(ctx context.Context, tx pgx.Tx, entry *domain.LedgerEntry) error
	// ListByWallet returns the most recent entries for one wallet, newest first.
	ListByWallet(ctx context.Context, walletID string, limit int) ([]domain.LedgerEntry, error)
	// List returns the most recent entries across all wallets, newest first.
	List(ctx context.Context, limit int) ([]domain.LedgerEntry, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
