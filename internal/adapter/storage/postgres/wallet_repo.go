package postgres

import (
	"context"
	"errors"
	"fmt"

	"stablepay/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// WalletRepo implements ports.WalletRepository.
type WalletRepo struct {
	pool Pool
}

// NewWalletRepo creates a new WalletRepo.
func NewWalletRepo(pool Pool) *WalletRepo {
	return &WalletRepo{pool: pool}
}

// GetOrCreate fetches the wallet for userID, inserting a zero-balance row
// first if none exists. The insert is idempotent under concurrent callers.
func (r *WalletRepo) GetOrCreate(ctx context.Context, userID string) (*domain.Wallet, error) {
	insert := `INSERT INTO user_wallets (user_id, balance, frozen_amount, updated_at)
		VALUES ($1, 0, 0, NOW()) ON CONFLICT (user_id) DO NOTHING`

	if _, err := r.pool.Exec(ctx, insert, userID); err != nil {
		return nil, fmt.Errorf("ensure wallet exists: %w", err)
	}
	return r.GetByUserID(ctx, userID)
}

// GetByUserID fetches a wallet without locking. Returns nil if absent.
func (r *WalletRepo) GetByUserID(ctx context.Context, userID string) (*domain.Wallet, error) {
	query := `SELECT user_id, balance, frozen_amount, updated_at
		FROM user_wallets WHERE user_id = $1`

	w := &domain.Wallet{}
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&w.UserID, &w.Balance, &w.FrozenAmount, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get wallet: %w", err)
	}
	return w, nil
}

// GetForUpdate fetches a wallet with an exclusive row lock.
// This MUST be called within a transaction.
func (r *WalletRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, userID string) (*domain.Wallet, error) {
	query := `SELECT user_id, balance, frozen_amount, updated_at
		FROM user_wallets WHERE user_id = $1 FOR UPDATE`

	w := &domain.Wallet{}
	err := tx.QueryRow(ctx, query, userID).Scan(
		&w.UserID, &w.Balance, &w.FrozenAmount, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get wallet for update: %w", err)
	}
	return w, nil
}

// Create inserts a zero-balance wallet within a transaction. A concurrent
// insert of the same user blocks on the unique index until the holder
// commits, then resolves to a no-op.
func (r *WalletRepo) Create(ctx context.Context, tx pgx.Tx, w *domain.Wallet) error {
	query := `INSERT INTO user_wallets (user_id, balance, frozen_amount, updated_at)
		VALUES ($1, $2, $3, $4) ON CONFLICT (user_id) DO NOTHING`

	_, err := tx.Exec(ctx, query, w.UserID, w.Balance, w.FrozenAmount, w.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert wallet: %w", err)
	}
	return nil
}

// UpdateBalances persists new balance and frozen amounts within a transaction.
func (r *WalletRepo) UpdateBalances(ctx context.Context, tx pgx.Tx, userID string, balance, frozen int64) error {
	query := `UPDATE user_wallets SET balance = $1, frozen_amount = $2, updated_at = NOW() WHERE user_id = $3`

	tag, err := tx.Exec(ctx, query, balance, frozen, userID)
	if err != nil {
		return fmt.Errorf("update wallet balances: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("wallet not found: %s", userID)
	}
	return nil
}
