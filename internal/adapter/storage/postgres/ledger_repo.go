package postgres

import (
	"context"
	"fmt"

	"stablepay/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// LedgerRepo implements ports.LedgerRepository. The ledger is append-only:
// this repo exposes no update or delete path.
type LedgerRepo struct {
	pool Pool
}

// NewLedgerRepo creates a new LedgerRepo.
func NewLedgerRepo(pool Pool) *LedgerRepo {
	return &LedgerRepo{pool: pool}
}

// Append inserts a ledger entry within a transaction so it commits
// atomically with the wallet/order mutation it records.
func (r *LedgerRepo) Append(ctx context.Context, tx pgx.Tx, e *domain.LedgerEntry) error {
	query := `INSERT INTO transaction_ledger (tx_id, wallet_id, type, amount, related_order_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := tx.Exec(ctx, query,
		e.TxID, e.WalletID, e.Type, e.Amount, e.RelatedOrderID, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}
	return nil
}

// ListByWallet fetches the most recent entries for one wallet, newest first.
func (r *LedgerRepo) ListByWallet(ctx context.Context, walletID string, limit int) ([]domain.LedgerEntry, error) {
	query := `SELECT tx_id, wallet_id, type, amount, related_order_id, created_at
		FROM transaction_ledger WHERE wallet_id = $1 ORDER BY created_at DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, walletID, limit)
	if err != nil {
		return nil, fmt.Errorf("list ledger by wallet: %w", err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

// List fetches the most recent entries across all wallets, newest first.
func (r *LedgerRepo) List(ctx context.Context, limit int) ([]domain.LedgerEntry, error) {
	query := `SELECT tx_id, wallet_id, type, amount, related_order_id, created_at
		FROM transaction_ledger ORDER BY created_at DESC LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list ledger: %w", err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

func collectEntries(rows pgx.Rows) ([]domain.LedgerEntry, error) {
	var entries []domain.LedgerEntry
	for rows.Next() {
		var e domain.LedgerEntry
		if err := rows.Scan(&e.TxID, &e.WalletID, &e.Type, &e.Amount, &e.RelatedOrderID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger entries: %w", err)
	}
	return entries, nil
}
