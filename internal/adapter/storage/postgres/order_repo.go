package postgres

import (
	"context"
	"errors"
	"fmt"

	"stablepay/internal/core/domain"
	"stablepay/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgUniqueViolation is the SQLSTATE for unique constraint violations.
const pgUniqueViolation = "23505"

// OrderRepo implements ports.OrderRepository.
type OrderRepo struct {
	pool Pool
}

// NewOrderRepo creates a new OrderRepo.
func NewOrderRepo(pool Pool) *OrderRepo {
	return &OrderRepo{pool: pool}
}

// Create inserts a new order within a transaction. An identifier collision
// is an invariant breach given the generation scheme, but is still checked
// and surfaced as ErrDuplicateOrder.
func (r *OrderRepo) Create(ctx context.Context, tx pgx.Tx, o *domain.Order) error {
	query := `INSERT INTO payment_orders (order_id, user_id, merchant_name, amount, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := tx.Exec(ctx, query,
		o.OrderID, o.UserID, o.MerchantName, o.Amount, o.Status, o.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return apperror.ErrDuplicateOrder()
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetByID fetches an order without locking. Returns nil if absent.
func (r *OrderRepo) GetByID(ctx context.Context, orderID string) (*domain.Order, error) {
	query := `SELECT order_id, user_id, merchant_name, amount, status, created_at
		FROM payment_orders WHERE order_id = $1`

	return scanOrder(r.pool.QueryRow(ctx, query, orderID))
}

// GetForUpdate fetches an order with an exclusive row lock.
// This MUST be called within a transaction.
func (r *OrderRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, orderID string) (*domain.Order, error) {
	query := `SELECT order_id, user_id, merchant_name, amount, status, created_at
		FROM payment_orders WHERE order_id = $1 FOR UPDATE`

	return scanOrder(tx.QueryRow(ctx, query, orderID))
}

// UpdateStatus moves an order between statuses within a transaction. The
// WHERE clause is guarded on the expected current status, so a transition
// raced by another committer affects zero rows instead of re-entering.
func (r *OrderRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, orderID string, from, to domain.OrderStatus) error {
	query := `UPDATE payment_orders SET status = $1 WHERE order_id = $2 AND status = $3`

	tag, err := tx.Exec(ctx, query, to, orderID, from)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order %s not in status %s", orderID, from)
	}
	return nil
}

// List fetches the most recent orders, newest first.
func (r *OrderRepo) List(ctx context.Context, limit int) ([]domain.Order, error) {
	query := `SELECT order_id, user_id, merchant_name, amount, status, created_at
		FROM payment_orders ORDER BY created_at DESC LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.OrderID, &o.UserID, &o.MerchantName, &o.Amount, &o.Status, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return orders, nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	o := &domain.Order{}
	err := row.Scan(&o.OrderID, &o.UserID, &o.MerchantName, &o.Amount, &o.Status, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}
	return o, nil
}
