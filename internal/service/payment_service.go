package service

import (
	"context"
	"errors"
	"fmt"

	"stablepay/internal/core/domain"
	"stablepay/internal/core/ports"
	"stablepay/pkg/apperror"

	"github.com/rs/zerolog"
)

// PaymentServiceImpl implements ports.PaymentService. Every operation runs
// as one atomic database transaction: wallet mutation, order mutation, and
// ledger append commit together or not at all. Row locks on the wallet and
// order involved serialize conflicting writers; operations on different
// users or orders never block each other.
type PaymentServiceImpl struct {
	walletRepo ports.WalletRepository
	orderRepo  ports.OrderRepository
	ledgerRepo ports.LedgerRepository
	snapCache  ports.SnapshotCache
	transactor ports.DBTransactor
	log        zerolog.Logger
}

// NewPaymentService creates a new PaymentServiceImpl.
func NewPaymentService(
	walletRepo ports.WalletRepository,
	orderRepo ports.OrderRepository,
	ledgerRepo ports.LedgerRepository,
	snapCache ports.SnapshotCache,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *PaymentServiceImpl {
	return &PaymentServiceImpl{
		walletRepo: walletRepo,
		orderRepo:  orderRepo,
		ledgerRepo: ledgerRepo,
		snapCache:  snapCache,
		transactor: transactor,
		log:        log,
	}
}

// Fund credits a wallet and records a BUY ledger entry. The wallet row is
// locked even though the increment is commutative: the update is still a
// read-modify-write of balance, so concurrent funds must serialize.
func (s *PaymentServiceImpl) Fund(ctx context.Context, req ports.FundRequest) (*ports.FundResult, error) {
	if req.Amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	wallet, err := s.walletRepo.GetForUpdate(ctx, dbTx, req.UserID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock wallet: %w", err))
	}
	if wallet == nil {
		// First funding creates the wallet. If a concurrent transaction is
		// inserting the same user, the unique index makes this insert wait
		// for its commit, and the re-read below locks the surviving row.
		if err := s.walletRepo.Create(ctx, dbTx, domain.NewWallet(req.UserID)); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("create wallet: %w", err))
		}
		wallet, err = s.walletRepo.GetForUpdate(ctx, dbTx, req.UserID)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("relock wallet: %w", err))
		}
		if wallet == nil {
			return nil, apperror.InternalError(fmt.Errorf("wallet %s missing after create", req.UserID))
		}
	}

	newBalance := wallet.Balance + req.Amount
	if err := s.walletRepo.UpdateBalances(ctx, dbTx, req.UserID, newBalance, wallet.FrozenAmount); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update balances: %w", err))
	}

	if err := s.ledgerRepo.Append(ctx, dbTx, domain.NewBuyEntry(req.UserID, req.Amount)); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("append ledger: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.invalidateSnapshot(ctx, req.UserID)

	s.log.Info().
		Str("user_id", req.UserID).
		Int64("amount", req.Amount).
		Int64("new_balance", newBalance).
		Msg("wallet funded")

	return &ports.FundResult{UserID: req.UserID, NewBalance: newBalance}, nil
}

// Freeze moves amount from balance to frozen and creates a READY order.
// The wallet lock forces concurrent freezes for the same user to re-check
// the balance against committed state, never a stale read.
func (s *PaymentServiceImpl) Freeze(ctx context.Context, req ports.FreezeRequest) (*ports.FreezeResult, error) {
	if req.Amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	wallet, err := s.walletRepo.GetForUpdate(ctx, dbTx, req.UserID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrWalletNotFound()
	}
	if wallet.Balance < req.Amount {
		return nil, apperror.ErrInsufficientBalance()
	}

	newBalance := wallet.Balance - req.Amount
	newFrozen := wallet.FrozenAmount + req.Amount
	if err := s.walletRepo.UpdateBalances(ctx, dbTx, req.UserID, newBalance, newFrozen); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update balances: %w", err))
	}

	order := domain.NewOrder(req.UserID, req.MerchantName, req.Amount)
	if err := s.orderRepo.Create(ctx, dbTx, order); err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperror.InternalError(fmt.Errorf("create order: %w", err))
	}

	// No ledger entry here: freezing is not a realized transfer. The PAY or
	// REFUND entry is written by whichever terminal transition follows.

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.invalidateSnapshot(ctx, req.UserID)

	s.log.Info().
		Str("user_id", req.UserID).
		Str("order_id", order.OrderID).
		Str("merchant", req.MerchantName).
		Int64("amount", req.Amount).
		Msg("amount frozen for payment")

	return &ports.FreezeResult{
		OrderID:      order.OrderID,
		Status:       order.Status,
		FrozenAmount: req.Amount,
	}, nil
}

// Settle permanently deducts a READY order's frozen amount, marks the order
// COMPLETED, and records a PAY ledger entry. This is the only path that
// removes value from a wallet's total.
func (s *PaymentServiceImpl) Settle(ctx context.Context, orderID string) (*domain.Order, error) {
	return s.finishOrder(ctx, orderID, domain.OrderStatusCompleted)
}

// Release returns a READY order's frozen amount to the balance, marks the
// order CANCELED, and records a REFUND ledger entry.
func (s *PaymentServiceImpl) Release(ctx context.Context, orderID string) (*domain.Order, error) {
	return s.finishOrder(ctx, orderID, domain.OrderStatusCanceled)
}

// finishOrder drives both terminal transitions. Lock order: order first,
// then the order's wallet, on every path, so settle and release can never
// deadlock against each other.
func (s *PaymentServiceImpl) finishOrder(ctx context.Context, orderID string, target domain.OrderStatus) (*domain.Order, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	order, err := s.orderRepo.GetForUpdate(ctx, dbTx, orderID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock order: %w", err))
	}
	if order == nil || order.Status != domain.OrderStatusReady {
		// Retrying a terminal order is an observable error, not a no-op.
		return nil, apperror.ErrInvalidOrder()
	}

	wallet, err := s.walletRepo.GetForUpdate(ctx, dbTx, order.UserID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.InternalError(fmt.Errorf("wallet %s missing for order %s", order.UserID, orderID))
	}

	newFrozen := wallet.FrozenAmount - order.Amount
	if newFrozen < 0 {
		return nil, apperror.InternalError(fmt.Errorf("frozen amount would go negative for wallet %s", order.UserID))
	}

	newBalance := wallet.Balance
	var entry *domain.LedgerEntry
	if target == domain.OrderStatusCompleted {
		entry = domain.NewPayEntry(order.UserID, order.Amount, order.OrderID)
	} else {
		newBalance += order.Amount
		entry = domain.NewRefundEntry(order.UserID, order.Amount, order.OrderID)
	}

	if err := s.walletRepo.UpdateBalances(ctx, dbTx, order.UserID, newBalance, newFrozen); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update balances: %w", err))
	}

	if err := s.orderRepo.UpdateStatus(ctx, dbTx, orderID, domain.OrderStatusReady, target); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update order status: %w", err))
	}

	if err := s.ledgerRepo.Append(ctx, dbTx, entry); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("append ledger: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.invalidateSnapshot(ctx, order.UserID)

	order.Status = target
	s.log.Info().
		Str("order_id", order.OrderID).
		Str("user_id", order.UserID).
		Str("status", string(target)).
		Int64("amount", order.Amount).
		Msg("order finished")

	return order, nil
}

// invalidateSnapshot drops the cached wallet projection after a committed
// mutation. Best-effort: a failure only extends staleness up to the TTL.
func (s *PaymentServiceImpl) invalidateSnapshot(ctx context.Context, userID string) {
	if s.snapCache == nil {
		return
	}
	if err := s.snapCache.Invalidate(ctx, userID); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("failed to invalidate wallet snapshot cache")
	}
}
