package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"stablepay/internal/core/domain"
	"stablepay/internal/core/ports"
	"stablepay/pkg/apperror"

	"github.com/rs/zerolog"
)

const (
	// snapshotTTL bounds staleness if a cache invalidation is lost.
	snapshotTTL = 5 * time.Second

	recentTransactionLimit = 10
	maxListLimit           = 50
)

// ReportingServiceImpl implements ports.ReportingService. All operations are
// read-only projections; the only write is the lazy wallet creation on the
// snapshot path, kept as an explicit, documented side effect.
type ReportingServiceImpl struct {
	walletRepo ports.WalletRepository
	orderRepo  ports.OrderRepository
	ledgerRepo ports.LedgerRepository
	snapCache  ports.SnapshotCache
	log        zerolog.Logger
}

// NewReportingService creates a new ReportingServiceImpl.
func NewReportingService(
	walletRepo ports.WalletRepository,
	orderRepo ports.OrderRepository,
	ledgerRepo ports.LedgerRepository,
	snapCache ports.SnapshotCache,
	log zerolog.Logger,
) *ReportingServiceImpl {
	return &ReportingServiceImpl{
		walletRepo: walletRepo,
		orderRepo:  orderRepo,
		ledgerRepo: ledgerRepo,
		snapCache:  snapCache,
		log:        log,
	}
}

// WalletSnapshot returns the wallet state plus its recent ledger entries.
// A wallet is created with zero balances on first reference.
func (s *ReportingServiceImpl) WalletSnapshot(ctx context.Context, userID string) (*ports.WalletSnapshot, error) {
	if s.snapCache != nil {
		cached, err := s.snapCache.Get(ctx, userID)
		if err != nil {
			s.log.Warn().Err(err).Str("user_id", userID).Msg("snapshot cache read failed, falling through to DB")
		}
		if cached != nil {
			snap := &ports.WalletSnapshot{}
			if err := json.Unmarshal(cached, snap); err == nil {
				return snap, nil
			}
			s.log.Warn().Str("user_id", userID).Msg("discarding malformed cached snapshot")
		}
	}

	wallet, err := s.walletRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get or create wallet: %w", err))
	}

	entries, err := s.ledgerRepo.ListByWallet(ctx, userID, recentTransactionLimit)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list recent transactions: %w", err))
	}
	if entries == nil {
		entries = []domain.LedgerEntry{}
	}

	snap := &ports.WalletSnapshot{
		UserID:             wallet.UserID,
		Balance:            wallet.Balance,
		FrozenAmount:       wallet.FrozenAmount,
		RecentTransactions: entries,
	}

	if s.snapCache != nil {
		if data, err := json.Marshal(snap); err == nil {
			if err := s.snapCache.Set(ctx, userID, data, snapshotTTL); err != nil {
				s.log.Warn().Err(err).Str("user_id", userID).Msg("failed to cache wallet snapshot")
			}
		}
	}

	return snap, nil
}

// ListLedger returns the most recent ledger entries across all wallets.
func (s *ReportingServiceImpl) ListLedger(ctx context.Context, limit int) ([]domain.LedgerEntry, error) {
	entries, err := s.ledgerRepo.List(ctx, clampLimit(limit))
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list ledger: %w", err))
	}
	if entries == nil {
		entries = []domain.LedgerEntry{}
	}
	return entries, nil
}

// ListOrders returns the most recent orders.
func (s *ReportingServiceImpl) ListOrders(ctx context.Context, limit int) ([]domain.Order, error) {
	orders, err := s.orderRepo.List(ctx, clampLimit(limit))
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list orders: %w", err))
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
