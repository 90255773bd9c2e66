package integration

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"stablepay/internal/core/domain"
	"stablepay/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// --- Row-Lock Emulation ---

// lockTable hands out one mutex per row key so in-memory GetForUpdate calls
// block exactly like SELECT ... FOR UPDATE: a second transaction touching the
// same row waits until the first commits or rolls back.
type lockTable struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newLockTable() *lockTable {
	return &lockTable{locks: make(map[string]*sync.Mutex)}
}

func (lt *lockTable) get(key string) *sync.Mutex {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	m, ok := lt.locks[key]
	if !ok {
		m = &sync.Mutex{}
		lt.locks[key] = m
	}
	return m
}

// lockTx is a pgx.Tx stand-in that tracks which row locks the transaction
// holds. Re-locking a key the tx already holds is a no-op, matching the
// row-lock semantics the services rely on. Commit and Rollback release
// everything; the deferred Rollback after a Commit is then a no-op.
type lockTx struct {
	table *lockTable

	mu   sync.Mutex
	held map[string]*sync.Mutex
	done bool
}

func newLockTx(table *lockTable) *lockTx {
	return &lockTx{table: table, held: make(map[string]*sync.Mutex)}
}

func (t *lockTx) acquire(key string) {
	t.mu.Lock()
	if _, ok := t.held[key]; ok {
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()

	m := t.table.get(key)
	m.Lock()

	t.mu.Lock()
	t.held[key] = m
	t.mu.Unlock()
}

func (t *lockTx) finish() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return
	}
	t.done = true
	for _, m := range t.held {
		m.Unlock()
	}
	t.held = make(map[string]*sync.Mutex)
}

func (t *lockTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *lockTx) Commit(ctx context.Context) error          { t.finish(); return nil }
func (t *lockTx) Rollback(ctx context.Context) error        { t.finish(); return nil }
func (t *lockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *lockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *lockTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *lockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *lockTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *lockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *lockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *lockTx) Conn() *pgx.Conn { return nil }

type inMemoryTransactor struct {
	table *lockTable
}

func newInMemoryTransactor(table *lockTable) *inMemoryTransactor {
	return &inMemoryTransactor{table: table}
}

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	return newLockTx(t.table), nil
}

func rowLock(tx pgx.Tx, key string) {
	if lt, ok := tx.(*lockTx); ok {
		lt.acquire(key)
	}
}

// --- In-Memory Wallet Repo ---

type inMemoryWalletRepo struct {
	mu      sync.RWMutex
	wallets map[string]*domain.Wallet
}

func newInMemoryWalletRepo() *inMemoryWalletRepo {
	return &inMemoryWalletRepo{wallets: make(map[string]*domain.Wallet)}
}

func (r *inMemoryWalletRepo) GetOrCreate(ctx context.Context, userID string) (*domain.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[userID]
	if !ok {
		w = domain.NewWallet(userID)
		r.wallets[userID] = w
	}
	cp := *w
	return &cp, nil
}

func (r *inMemoryWalletRepo) GetByUserID(ctx context.Context, userID string) (*domain.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.wallets[userID]
	if !ok {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}

func (r *inMemoryWalletRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, userID string) (*domain.Wallet, error) {
	rowLock(tx, "wallet:"+userID)
	return r.GetByUserID(ctx, userID)
}

func (r *inMemoryWalletRepo) Create(ctx context.Context, tx pgx.Tx, w *domain.Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.wallets[w.UserID]; ok {
		return nil // ON CONFLICT DO NOTHING
	}
	cp := *w
	r.wallets[w.UserID] = &cp
	return nil
}

func (r *inMemoryWalletRepo) UpdateBalances(ctx context.Context, tx pgx.Tx, userID string, balance, frozen int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[userID]
	if !ok {
		return fmt.Errorf("wallet not found: %s", userID)
	}
	w.Balance = balance
	w.FrozenAmount = frozen
	w.UpdatedAt = time.Now().UTC()
	return nil
}

// --- In-Memory Order Repo ---

type inMemoryOrderRepo struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order
}

func newInMemoryOrderRepo() *inMemoryOrderRepo {
	return &inMemoryOrderRepo{orders: make(map[string]*domain.Order)}
}

func (r *inMemoryOrderRepo) Create(ctx context.Context, tx pgx.Tx, o *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[o.OrderID]; ok {
		return apperror.ErrDuplicateOrder()
	}
	cp := *o
	r.orders[o.OrderID] = &cp
	return nil
}

func (r *inMemoryOrderRepo) GetByID(ctx context.Context, orderID string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[orderID]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *inMemoryOrderRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, orderID string) (*domain.Order, error) {
	rowLock(tx, "order:"+orderID)
	return r.GetByID(ctx, orderID)
}

func (r *inMemoryOrderRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, orderID string, from, to domain.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok || o.Status != from {
		return fmt.Errorf("order %s not in status %s", orderID, from)
	}
	o.Status = to
	return nil
}

func (r *inMemoryOrderRepo) List(ctx context.Context, limit int) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domain.Order, 0, len(r.orders))
	for _, o := range r.orders {
		result = append(result, *o)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// --- In-Memory Ledger Repo ---

type inMemoryLedgerRepo struct {
	mu      sync.RWMutex
	entries []domain.LedgerEntry
}

func newInMemoryLedgerRepo() *inMemoryLedgerRepo {
	return &inMemoryLedgerRepo{}
}

func (r *inMemoryLedgerRepo) Append(ctx context.Context, tx pgx.Tx, e *domain.LedgerEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *e)
	return nil
}

func (r *inMemoryLedgerRepo) ListByWallet(ctx context.Context, walletID string, limit int) ([]domain.LedgerEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.LedgerEntry
	for i := len(r.entries) - 1; i >= 0 && len(result) < limit; i-- {
		if r.entries[i].WalletID == walletID {
			result = append(result, r.entries[i])
		}
	}
	return result, nil
}

func (r *inMemoryLedgerRepo) List(ctx context.Context, limit int) ([]domain.LedgerEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.LedgerEntry
	for i := len(r.entries) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, r.entries[i])
	}
	return result, nil
}
