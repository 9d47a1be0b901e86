package transfer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"bank/internal/models"
	"bank/internal/repositories"

	"github.com/shopspring/decimal"
)

// memWorld is an in-memory bank. A scope holds the world lock from Begin
// until Commit or Rollback, which serializes transfers the way row locks
// do, and Rollback restores the snapshot taken at Begin.
type memWorld struct {
	lock sync.Mutex

	mu       sync.Mutex
	accounts map[uint]models.Account
	codes    map[string]models.TransactionCode
	txs      []models.Transaction
	nextTxID uint
	nextID   int

	// hook runs before every store operation. A non-nil error fails it.
	hook func(ctx context.Context, op string) error

	begun, commits, rollbacks int
}

func newMemWorld() *memWorld {
	return &memWorld{
		accounts: make(map[uint]models.Account),
		codes:    make(map[string]models.TransactionCode),
		nextTxID: 1,
	}
}

func (w *memWorld) addAccount(id, userID uint, balance string) {
	w.accounts[id] = models.Account{ID: id, UserID: userID, Balance: decimal.RequireFromString(balance)}
}

func (w *memWorld) addCode(code string, userID uint) {
	w.codes[code] = models.TransactionCode{Code: code, UserID: userID}
}

func (w *memWorld) balance(id uint) decimal.Decimal {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.accounts[id].Balance
}

func (w *memWorld) codeUsed(code string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.codes[code].UsedAt != nil
}

func (w *memWorld) transactions() []models.Transaction {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]models.Transaction(nil), w.txs...)
}

func (w *memWorld) run(ctx context.Context, op string) error {
	if w.hook == nil {
		return nil
	}
	return w.hook(ctx, op)
}

type snapshot struct {
	accounts map[uint]models.Account
	codes    map[string]models.TransactionCode
	txs      []models.Transaction
	nextTxID uint
}

type memScope struct {
	id   string
	done bool
	snap snapshot
}

func (s *memScope) ID() string { return s.id }
func (s *memScope) Done() bool { return s.done }

// scopes

func (w *memWorld) Begin(ctx context.Context) (repositories.Scope, error) {
	if err := w.run(ctx, "Begin"); err != nil {
		return nil, err
	}
	w.lock.Lock()

	w.mu.Lock()
	defer w.mu.Unlock()
	w.begun++
	w.nextID++

	snap := snapshot{
		accounts: make(map[uint]models.Account, len(w.accounts)),
		codes:    make(map[string]models.TransactionCode, len(w.codes)),
		txs:      append([]models.Transaction(nil), w.txs...),
		nextTxID: w.nextTxID,
	}
	for k, v := range w.accounts {
		snap.accounts[k] = v
	}
	for k, v := range w.codes {
		snap.codes[k] = v
	}
	return &memScope{id: fmt.Sprintf("scope-%d", w.nextID), snap: snap}, nil
}

func (w *memWorld) Commit(ctx context.Context, scope repositories.Scope) error {
	s := scope.(*memScope)
	if s.done {
		return nil
	}
	if err := w.run(ctx, "Commit"); err != nil {
		w.restore(s)
		return err
	}
	s.done = true
	w.mu.Lock()
	w.commits++
	w.mu.Unlock()
	w.lock.Unlock()
	return nil
}

func (w *memWorld) Rollback(_ context.Context, scope repositories.Scope) error {
	s, ok := scope.(*memScope)
	if !ok || s.done {
		return nil
	}
	w.restore(s)
	return nil
}

func (w *memWorld) restore(s *memScope) {
	w.mu.Lock()
	w.accounts = s.snap.accounts
	w.codes = s.snap.codes
	w.txs = s.snap.txs
	w.nextTxID = s.snap.nextTxID
	w.rollbacks++
	w.mu.Unlock()
	s.done = true
	w.lock.Unlock()
}

func active(scope repositories.Scope) error {
	s, ok := scope.(*memScope)
	if !ok || s == nil || s.done {
		return repositories.ErrScopeRequired
	}
	return nil
}

// accounts

func (w *memWorld) LoadAccount(ctx context.Context, scope repositories.Scope, userID uint) (*models.Account, error) {
	if err := active(scope); err != nil {
		return nil, err
	}
	if err := w.run(ctx, "LoadAccount"); err != nil {
		return nil, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, acc := range w.accounts {
		if acc.UserID == userID {
			cp := acc
			return &cp, nil
		}
	}
	return nil, repositories.ErrAccountNotFound
}

func (w *memWorld) LoadAccountByID(ctx context.Context, scope repositories.Scope, accountID uint) (*models.Account, error) {
	if err := active(scope); err != nil {
		return nil, err
	}
	if err := w.run(ctx, fmt.Sprintf("LoadAccountByID:%d", accountID)); err != nil {
		return nil, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	acc, ok := w.accounts[accountID]
	if !ok {
		return nil, repositories.ErrAccountNotFound
	}
	return &acc, nil
}

func (w *memWorld) AccountExists(ctx context.Context, scope repositories.Scope, accountID uint) (bool, error) {
	if err := active(scope); err != nil {
		return false, err
	}
	if err := w.run(ctx, "AccountExists"); err != nil {
		return false, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.accounts[accountID]
	return ok, nil
}

func (w *memWorld) SaveAccount(ctx context.Context, scope repositories.Scope, account *models.Account) error {
	if err := active(scope); err != nil {
		return err
	}
	if err := w.run(ctx, fmt.Sprintf("SaveAccount:%d", account.ID)); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.accounts[account.ID]; !ok {
		return repositories.ErrAccountNotFound
	}
	w.accounts[account.ID] = *account
	return nil
}

// codes

func (w *memWorld) FindForUpdate(ctx context.Context, scope repositories.Scope, code string, userID uint) (*models.TransactionCode, error) {
	if err := active(scope); err != nil {
		return nil, err
	}
	if err := w.run(ctx, "FindForUpdate"); err != nil {
		return nil, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	tc, ok := w.codes[code]
	if !ok || tc.UserID != userID {
		return nil, repositories.ErrCodeNotFound
	}
	return &tc, nil
}

func (w *memWorld) Save(ctx context.Context, scope repositories.Scope, code *models.TransactionCode) error {
	if err := active(scope); err != nil {
		return err
	}
	if err := w.run(ctx, "SaveCode"); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.codes[code.Code] = *code
	return nil
}

func (w *memWorld) CreateBatch(_ context.Context, codes []*models.TransactionCode) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, c := range codes {
		w.codes[c.Code] = *c
	}
	return nil
}

// transactions

func (w *memWorld) SaveTransaction(ctx context.Context, scope repositories.Scope, tx *models.Transaction) (uint, error) {
	if err := active(scope); err != nil {
		return 0, err
	}
	if err := w.run(ctx, "SaveTransaction"); err != nil {
		return 0, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if tx.Status == "" {
		return 0, errors.New("transaction status not set")
	}
	cp := *tx
	cp.ID = w.nextTxID
	w.nextTxID++
	w.txs = append(w.txs, cp)
	return cp.ID, nil
}

// cache

type recordingCache struct {
	mu          sync.Mutex
	invalidated []uint
	err         error
}

func (c *recordingCache) InvalidateAccount(_ context.Context, userID uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, userID)
	return c.err
}

// notifications

type recordingNotifier struct {
	mu   sync.Mutex
	sent map[uint][]models.TransactionStatus
}

func (n *recordingNotifier) SendTransferNotification(_ context.Context, userID uint, tx *models.Transaction) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.sent == nil {
		n.sent = make(map[uint][]models.TransactionStatus)
	}
	n.sent[userID] = append(n.sent[userID], tx.Status)
	return nil
}
