package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Scope is an open unit of work. Every read-then-write inside a transfer
// goes through the same Scope so that the whole transfer commits or rolls
// back as one.
type Scope interface {
	ID() string
	// Done reports whether the scope was committed or rolled back.
	Done() bool
}

// ScopeProvider opens and closes scopes. Commit and Rollback are safe to
// call more than once: a finished scope ignores Rollback, and Commit on a
// committed scope is a no-op.
type ScopeProvider interface {
	Begin(ctx context.Context) (Scope, error)
	Commit(ctx context.Context, scope Scope) error
	Rollback(ctx context.Context, scope Scope) error
}

type scopeState int

const (
	scopeActive scopeState = iota
	scopeCommitted
	scopeRolledBack
)

type gormScope struct {
	id    uuid.UUID
	tx    *gorm.DB
	mu    sync.Mutex
	state scopeState
}

func (s *gormScope) ID() string { return s.id.String() }

func (s *gormScope) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state != scopeActive
}

// GormScopeProvider backs scopes with read-committed database transactions.
type GormScopeProvider struct {
	db          *gorm.DB
	lockTimeout time.Duration
}

// NewScopeProvider returns a provider over db. A positive lockTimeout bounds
// how long a scope waits for a row lock before failing.
func NewScopeProvider(db *gorm.DB, lockTimeout time.Duration) *GormScopeProvider {
	return &GormScopeProvider{db: db, lockTimeout: lockTimeout}
}

func (p *GormScopeProvider) Begin(ctx context.Context) (Scope, error) {
	tx := p.db.WithContext(ctx).Begin(&sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to begin scope: %w", tx.Error)
	}

	if p.lockTimeout > 0 {
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", p.lockTimeout.Milliseconds())
		if err := tx.Exec(stmt).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to set lock timeout: %w", err)
		}
	}

	return &gormScope{id: uuid.New(), tx: tx}, nil
}

func (p *GormScopeProvider) Commit(ctx context.Context, scope Scope) error {
	s, ok := scope.(*gormScope)
	if !ok || s == nil {
		return ErrScopeRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case scopeCommitted:
		return nil
	case scopeRolledBack:
		return ErrScopeClosed
	}

	// A failed commit leaves nothing to roll back.
	s.state = scopeCommitted
	if err := s.tx.Commit().Error; err != nil {
		s.state = scopeRolledBack
		return fmt.Errorf("failed to commit scope %s: %w", s.id, err)
	}
	return nil
}

func (p *GormScopeProvider) Rollback(ctx context.Context, scope Scope) error {
	s, ok := scope.(*gormScope)
	if !ok || s == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != scopeActive {
		return nil
	}
	s.state = scopeRolledBack

	if err := s.tx.Rollback().Error; err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("failed to roll back scope %s: %w", s.id, err)
	}
	return nil
}

// txFrom unwraps the open transaction behind scope.
func txFrom(ctx context.Context, scope Scope) (*gorm.DB, error) {
	s, ok := scope.(*gormScope)
	if !ok || s == nil {
		return nil, ErrScopeRequired
	}
	if s.Done() {
		return nil, ErrScopeRequired
	}
	return s.tx.WithContext(ctx), nil
}
