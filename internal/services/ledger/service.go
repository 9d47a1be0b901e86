// Package ledger owns account balances. It never lets a balance go below
// zero and never acts outside an open scope.
package ledger

import (
	"context"
	"errors"
	"fmt"

	apperrors "bank/internal/errors"
	"bank/internal/models"
	"bank/internal/repositories"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type service struct {
	accounts AccountStore
	log      *zap.Logger
}

// NewService creates a ledger backed by accounts.
func NewService(accounts AccountStore, log *zap.Logger) Service {
	if accounts == nil {
		panic("account store is required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &service{accounts: accounts, log: log.Named("ledger")}
}

// CurrentBalance returns the account owned by userID, locked for the rest
// of the scope.
func (s *service) CurrentBalance(ctx context.Context, scope repositories.Scope, userID uint) (*models.Account, error) {
	account, err := s.accounts.LoadAccount(ctx, scope, userID)
	if err != nil {
		return nil, apperrors.Persistence(fmt.Errorf("load account of user %d: %w", userID, err))
	}
	return account, nil
}

// ApplyDelta adds delta to the balance of accountID and stores the result.
// A result below zero is refused with ErrLedger and nothing is written.
func (s *service) ApplyDelta(ctx context.Context, scope repositories.Scope, accountID uint, delta decimal.Decimal) (*models.Account, error) {
	account, err := s.accounts.LoadAccountByID(ctx, scope, accountID)
	if err != nil {
		return nil, apperrors.Persistence(fmt.Errorf("load account %d: %w", accountID, err))
	}

	next := account.Balance.Add(delta)
	if next.IsNegative() {
		s.log.Error("refusing negative balance",
			zap.Uint("account_id", accountID),
			zap.String("balance", account.Balance.String()),
			zap.String("delta", delta.String()),
			zap.String("scope", scope.ID()),
		)
		return nil, apperrors.ErrLedger.Wrap(fmt.Errorf("account %d balance would become %s", accountID, next.StringFixed(2)))
	}

	account.Balance = next
	if err := s.accounts.SaveAccount(ctx, scope, account); err != nil {
		return nil, apperrors.Persistence(fmt.Errorf("save account %d: %w", accountID, err))
	}
	return account, nil
}

// AccountExists reports whether accountID names an account.
func (s *service) AccountExists(ctx context.Context, scope repositories.Scope, accountID uint) (bool, error) {
	ok, err := s.accounts.AccountExists(ctx, scope, accountID)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return false, nil
		}
		return false, apperrors.Persistence(fmt.Errorf("check account %d: %w", accountID, err))
	}
	return ok, nil
}
