package repositories

import (
	"context"

	"bank/internal/models"
)

// AccountRepository defines the account operations of the data layer.
// Scoped methods lock the rows they read until the scope ends.
type AccountRepository interface {
	// Scoped operations
	LoadAccount(ctx context.Context, scope Scope, userID uint) (*models.Account, error)
	LoadAccountByID(ctx context.Context, scope Scope, accountID uint) (*models.Account, error)
	AccountExists(ctx context.Context, scope Scope, accountID uint) (bool, error)
	SaveAccount(ctx context.Context, scope Scope, account *models.Account) error

	// Unscoped operations
	GetByUserID(ctx context.Context, userID uint) (*models.Account, error)
	Create(ctx context.Context, account *models.Account) error
}
