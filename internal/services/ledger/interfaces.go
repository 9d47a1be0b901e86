package ledger

import (
	"context"

	"bank/internal/models"
	"bank/internal/repositories"

	"github.com/shopspring/decimal"
)

// AccountStore is the subset of the account repository the ledger needs.
type AccountStore interface {
	LoadAccount(ctx context.Context, scope repositories.Scope, userID uint) (*models.Account, error)
	LoadAccountByID(ctx context.Context, scope repositories.Scope, accountID uint) (*models.Account, error)
	AccountExists(ctx context.Context, scope repositories.Scope, accountID uint) (bool, error)
	SaveAccount(ctx context.Context, scope repositories.Scope, account *models.Account) error
}

// Service reads and mutates balances. Every call runs inside the caller's
// scope and holds the account row lock until that scope ends.
type Service interface {
	CurrentBalance(ctx context.Context, scope repositories.Scope, userID uint) (*models.Account, error)
	ApplyDelta(ctx context.Context, scope repositories.Scope, accountID uint, delta decimal.Decimal) (*models.Account, error)
	AccountExists(ctx context.Context, scope repositories.Scope, accountID uint) (bool, error)
}
