package transfer

import (
	"context"
	"time"

	"bank/internal/models"
	"bank/internal/repositories"
	"bank/internal/validation"

	"github.com/shopspring/decimal"
)

// Validator parses raw transfer input.
type Validator interface {
	ParseTransfer(amountRaw, codeRaw, destinationRaw string) (validation.TransferRequest, error)
}

// Ledger reads and mutates balances inside a scope.
type Ledger interface {
	CurrentBalance(ctx context.Context, scope repositories.Scope, userID uint) (*models.Account, error)
	ApplyDelta(ctx context.Context, scope repositories.Scope, accountID uint, delta decimal.Decimal) (*models.Account, error)
	AccountExists(ctx context.Context, scope repositories.Scope, accountID uint) (bool, error)
}

// Authorizer validates and consumes a transfer code inside a scope.
type Authorizer interface {
	Validate(ctx context.Context, scope repositories.Scope, code string, userID uint) (bool, error)
}

// TransactionStore persists transfer records.
type TransactionStore interface {
	SaveTransaction(ctx context.Context, scope repositories.Scope, tx *models.Transaction) (uint, error)
}

// BalanceCache is told about balances that changed.
type BalanceCache interface {
	InvalidateAccount(ctx context.Context, userID uint) error
}

// Notifier is told about committed transfers.
type Notifier interface {
	SendTransferNotification(ctx context.Context, userID uint, tx *models.Transaction) error
}

// MetricsCollector records transfer outcomes.
type MetricsCollector interface {
	RecordOutcome(outcome string)
	RecordDuration(outcome string, d time.Duration)
	RecordAmount(status models.TransactionStatus, amount decimal.Decimal)
}

// Service submits transfers.
type Service interface {
	// SubmitTransfer validates the raw request and, when every check
	// passes, applies it atomically. Failures are *errors.DomainError
	// values and leave no state behind.
	SubmitTransfer(ctx context.Context, requesterID uint, amountRaw, codeRaw, destinationRaw string) (*Result, error)
}
