package transfer

import (
	"bank/internal/models"
	"bank/internal/repositories"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Result is a committed transfer.
type Result struct {
	TransactionID uint                     `json:"transaction_id"`
	Reference     string                   `json:"reference"`
	Status        models.TransactionStatus `json:"status"`
}

// Config holds the transfer policy.
type Config struct {
	// TransactionLimit is the exclusive upper bound for immediate approval.
	TransactionLimit decimal.Decimal
}

// Dependencies are the collaborators of the transfer service. Cache,
// Notifier, Metrics and Logger are optional.
type Dependencies struct {
	Validator    Validator
	Scopes       repositories.ScopeProvider
	Ledger       Ledger
	Authorizer   Authorizer
	Transactions TransactionStore
	Cache        BalanceCache
	Notifier     Notifier
	Metrics      MetricsCollector
	Logger       *zap.Logger
}

// Outcome labels used for metrics and logs.
const (
	OutcomeApproved          = "approved"
	OutcomeWaiting           = "waiting"
	OutcomeValidation        = "validation_error"
	OutcomeInsufficientFunds = "insufficient_funds"
	OutcomeInvalidCode       = "invalid_authorization_code"
	OutcomeLedger            = "ledger_error"
	OutcomePersistence       = "persistence_error"
)
