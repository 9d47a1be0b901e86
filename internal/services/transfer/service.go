// Package transfer moves funds between accounts. A submission is validated,
// then checked and applied inside one scope: the source balance is read
// under lock, the transfer code is consumed, the destination is credited
// when the amount is below the approval limit, and the source is debited.
// Any failure rolls the whole scope back.
package transfer

import (
	"context"
	"fmt"
	"time"

	apperrors "bank/internal/errors"
	"bank/internal/models"
	"bank/internal/repositories"
	"bank/internal/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type service struct {
	validator    Validator
	scopes       repositories.ScopeProvider
	ledger       Ledger
	authorizer   Authorizer
	transactions TransactionStore
	cache        BalanceCache
	notifier     Notifier
	metrics      MetricsCollector
	log          *zap.Logger
	cfg          Config
}

// NewService creates a new transfer service instance.
func NewService(deps Dependencies, cfg Config) Service {
	if deps.Validator == nil {
		panic("validator is required")
	}
	if deps.Scopes == nil {
		panic("scope provider is required")
	}
	if deps.Ledger == nil {
		panic("ledger is required")
	}
	if deps.Authorizer == nil {
		panic("authorizer is required")
	}
	if deps.Transactions == nil {
		panic("transaction store is required")
	}
	if !cfg.TransactionLimit.IsPositive() {
		panic("transaction limit must be positive")
	}

	metrics := deps.Metrics
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &service{
		validator:    deps.Validator,
		scopes:       deps.Scopes,
		ledger:       deps.Ledger,
		authorizer:   deps.Authorizer,
		transactions: deps.Transactions,
		cache:        deps.Cache,
		notifier:     deps.Notifier,
		metrics:      metrics,
		log:          log.Named("transfer"),
		cfg:          cfg,
	}
}

// applied is what a successful scope produced.
type applied struct {
	tx *models.Transaction
	// creditedUserID is the owner of the destination account when it was
	// credited, zero otherwise.
	creditedUserID uint
}

func (s *service) SubmitTransfer(ctx context.Context, requesterID uint, amountRaw, codeRaw, destinationRaw string) (result *Result, err error) {
	start := time.Now()
	var req validation.TransferRequest
	defer func() {
		s.observe(requesterID, req, result, err, time.Since(start))
	}()

	req, err = s.validator.ParseTransfer(amountRaw, codeRaw, destinationRaw)
	if err != nil {
		return nil, err
	}

	scope, err := s.scopes.Begin(ctx)
	if err != nil {
		return nil, apperrors.Persistence(fmt.Errorf("begin transfer scope: %w", err))
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		// The caller's context may already be cancelled; the rollback must
		// still reach the database.
		if rbErr := s.scopes.Rollback(context.WithoutCancel(ctx), scope); rbErr != nil {
			s.log.Warn("failed to roll back transfer scope",
				zap.String("scope", scope.ID()),
				zap.Error(rbErr),
			)
		}
	}()

	out, err := s.apply(ctx, scope, requesterID, req)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, apperrors.Persistence(fmt.Errorf("transfer aborted before commit: %w", err))
	}
	if err := s.scopes.Commit(ctx, scope); err != nil {
		return nil, apperrors.Persistence(fmt.Errorf("commit transfer: %w", err))
	}
	committed = true

	s.invalidate(ctx, requesterID, out.creditedUserID)
	s.notify(ctx, out.tx, requesterID, out.creditedUserID)

	return &Result{
		TransactionID: out.tx.ID,
		Reference:     out.tx.Reference,
		Status:        out.tx.Status,
	}, nil
}

// apply runs every read and write of a transfer inside scope. It returns on
// the first failure and leaves the rollback to the caller.
func (s *service) apply(ctx context.Context, scope repositories.Scope, requesterID uint, req validation.TransferRequest) (*applied, error) {
	source, err := s.ledger.CurrentBalance(ctx, scope, requesterID)
	if err != nil {
		return nil, apperrors.Persistence(err)
	}

	tx := &models.Transaction{
		Reference:    uuid.NewString(),
		UserID:       requesterID,
		Amount:       req.Amount,
		TransCode:    req.TransferCode,
		ToAccountNum: req.DestinationAccountID,
	}

	if source.Balance.LessThan(req.Amount) {
		return nil, apperrors.ErrInsufficientFunds
	}

	ok, err := s.authorizer.Validate(ctx, scope, req.TransferCode, requesterID)
	if err != nil {
		return nil, apperrors.Persistence(err)
	}
	if !ok {
		return nil, apperrors.ErrInvalidAuthorizationCode
	}

	if req.DestinationAccountID == source.ID {
		return nil, apperrors.ErrInvalidDestination.WithMessage("Cannot transfer to your own account")
	}
	exists, err := s.ledger.AccountExists(ctx, scope, req.DestinationAccountID)
	if err != nil {
		return nil, apperrors.Persistence(err)
	}
	if !exists {
		return nil, apperrors.ErrInvalidDestination.WithMessage("Destination account does not exist")
	}

	out := &applied{tx: tx}

	status := models.StatusWaiting
	if req.Amount.LessThan(s.cfg.TransactionLimit) {
		status = models.StatusApproved
	}
	if err := tx.SetStatus(status); err != nil {
		return nil, apperrors.ErrLedger.Wrap(err)
	}

	if status == models.StatusApproved {
		credited, err := s.ledger.ApplyDelta(ctx, scope, req.DestinationAccountID, req.Amount)
		if err != nil {
			return nil, apperrors.Persistence(err)
		}
		out.creditedUserID = credited.UserID
	}

	// The debit is applied in both branches. For WAITING it holds the funds
	// until settlement credits the destination.
	if _, err := s.ledger.ApplyDelta(ctx, scope, source.ID, req.Amount.Neg()); err != nil {
		return nil, apperrors.Persistence(err)
	}

	id, err := s.transactions.SaveTransaction(ctx, scope, tx)
	if err != nil {
		return nil, apperrors.Persistence(fmt.Errorf("save transaction: %w", err))
	}
	tx.ID = id

	return out, nil
}

// invalidate drops cached balances of the accounts a committed transfer
// touched. Failures only cost a stale read until the entry expires.
func (s *service) invalidate(ctx context.Context, userIDs ...uint) {
	if s.cache == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	for _, id := range userIDs {
		if id == 0 {
			continue
		}
		if err := s.cache.InvalidateAccount(ctx, id); err != nil {
			s.log.Warn("failed to invalidate cached balance", zap.Uint("user_id", id), zap.Error(err))
		}
	}
}

// notify sends best-effort notices about a committed transfer.
func (s *service) notify(ctx context.Context, tx *models.Transaction, userIDs ...uint) {
	if s.notifier == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	for _, id := range userIDs {
		if id == 0 {
			continue
		}
		if err := s.notifier.SendTransferNotification(ctx, id, tx); err != nil {
			s.log.Warn("failed to send transfer notification", zap.Uint("user_id", id), zap.Error(err))
		}
	}
}

func (s *service) observe(requesterID uint, req validation.TransferRequest, result *Result, err error, elapsed time.Duration) {
	outcome := outcomeOf(result, err)
	s.metrics.RecordOutcome(outcome)
	s.metrics.RecordDuration(outcome, elapsed)

	fields := []zap.Field{
		zap.Uint("user_id", requesterID),
		zap.String("outcome", outcome),
		zap.Duration("elapsed", elapsed),
	}
	if !req.Amount.IsZero() {
		fields = append(fields,
			zap.String("amount", req.Amount.StringFixed(2)),
			zap.Uint("destination", req.DestinationAccountID),
		)
	}

	if err == nil {
		s.metrics.RecordAmount(result.Status, req.Amount)
		s.log.Info("transfer committed", append(fields,
			zap.Uint("transaction_id", result.TransactionID),
			zap.String("reference", result.Reference),
		)...)
		return
	}

	fields = append(fields, zap.Error(err))
	switch apperrors.KindOf(err) {
	case apperrors.KindLedger:
		s.log.Error("transfer tripped ledger guard", fields...)
	case apperrors.KindPersistence:
		s.log.Warn("transfer failed", fields...)
	default:
		s.log.Info("transfer rejected", fields...)
	}
}

func outcomeOf(result *Result, err error) string {
	if err == nil {
		if result.Status == models.StatusApproved {
			return OutcomeApproved
		}
		return OutcomeWaiting
	}
	switch apperrors.KindOf(err) {
	case apperrors.KindValidation:
		return OutcomeValidation
	case apperrors.KindInsufficientFunds:
		return OutcomeInsufficientFunds
	case apperrors.KindInvalidAuthorizationCode:
		return OutcomeInvalidCode
	case apperrors.KindLedger:
		return OutcomeLedger
	default:
		return OutcomePersistence
	}
}
