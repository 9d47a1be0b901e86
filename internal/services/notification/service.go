// Package notification tells users about committed transfers.
package notification

import (
	"context"

	"bank/internal/models"

	"go.uber.org/zap"
)

// Service is a minimal notification service that writes notices to the log.
type Service struct {
	log *zap.Logger
}

// NewService creates a new notification service.
func NewService(log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{log: log.Named("notification")}
}

// SendTransferNotification records a notice for userID about tx.
func (s *Service) SendTransferNotification(ctx context.Context, userID uint, tx *models.Transaction) error {
	s.log.Info("transfer notification",
		zap.Uint("user_id", userID),
		zap.String("reference", tx.Reference),
		zap.String("status", string(tx.Status)),
		zap.String("amount", tx.Amount.StringFixed(2)),
	)
	return nil
}
