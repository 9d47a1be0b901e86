package authcode

import (
	"context"

	"bank/internal/models"
	"bank/internal/repositories"
)

// CodeStore is the registry of issued authorization codes.
type CodeStore interface {
	FindForUpdate(ctx context.Context, scope repositories.Scope, code string, userID uint) (*models.TransactionCode, error)
	Save(ctx context.Context, scope repositories.Scope, code *models.TransactionCode) error
	CreateBatch(ctx context.Context, codes []*models.TransactionCode) error
}

// Service checks and issues one-time authorization codes.
type Service interface {
	// Validate reports whether code is a usable code of userID and, when it
	// is, consumes it inside scope. A rolled back scope leaves the code
	// usable.
	Validate(ctx context.Context, scope repositories.Scope, code string, userID uint) (bool, error)
	// Issue creates n fresh codes for userID.
	Issue(ctx context.Context, userID uint, n int) ([]string, error)
}
