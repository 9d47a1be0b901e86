package repositories

import (
	"context"
	"errors"
	"fmt"

	"bank/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TransactionCodeRepository is the registry of issued authorization codes.
type TransactionCodeRepository interface {
	// FindForUpdate locks the code row owned by userID. Codes belonging to
	// another user are reported as ErrCodeNotFound.
	FindForUpdate(ctx context.Context, scope Scope, code string, userID uint) (*models.TransactionCode, error)
	Save(ctx context.Context, scope Scope, code *models.TransactionCode) error
	CreateBatch(ctx context.Context, codes []*models.TransactionCode) error
}

type transactionCodeRepository struct {
	db *gorm.DB
}

func NewTransactionCodeRepository(db *gorm.DB) TransactionCodeRepository {
	return &transactionCodeRepository{db: db}
}

func (r *transactionCodeRepository) FindForUpdate(ctx context.Context, scope Scope, code string, userID uint) (*models.TransactionCode, error) {
	tx, err := txFrom(ctx, scope)
	if err != nil {
		return nil, err
	}

	var tc models.TransactionCode
	err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("code = ? AND user_id = ?", code, userID).
		First(&tc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCodeNotFound
		}
		return nil, fmt.Errorf("failed to load transaction code: %w", err)
	}
	return &tc, nil
}

func (r *transactionCodeRepository) Save(ctx context.Context, scope Scope, code *models.TransactionCode) error {
	tx, err := txFrom(ctx, scope)
	if err != nil {
		return err
	}
	if err := tx.Save(code).Error; err != nil {
		return fmt.Errorf("failed to save transaction code: %w", err)
	}
	return nil
}

func (r *transactionCodeRepository) CreateBatch(ctx context.Context, codes []*models.TransactionCode) error {
	if len(codes) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(codes).Error; err != nil {
		return fmt.Errorf("failed to create transaction codes: %w", err)
	}
	return nil
}
