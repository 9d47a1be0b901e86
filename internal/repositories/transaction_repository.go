package repositories

import (
	"context"
	"errors"
	"fmt"

	"bank/internal/models"

	"gorm.io/gorm"
)

var ErrTransactionNotFound = errors.New("transaction not found")

// TransactionRepository persists transfer records.
type TransactionRepository interface {
	SaveTransaction(ctx context.Context, scope Scope, tx *models.Transaction) (uint, error)
	GetByID(ctx context.Context, id uint) (*models.Transaction, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Transaction, error)
}

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

// SaveTransaction inserts tx inside scope and returns the assigned id.
func (r *transactionRepository) SaveTransaction(ctx context.Context, scope Scope, tx *models.Transaction) (uint, error) {
	db, err := txFrom(ctx, scope)
	if err != nil {
		return 0, err
	}
	if err := db.Create(tx).Error; err != nil {
		return 0, fmt.Errorf("failed to create transaction: %w", err)
	}
	return tx.ID, nil
}

func (r *transactionRepository) GetByID(ctx context.Context, id uint) (*models.Transaction, error) {
	var tx models.Transaction
	if err := r.db.WithContext(ctx).First(&tx, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &tx, nil
}

func (r *transactionRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&txs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, nil
}
