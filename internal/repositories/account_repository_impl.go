package repositories

import (
	"context"
	"errors"
	"fmt"

	"bank/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) LoadAccount(ctx context.Context, scope Scope, userID uint) (*models.Account, error) {
	tx, err := txFrom(ctx, scope)
	if err != nil {
		return nil, err
	}

	var account models.Account
	err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to load account for user %d: %w", userID, err)
	}
	return &account, nil
}

func (r *accountRepository) LoadAccountByID(ctx context.Context, scope Scope, accountID uint) (*models.Account, error) {
	tx, err := txFrom(ctx, scope)
	if err != nil {
		return nil, err
	}

	var account models.Account
	err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&account, accountID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to load account %d: %w", accountID, err)
	}
	return &account, nil
}

func (r *accountRepository) AccountExists(ctx context.Context, scope Scope, accountID uint) (bool, error) {
	tx, err := txFrom(ctx, scope)
	if err != nil {
		return false, err
	}

	var count int64
	if err := tx.Model(&models.Account{}).Where("id = ?", accountID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check account %d: %w", accountID, err)
	}
	return count > 0, nil
}

func (r *accountRepository) SaveAccount(ctx context.Context, scope Scope, account *models.Account) error {
	tx, err := txFrom(ctx, scope)
	if err != nil {
		return err
	}

	result := tx.Model(account).Update("balance", account.Balance)
	if result.Error != nil {
		return fmt.Errorf("failed to update account %d: %w", account.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (r *accountRepository) GetByUserID(ctx context.Context, userID uint) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}
