// Package account serves balance lookups through the redis cache.
package account

import (
	"context"
	"errors"
	"fmt"

	"bank/internal/models"
	"bank/internal/repositories"

	"go.uber.org/zap"
)

var ErrAccountNotFound = errors.New("account not found")

// AccountReader reads committed account state outside any scope.
type AccountReader interface {
	GetByUserID(ctx context.Context, userID uint) (*models.Account, error)
}

// Cache stores account snapshots keyed by owner. A fill is versioned so a
// snapshot read before an invalidation is never written back.
type Cache interface {
	GetAccount(ctx context.Context, userID uint) (*models.Account, error)
	AccountVersion(ctx context.Context, userID uint) (int64, error)
	CacheAccountAt(ctx context.Context, account *models.Account, version int64) (bool, error)
}

type Service interface {
	GetAccount(ctx context.Context, userID uint) (*models.Account, error)
}

type service struct {
	accounts AccountReader
	cache    Cache
	log      *zap.Logger
}

// NewService creates the balance lookup service. cache may be nil.
func NewService(accounts AccountReader, cache Cache, log *zap.Logger) Service {
	if accounts == nil {
		panic("account reader is required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &service{accounts: accounts, cache: cache, log: log.Named("account")}
}

// GetAccount returns the account of userID, preferring the cached copy.
// Cache errors fall back to the database.
func (s *service) GetAccount(ctx context.Context, userID uint) (*models.Account, error) {
	fill := false
	var version int64
	if s.cache != nil {
		cached, err := s.cache.GetAccount(ctx, userID)
		switch {
		case err != nil:
			s.log.Warn("balance cache read failed", zap.Uint("user_id", userID), zap.Error(err))
		case cached != nil:
			return cached, nil
		default:
			version, err = s.cache.AccountVersion(ctx, userID)
			if err != nil {
				s.log.Warn("balance cache version read failed", zap.Uint("user_id", userID), zap.Error(err))
			} else {
				fill = true
			}
		}
	}

	acc, err := s.accounts.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("get account: %w", err)
	}

	if fill {
		stored, err := s.cache.CacheAccountAt(ctx, acc, version)
		if err != nil {
			s.log.Warn("balance cache write failed", zap.Uint("user_id", userID), zap.Error(err))
		} else if !stored {
			s.log.Debug("balance changed during lookup, not cached", zap.Uint("user_id", userID))
		}
	}
	return acc, nil
}
