// Package cache holds read-side copies of account balances in redis.
// Entries are a convenience for balance lookups only; transfers always read
// the locked database row.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bank/internal/models"

	"github.com/redis/go-redis/v9"
)

type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

// Key generation
func (s *CacheService) GenerateKey(entityType, keyType string, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entityType, keyType, value)
}

func (s *CacheService) accountKey(userID uint) string {
	return s.GenerateKey("account", "user", userID)
}

// accountVersionKey counts invalidations of a user's entry. It never expires.
func (s *CacheService) accountVersionKey(userID uint) string {
	return s.GenerateKey("account", "version", userID)
}

// GetAccount returns the cached account of userID, or nil on a miss.
func (s *CacheService) GetAccount(ctx context.Context, userID uint) (*models.Account, error) {
	var account models.Account
	found, err := s.Get(ctx, s.accountKey(userID), &account)
	if err != nil || !found {
		return nil, err
	}
	return &account, nil
}

// AccountVersion returns the invalidation counter of userID. Read it before
// loading the row that will be passed to CacheAccountAt.
func (s *CacheService) AccountVersion(ctx context.Context, userID uint) (int64, error) {
	version, err := s.client.Get(ctx, s.accountVersionKey(userID)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, fmt.Errorf("failed to read account version: %w", err)
	}
	return version, nil
}

// CacheAccountAt stores account only while the invalidation counter still
// equals version. It reports whether the entry was written; false means a
// transfer invalidated the user in between and the copy may be stale.
func (s *CacheService) CacheAccountAt(ctx context.Context, account *models.Account, version int64) (bool, error) {
	if account == nil {
		return false, errors.New("cannot cache nil account")
	}
	data, err := json.Marshal(account)
	if err != nil {
		return false, fmt.Errorf("failed to marshal cache value: %w", err)
	}

	versionKey := s.accountVersionKey(account.UserID)
	stored := false
	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, versionKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, s.accountKey(account.UserID), data, s.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		stored = true
		return nil
	}, versionKey)
	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to cache account: %w", err)
	}
	return stored, nil
}

// InvalidateAccount drops the entry of userID and bumps its version so that
// fills started before the call are discarded.
func (s *CacheService) InvalidateAccount(ctx context.Context, userID uint) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, s.accountVersionKey(userID))
		pipe.Del(ctx, s.accountKey(userID))
		return nil
	})
	return err
}

// Close closes the Redis client connection
func (s *CacheService) Close() error {
	return s.client.Close()
}
