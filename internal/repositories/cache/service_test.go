package cache

import (
	"context"
	"testing"
	"time"

	"bank/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*CacheService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	svc := NewCacheService(client, time.Minute)
	t.Cleanup(func() { _ = svc.Close() })
	return svc, mr
}

func TestCacheService_AccountRoundTrip(t *testing.T) {
	svc, mr := newTestCache(t)
	ctx := context.Background()

	account := &models.Account{ID: 3, UserID: 7, Balance: decimal.RequireFromString("90.25")}
	stored, err := svc.CacheAccountAt(ctx, account, 0)
	require.NoError(t, err)
	assert.True(t, stored)
	assert.True(t, mr.Exists("account:user:7"))

	got, err := svc.GetAccount(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, uint(3), got.ID)
	assert.True(t, got.Balance.Equal(account.Balance))

	require.NoError(t, svc.InvalidateAccount(ctx, 7))
	got, err = svc.GetAccount(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCacheService_TTL(t *testing.T) {
	svc, mr := newTestCache(t)
	ctx := context.Background()

	_, err := svc.CacheAccountAt(ctx, &models.Account{ID: 1, UserID: 1}, 0)
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)

	got, err := svc.GetAccount(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCacheService_FillAfterInvalidationIsDiscarded(t *testing.T) {
	svc, mr := newTestCache(t)
	ctx := context.Background()

	version, err := svc.AccountVersion(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(0), version)

	// a transfer commits between the lookup's row read and its fill
	require.NoError(t, svc.InvalidateAccount(ctx, 7))

	stored, err := svc.CacheAccountAt(ctx, &models.Account{ID: 3, UserID: 7, Balance: decimal.NewFromInt(100)}, version)
	require.NoError(t, err)
	assert.False(t, stored)
	assert.False(t, mr.Exists("account:user:7"))

	got, err := svc.GetAccount(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, got)

	version, err = svc.AccountVersion(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	stored, err = svc.CacheAccountAt(ctx, &models.Account{ID: 3, UserID: 7, Balance: decimal.NewFromInt(90)}, version)
	require.NoError(t, err)
	assert.True(t, stored)
}

func TestCacheService_HealthCheck(t *testing.T) {
	svc, mr := newTestCache(t)

	assert.NoError(t, svc.HealthCheck(context.Background()))

	mr.Close()
	assert.Error(t, svc.HealthCheck(context.Background()))
}

func TestCacheService_CorruptEntry(t *testing.T) {
	svc, mr := newTestCache(t)
	require.NoError(t, mr.Set("account:user:9", "{not json"))

	_, err := svc.GetAccount(context.Background(), 9)
	assert.Error(t, err)
}
