package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("TRANSACTION_LIMIT", "")
	t.Setenv("TRANSFER_CODE_PATTERN", "")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.TransactionLimit.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, DefaultTransferCodePattern, cfg.TransferCodePattern)
	assert.Equal(t, DefaultLockTimeout, cfg.DB.LockTimeout)
	assert.Equal(t, "dev-secret", cfg.JWTSecret)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("TRANSACTION_LIMIT", "50.00")
	t.Setenv("TRANSFER_CODE_PATTERN", `^[0-9]{6}$`)
	t.Setenv("DB_LOCK_TIMEOUT", "750ms")
	t.Setenv("DB_NAME", "ledger")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "50", cfg.TransactionLimit.String())
	assert.Equal(t, `^[0-9]{6}$`, cfg.TransferCodePattern)
	assert.Equal(t, 750*time.Millisecond, cfg.DB.LockTimeout)
	assert.Contains(t, cfg.DB.DSN(), "dbname=ledger")
	assert.Equal(t, "s3cret", cfg.JWTSecret)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "non numeric limit", env: map[string]string{"TRANSACTION_LIMIT": "ten"}},
		{name: "zero limit", env: map[string]string{"TRANSACTION_LIMIT": "0"}},
		{name: "bad pattern", env: map[string]string{"TRANSFER_CODE_PATTERN": "([a-z"}},
		{name: "production without secret", env: map[string]string{"ENV": "production", "JWT_SECRET": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
