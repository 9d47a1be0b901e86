package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTransaction_SetStatusOnce(t *testing.T) {
	tx := &Transaction{}

	assert.NoError(t, tx.SetStatus(StatusApproved))
	assert.ErrorIs(t, tx.SetStatus(StatusWaiting), ErrStatusAlreadySet)
	assert.Equal(t, StatusApproved, tx.Status)
}

func TestTransactionCode_Usable(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	tests := []struct {
		name string
		code TransactionCode
		want bool
	}{
		{name: "fresh without expiry", code: TransactionCode{}, want: true},
		{name: "fresh before expiry", code: TransactionCode{ExpiresAt: &future}, want: true},
		{name: "expired", code: TransactionCode{ExpiresAt: &past}, want: false},
		{name: "expires exactly now", code: TransactionCode{ExpiresAt: &now}, want: false},
		{name: "already used", code: TransactionCode{UsedAt: &past}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.Usable(now))
		})
	}
}
