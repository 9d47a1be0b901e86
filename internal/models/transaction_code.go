package models

import "time"

// TransactionCode is a one-time authorization code handed to a user.
type TransactionCode struct {
	ID        uint   `gorm:"primarykey"`
	Code      string `gorm:"size:64;uniqueIndex;not null"`
	UserID    uint   `gorm:"index;not null"`
	ExpiresAt *time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

// Usable reports whether the code can still authorize a transfer at now.
func (c *TransactionCode) Usable(now time.Time) bool {
	if c.UsedAt != nil {
		return false
	}
	if c.ExpiresAt != nil && !now.Before(*c.ExpiresAt) {
		return false
	}
	return true
}
