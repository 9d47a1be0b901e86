package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a client's balance holder. There is exactly one per user and
// it is only ever mutated by the ledger inside an open scope.
type Account struct {
	ID        uint            `gorm:"primarykey" json:"id"`
	UserID    uint            `gorm:"uniqueIndex;not null" json:"user_id"`
	Balance   decimal.Decimal `gorm:"type:numeric(19,2);not null;default:0;check:chk_accounts_balance_non_negative,balance >= 0" json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
