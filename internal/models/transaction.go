package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus is the outcome class of a submitted transfer.
type TransactionStatus string

// Transaction statuses
const (
	// StatusApproved means both legs were applied immediately.
	StatusApproved TransactionStatus = "APPROVED"
	// StatusWaiting means the source was debited and the destination
	// credit is left to a later settlement step.
	StatusWaiting TransactionStatus = "WAITING"
)

// ErrStatusAlreadySet is returned when a transaction's status is assigned twice.
var ErrStatusAlreadySet = errors.New("transaction status already set")

// Transaction records one transfer request from a client account.
type Transaction struct {
	ID           uint              `gorm:"primarykey" json:"id"`
	Reference    string            `gorm:"size:36;uniqueIndex;not null" json:"reference"`
	UserID       uint              `gorm:"index;not null" json:"user_id"`
	Amount       decimal.Decimal   `gorm:"type:numeric(19,2);not null;check:chk_transactions_amount_positive,amount > 0" json:"amount"`
	TransCode    string            `gorm:"size:64;not null" json:"-"`
	ToAccountNum uint              `gorm:"index;not null" json:"to_account_num"`
	Status       TransactionStatus `gorm:"size:16;not null" json:"status"`
	CreatedAt    time.Time         `json:"created_at"`
}

// SetStatus assigns the status. It may only be called once.
func (t *Transaction) SetStatus(status TransactionStatus) error {
	if t.Status != "" {
		return ErrStatusAlreadySet
	}
	t.Status = status
	return nil
}
