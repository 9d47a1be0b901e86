package errors

// Input fields named by validation failures. They match the form field
// names clients submit.
const (
	FieldAmount       = "amount"
	FieldTransferCode = "transcode"
	FieldDestination  = "toAccountNum"
)

var (
	ErrInvalidAmount = &DomainError{
		Kind:    KindValidation,
		Code:    "INVALID_AMOUNT",
		Message: "Amount is not valid",
		Field:   FieldAmount,
	}
	ErrInvalidTransferCode = &DomainError{
		Kind:    KindValidation,
		Code:    "INVALID_TRANSFER_CODE",
		Message: "Transaction code is not valid",
		Field:   FieldTransferCode,
	}
	ErrInvalidDestination = &DomainError{
		Kind:    KindValidation,
		Code:    "INVALID_DESTINATION",
		Message: "Account destination is not valid",
		Field:   FieldDestination,
	}
	ErrInsufficientFunds = &DomainError{
		Kind:    KindInsufficientFunds,
		Code:    "INSUFFICIENT_FUNDS",
		Message: "Not enough money",
	}
	ErrInvalidAuthorizationCode = &DomainError{
		Kind:    KindInvalidAuthorizationCode,
		Code:    "INVALID_AUTHORIZATION_CODE",
		Message: "Transaction code is not valid",
	}
	ErrLedger = &DomainError{
		Kind:    KindLedger,
		Code:    "LEDGER_INVARIANT",
		Message: "Transfer rejected by ledger",
	}
	ErrPersistence = &DomainError{
		Kind:    KindPersistence,
		Code:    "PERSISTENCE_FAILURE",
		Message: "Transfer could not be completed, please try again",
	}
)
