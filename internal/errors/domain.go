// Package errors defines the domain error taxonomy returned by the transfer
// workflow. Every failure carries a Kind, a stable Code and a message that
// can be shown to the client as-is.
package errors

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Kind classifies a failure for the caller.
type Kind string

const (
	KindValidation               Kind = "ValidationError"
	KindInsufficientFunds        Kind = "InsufficientFunds"
	KindInvalidAuthorizationCode Kind = "InvalidAuthorizationCode"
	KindLedger                   Kind = "LedgerError"
	KindPersistence              Kind = "PersistenceError"
)

// DomainError is a classified failure. Two DomainErrors match under
// errors.Is when their Codes are equal.
type DomainError struct {
	Kind    Kind
	Code    string
	Message string
	// Field names the offending input for validation failures.
	Field string
	// Retryable is set on persistence failures that left no state behind
	// and may succeed on a fresh attempt.
	Retryable bool
	Err       error
}

func (e *DomainError) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *DomainError) Unwrap() error { return e.Err }

func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithMessage returns a copy of e carrying msg.
func (e *DomainError) WithMessage(msg string) *DomainError {
	cp := *e
	cp.Message = msg
	return &cp
}

// Wrap returns a copy of e wrapping cause.
func (e *DomainError) Wrap(cause error) *DomainError {
	cp := *e
	cp.Err = cause
	return &cp
}

// KindOf returns the Kind of the first DomainError in err's chain, or ""
// when err is not classified.
func KindOf(err error) Kind {
	var de *DomainError
	if stderrors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsKind reports whether err is classified as kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Persistence classifies an unexpected storage or scope fault. Errors that
// are already classified are returned unchanged.
func Persistence(err error) error {
	if err == nil {
		return nil
	}
	var de *DomainError
	if stderrors.As(err, &de) {
		return err
	}
	return &DomainError{
		Kind:      KindPersistence,
		Code:      ErrPersistence.Code,
		Message:   ErrPersistence.Message,
		Retryable: isRetryable(err),
		Err:       err,
	}
}

// Postgres SQLSTATEs raised by contention rather than bad data.
const (
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
	sqlStateLockNotAvailable     = "55P03"
	sqlStateQueryCanceled        = "57014"
)

func isRetryable(err error) bool {
	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, context.Canceled) {
		return true
	}
	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		switch pgErr.Code {
		case sqlStateSerializationFailure, sqlStateDeadlockDetected,
			sqlStateLockNotAvailable, sqlStateQueryCanceled:
			return true
		}
	}
	return false
}
