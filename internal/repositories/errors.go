package repositories

import "errors"

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrCodeNotFound    = errors.New("transaction code not found")
	ErrUserNotFound    = errors.New("user not found")
	// ErrScopeRequired is returned when a scoped operation is attempted
	// without an open scope.
	ErrScopeRequired = errors.New("operation requires an open scope")
	// ErrScopeClosed is returned when committing a scope that was rolled back.
	ErrScopeClosed = errors.New("scope already rolled back")
)
