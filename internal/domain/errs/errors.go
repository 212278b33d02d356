// Package errs defines the error taxonomy shared across the reconciliation core.
// Validation and not-found errors abort the operation that raised them; gateway
// errors degrade to the offline path and must never fail a local write.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks a user-correctable input error.
	ErrValidation = errors.New("validation error")

	// ErrNotFound marks a reference to an absent bill, cheque or voucher.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyMatched marks an attempt to re-link a matched wallet transaction.
	ErrAlreadyMatched = errors.New("wallet transaction already matched")

	// ErrGatewayUnavailable marks an unreachable or timed-out ledger gateway.
	ErrGatewayUnavailable = errors.New("ledger gateway unavailable")

	// ErrConflict marks a uniqueness violation on reference data.
	ErrConflict = errors.New("conflict")

	// ErrVersionMismatch marks a stale optimistic-concurrency version on upsert.
	ErrVersionMismatch = errors.New("payment record version mismatch")
)

// Validation returns a validation error for a specific field.
func Validation(field, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrValidation, field, reason)
}

// NotFound returns a not-found error for a specific resource.
func NotFound(resource string, key interface{}) error {
	return fmt.Errorf("%w: %s %v", ErrNotFound, resource, key)
}

// Conflict returns a conflict error for a duplicated value.
func Conflict(resource, value string) error {
	return fmt.Errorf("%w: %s %q already exists", ErrConflict, resource, value)
}

// GatewayUnavailable wraps a transport failure as a gateway-unavailable error.
func GatewayUnavailable(err error) error {
	if err == nil {
		return ErrGatewayUnavailable
	}
	return fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsGatewayUnavailable reports whether err is a gateway availability error.
func IsGatewayUnavailable(err error) bool { return errors.Is(err, ErrGatewayUnavailable) }
