/*
errors.go - Centralized error types for the generic engine

PURPOSE:
  All infrastructure error types in one place. Business outcomes of leave
  validation are NOT errors (they are reason codes on a result); these
  errors cover malformed input and persistence failures.

ERROR CATEGORIES:
  1. Ledger errors - Transaction persistence failures
  2. Input errors - Unparseable dates, inverted periods
  3. Store errors - Missing records (domain not-found errors wrap
     ErrEntityNotFound)

USAGE:
    if errors.Is(err, generic.ErrDuplicateIdempotencyKey) {
        // already applied, safe to ignore on retry
    }

SEE ALSO:
  - ledger.go: Uses these errors
  - leave/errors.go: Domain errors wrapping these
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrDuplicateIdempotencyKey is returned when a transaction with the same
	// idempotency key already exists. This is expected behavior for retries.
	ErrDuplicateIdempotencyKey = errors.New("duplicate idempotency key")

	// ErrInsufficientBalance is returned when a debit exceeds what is left.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrEntityNotFound is returned when a referenced entity doesn't exist.
	ErrEntityNotFound = errors.New("entity not found")

	// ErrInvalidDate is returned for strings that are not ISO calendar dates.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidPeriod is returned when a period is malformed (end before start).
	ErrInvalidPeriod = errors.New("invalid period: end before start")

	// ErrInvalidAmount is returned for negative or otherwise unusable quantities.
	ErrInvalidAmount = errors.New("invalid amount")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InsufficientBalanceError provides details about a balance shortage.
type InsufficientBalanceError struct {
	EntityID  EntityID
	PolicyID  PolicyID
	Available Amount
	Requested Amount
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance for %s: available %v, requested %v",
		e.PolicyID, e.Available.Value, e.Requested.Value)
}

func (e *InsufficientBalanceError) Unwrap() error {
	return ErrInsufficientBalance
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInsufficientBalance) ||
		errors.Is(err, ErrDuplicateIdempotencyKey) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrInvalidAmount)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEntityNotFound)
}
