package hfledger

import "errors"

// Errors returned by the ledger engine. They are always wrapped with context,
// use errors.Is to test for them.
var (
	// ErrInvalidAmount is returned when an amount is not strictly positive, not
	// finite, or not in the ledger currency.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrNotFound is returned when no transaction has the requested identifier.
	ErrNotFound = errors.New("transaction not found")
	// ErrUnsupportedOperation is returned when an operation does not apply to its
	// target, like clearing a deposit or resetting the primary pool.
	ErrUnsupportedOperation = errors.New("unsupported operation")
	// ErrUnknownKind is returned for a transaction kind outside the effect table.
	ErrUnknownKind = errors.New("unknown transaction kind")
	// ErrCorruptSnapshot is returned by stores when a persisted snapshot cannot
	// be decoded. Load treats it as "no prior state".
	ErrCorruptSnapshot = errors.New("corrupt snapshot")
	// ErrInconsistent is returned by Verify when replaying the journal does not
	// reproduce the current balances.
	ErrInconsistent = errors.New("inconsistent ledger")
)
