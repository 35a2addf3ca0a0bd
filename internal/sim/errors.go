package sim

import "errors"

// Purchase failures are local and synchronous - they never depend on
// network state.
var (
	// ErrUnknownUnit is returned when the unit id has no catalog entry.
	ErrUnknownUnit = errors.New("sim: unknown unit")

	// ErrInsufficientFunds is returned when balance is below the unit cost.
	// No mutation occurs.
	ErrInsufficientFunds = errors.New("sim: insufficient funds")
)
