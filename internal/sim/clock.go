package sim

import "time"

// Clock supplies the current wall-clock time in unix milliseconds.
//
// All simulation arithmetic runs on millisecond timestamps because that is
// the unit persisted in checkpoints; injecting the clock keeps accrual math
// deterministic under test.
//
// Implemented by WallClock (production) and testutil.ManualClock (tests).
type Clock interface {
	Now() int64
}

// WallClock reads the system clock.
type WallClock struct{}

// Now returns the current time in unix milliseconds.
func (WallClock) Now() int64 {
	return time.Now().UnixMilli()
}

// Simulation constants. These are fixed product parameters, not per-account
// configuration.
const (
	// InitialBalance is the starting balance for a brand-new account.
	InitialBalance = 100.0

	// BoostDuration is how long an activated boost multiplies income, in ms.
	BoostDuration int64 = 60_000

	// BoostCooldown is the minimum gap between boost activations, in ms.
	BoostCooldown int64 = 12 * 60 * 60 * 1000

	// BoostMultiplier is the income factor while a boost window is open.
	BoostMultiplier = 5.0

	// millisPerMinute converts catalog per-minute yields to per-millisecond.
	millisPerMinute = 60_000.0
)
