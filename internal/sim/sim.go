// Package sim implements the local simulation store for the Mining Adventure
// idle game: one account session's balance, owned generator units, and boost
// state, advanced deterministically over elapsed wall-clock time.
//
// ARCHITECTURE:
//
// Single logical writer:
// All mutation happens through the Store's methods, which the session layer
// calls from its timers and handlers. A mutex serializes those callers, but
// the design intent is single-writer: there is exactly one Store per active
// account session, and the reconciliation layer is its only client.
//
// Continuous-time accrual:
// Accrue(now) credits elapsed * rate * multiplier and moves LastUpdate to
// now unconditionally, so repeated calls with the same now are no-ops. This
// makes the 5-second timer tick and the catch-up-after-load call safe to
// compose without double-crediting the same interval.
//
// INVARIANTS:
//   - Balance never decreases except by an explicit purchase debit.
//   - LastUpdate only moves forward (negative elapsed clamps to zero).
//   - Owned units are append-only; only Reset removes them.
package sim

import (
	"sync"

	"github.com/playforge/dinomine/internal/catalog"
	"github.com/playforge/dinomine/internal/checkpoint"
)

// Store holds one account session's idle-game state.
type Store struct {
	mu sync.Mutex

	catalog *catalog.Catalog
	clock   Clock
	idGen   UnitIDGenerator

	balance    float64
	units      []checkpoint.OwnedUnit
	lastUpdate int64
	lastBoost  int64 // 0 = never activated

	// multiplier is the externally resolved cosmetic multiplier (>= 1).
	// The store does not own skin state; it only consumes the value.
	multiplier float64

	// onPurchase fires after every successful purchase. The reconciliation
	// layer hooks its push trigger here. Fire-and-forget: the purchase is
	// already committed locally when the hook runs.
	onPurchase func()
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the wall clock. Tests use testutil.ManualClock.
func WithClock(c Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithUnitIDs overrides the unit id generator. Tests use FixedGenerator.
func WithUnitIDs(g UnitIDGenerator) Option {
	return func(s *Store) { s.idGen = g }
}

// WithMultiplier sets the initial cosmetic multiplier.
func WithMultiplier(m float64) Option {
	return func(s *Store) { s.setMultiplier(m) }
}

// WithPurchaseHook registers the post-purchase callback.
func WithPurchaseHook(fn func()) Option {
	return func(s *Store) { s.onPurchase = fn }
}

// OnPurchase replaces the post-purchase callback. The reconciliation session
// installs its push trigger here after the store is constructed.
func (s *Store) OnPurchase(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onPurchase = fn
}

// New creates a Store at the default initial state: InitialBalance, no
// units, LastUpdate at the current clock reading.
func New(cat *catalog.Catalog, opts ...Option) *Store {
	s := &Store{
		catalog:    cat,
		clock:      WallClock{},
		idGen:      UUIDv7Generator{},
		multiplier: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.balance = InitialBalance
	s.lastUpdate = s.clock.Now()
	return s
}

// IncomeRate returns the summed per-minute yield of all owned units.
// Pure function of current holdings, independent of purchase order.
func (s *Store) IncomeRate() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.incomeRateLocked()
}

func (s *Store) incomeRateLocked() float64 {
	var total float64
	for _, owned := range s.units {
		if u, ok := s.catalog.UnitByID(owned.Type); ok {
			total += u.IncomePerMinute
		}
	}
	return total
}

// Accrue credits income for the interval since the last accrual and moves
// LastUpdate to now. Returns the amount credited.
//
// Elapsed time is clamped to zero, so a now earlier than LastUpdate neither
// decreases the balance nor moves the timestamp backward. LastUpdate is set
// to now even when nothing was earned, which is what makes repeated calls
// with the same now idempotent.
func (s *Store) Accrue(now int64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	elapsed := now - s.lastUpdate
	if elapsed < 0 {
		elapsed = 0
	}

	multiplier := s.multiplier
	if s.boostActiveLocked(now) {
		multiplier *= BoostMultiplier
	}

	earned := float64(elapsed) * s.incomeRateLocked() * multiplier / millisPerMinute
	s.balance += earned
	if now > s.lastUpdate {
		s.lastUpdate = now
	}
	return earned
}

// AccrueNow accrues up to the injected clock's current reading.
func (s *Store) AccrueNow() float64 {
	return s.Accrue(s.clock.Now())
}

// Purchase debits the unit's catalog cost and appends a new owned instance.
//
// Fails with ErrUnknownUnit or ErrInsufficientFunds without mutating state.
// On success the purchase hook fires after the local state is committed;
// a failed downstream push does not roll the purchase back.
func (s *Store) Purchase(unitID string) (checkpoint.OwnedUnit, error) {
	s.mu.Lock()

	unit, ok := s.catalog.UnitByID(unitID)
	if !ok {
		s.mu.Unlock()
		return checkpoint.OwnedUnit{}, ErrUnknownUnit
	}
	if s.balance < unit.Cost {
		s.mu.Unlock()
		return checkpoint.OwnedUnit{}, ErrInsufficientFunds
	}

	owned := checkpoint.OwnedUnit{
		ID:          s.idGen.Generate(),
		Type:        unit.ID,
		PurchasedAt: s.clock.Now(),
	}
	s.balance -= unit.Cost
	s.units = append(s.units, owned)
	hook := s.onPurchase
	s.mu.Unlock()

	if hook != nil {
		hook()
	}
	return owned, nil
}

// ActivateBoost opens a BoostDuration income window at now.
//
// Returns false without mutation when a previous activation is still within
// BoostCooldown. The boost window itself is derived state: it is open while
// now - LastBoost < BoostDuration.
func (s *Store) ActivateBoost(now int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastBoost != 0 && now-s.lastBoost < BoostCooldown {
		return false
	}
	s.lastBoost = now
	return true
}

// BoostActive reports whether a boost window is open at now.
func (s *Store) BoostActive(now int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.boostActiveLocked(now)
}

func (s *Store) boostActiveLocked(now int64) bool {
	return s.lastBoost != 0 && now >= s.lastBoost && now-s.lastBoost < BoostDuration
}

// BoostRemaining returns milliseconds left in the open boost window, or 0.
func (s *Store) BoostRemaining(now int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.boostActiveLocked(now) {
		return 0
	}
	return s.lastBoost + BoostDuration - now
}

// CooldownRemaining returns milliseconds until the boost can be re-armed,
// or 0 when it is available.
func (s *Store) CooldownRemaining(now int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastBoost == 0 {
		return 0
	}
	remaining := s.lastBoost + BoostCooldown - now
	if remaining < 0 {
		return 0
	}
	return remaining
}

// SetMultiplier updates the resolved cosmetic multiplier.
// Values below 1 clamp to 1 - the core treats the input as >= 1.
func (s *Store) SetMultiplier(m float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setMultiplier(m)
}

func (s *Store) setMultiplier(m float64) {
	if m < 1 {
		m = 1
	}
	s.multiplier = m
}

// Reset restores the default state: InitialBalance, no units, timestamps
// at now. Used only when an ownership mismatch is detected at load time.
func (s *Store) Reset(now int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balance = InitialBalance
	s.units = nil
	s.lastUpdate = now
	s.lastBoost = 0
}

// IsDefault reports whether the state is still the untouched default:
// initial balance and zero owned units. A default-state session always
// defers to any existing remote checkpoint at load time.
func (s *Store) IsDefault() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balance == InitialBalance && len(s.units) == 0
}

// Snapshot captures the current state as a checkpoint.
func (s *Store) Snapshot() checkpoint.Checkpoint {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := checkpoint.Checkpoint{
		Balance:    s.balance,
		Units:      append([]checkpoint.OwnedUnit(nil), s.units...),
		LastUpdate: s.lastUpdate,
	}
	if s.lastBoost != 0 {
		boost := s.lastBoost
		cp.LastBoost = &boost
	}
	return cp
}

// Restore adopts a checkpoint wholesale, replacing balance, units, and
// timestamps. Used when the reconciliation protocol decides the remote
// checkpoint wins.
func (s *Store) Restore(cp checkpoint.Checkpoint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.balance = cp.Balance
	s.units = append([]checkpoint.OwnedUnit(nil), cp.Units...)
	s.lastUpdate = cp.LastUpdate
	s.lastBoost = 0
	if cp.LastBoost != nil {
		s.lastBoost = *cp.LastBoost
	}
}

// Balance returns the current balance.
func (s *Store) Balance() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balance
}

// Units returns a copy of the owned units in purchase order.
func (s *Store) Units() []checkpoint.OwnedUnit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]checkpoint.OwnedUnit(nil), s.units...)
}

// LastUpdate returns the timestamp of the most recent accrual.
func (s *Store) LastUpdate() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUpdate
}
