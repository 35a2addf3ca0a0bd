// Package recon implements the reconciliation protocol: keeping one
// authoritative remote checkpoint per account in sync with the local
// simulation store across reloads, shared devices, and flaky networks.
//
// ARCHITECTURE:
//
// One Session per active account. Load() runs once at activation: it
// detects ownership mismatches in the device-local cache, pulls the remote
// checkpoint, decides adopt-or-push by comparing LastUpdate timestamps, and
// immediately accrues offline earnings up to the present instant. Run()
// then drives two independent periodic tasks - a fast accrue tick that
// keeps the balance live without network traffic, and a slower push tick -
// until its context is cancelled. Purchases trigger an extra push through
// the store's purchase hook.
//
// Conflict policy is last-write-wins on LastUpdate, remote winning ties.
// There is no merge of divergent balances: two sessions playing the same
// account concurrently will silently lose whichever one's checkpoint is
// older at load time. Failed pushes are logged and swallowed - the next
// scheduled push is the de facto retry.
package recon

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/playforge/dinomine/internal/sim"
)

// Default scheduler cadences.
const (
	// DefaultAccruePeriod is how often the session accrues income locally.
	DefaultAccruePeriod = 5 * time.Second

	// DefaultPushPeriod is how often the session pushes a snapshot upstream.
	DefaultPushPeriod = 15 * time.Second
)

// State tracks where a session is in its lifecycle.
type State int

const (
	// StateUninitialized is the zero state before Load runs.
	StateUninitialized State = iota
	// StateLoading means Load is fetching the remote checkpoint.
	StateLoading
	// StateAdoptedRemote means Load replaced local state with the remote
	// checkpoint.
	StateAdoptedRemote
	// StateKeptLocal means Load kept local state (remote absent, stale, or
	// unreachable).
	StateKeptLocal
	// StateLive means the periodic scheduler is running.
	StateLive
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateAdoptedRemote:
		return "adopted-remote"
	case StateKeptLocal:
		return "kept-local"
	case StateLive:
		return "live"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Session reconciles one account's local simulation store with the remote
// checkpoint endpoint.
type Session struct {
	mu    sync.Mutex
	state State

	accountID string
	store     *sim.Store
	client    Client
	cache     *Cache
	clock     sim.Clock
	logger    *slog.Logger

	accruePeriod time.Duration
	pushPeriod   time.Duration
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLogger overrides the default logger.
func WithLogger(l *slog.Logger) SessionOption {
	return func(s *Session) { s.logger = l }
}

// WithClock overrides the wall clock. Tests use testutil.ManualClock.
func WithClock(c sim.Clock) SessionOption {
	return func(s *Session) { s.clock = c }
}

// WithPeriods overrides the accrue and push cadences. Tests shrink them.
func WithPeriods(accrue, push time.Duration) SessionOption {
	return func(s *Session) {
		s.accruePeriod = accrue
		s.pushPeriod = push
	}
}

// NewSession creates a session for accountID over the given store, remote
// client, and device-local cache. Cache may be nil when the caller has no
// durable local storage (everything still works, minus ownership detection
// and reload persistence).
//
// The session installs itself as the store's purchase hook: every
// successful purchase triggers an immediate fire-and-forget push.
func NewSession(accountID string, store *sim.Store, client Client, cache *Cache, opts ...SessionOption) *Session {
	s := &Session{
		accountID:    accountID,
		store:        store,
		client:       client,
		cache:        cache,
		clock:        sim.WallClock{},
		logger:       slog.Default(),
		accruePeriod: DefaultAccruePeriod,
		pushPeriod:   DefaultPushPeriod,
	}
	for _, opt := range opts {
		opt(s)
	}

	store.OnPurchase(func() {
		// Not awaited: the purchase is already committed locally and a
		// failed push must not roll it back. In-flight pushes outlive the
		// session on purpose; only scheduling stops at cancellation.
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = s.Push(ctx)
		}()
	})
	return s
}

// State returns the session's current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// Load performs the activation-time reconciliation.
//
// Order of operations:
//  1. If the device cache is tagged with a different account, reset the
//     store (no balance or unit leakage between accounts) - otherwise
//     restore the cached checkpoint as the local state.
//  2. Fetch the remote checkpoint. Absent remote: push local. Present:
//     adopt it iff remote.LastUpdate >= local.LastUpdate or local is the
//     untouched default; otherwise keep local and push it.
//  3. Accrue up to now regardless of the outcome, applying offline
//     earnings in one catch-up step.
//
// A fetch failure keeps local state, logs, and returns the error; the
// session remains usable offline.
func (s *Session) Load(ctx context.Context) error {
	s.setState(StateLoading)
	now := s.clock.Now()

	if s.cache != nil {
		if owner, cached, ok := s.cache.Load(); ok {
			if owner != s.accountID {
				s.logger.Info("local cache owned by different account, resetting",
					"cached_owner", owner, "account", s.accountID)
				s.store.Reset(now)
			} else {
				s.store.Restore(cached)
			}
		}
	}

	remote, found, err := s.client.Fetch(ctx)
	if err != nil {
		s.logger.Warn("failed to load remote checkpoint, continuing offline",
			"account", s.accountID, "error", err)
		s.setState(StateKeptLocal)
		s.store.Accrue(s.clock.Now())
		return fmt.Errorf("load checkpoint: %w", err)
	}

	switch {
	case !found:
		s.logger.Info("no remote checkpoint, pushing local state", "account", s.accountID)
		s.setState(StateKeptLocal)
		_ = s.Push(ctx)
	case remote.LastUpdate >= s.store.LastUpdate() || s.store.IsDefault():
		// Remote wins ties: the server is the source of truth when the
		// comparison is ambiguous.
		s.store.Restore(remote)
		s.setState(StateAdoptedRemote)
		s.logger.Info("adopted remote checkpoint",
			"account", s.accountID, "balance", remote.Balance, "units", len(remote.Units))
	default:
		s.logger.Info("local progress newer than remote, pushing local state",
			"account", s.accountID)
		s.setState(StateKeptLocal)
		_ = s.Push(ctx)
	}

	// Catch-up: apply offline earnings up to the present instant.
	s.store.Accrue(s.clock.Now())
	s.writeCache()
	return nil
}

// Push snapshots the store and upserts it to the remote endpoint.
//
// Failures are logged and returned but never retried or queued; the next
// scheduled push is the retry mechanism. The device cache is updated on
// every push attempt so local persistence never lags local state.
func (s *Session) Push(ctx context.Context) error {
	cp := s.store.Snapshot()
	s.writeCache()

	if err := s.client.Save(ctx, cp); err != nil {
		s.logger.Warn("failed to push checkpoint",
			"account", s.accountID, "error", err)
		return fmt.Errorf("push checkpoint: %w", err)
	}
	s.logger.Debug("pushed checkpoint",
		"account", s.accountID, "balance", cp.Balance, "last_update", cp.LastUpdate)
	return nil
}

// Run drives the periodic scheduler until ctx is cancelled: an accrue tick
// every accruePeriod and a push tick every pushPeriod. Cancellation stops
// scheduling new work; it does not abort an in-flight push. There is no
// terminal flush: the remote checkpoint stays as stale as the last
// completed push.
func (s *Session) Run(ctx context.Context) error {
	s.setState(StateLive)

	accrueTicker := time.NewTicker(s.accruePeriod)
	defer accrueTicker.Stop()
	pushTicker := time.NewTicker(s.pushPeriod)
	defer pushTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-accrueTicker.C:
			s.store.Accrue(s.clock.Now())
		case <-pushTicker.C:
			_ = s.Push(ctx)
		}
	}
}

func (s *Session) writeCache() {
	if s.cache == nil {
		return
	}
	if err := s.cache.Store(s.accountID, s.store.Snapshot()); err != nil {
		s.logger.Warn("failed to write local cache", "error", err)
	}
}
