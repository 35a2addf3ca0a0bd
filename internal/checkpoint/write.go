package checkpoint

import (
	"context"
	"encoding/json"
	"fmt"
)

// PutProgress upserts the checkpoint for one account.
// The write replaces the row wholesale - the protocol is last-write-wins,
// there is no server-side merge of divergent balances.
//
// The checkpoint is validated before the write; malformed numeric fields
// are rejected rather than persisted.
func (s *Store) PutProgress(ctx context.Context, accountID string, cp Checkpoint) error {
	if err := cp.Validate(); err != nil {
		return fmt.Errorf("put progress: %w", err)
	}

	units := cp.Units
	if units == nil {
		units = []OwnedUnit{}
	}
	unitsJSON, err := json.Marshal(units)
	if err != nil {
		return fmt.Errorf("put progress: marshal units: %w", err)
	}

	var lastBoost any
	if cp.LastBoost != nil {
		lastBoost = *cp.LastBoost
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO progress (account_id, balance, units, last_update, last_boost)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(account_id) DO UPDATE SET
			balance     = excluded.balance,
			units       = excluded.units,
			last_update = excluded.last_update,
			last_boost  = excluded.last_boost
	`, accountID, cp.Balance, string(unitsJSON), cp.LastUpdate, lastBoost)
	if err != nil {
		return fmt.Errorf("put progress: %w", err)
	}
	return nil
}

// CreateAccount inserts an account row.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - re-creating an existing
// account is silently ignored.
func (s *Store) CreateAccount(ctx context.Context, acct Account, token string) error {
	unlocked := 0
	if acct.MiningUnlocked {
		unlocked = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (id, token, display_name, mining_unlocked)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, acct.ID, token, acct.DisplayName, unlocked)
	if err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

// SetMiningUnlocked flips the entitlement gate for an account.
// The store flow normally sets this when the game purchase clears.
func (s *Store) SetMiningUnlocked(ctx context.Context, accountID string, unlocked bool) error {
	v := 0
	if unlocked {
		v = 1
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE accounts SET mining_unlocked = ? WHERE id = ?
	`, v, accountID)
	if err != nil {
		return fmt.Errorf("set mining unlocked: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set mining unlocked: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
