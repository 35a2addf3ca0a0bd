package checkpoint

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound is returned when no row exists for the requested account.
var ErrNotFound = errors.New("checkpoint: not found")

// Account is the minimal identity/entitlement view the progress endpoint
// needs. Everything else about accounts lives with its own collaborator.
type Account struct {
	ID             string
	DisplayName    string
	MiningUnlocked bool
}

// GetProgress reads the checkpoint for one account.
// Returns ErrNotFound when the account has no stored progress yet.
func (s *Store) GetProgress(ctx context.Context, accountID string) (Checkpoint, error) {
	var (
		cp        Checkpoint
		unitsJSON string
		lastBoost sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT balance, units, last_update, last_boost
		FROM progress
		WHERE account_id = ?
	`, accountID).Scan(&cp.Balance, &unitsJSON, &cp.LastUpdate, &lastBoost)
	if err == sql.ErrNoRows {
		return Checkpoint{}, ErrNotFound
	}
	if err != nil {
		return Checkpoint{}, fmt.Errorf("get progress: %w", err)
	}

	if err := json.Unmarshal([]byte(unitsJSON), &cp.Units); err != nil {
		return Checkpoint{}, fmt.Errorf("get progress: corrupt units column: %w", err)
	}
	if lastBoost.Valid {
		v := lastBoost.Int64
		cp.LastBoost = &v
	}
	return cp, nil
}

// AccountByToken resolves a bearer token to an account.
// Returns ErrNotFound for unknown tokens.
func (s *Store) AccountByToken(ctx context.Context, token string) (Account, error) {
	var (
		acct     Account
		unlocked int
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, display_name, mining_unlocked
		FROM accounts
		WHERE token = ?
	`, token).Scan(&acct.ID, &acct.DisplayName, &unlocked)
	if err == sql.ErrNoRows {
		return Account{}, ErrNotFound
	}
	if err != nil {
		return Account{}, fmt.Errorf("account by token: %w", err)
	}
	acct.MiningUnlocked = unlocked != 0
	return acct, nil
}
