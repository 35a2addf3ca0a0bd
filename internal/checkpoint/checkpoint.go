// Package checkpoint defines the persisted snapshot of one account's
// idle-game progress and the SQLite-backed server store that holds exactly
// one authoritative checkpoint per account.
package checkpoint

import "fmt"

// OwnedUnit is one purchased generator instance. Created on purchase, never
// mutated afterward; removed only by a full reset.
type OwnedUnit struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	PurchasedAt int64  `json:"purchasedAt"`
}

// Checkpoint is the persisted unit of progress for one account.
//
// LastUpdate is wall-clock unix milliseconds and only ever moves forward
// during accrual; it is the sole input to the load-time adopt-or-push
// decision. LastBoost is nil when no boost has ever been activated.
type Checkpoint struct {
	Balance    float64     `json:"balance"`
	Units      []OwnedUnit `json:"ownedDinosaurs"`
	LastUpdate int64       `json:"lastUpdate"`
	LastBoost  *int64      `json:"lastBoost"`
}

// Validate checks the numeric invariants a checkpoint must satisfy before
// it is written to the store. The server rejects malformed payloads at the
// API boundary too; this is the storage-side backstop.
func (c Checkpoint) Validate() error {
	if c.Balance < 0 {
		return fmt.Errorf("checkpoint: negative balance %v", c.Balance)
	}
	if c.LastUpdate <= 0 {
		return fmt.Errorf("checkpoint: non-positive lastUpdate %d", c.LastUpdate)
	}
	for i, u := range c.Units {
		if u.ID == "" || u.Type == "" {
			return fmt.Errorf("checkpoint: unit %d missing id or type", i)
		}
		if u.PurchasedAt <= 0 {
			return fmt.Errorf("checkpoint: unit %d has non-positive purchasedAt", i)
		}
	}
	return nil
}
