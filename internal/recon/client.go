package recon

import (
	"context"

	"github.com/playforge/dinomine/internal/checkpoint"
)

// Client is the remote checkpoint endpoint as the reconciliation protocol
// sees it: one authoritative checkpoint per account, read and written
// wholesale.
//
// Implemented by client.HTTP (production) and test fakes.
type Client interface {
	// Fetch returns the stored checkpoint for the authenticated account.
	// The second return is false when no checkpoint exists yet.
	Fetch(ctx context.Context) (checkpoint.Checkpoint, bool, error)

	// Save upserts the account's checkpoint. Whichever write lands last in
	// server-processing order wins; the protocol makes no ordering promise
	// between a purchase-triggered save and a periodic one.
	Save(ctx context.Context, cp checkpoint.Checkpoint) error
}
