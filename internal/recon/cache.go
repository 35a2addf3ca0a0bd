package recon

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/playforge/dinomine/internal/checkpoint"
)

// Cache is the device-local checkpoint file: the analog of the browser's
// persisted store. It is tagged with the owning account id so a shared
// device can detect that the cached progress belongs to somebody else.
//
// The cache is best-effort. A missing, unreadable, or corrupt file reads as
// absent; a failed write is reported but never blocks the session.
type Cache struct {
	path string
}

// cachedState is the on-disk format.
type cachedState struct {
	Owner      string                `json:"owner"`
	Checkpoint checkpoint.Checkpoint `json:"checkpoint"`
}

// NewCache creates a cache backed by the file at path.
// The file is created on first Store.
func NewCache(path string) *Cache {
	return &Cache{path: path}
}

// Load reads the cached checkpoint and its owner tag.
// Returns ok=false when the cache is absent or unreadable.
func (c *Cache) Load() (owner string, cp checkpoint.Checkpoint, ok bool) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return "", checkpoint.Checkpoint{}, false
	}

	var state cachedState
	if err := json.Unmarshal(data, &state); err != nil {
		return "", checkpoint.Checkpoint{}, false
	}
	if state.Owner == "" {
		return "", checkpoint.Checkpoint{}, false
	}
	return state.Owner, state.Checkpoint, true
}

// Store writes the checkpoint tagged with its owning account.
// The write goes through a temp file and rename so a crash mid-write leaves
// the previous cache intact rather than a truncated file.
func (c *Cache) Store(owner string, cp checkpoint.Checkpoint) error {
	data, err := json.Marshal(cachedState{Owner: owner, Checkpoint: cp})
	if err != nil {
		return fmt.Errorf("cache: marshal: %w", err)
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("cache: write: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("cache: rename: %w", err)
	}
	return nil
}
