// Package catalog holds the static game data for Mining Adventure: the
// generator-unit roster and the cosmetic skin roster.
//
// Catalog data is authored in CUE (units.cue, skins.cue), embedded into the
// binary, and compiled once at load time. The CUE schemas enforce the data
// invariants (positive costs and yields, multipliers >= 1) before any Go code
// sees the values, so a catalog that loads is a catalog that is valid.
//
// Both rosters are immutable after load. Ids are referenced from persisted
// checkpoints and from account skin selections, so entries may be appended
// but never renamed or removed.
package catalog

import (
	_ "embed"
	"fmt"
	"sync"
)

//go:embed units.cue
var unitsCUE string

//go:embed skins.cue
var skinsCUE string

// Unit is one purchasable generator: a miner that produces currency at a
// fixed per-minute rate while owned.
type Unit struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	Cost            float64 `json:"cost"`
	IncomePerMinute float64 `json:"incomePerMinute"`
	Color           string  `json:"color"`
}

// Skin is one cosmetic modifier. Ownership and the equipped-per-game mapping
// live with the account profile; the simulation only ever consumes the
// resolved multiplier.
type Skin struct {
	ID           string  `json:"id"`
	GameID       string  `json:"gameId"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Cost         float64 `json:"cost"`
	Multiplier   float64 `json:"multiplier"`
	PreviewColor string  `json:"previewColor"`
}

// Catalog is the compiled, immutable game data.
type Catalog struct {
	units     []Unit
	skins     []Skin
	unitIndex map[string]int
	skinIndex map[string]int
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the catalog compiled from the embedded CUE sources.
// The embedded data is part of the binary, so a failure here is a build
// defect; Default panics rather than forcing every caller to thread an
// error that cannot occur at runtime.
func Default() *Catalog {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Compile(unitsCUE, skinsCUE)
	})
	if defaultErr != nil {
		panic(fmt.Sprintf("catalog: embedded data failed to compile: %v", defaultErr))
	}
	return defaultCatalog
}

// Units returns the generator roster in catalog order.
// The returned slice is shared; callers must not mutate it.
func (c *Catalog) Units() []Unit {
	return c.units
}

// UnitByID looks up a generator unit. The second return reports whether the
// id exists.
func (c *Catalog) UnitByID(id string) (Unit, bool) {
	i, ok := c.unitIndex[id]
	if !ok {
		return Unit{}, false
	}
	return c.units[i], true
}

// Skins returns the skin roster in catalog order.
func (c *Catalog) Skins() []Skin {
	return c.skins
}

// SkinByID looks up a skin by id.
func (c *Catalog) SkinByID(id string) (Skin, bool) {
	i, ok := c.skinIndex[id]
	if !ok {
		return Skin{}, false
	}
	return c.skins[i], true
}

// MultiplierFor resolves the income multiplier for an equipped skin id.
// Unknown or empty ids resolve to 1 - the simulation treats the multiplier
// as an external read-only input and must keep working when the profile
// references a skin this build does not know.
func (c *Catalog) MultiplierFor(skinID string) float64 {
	if skin, ok := c.SkinByID(skinID); ok {
		return skin.Multiplier
	}
	return 1
}
