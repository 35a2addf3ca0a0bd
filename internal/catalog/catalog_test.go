package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_CompilesEmbeddedData(t *testing.T) {
	c := Default()
	require.NotNil(t, c)

	assert.Len(t, c.Units(), 6)
	assert.Len(t, c.Skins(), 4)
}

func TestDefault_UnitOrderAndValues(t *testing.T) {
	c := Default()

	units := c.Units()
	require.Len(t, units, 6)

	// Roster is cost-ordered; the cheapest and the most expensive anchor the
	// progression curve.
	assert.Equal(t, "raptor", units[0].ID)
	assert.Equal(t, float64(50), units[0].Cost)
	assert.Equal(t, float64(1), units[0].IncomePerMinute)

	assert.Equal(t, "brachiosaurus", units[5].ID)
	assert.Equal(t, float64(100000), units[5].Cost)
	assert.Equal(t, float64(4000), units[5].IncomePerMinute)
}

func TestUnitByID(t *testing.T) {
	c := Default()

	u, ok := c.UnitByID("t-rex")
	require.True(t, ok)
	assert.Equal(t, "Tyrannosaurus Rex", u.Name)
	assert.Equal(t, float64(5000), u.Cost)

	_, ok = c.UnitByID("stegosaurus")
	assert.False(t, ok)
}

func TestSkinByID(t *testing.T) {
	c := Default()

	s, ok := c.SkinByID("mining-neon")
	require.True(t, ok)
	assert.Equal(t, "mining-adventure", s.GameID)
	assert.Equal(t, float64(2), s.Multiplier)
}

func TestMultiplierFor(t *testing.T) {
	c := Default()

	assert.Equal(t, float64(1), c.MultiplierFor("mining-classic"))
	assert.Equal(t, float64(4), c.MultiplierFor("mining-void"))

	// Unknown and empty ids resolve to the neutral multiplier.
	assert.Equal(t, float64(1), c.MultiplierFor("no-such-skin"))
	assert.Equal(t, float64(1), c.MultiplierFor(""))
}

func TestDefault_AllMultipliersAtLeastOne(t *testing.T) {
	c := Default()
	for _, s := range c.Skins() {
		assert.GreaterOrEqual(t, s.Multiplier, float64(1), "skin %s", s.ID)
	}
}
