package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalSkins = `
skins: [
	{
		id:           "test-skin"
		gameId:       "test-game"
		name:         "Test"
		description:  ""
		cost:         0
		multiplier:   1
		previewColor: "#000000"
	},
]
`

const minimalUnits = `
units: [
	{
		id:              "digger"
		name:            "Digger"
		description:     ""
		cost:            10
		incomePerMinute: 2
		color:           "#112233"
	},
]
`

func TestCompile_Minimal(t *testing.T) {
	c, err := Compile(minimalUnits, minimalSkins)
	require.NoError(t, err)

	u, ok := c.UnitByID("digger")
	require.True(t, ok)
	assert.Equal(t, float64(10), u.Cost)
	assert.Equal(t, float64(2), u.IncomePerMinute)
}

func TestCompile_MissingUnitsList(t *testing.T) {
	_, err := Compile(`other: 1`, minimalSkins)
	require.Error(t, err)

	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "units", ce.Field)
}

func TestCompile_EmptyUnitsList(t *testing.T) {
	_, err := Compile(`units: []`, minimalSkins)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one unit")
}

func TestCompile_RejectsNonPositiveCost(t *testing.T) {
	src := `
units: [...#Unit]
#Unit: {
	id:              string & !=""
	name:            string & !=""
	description:     string
	cost:            number & >0
	incomePerMinute: number & >0
	color:           string
}
units: [
	{
		id:              "free"
		name:            "Free"
		description:     ""
		cost:            0
		incomePerMinute: 1
		color:           "#112233"
	},
]
`
	_, err := Compile(src, minimalSkins)
	require.Error(t, err)
}

func TestCompile_RejectsMultiplierBelowOne(t *testing.T) {
	src := `
skins: [...#Skin]
#Skin: {
	id:           string
	gameId:       string
	name:         string
	description:  string
	cost:         number & >=0
	multiplier:   number & >=1
	previewColor: string
}
skins: [
	{
		id:           "nerf"
		gameId:       "g"
		name:         "Nerf"
		description:  ""
		cost:         0
		multiplier:   0.5
		previewColor: "#000"
	},
]
`
	_, err := Compile(minimalUnits, src)
	require.Error(t, err)
}

func TestCompile_DuplicateUnitID(t *testing.T) {
	src := `
units: [
	{id: "dup", name: "A", description: "", cost: 1, incomePerMinute: 1, color: "#000000"},
	{id: "dup", name: "B", description: "", cost: 2, incomePerMinute: 2, color: "#000000"},
]
`
	_, err := Compile(src, minimalSkins)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate unit id")
}

func TestCompile_MalformedCUE(t *testing.T) {
	_, err := Compile(`units: [`, minimalSkins)
	require.Error(t, err)

	var ce *CompileError
	assert.ErrorAs(t, err, &ce)
}
