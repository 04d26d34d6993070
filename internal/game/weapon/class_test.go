package weapon_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/arsenal/internal/game/ruleset"
	"github.com/cory-johannsen/arsenal/internal/game/weapon"
)

func TestNewClass_Defaults(t *testing.T) {
	c := weapon.NewClass("Pistol")
	assert.Equal(t, weapon.NoSlot, c.SlotNumber)
	assert.Equal(t, int32(weapon.NoPriority), c.SlotPriority)
	assert.True(t, c.Abstract())
	assert.NoError(t, c.CheckStates())
}

func TestClass_CheckStates(t *testing.T) {
	c := weapon.NewClass("Pistol", "ready", "select", "deselect", "fire")
	assert.NoError(t, c.CheckStates())

	c = weapon.NewClass("Broken", "ready", "fire")
	err := c.CheckStates()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "select")
	assert.Contains(t, err.Error(), "Broken")
}

func TestClass_HasStateCaseInsensitive(t *testing.T) {
	c := weapon.NewClass("Railgun", "AltFire")
	assert.True(t, c.HasState("altfire"))
	assert.False(t, c.HasState("hold"))
}

func TestClass_ValidForGame(t *testing.T) {
	c := weapon.NewClass("Fist")
	assert.True(t, c.ValidForGame(ruleset.GameHeretic), "GameAny filter is valid everywhere")

	c.GameFilter = ruleset.GameDoom | ruleset.GameChex
	assert.True(t, c.ValidForGame(ruleset.GameChex))
	assert.False(t, c.ValidForGame(ruleset.GameHexen))
}

func TestDefaultBehavior_States(t *testing.T) {
	c := weapon.NewClass("Chaingun", "ready", "select", "deselect", "fire", "hold")
	assert.Equal(t, weapon.StateSelect, c.UpState())
	assert.Equal(t, weapon.StateReady, c.ReadyState())
	assert.Equal(t, weapon.StateHold, c.AtkState(true))
	assert.Equal(t, weapon.StateFire, c.AtkState(false))
	assert.Equal(t, "", c.AltAtkState(false))
}

type raiseFromFire struct{ weapon.DefaultBehavior }

func (raiseFromFire) UpState(*weapon.Class) string { return weapon.StateFire }

func TestClass_BehaviorOverride(t *testing.T) {
	c := weapon.NewClass("Odd", "ready", "select", "deselect", "fire")
	c.Behavior = raiseFromFire{}
	assert.Equal(t, weapon.StateFire, c.UpState())
	assert.Equal(t, weapon.StateReady, c.ReadyState())
}

func TestParseFlags(t *testing.T) {
	f, err := weapon.ParseFlags([]string{"ammo_optional", "ALT_USES_BOTH", "powered_up"})
	require.NoError(t, err)
	assert.True(t, f.Optional(false))
	assert.False(t, f.Optional(true))
	assert.True(t, f.UsesBoth(true))
	assert.False(t, f.UsesBoth(false))
	assert.True(t, f.PoweredUp)

	_, err = weapon.ParseFlags([]string{"explodes"})
	assert.Error(t, err)
}

func TestClass_StringNil(t *testing.T) {
	var c *weapon.Class
	assert.Equal(t, "<none>", c.String())
	assert.Equal(t, "Pistol", weapon.NewClass("Pistol").String())
}
