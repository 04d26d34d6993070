package slots_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/arsenal/internal/game/inventory"
	"github.com/cory-johannsen/arsenal/internal/game/ruleset"
	"github.com/cory-johannsen/arsenal/internal/game/slots"
	"github.com/cory-johannsen/arsenal/internal/game/weapon"
)

var coreStates = []string{weapon.StateReady, weapon.StateSelect, weapon.StateDeselect, weapon.StateFire}

type fixture struct {
	reg   *weapon.Registry
	ctx   *inventory.Context
	clip  *weapon.AmmoClass
	cells *weapon.AmmoClass
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		reg:   weapon.NewRegistry(),
		ctx:   inventory.NewContext(ruleset.New(ruleset.GameDoom), zap.NewNop()),
		clip:  &weapon.AmmoClass{Name: "Clip", MaxAmount: 200},
		cells: &weapon.AmmoClass{Name: "Cell", MaxAmount: 300},
	}
	require.NoError(t, f.reg.RegisterAmmo(f.clip))
	require.NoError(t, f.reg.RegisterAmmo(f.cells))
	return f
}

// class registers a weapon type using ammo with the given home slot and priority.
func (f *fixture) class(t *testing.T, name string, ammo *weapon.AmmoClass, slot int, priority int32) *weapon.Class {
	t.Helper()
	c := weapon.NewClass(name, coreStates...)
	c.GameFilter = ruleset.GameDoom
	c.SlotNumber = slot
	c.SlotPriority = priority
	if ammo != nil {
		c.AmmoType1 = ammo
		c.AmmoUse1 = 1
	}
	require.NoError(t, f.reg.RegisterWeapon(c))
	return c
}

func (f *fixture) set() *slots.Set {
	return slots.NewSet(f.reg, zap.NewNop())
}

func (f *fixture) player() *inventory.Player {
	return inventory.NewPlayer(f.ctx, "DoomPlayer")
}

// give hands p a weapon of c with amount ammo in its primary pool.
func give(p *inventory.Player, ctx *inventory.Context, c *weapon.Class, amount int) *inventory.Weapon {
	w := p.Actor.FindWeapon(c)
	if w == nil {
		w = inventory.NewWeapon(ctx, c)
		w.Give(p.Actor)
	}
	if w.Ammo1 != nil {
		w.Ammo1.Amount = amount
	}
	p.PendingWeapon = nil
	return w
}

func names(classes []*weapon.Class) []string {
	out := make([]string, len(classes))
	for i, c := range classes {
		out[i] = c.Name
	}
	return out
}

// mapSource is an in-memory SectionSource.
type mapSource map[string]map[int]string

func (m mapSource) Section(name string) (map[int]string, bool) {
	s, ok := m[name]
	return s, ok
}
