package session_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/arsenal/internal/game/ruleset"
	"github.com/cory-johannsen/arsenal/internal/game/session"
	"github.com/cory-johannsen/arsenal/internal/game/weapon"
)

var coreStates = []string{weapon.StateReady, weapon.StateSelect, weapon.StateDeselect, weapon.StateFire}

type content struct {
	reg               *weapon.Registry
	clip, shell, cell *weapon.AmmoClass
}

func newContent(t testing.TB) *content {
	t.Helper()
	c := &content{
		reg:   weapon.NewRegistry(),
		clip:  &weapon.AmmoClass{Name: "Clip", MaxAmount: 200},
		shell: &weapon.AmmoClass{Name: "Shell", MaxAmount: 50},
		cell:  &weapon.AmmoClass{Name: "Cell", MaxAmount: 300},
	}
	for _, a := range []*weapon.AmmoClass{c.clip, c.shell, c.cell} {
		require.NoError(t, c.reg.RegisterAmmo(a))
	}
	c.weapon(t, "Fist", nil, 0)
	c.weapon(t, "Pistol", c.clip, 20)
	c.weapon(t, "Shotgun", c.shell, 0)
	c.weapon(t, "SuperShotgun", c.shell, 0).AmmoUse1 = 2
	c.weapon(t, "Chaingun", c.clip, 20)
	c.weapon(t, "PlasmaRifle", c.cell, 0)
	require.NoError(t, c.reg.RegisterPlayerClass(&weapon.PlayerClass{Name: "DoomPlayer", Slots: map[int]string{
		1: "Fist",
		2: "Pistol",
		3: "Shotgun SuperShotgun",
		4: "Chaingun",
		6: "PlasmaRifle",
	}}))
	return c
}

func (c *content) weapon(t testing.TB, name string, ammo *weapon.AmmoClass, give int) *weapon.Class {
	t.Helper()
	w := weapon.NewClass(name, coreStates...)
	w.GameFilter = ruleset.GameDoom
	if ammo != nil {
		w.AmmoType1 = ammo
		w.AmmoUse1 = 1
		w.AmmoGive1 = give
	}
	require.NoError(t, c.reg.RegisterWeapon(w))
	return w
}

func newMatch(t testing.TB) (*session.Match, *content) {
	t.Helper()
	c := newContent(t)
	m := session.NewMatch(c.reg, ruleset.New(ruleset.GameDoom), zap.NewNop())
	t.Cleanup(m.Close)
	return m, c
}

func names(classes []*weapon.Class) []string {
	out := make([]string, len(classes))
	for i, c := range classes {
		out[i] = c.Name
	}
	return out
}

type mapSource map[string]map[int]string

func (m mapSource) Section(name string) (map[int]string, bool) {
	s, ok := m[name]
	return s, ok
}
