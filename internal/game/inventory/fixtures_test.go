package inventory_test

import (
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/arsenal/internal/game/inventory"
	"github.com/cory-johannsen/arsenal/internal/game/ruleset"
	"github.com/cory-johannsen/arsenal/internal/game/weapon"
)

var coreStates = []string{weapon.StateReady, weapon.StateSelect, weapon.StateDeselect, weapon.StateFire}

func newContext(t *testing.T, rules *ruleset.Rules) *inventory.Context {
	t.Helper()
	if rules == nil {
		rules = ruleset.New(ruleset.GameDoom)
	}
	return inventory.NewContext(rules, zaptest.NewLogger(t))
}

func ammoClass(name string, max int) *weapon.AmmoClass {
	return &weapon.AmmoClass{Name: name, MaxAmount: max}
}

func weaponClass(name string, ammo *weapon.AmmoClass, use, give int, extra ...string) *weapon.Class {
	c := weapon.NewClass(name, append(append([]string{}, coreStates...), extra...)...)
	c.AmmoType1 = ammo
	c.AmmoUse1 = use
	c.AmmoGive1 = give
	return c
}

// sisterPair returns a normal class and its powered-up sister sharing ammo.
func sisterPair(ammo *weapon.AmmoClass) (*weapon.Class, *weapon.Class) {
	normal := weaponClass("GoldWand", ammo, 1, 25)
	powered := weaponClass("GoldWandPowered", ammo, 1, 0)
	powered.Flags.PoweredUp = true
	normal.SisterType = powered
	powered.SisterType = normal
	return normal, powered
}

type switchCall struct {
	pick bool
	ammo *weapon.AmmoClass
}

// recordingSwitcher records every switch request.
type recordingSwitcher struct {
	calls []switchCall
}

func (r *recordingSwitcher) PickNewWeapon(p *inventory.Player, ammo *weapon.AmmoClass) *inventory.Weapon {
	r.calls = append(r.calls, switchCall{pick: true, ammo: ammo})
	return nil
}

func (r *recordingSwitcher) CheckWeaponSwitch(p *inventory.Player, ammo *weapon.AmmoClass) {
	r.calls = append(r.calls, switchCall{pick: false, ammo: ammo})
}
