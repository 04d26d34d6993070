package inventory

import (
	"github.com/cory-johannsen/arsenal/internal/game/weapon"
)

// Switcher chooses a replacement weapon for a player. The slot layer
// implements it; inventory only calls it.
type Switcher interface {
	// PickNewWeapon selects a weapon to switch to after the ready weapon ran
	// out of ammo and makes it pending. ammo, when non-nil, restricts the
	// choice to weapons using that ammo.
	PickNewWeapon(p *Player, ammo *weapon.AmmoClass) *Weapon
	// CheckWeaponSwitch is called when an empty pool of ammo receives ammo.
	CheckWeaponSwitch(p *Player, ammo *weapon.AmmoClass)
}

// Cheats is the per-player cheat flag set.
type Cheats struct {
	InfiniteAmmo bool
}

// Player is the weapon-related state of a player pawn.
//
// PendingWeapon nil means no switch is in progress.
type Player struct {
	Actor         *Actor
	Number        int
	ClassName     string
	ReadyWeapon   *Weapon
	PendingWeapon *Weapon
	// WeaponState is the state the weapon sprite is in.
	WeaponState string
	Cheats      Cheats
	// NeverSwitch keeps weapon pickups from becoming pending.
	NeverSwitch bool
	// PoweredUp is true while a weapon level 2 power-up is active.
	PoweredUp bool
	Switcher  Switcher
}

// NewPlayer returns a player pawn named name with an empty inventory.
//
// Postcondition: p.Actor.Player == p.
func NewPlayer(ctx *Context, name string) *Player {
	p := &Player{ClassName: name}
	p.Actor = NewActor(ctx, name)
	p.Actor.Player = p
	return p
}

// HasPendingWeapon reports whether a weapon switch is in progress.
func (p *Player) HasPendingWeapon() bool {
	return p.PendingWeapon != nil
}

// MostRecentWeapon returns the weapon a switch is heading to, else the ready weapon.
func (p *Player) MostRecentWeapon() *Weapon {
	if p.PendingWeapon != nil {
		return p.PendingWeapon
	}
	return p.ReadyWeapon
}

// BringUpWeapon completes a pending switch.
//
// Postcondition: PendingWeapon == nil; WeaponState is the new weapon's up state.
func (p *Player) BringUpWeapon() {
	if p.PendingWeapon == nil {
		return
	}
	p.ReadyWeapon = p.PendingWeapon
	p.PendingWeapon = nil
	p.WeaponState = p.ReadyWeapon.Class.UpState()
}

func (p *Player) pickNewWeapon(ammo *weapon.AmmoClass) {
	if p.Switcher != nil {
		p.Switcher.PickNewWeapon(p, ammo)
	}
}

func (p *Player) checkWeaponSwitch(ammo *weapon.AmmoClass) {
	if p.Switcher != nil {
		p.Switcher.CheckWeaponSwitch(p, ammo)
	}
}
