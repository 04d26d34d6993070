package inventory

import (
	"github.com/google/uuid"

	"github.com/cory-johannsen/arsenal/internal/game/weapon"
)

// Actor is anything that can carry items. Player is non-nil for player pawns.
type Actor struct {
	ID     uuid.UUID
	Name   string
	Player *Player

	ctx     *Context
	ammo    []*Ammo
	weapons []*Weapon
}

// NewActor returns an actor with an empty inventory.
//
// Precondition: ctx must not be nil.
func NewActor(ctx *Context, name string) *Actor {
	if ctx == nil {
		panic("inventory: NewActor: ctx must not be nil")
	}
	return &Actor{ID: uuid.New(), Name: name, ctx: ctx}
}

// Context returns the context the actor lives in.
func (a *Actor) Context() *Context {
	return a.ctx
}

// FindAmmo returns the actor's pool of class, or nil.
func (a *Actor) FindAmmo(class *weapon.AmmoClass) *Ammo {
	for _, p := range a.ammo {
		if p.Class == class {
			return p
		}
	}
	return nil
}

// FindWeapon returns the actor's instance of class, or nil.
func (a *Actor) FindWeapon(class *weapon.Class) *Weapon {
	if class == nil {
		return nil
	}
	for _, w := range a.weapons {
		if w.Class == class {
			return w
		}
	}
	return nil
}

// Holds reports whether the actor carries a weapon of class.
func (a *Actor) Holds(class *weapon.Class) bool {
	return a.FindWeapon(class) != nil
}

// Weapons returns the carried weapons in the order they were attached.
func (a *Actor) Weapons() []*Weapon {
	out := make([]*Weapon, len(a.weapons))
	copy(out, a.weapons)
	return out
}

// Ammo returns the carried ammo pools in the order they were attached.
func (a *Actor) Ammo() []*Ammo {
	out := make([]*Ammo, len(a.ammo))
	copy(out, a.ammo)
	return out
}

// AttachAmmo adds pool p to the inventory.
//
// Postcondition: p.Owner == a.
func (a *Actor) AttachAmmo(p *Ammo) {
	p.Owner = a
	a.ammo = append(a.ammo, p)
}

// RemoveAmmo drops pool p from the inventory. Weapons still referencing p
// keep it and see its amount unchanged.
//
// Postcondition: a.FindAmmo(p.Class) != p; p.Owner == nil.
func (a *Actor) RemoveAmmo(p *Ammo) {
	for i, held := range a.ammo {
		if held == p {
			a.ammo = append(a.ammo[:i], a.ammo[i+1:]...)
			p.Owner = nil
			return
		}
	}
}

func (a *Actor) attachWeapon(w *Weapon) {
	w.Owner = a
	a.weapons = append(a.weapons, w)
}

// detachWeapon removes w from the inventory and clears any player
// reference to it.
func (a *Actor) detachWeapon(w *Weapon) {
	for i, held := range a.weapons {
		if held == w {
			a.weapons = append(a.weapons[:i], a.weapons[i+1:]...)
			break
		}
	}
	if p := a.Player; p != nil {
		if p.ReadyWeapon == w {
			p.ReadyWeapon = nil
		}
		if p.PendingWeapon == w {
			p.PendingWeapon = nil
		}
	}
	w.Owner = nil
}
