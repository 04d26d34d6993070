package inventory

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/arsenal/internal/game/weapon"
)

// Weapon is a live instance of a weapon type. It is owned by at most one
// actor and may be paired with a sister instance (normal and powered-up).
//
// Invariant: when both are alive and owned, w.SisterWeapon.SisterWeapon == w.
type Weapon struct {
	ID    uuid.UUID
	Class *weapon.Class
	Owner *Actor
	Ammo1 *Ammo
	Ammo2 *Ammo
	// Per-instance copies of the class values; a tossed weapon gives no ammo.
	AmmoUse1, AmmoUse2   int
	AmmoGive1, AmmoGive2 int
	Flags                weapon.Flags
	SisterWeapon         *Weapon
	// Dropped marks a weapon tossed by an actor rather than placed in the level.
	Dropped bool

	ctx       *Context
	destroyed bool
}

// NewWeapon returns an unowned instance of class.
//
// Precondition: ctx and class must not be nil.
// Postcondition: the per-instance ammo values equal the class values.
func NewWeapon(ctx *Context, class *weapon.Class) *Weapon {
	if ctx == nil || class == nil {
		panic("inventory: NewWeapon: ctx and class must not be nil")
	}
	return &Weapon{
		ID:        uuid.New(),
		Class:     class,
		AmmoUse1:  class.AmmoUse1,
		AmmoUse2:  class.AmmoUse2,
		AmmoGive1: class.AmmoGive1,
		AmmoGive2: class.AmmoGive2,
		Flags:     class.Flags,
		ctx:       ctx,
	}
}

// Destroyed reports whether Destroy has run.
func (w *Weapon) Destroyed() bool {
	return w.destroyed
}

// Give attaches w to owner: grants the ammo it carries, creates its sister,
// and makes it the player's pending weapon unless the player never switches
// or the weapon opts out of auto-switching.
//
// Precondition: w is unowned and not destroyed.
// Postcondition: owner.FindWeapon(w.Class) == w.
func (w *Weapon) Give(owner *Actor) {
	owner.attachWeapon(w)
	w.Ammo1 = w.AddAmmo(owner, w.Class.AmmoType1, w.AmmoGive1)
	w.Ammo2 = w.AddAmmo(owner, w.Class.AmmoType2, w.AmmoGive2)
	w.SisterWeapon = w.AddWeapon(w.Class.SisterType)

	if p := owner.Player; p != nil && !p.NeverSwitch && !w.Flags.NoAutoSwitch {
		p.PendingWeapon = w
	}
	w.ctx.Logger.Debug("weapon given",
		zap.String("weapon", w.Class.Name),
		zap.String("owner", owner.Name),
	)
}

// AddWeapon gives the owner an instance of class unless it already holds one.
//
// Postcondition: returns the owner's instance of class, or nil if class is nil.
func (w *Weapon) AddWeapon(class *weapon.Class) *Weapon {
	if class == nil || w.Owner == nil {
		return nil
	}
	held := w.Owner.FindWeapon(class)
	if held == nil {
		held = NewWeapon(w.ctx, class)
		held.Give(w.Owner)
	}
	return held
}

// ShouldStay reports whether a weapon pickup remains in the world after
// being taken: placed weapons stay in cooperative netplay or under the
// weapons stay flag.
func (w *Weapon) ShouldStay() bool {
	return w.ctx.Rules.WeaponsStayApply() && !w.Dropped
}

// PickupForAmmo transfers the ammo this pickup carries into the pools of
// owned, an instance of the same type already held. When a pool goes from
// empty to non-empty the holder may switch weapons.
//
// Postcondition: returns true iff any ammo was added.
func (w *Weapon) PickupForAmmo(owned *Weapon) bool {
	old1, old2 := 0, 0
	if owned.Ammo1 != nil {
		old1 = owned.Ammo1.Amount
	}
	if owned.Ammo2 != nil {
		old2 = owned.Ammo2.Amount
	}

	got := false
	if w.AmmoGive1 > 0 {
		got = w.AddExistingAmmo(owned.Ammo1, w.AmmoGive1)
	}
	if w.AmmoGive2 > 0 {
		got = w.AddExistingAmmo(owned.Ammo2, w.AmmoGive2) || got
	}

	if got && owned.Owner != nil && owned.Owner.Player != nil {
		p := owned.Owner.Player
		switch {
		case owned.Ammo1 != nil && old1 == 0:
			p.checkWeaponSwitch(owned.Ammo1.Class)
		case owned.Ammo2 != nil && old2 == 0:
			p.checkWeaponSwitch(owned.Ammo2.Class)
		}
	}
	return got
}

// HandlePickup resolves a touched weapon pickup against the actor's
// inventory. A held type absorbs the pickup's ammo; an unheld type is given
// directly, or a copy is given when the pickup stays.
//
// Postcondition: taken is true iff the pickup should leave the world.
func (a *Actor) HandlePickup(item *Weapon) (taken bool) {
	if owned := a.FindWeapon(item.Class); owned != nil {
		if item.ShouldStay() {
			return false
		}
		item.PickupForAmmo(owned)
		return true
	}
	if item.ShouldStay() {
		NewWeapon(item.ctx, item.Class).Give(a)
		return false
	}
	item.Give(a)
	return true
}

// TryPickupRestricted lets an actor whose class may not carry the weapon
// still take its ammo through AddAmmo, deathmatch bonus and capacity
// included. Weapons that stay cannot be scavenged this way.
//
// Postcondition: returns true iff the weapon names any ammo type.
func (w *Weapon) TryPickupRestricted(toucher *Actor) bool {
	if w.ShouldStay() {
		return false
	}
	taken := w.AddAmmo(toucher, w.Class.AmmoType1, w.AmmoGive1) != nil
	taken = w.AddAmmo(toucher, w.Class.AmmoType2, w.AmmoGive2) != nil || taken
	return taken
}

// CreateTossable detaches the weapon from its owner for dropping. When the
// weapon gives no ammo but its sister does, the sister is dropped instead.
// The dropped weapon carries no ammo and its sister is destroyed.
//
// Postcondition: the returned weapon is unowned and Dropped.
func (w *Weapon) CreateTossable() *Weapon {
	if s := w.SisterWeapon; s != nil &&
		w.Class.AmmoGive1 == 0 && w.Class.AmmoGive2 == 0 &&
		(s.Class.AmmoGive1 > 0 || s.Class.AmmoGive2 > 0) {
		return s.CreateTossable()
	}

	if w.Owner != nil {
		w.Owner.detachWeapon(w)
	}
	if s := w.SisterWeapon; s != nil {
		s.SisterWeapon = nil
		s.Destroy()
		w.SisterWeapon = nil
	}
	w.Ammo1, w.Ammo2 = nil, nil
	w.AmmoGive1, w.AmmoGive2 = 0, 0
	w.Dropped = true
	return w
}

// Use selects the weapon, or its powered-up sister while a power-up is
// active. Powered-up weapons cannot be selected directly.
//
// Postcondition: returns the weapon made pending, or nil if none.
func (w *Weapon) Use() *Weapon {
	if w.Flags.PoweredUp || w.Owner == nil || w.Owner.Player == nil {
		return nil
	}
	p := w.Owner.Player
	use := w
	if s := w.SisterWeapon; s != nil && s.Flags.PoweredUp && p.PoweredUp {
		use = s
	}
	if p.ReadyWeapon == use {
		return nil
	}
	p.PendingWeapon = use
	return use
}

// EndPowerup switches a powered-up weapon back to its normal sister when the
// power-up expires. The sister always arrives as a pending switch, even when
// both share a ready state.
func (w *Weapon) EndPowerup() {
	if w.SisterWeapon == nil || !w.Flags.PoweredUp || w.Owner == nil || w.Owner.Player == nil {
		return
	}
	p := w.Owner.Player
	if !p.HasPendingWeapon() {
		p.PendingWeapon = w.SisterWeapon
	}
}

// PostMorph makes w the player's ready weapon after a morph, bypassing the
// lowering of the previous weapon.
func (w *Weapon) PostMorph() {
	if w.Owner == nil || w.Owner.Player == nil {
		return
	}
	p := w.Owner.Player
	p.PendingWeapon = nil
	p.ReadyWeapon = w
	p.WeaponState = w.Class.UpState()
}

// Destroy removes the weapon from play. The sister's back-link is cleared
// before the sister is destroyed in turn, so the pair is torn down once.
//
// Postcondition: Destroyed() is true and the weapon is unowned.
func (w *Weapon) Destroy() {
	if w.destroyed {
		return
	}
	if s := w.SisterWeapon; s != nil {
		s.SisterWeapon = nil
		if s != w {
			s.Destroy()
		}
	}
	w.SisterWeapon = nil
	if w.Owner != nil {
		w.Owner.detachWeapon(w)
	}
	w.destroyed = true
	w.ctx.Logger.Debug("weapon destroyed", zap.String("weapon", w.Class.Name))
}
