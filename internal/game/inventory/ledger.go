package inventory

import (
	"github.com/cory-johannsen/arsenal/internal/game/weapon"
)

// FireMode selects which fire mode an ammo check applies to.
type FireMode int

const (
	PrimaryFire FireMode = iota
	AltFire
	EitherFire
)

// NoAmmoCount tells CheckAmmo and DepleteAmmo to use the static per-shot use.
const NoAmmoCount = -1

// infiniteAmmo reports whether ammo checks are bypassed for w's holder.
func (w *Weapon) infiniteAmmo() bool {
	if w.ctx.Rules.InfiniteAmmo {
		return true
	}
	return w.Owner != nil && w.Owner.Player != nil && w.Owner.Player.Cheats.InfiniteAmmo
}

// CheckAmmo reports whether the weapon has enough ammo to fire in mode.
// ammoCount overrides the primary per-shot use for dehacked weapons; pass
// NoAmmoCount otherwise. When the check fails and autoSwitch is set, the
// holder picks a new weapon.
//
// Postcondition: ammo amounts are unchanged.
func (w *Weapon) CheckAmmo(mode FireMode, autoSwitch, requireAmmo bool, ammoCount int) bool {
	if w.infiniteAmmo() {
		return true
	}
	if mode == EitherFire {
		gotSome := w.CheckAmmo(PrimaryFire, false, false, NoAmmoCount) ||
			w.CheckAmmo(AltFire, false, false, NoAmmoCount)
		if !gotSome && autoSwitch {
			w.pickNewWeapon()
		}
		return gotSome
	}

	alt := mode == AltFire
	if !requireAmmo && w.Flags.Optional(alt) {
		return true
	}

	count1, count2 := 0, 0
	if w.Ammo1 != nil {
		count1 = w.Ammo1.Amount
	}
	if w.Ammo2 != nil {
		count2 = w.Ammo2.Amount
	}

	use1 := w.AmmoUse1
	switch {
	case w.Flags.DehackedAmmo && w.Ammo1 == nil:
		use1 = 0
	case w.Flags.DehackedAmmo && ammoCount >= 0:
		use1 = ammoCount
	}

	var enough uint8
	if count1 >= use1 {
		enough |= 1
	}
	if count2 >= w.AmmoUse2 {
		enough |= 2
	}

	var required uint8 = 1
	switch {
	case w.Flags.UsesBoth(alt):
		required = 3
	case alt:
		required = 2
	}

	if alt && !w.Class.HasState(weapon.StateAltFire) {
		enough &^= 2
	}

	if enough&required == required || (enough != 0 && w.Flags.AmmoCheckBoth) {
		return true
	}
	if autoSwitch {
		w.pickNewWeapon()
	}
	return false
}

// DepleteAmmo consumes one shot of ammo for the given fire mode. With
// checkEnough set, an insufficient weapon fails without consuming.
// ammoCount overrides the primary per-shot use for dehacked weapons.
//
// Postcondition: neither pool is negative.
func (w *Weapon) DepleteAmmo(altFire, checkEnough bool, ammoCount int) bool {
	if w.infiniteAmmo() {
		return true
	}
	mode := PrimaryFire
	if altFire {
		mode = AltFire
	}
	if checkEnough && !w.CheckAmmo(mode, false, false, ammoCount) {
		return false
	}

	if !altFire {
		if w.Ammo1 != nil {
			if ammoCount >= 0 && w.Flags.DehackedAmmo {
				w.Ammo1.Amount -= ammoCount
			} else {
				w.Ammo1.Amount -= w.AmmoUse1
			}
		}
		if w.Flags.PrimaryUsesBoth && w.Ammo2 != nil {
			w.Ammo2.Amount -= w.AmmoUse2
		}
	} else {
		if w.Ammo2 != nil {
			w.Ammo2.Amount -= w.AmmoUse2
		}
		if w.Flags.AltUsesBoth && w.Ammo1 != nil {
			w.Ammo1.Amount -= w.AmmoUse1
		}
	}

	if w.Ammo1 != nil && w.Ammo1.Amount < 0 {
		w.Ammo1.Amount = 0
	}
	if w.Ammo2 != nil && w.Ammo2.Amount < 0 {
		w.Ammo2.Amount = 0
	}
	return true
}

func (w *Weapon) pickNewWeapon() {
	if w.Owner != nil && w.Owner.Player != nil {
		w.Owner.Player.pickNewWeapon(nil)
	}
}

// scaleAmount applies the skill ammo factor unless the weapon ignores skill.
func (w *Weapon) scaleAmount(amount int) int {
	if w.Class.IgnoreSkill {
		return amount
	}
	return int(float64(amount) * w.ctx.Rules.AmmoFactor())
}

// AddAmmo grants amount of ammo to target at pickup time. Classic deathmatch
// grants 5/2 as much, and the skill factor applies unless the weapon ignores
// skill. A missing pool is created and attached.
//
// Postcondition: the returned pool never exceeds its capacity; nil iff
// ammoType is nil.
func (w *Weapon) AddAmmo(target *Actor, ammoType *weapon.AmmoClass, amount int) *Ammo {
	if ammoType == nil {
		return nil
	}
	if w.ctx.Rules.ClassicDeathmatch() {
		amount = amount * 5 / 2
	}
	amount = w.scaleAmount(amount)

	pool := target.FindAmmo(ammoType)
	if pool == nil {
		pool = NewAmmo(ammoType, min(amount, ammoType.MaxAmount))
		target.AttachAmmo(pool)
		return pool
	}
	if pool.Amount < pool.MaxAmount {
		pool.Amount = min(pool.Amount+amount, pool.MaxAmount)
	}
	return pool
}

// AddExistingAmmo adds amount to pool if it has room, or always when
// unlimited pickups are enabled, in which case the pool may exceed its
// capacity.
//
// Postcondition: returns false iff nothing was added.
func (w *Weapon) AddExistingAmmo(pool *Ammo, amount int) bool {
	if pool == nil {
		return false
	}
	unlimited := w.ctx.Rules.UnlimitedPickup
	if pool.Amount >= pool.MaxAmount && !unlimited {
		return false
	}
	pool.Amount += w.scaleAmount(amount)
	if pool.Amount > pool.MaxAmount && !unlimited {
		pool.Amount = pool.MaxAmount
	}
	return true
}
