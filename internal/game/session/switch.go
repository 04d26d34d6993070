package session

import (
	"github.com/cory-johannsen/arsenal/internal/game/inventory"
	"github.com/cory-johannsen/arsenal/internal/game/weapon"
)

var _ inventory.Switcher = (*Match)(nil)

// bestWeapon scans the player's slots from the highest slot down, and each
// slot from its last entry, for a held weapon that can fire its primary
// mode. ammo, when non-nil, restricts the scan to weapons whose primary
// pool holds that ammo. While a power-up is active the powered-up sister
// stands in for the slotted weapon.
func (m *Match) bestWeapon(p *inventory.Player, ammo *weapon.AmmoClass) *inventory.Weapon {
	m.mu.RLock()
	ps := m.playerLocked(p.Number)
	m.mu.RUnlock()
	if ps == nil || ps.Player != p {
		return nil
	}
	for slot := weapon.NumSlots - 1; slot >= 0; slot-- {
		sl := ps.Slots.Slot(slot)
		for i := sl.Size() - 1; i >= 0; i-- {
			w := p.Actor.FindWeapon(sl.GetWeapon(i))
			if w == nil {
				continue
			}
			if s := w.SisterWeapon; p.PoweredUp && s != nil && s.Flags.PoweredUp {
				w = s
			}
			if ammo != nil && (w.Ammo1 == nil || w.Ammo1.Class != ammo) {
				continue
			}
			if !w.CheckAmmo(inventory.PrimaryFire, false, false, inventory.NoAmmoCount) {
				continue
			}
			return w
		}
	}
	return nil
}

// PickNewWeapon makes the best weapon the player can fire pending, raising
// it at once when no weapon is ready.
//
// Postcondition: Returns the chosen weapon, or nil and leaves the player
// unchanged.
func (m *Match) PickNewWeapon(p *inventory.Player, ammo *weapon.AmmoClass) *inventory.Weapon {
	best := m.bestWeapon(p, ammo)
	if best == nil {
		return nil
	}
	p.PendingWeapon = best
	if p.ReadyWeapon == nil {
		p.BringUpWeapon()
	}
	return best
}

// CheckWeaponSwitch switches to the best weapon using ammo when ammo
// arrives while the ready weapon cannot fire and no switch is in progress.
func (m *Match) CheckWeaponSwitch(p *inventory.Player, ammo *weapon.AmmoClass) {
	if p.NeverSwitch || p.HasPendingWeapon() {
		return
	}
	if r := p.ReadyWeapon; r != nil && r.CheckAmmo(inventory.EitherFire, false, false, inventory.NoAmmoCount) {
		return
	}
	if best := m.bestWeapon(p, ammo); best != nil && best != p.ReadyWeapon {
		p.PendingWeapon = best
	}
}
