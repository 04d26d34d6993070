// Package slots assigns weapon types to numbered slots, picks the next,
// previous, or best weapon the player holds, and layers the player class,
// game, and user configuration into a slot set.
package slots

import (
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/arsenal/internal/game/inventory"
	"github.com/cory-johannsen/arsenal/internal/game/weapon"
)

// NumSlots is the number of slots in a set.
const NumSlots = weapon.NumSlots

// Unpositioned is the position of an entry added without one.
const Unpositioned int32 = -1

// AddResult is the outcome of adding a weapon to a slot.
type AddResult int

const (
	// Rejected means the name or type was not a weapon.
	Rejected AddResult = iota
	// Added means the weapon was appended.
	Added
	// AlreadyPresent means the slot already held the weapon.
	AlreadyPresent
)

// OK reports whether the slot holds the weapon after the add.
func (r AddResult) OK() bool {
	return r != Rejected
}

// Entry is one weapon type in a slot with its ordering position.
type Entry struct {
	Class    *weapon.Class
	Position int32
}

// Resolver maps configuration weapon names to weapon types and reports
// names that do not name a weapon.
type Resolver struct {
	Registry *weapon.Registry
	Logger   *zap.Logger
}

// Resolve returns the weapon named name, or nil after logging why not.
func (r Resolver) Resolve(name string) *weapon.Class {
	if c := r.Registry.Class(name); c != nil {
		return c
	}
	if r.Registry.Kind(name) != weapon.KindNone {
		r.Logger.Warn("can't add non-weapon to weapon slots", zap.String("name", name))
	} else {
		r.Logger.Info("unknown weapon", zap.String("name", name))
	}
	return nil
}

// Slot is an ordered list of weapon types.
//
// Invariant: a weapon type appears at most once.
type Slot struct {
	entries []Entry
}

// AddWeapon appends c unpositioned unless it is already present.
//
// Postcondition: Rejected iff c is nil.
func (s *Slot) AddWeapon(c *weapon.Class) AddResult {
	return s.AddWeaponAt(c, Unpositioned)
}

// AddWeaponAt appends c with an explicit position unless it is already present.
func (s *Slot) AddWeaponAt(c *weapon.Class, position int32) AddResult {
	if c == nil {
		return Rejected
	}
	if s.LocateWeapon(c) >= 0 {
		return AlreadyPresent
	}
	s.entries = append(s.entries, Entry{Class: c, Position: position})
	return Added
}

// AddWeaponByName resolves name and adds it.
func (s *Slot) AddWeaponByName(r Resolver, name string) AddResult {
	return s.AddWeapon(r.Resolve(name))
}

// AddWeaponList adds every space-separated name in list in order, first
// emptying the slot when clear is set. Unresolvable names are skipped.
func (s *Slot) AddWeaponList(r Resolver, list string, clear bool) {
	if clear {
		s.Clear()
	}
	for _, name := range strings.Fields(list) {
		s.AddWeaponByName(r, name)
	}
}

// LocateWeapon returns the index of c in the slot, or -1.
func (s *Slot) LocateWeapon(c *weapon.Class) int {
	for i, e := range s.entries {
		if e.Class == c {
			return i
		}
	}
	return -1
}

// GetWeapon returns the weapon at index i, or nil when i is out of range.
func (s *Slot) GetWeapon(i int) *weapon.Class {
	if i < 0 || i >= len(s.entries) {
		return nil
	}
	return s.entries[i].Class
}

// Size returns the number of weapons in the slot.
func (s *Slot) Size() int {
	return len(s.entries)
}

// Clear empties the slot.
func (s *Slot) Clear() {
	s.entries = nil
}

// Entries returns a copy of the slot contents.
func (s *Slot) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Weapons returns the weapon types in slot order.
func (s *Slot) Weapons() []*weapon.Class {
	out := make([]*weapon.Class, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Class
	}
	return out
}

// Equal reports whether both slots hold the same types in the same order.
func (s *Slot) Equal(o *Slot) bool {
	if len(s.entries) != len(o.entries) {
		return false
	}
	for i := range s.entries {
		if s.entries[i].Class != o.entries[i].Class {
			return false
		}
	}
	return true
}

// SetInitialPositions spreads the current entries evenly over the 16-bit
// position range, preserving their order, so that entries appended later with
// declared priorities interleave with them under Sort.
//
// Postcondition: positions are strictly increasing in [0x80, 0xFF80].
func (s *Slot) SetInitialPositions() {
	size := int64(len(s.entries))
	if size == 1 {
		s.entries[0].Position = 0x8000
		return
	}
	for i := range s.entries {
		s.entries[i].Position = int32(int64(i)*0xFF00/(size-1) + 0x80)
	}
}

// Sort orders the entries by position with an insertion sort. Entries with
// equal positions keep their relative order.
func (s *Slot) Sort() {
	for i := 1; i < len(s.entries); i++ {
		e := s.entries[i]
		j := i - 1
		for ; j >= 0 && s.entries[j].Position > e.Position; j-- {
			s.entries[j+1] = s.entries[j]
		}
		s.entries[j+1] = e
	}
}

// matchesReady reports whether c is the ready weapon's type, or the normal
// form of a powered-up ready weapon.
func matchesReady(ready *inventory.Weapon, c *weapon.Class) bool {
	if ready.Class == c {
		return true
	}
	return ready.Flags.PoweredUp && ready.SisterWeapon != nil && ready.SisterWeapon.Class == c
}

// usable returns the player's instance of c if held and, when checkAmmo is
// set, able to fire in either mode.
func usable(p *inventory.Player, c *weapon.Class, checkAmmo bool) *inventory.Weapon {
	w := p.Actor.FindWeapon(c)
	if w == nil {
		return nil
	}
	if checkAmmo && !w.CheckAmmo(inventory.EitherFire, false, false, inventory.NoAmmoCount) {
		return nil
	}
	return w
}

// PickWeapon returns the weapon to select when the player presses this
// slot's key. From the ready weapon's entry it scans backward with
// wraparound for a held weapon; otherwise it takes the last held weapon in
// the slot. Later entries are conventionally stronger.
//
// Postcondition: falls back to the ready weapon, which may be nil.
func (s *Slot) PickWeapon(p *inventory.Player, checkAmmo bool) *inventory.Weapon {
	n := len(s.entries)
	if n == 0 {
		return p.ReadyWeapon
	}
	if ready := p.ReadyWeapon; ready != nil {
		for i := 0; i < n; i++ {
			if !matchesReady(ready, s.entries[i].Class) {
				continue
			}
			for j := (i - 1 + n) % n; j != i; j = (j - 1 + n) % n {
				if w := usable(p, s.entries[j].Class, checkAmmo); w != nil {
					return w
				}
			}
		}
	}
	for i := n - 1; i >= 0; i-- {
		if w := usable(p, s.entries[i].Class, checkAmmo); w != nil {
			return w
		}
	}
	return p.ReadyWeapon
}
