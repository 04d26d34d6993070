package slots

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/cory-johannsen/arsenal/internal/game/inventory"
	"github.com/cory-johannsen/arsenal/internal/game/ruleset"
	"github.com/cory-johannsen/arsenal/internal/game/weapon"
	"github.com/cory-johannsen/arsenal/internal/netcode"
)

// DefaultResult is the outcome of AddDefaultWeapon.
type DefaultResult int

const (
	DefaultAdded DefaultResult = iota
	// DefaultExists means the weapon is already in some slot of the set.
	DefaultExists
	// DefaultFull means the weapon could not be placed in the slot.
	DefaultFull
)

// Set is a player's full slot layout.
//
// Invariant: a weapon type appears in at most one slot.
type Set struct {
	slots    [NumSlots]Slot
	resolver Resolver
}

// NewSet returns an empty set resolving names against reg.
//
// Precondition: reg must not be nil.
func NewSet(reg *weapon.Registry, logger *zap.Logger) *Set {
	if reg == nil {
		panic("slots: NewSet: reg must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Set{resolver: Resolver{Registry: reg, Logger: logger}}
}

// Resolver returns the name resolver of the set.
func (s *Set) Resolver() Resolver {
	return s.resolver
}

// Slot returns slot i, or nil when i is out of range.
func (s *Set) Slot(i int) *Slot {
	if i < 0 || i >= NumSlots {
		return nil
	}
	return &s.slots[i]
}

// Clear empties every slot.
func (s *Set) Clear() {
	for i := range s.slots {
		s.slots[i].Clear()
	}
}

// Clone returns a deep copy of s sharing its resolver.
func (s *Set) Clone() *Set {
	c := &Set{resolver: s.resolver}
	for i := range s.slots {
		c.slots[i].entries = s.slots[i].Entries()
	}
	return c
}

// Empty reports whether every slot is empty.
func (s *Set) Empty() bool {
	for i := range s.slots {
		if s.slots[i].Size() > 0 {
			return false
		}
	}
	return true
}

// LocateWeapon returns the slot and index holding c.
//
// Postcondition: ok is false iff c is in no slot.
func (s *Set) LocateWeapon(c *weapon.Class) (slot, index int, ok bool) {
	for i := range s.slots {
		if j := s.slots[i].LocateWeapon(c); j >= 0 {
			return i, j, true
		}
	}
	return 0, 0, false
}

// FindMostRecentWeapon locates the weapon a switch is heading to, else the
// ready weapon, else the normal form of a powered-up ready weapon.
func (s *Set) FindMostRecentWeapon(p *inventory.Player) (slot, index int, ok bool) {
	if p.PendingWeapon != nil {
		return s.LocateWeapon(p.PendingWeapon.Class)
	}
	ready := p.ReadyWeapon
	if ready == nil {
		return 0, 0, false
	}
	if slot, index, ok = s.LocateWeapon(ready.Class); ok {
		return slot, index, true
	}
	if ready.Flags.PoweredUp && ready.Class.SisterType != nil {
		return s.LocateWeapon(ready.Class.SisterType)
	}
	return 0, 0, false
}

func eitherFire(p *inventory.Player, c *weapon.Class) *inventory.Weapon {
	return usable(p, c, true)
}

// PickNextWeapon steps forward from the most recent weapon through the
// slots, wrapping from the last slot to the first, and returns the first
// held weapon with ammo for either fire mode.
//
// Postcondition: falls back to the ready weapon after every slot has been
// passed without success.
func (s *Set) PickNextWeapon(p *inventory.Player) *inventory.Weapon {
	startSlot, startIndex, ok := s.FindMostRecentWeapon(p)
	if p.ReadyWeapon != nil && !ok {
		return p.ReadyWeapon
	}
	if p.ReadyWeapon == nil {
		startSlot = NumSlots - 1
		startIndex = s.slots[startSlot].Size() - 1
	}

	slot, index := startSlot, startIndex
	checked := 0
	for {
		index++
		if index >= s.slots[slot].Size() {
			index = 0
			checked++
			slot = (slot + 1) % NumSlots
		}
		if w := eitherFire(p, s.slots[slot].GetWeapon(index)); w != nil {
			return w
		}
		if (slot == startSlot && index == startIndex) || checked > NumSlots {
			break
		}
	}
	return p.ReadyWeapon
}

// PickPrevWeapon is PickNextWeapon stepping backward.
func (s *Set) PickPrevWeapon(p *inventory.Player) *inventory.Weapon {
	startSlot, startIndex, ok := s.FindMostRecentWeapon(p)
	if p.ReadyWeapon != nil && !ok {
		return p.ReadyWeapon
	}
	if p.ReadyWeapon == nil {
		startSlot, startIndex = 0, 0
	}

	slot, index := startSlot, startIndex
	checked := 0
	for {
		index--
		if index < 0 {
			checked++
			slot = (slot - 1 + NumSlots) % NumSlots
			index = s.slots[slot].Size() - 1
		}
		if w := eitherFire(p, s.slots[slot].GetWeapon(index)); w != nil {
			return w
		}
		if (slot == startSlot && index == startIndex) || checked > NumSlots {
			break
		}
	}
	return p.ReadyWeapon
}

// PickSlot returns the weapon to select for the key of slot.
func (s *Set) PickSlot(p *inventory.Player, slot int, checkAmmo bool) *inventory.Weapon {
	sl := s.Slot(slot)
	if sl == nil {
		return p.ReadyWeapon
	}
	return sl.PickWeapon(p, checkAmmo)
}

// AddDefaultWeapon adds c to slot only if no slot of the set holds it.
func (s *Set) AddDefaultWeapon(slot int, c *weapon.Class) DefaultResult {
	if _, _, ok := s.LocateWeapon(c); ok {
		return DefaultExists
	}
	sl := s.Slot(slot)
	if sl == nil || !sl.AddWeapon(c).OK() {
		return DefaultFull
	}
	return DefaultAdded
}

// AddSlot appends c to slot, logging a failure when feedback is set.
// A nil c is ignored.
func (s *Set) AddSlot(slot int, c *weapon.Class, feedback bool) {
	if c == nil {
		return
	}
	sl := s.Slot(slot)
	if (sl == nil || !sl.AddWeapon(c).OK()) && feedback {
		s.resolver.Logger.Info("could not add weapon to slot",
			zap.String("weapon", c.Name),
			zap.Int("slot", slot),
		)
	}
}

// AddSlotDefault adds c to slot unless it is already slotted, logging a
// failure when feedback is set. A nil c is ignored.
func (s *Set) AddSlotDefault(slot int, c *weapon.Class, feedback bool) {
	if c == nil {
		return
	}
	if s.AddDefaultWeapon(slot, c) == DefaultFull && feedback {
		s.resolver.Logger.Info("could not add weapon to slot",
			zap.String("weapon", c.Name),
			zap.Int("slot", slot),
		)
	}
}

// SetSlot replaces the contents of slot with classes. Nil entries are skipped.
func (s *Set) SetSlot(slot int, classes []*weapon.Class, feedback bool) {
	if sl := s.Slot(slot); sl != nil {
		sl.Clear()
	}
	for _, c := range classes {
		s.AddSlot(slot, c, feedback)
	}
}

// SetFromPlayer replaces the set with the slot lists of a player class.
func (s *Set) SetFromPlayer(pc *weapon.PlayerClass) {
	s.Clear()
	for i := range s.slots {
		if list := pc.Slot(i); list != "" {
			s.slots[i].AddWeaponList(s.resolver, list, false)
		}
	}
}

// AddExtraWeapons slots every weapon of the game that declares a home slot
// and is not yet slotted. Replaced and powered-up types are skipped. Existing
// entries are spread over the position range first, so new weapons land
// between them according to their declared priority.
func (s *Set) AddExtraWeapons(game ruleset.Game) {
	for i := range s.slots {
		s.slots[i].SetInitialPositions()
	}
	for _, c := range s.resolver.Registry.Classes() {
		if !c.ValidForGame(game) || c.Replacement != nil || c.Flags.PoweredUp {
			continue
		}
		if _, _, ok := s.LocateWeapon(c); ok {
			continue
		}
		if c.SlotNumber < 0 || c.SlotNumber >= NumSlots {
			continue
		}
		s.slots[c.SlotNumber].AddWeaponAt(c, c.SlotPriority)
	}
	for i := range s.slots {
		s.slots[i].Sort()
	}
}

// SetFromGameInfo fills the set from the game-wide defaults, but only when
// every slot is empty. Unknown names are logged and skipped.
func (s *Set) SetFromGameInfo(g *weapon.GameInfo) {
	if !s.Empty() {
		return
	}
	for i, names := range g.DefaultWeaponSlots {
		for _, name := range names {
			c := s.resolver.Registry.Class(name)
			if c == nil {
				s.resolver.Logger.Warn("unknown weapon class in default weapon slot assignments",
					zap.String("weapon", name),
					zap.Int("slot", i),
				)
				continue
			}
			s.slots[i].AddWeapon(c)
		}
	}
}

// StandardSetup builds the set every peer agrees on: the player class
// layout, then auto-slotted extras, then the game defaults if still empty.
func (s *Set) StandardSetup(pc *weapon.PlayerClass, game ruleset.Game) {
	s.SetFromPlayer(pc)
	s.AddExtraWeapons(game)
	s.SetFromGameInfo(s.resolver.Registry.GameInfo())
}

// SectionSource provides named sections of user slot lists keyed by slot number.
type SectionSource interface {
	Section(name string) (map[int]string, bool)
}

// Playback replays recorded configuration commands onto a set.
type Playback interface {
	Playback(s *Set)
}

// RestoreSlots replaces every slot listed in the section with its list.
//
// Postcondition: returns the number of slots read; 0 if the section is missing.
func (s *Set) RestoreSlots(src SectionSource, section string) int {
	lists, ok := src.Section(section)
	if !ok {
		return 0
	}
	read := 0
	for i := range s.slots {
		list, ok := lists[i]
		if !ok {
			continue
		}
		s.slots[i].AddWeaponList(s.resolver, list, true)
		read++
	}
	return read
}

// LocalSetup applies the local player's own configuration on top of the
// standard setup: recorded configuration commands, then the user section
// for "<weaponSection>.<className>" falling back to "<weaponSection>", or
// "<className>" when no weapon section is set.
func (s *Set) LocalSetup(pb Playback, src SectionSource, weaponSection, className string) {
	if pb != nil {
		pb.Playback(s)
	}
	if src == nil {
		return
	}
	if weaponSection != "" {
		if s.RestoreSlots(src, weaponSection+"."+className) == 0 {
			s.RestoreSlots(src, weaponSection)
		}
		return
	}
	s.RestoreSlots(src, className)
}

// PrintSettings writes one "Slot[N]=" line per non-empty slot, slot 1
// first and slot 0 last.
func (s *Set) PrintSettings(w io.Writer) error {
	for i := 1; i <= NumSlots; i++ {
		slot := i % NumSlots
		if s.slots[slot].Size() == 0 {
			continue
		}
		line := fmt.Sprintf("Slot[%d]=", slot)
		for _, c := range s.slots[slot].Weapons() {
			line += c.Name + " "
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// SendDifferences writes a set-slot command for each slot, in ascending
// order, whose contents differ from other. player is the target player
// number, or -1 for the sender.
func (s *Set) SendDifferences(w *netcode.Writer, player int, other *Set) {
	for i := range s.slots {
		if s.slots[i].Equal(&other.slots[i]) {
			continue
		}
		w.WriteSetSlot(player, i, s.slots[i].Weapons())
	}
}
