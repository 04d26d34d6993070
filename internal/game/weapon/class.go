// Package weapon holds the static weapon and ammo type descriptors, the
// registry that indexes them, and the YAML loaders that build it.
package weapon

import (
	"fmt"
	"math"
	"strings"

	"github.com/cory-johannsen/arsenal/internal/game/ruleset"
)

// NoSlot is the SlotNumber of a weapon that does not declare a home slot.
const NoSlot = -1

// NoPriority is the SlotPriority of a weapon that does not declare one; such
// weapons sort after every positioned entry in their slot.
const NoPriority = math.MaxInt32

// State names a weapon type must define as a group.
const (
	StateReady    = "ready"
	StateSelect   = "select"
	StateDeselect = "deselect"
	StateFire     = "fire"
	StateAltFire  = "altfire"
	StateHold     = "hold"
	StateAltHold  = "althold"
)

// AmmoClass is the static descriptor of an ammo type.
type AmmoClass struct {
	// Name is the registry-unique type name.
	Name string
	// MaxAmount caps a pool of this ammo.
	MaxAmount int
}

// Flags is the set of per-weapon ammo and selection capabilities.
type Flags struct {
	// AmmoOptional lets primary fire proceed without ammo unless ammo is required.
	AmmoOptional bool
	// AltAmmoOptional is AmmoOptional for alt fire.
	AltAmmoOptional bool
	// PrimaryUsesBoth makes primary fire consume both pools.
	PrimaryUsesBoth bool
	// AltUsesBoth makes alt fire consume both pools.
	AltUsesBoth bool
	// AmmoCheckBoth accepts either pool being sufficient.
	AmmoCheckBoth bool
	// DehackedAmmo lets callers pass an explicit primary ammo count.
	DehackedAmmo bool
	// PoweredUp marks the powered-up variant of a sister pair.
	PoweredUp bool
	// NoAutoSwitch keeps the holder from switching to this weapon on pickup.
	NoAutoSwitch bool
}

// Optional reports whether the given fire mode may fire without ammo.
func (f Flags) Optional(alt bool) bool {
	if alt {
		return f.AltAmmoOptional
	}
	return f.AmmoOptional
}

// UsesBoth reports whether the given fire mode consumes both ammo pools.
func (f Flags) UsesBoth(alt bool) bool {
	if alt {
		return f.AltUsesBoth
	}
	return f.PrimaryUsesBoth
}

// flagSetters maps YAML flag names onto Flags fields.
var flagSetters = map[string]func(*Flags){
	"ammo_optional":     func(f *Flags) { f.AmmoOptional = true },
	"alt_ammo_optional": func(f *Flags) { f.AltAmmoOptional = true },
	"primary_uses_both": func(f *Flags) { f.PrimaryUsesBoth = true },
	"alt_uses_both":     func(f *Flags) { f.AltUsesBoth = true },
	"ammo_check_both":   func(f *Flags) { f.AmmoCheckBoth = true },
	"deh_ammo":          func(f *Flags) { f.DehackedAmmo = true },
	"powered_up":        func(f *Flags) { f.PoweredUp = true },
	"no_auto_switch":    func(f *Flags) { f.NoAutoSwitch = true },
}

// ParseFlags builds a Flags set from flag names.
//
// Postcondition: Returns an error naming the first unknown flag.
func ParseFlags(names []string) (Flags, error) {
	var f Flags
	for _, n := range names {
		set, ok := flagSetters[strings.ToLower(n)]
		if !ok {
			return Flags{}, fmt.Errorf("unknown weapon flag %q", n)
		}
		set(&f)
	}
	return f, nil
}

// Class is the static descriptor of one weapon type. Instances of the type
// live in an actor's inventory; see package inventory.
//
// Invariant: SisterType, when set, names the alternate form of this type.
// The registry does not force the link to be symmetric.
type Class struct {
	Name         string
	GameFilter   ruleset.Game
	SlotNumber   int
	SlotPriority int32
	Flags        Flags
	// IgnoreSkill exempts this weapon's ammo gifts from skill scaling.
	IgnoreSkill bool
	AmmoType1   *AmmoClass
	AmmoType2   *AmmoClass
	AmmoUse1    int
	AmmoUse2    int
	AmmoGive1   int
	AmmoGive2   int
	SisterType  *Class
	// Replacement is the class that replaces this one in the active game, if any.
	Replacement *Class
	// Behavior overrides the state selection of this type; nil uses DefaultBehavior.
	Behavior Behavior

	states map[string]bool
}

// NewClass returns a Class with no slot, no priority, and the given states.
//
// Postcondition: SlotNumber == NoSlot and SlotPriority == NoPriority.
func NewClass(name string, states ...string) *Class {
	c := &Class{
		Name:         name,
		SlotNumber:   NoSlot,
		SlotPriority: NoPriority,
	}
	c.SetStates(states...)
	return c
}

// SetStates replaces the state set of c.
func (c *Class) SetStates(states ...string) {
	c.states = make(map[string]bool, len(states))
	for _, s := range states {
		c.states[strings.ToLower(s)] = true
	}
}

// HasState reports whether c defines the named state.
func (c *Class) HasState(name string) bool {
	return c.states[strings.ToLower(name)]
}

// ValidForGame reports whether c may appear in game.
func (c *Class) ValidForGame(game ruleset.Game) bool {
	return game.Allows(c.GameFilter)
}

// CheckStates enforces the state contract the selection code relies on: a
// class that defines any of ready, select, deselect, or fire must define all
// four. A class with none of them is abstract and passes.
func (c *Class) CheckStates() error {
	core := []string{StateReady, StateSelect, StateDeselect, StateFire}
	if c.Abstract() {
		return nil
	}
	for _, s := range core {
		if !c.HasState(s) {
			return fmt.Errorf("weapon %s doesn't define a %s state", c.Name, s)
		}
	}
	return nil
}

// Abstract reports whether c defines none of the core states.
func (c *Class) Abstract() bool {
	return !c.HasState(StateReady) && !c.HasState(StateSelect) &&
		!c.HasState(StateDeselect) && !c.HasState(StateFire)
}

func (c *Class) behavior() Behavior {
	if c.Behavior == nil {
		return DefaultBehavior{}
	}
	return c.Behavior
}

// UpState returns the state entered when the weapon is raised.
func (c *Class) UpState() string { return c.behavior().UpState(c) }

// ReadyState returns the idle state of the weapon.
func (c *Class) ReadyState() string { return c.behavior().ReadyState(c) }

// AtkState returns the primary attack state.
func (c *Class) AtkState(hold bool) string { return c.behavior().AtkState(c, hold) }

// AltAtkState returns the alternate attack state.
func (c *Class) AltAtkState(hold bool) string { return c.behavior().AltAtkState(c, hold) }

// String returns the class name.
func (c *Class) String() string {
	if c == nil {
		return "<none>"
	}
	return c.Name
}

// Behavior is the overridable per-type state selection of a weapon class.
// An empty return means the class has no such state.
type Behavior interface {
	UpState(c *Class) string
	ReadyState(c *Class) string
	AtkState(c *Class, hold bool) string
	AltAtkState(c *Class, hold bool) string
}

// DefaultBehavior selects the conventionally named states.
type DefaultBehavior struct{}

func (DefaultBehavior) UpState(c *Class) string { return stateIf(c, StateSelect) }

func (DefaultBehavior) ReadyState(c *Class) string { return stateIf(c, StateReady) }

func (DefaultBehavior) AtkState(c *Class, hold bool) string {
	if hold && c.HasState(StateHold) {
		return StateHold
	}
	return stateIf(c, StateFire)
}

func (DefaultBehavior) AltAtkState(c *Class, hold bool) string {
	if hold && c.HasState(StateAltHold) {
		return StateAltHold
	}
	return stateIf(c, StateAltFire)
}

func stateIf(c *Class, name string) string {
	if c.HasState(name) {
		return name
	}
	return ""
}
