package weapon

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/arsenal/internal/game/ruleset"
)

// Registry kinds reported by Registry.Kind.
const (
	KindPlayer = "player"
	KindNone   = ""
)

// Registry indexes every known weapon type, ammo type, and player class.
// Lookups are case-insensitive; Classes preserves registration order.
type Registry struct {
	classes  []*Class
	byName   map[string]*Class
	ammo     []*AmmoClass
	ammoName map[string]*AmmoClass
	players  map[string]*PlayerClass
	gameInfo *GameInfo
}

// NewRegistry returns an empty Registry.
//
// Postcondition: all internal maps are initialised and GameInfo() is empty.
func NewRegistry() *Registry {
	return &Registry{
		byName:   make(map[string]*Class),
		ammoName: make(map[string]*AmmoClass),
		players:  make(map[string]*PlayerClass),
		gameInfo: &GameInfo{},
	}
}

func key(name string) string {
	return strings.ToLower(name)
}

// RegisterWeapon adds c to the registry.
//
// Precondition:  c must not be nil.
// Postcondition: Class(c.Name) returns c; returns error if the name is taken.
func (r *Registry) RegisterWeapon(c *Class) error {
	if r.Kind(c.Name) != KindNone {
		return fmt.Errorf("weapon: Registry.RegisterWeapon: name %q already registered", c.Name)
	}
	r.classes = append(r.classes, c)
	r.byName[key(c.Name)] = c
	return nil
}

// RegisterAmmo adds a to the registry.
//
// Precondition:  a must not be nil.
// Postcondition: Ammo(a.Name) returns a; returns error if the name is taken.
func (r *Registry) RegisterAmmo(a *AmmoClass) error {
	if r.Kind(a.Name) != KindNone {
		return fmt.Errorf("weapon: Registry.RegisterAmmo: name %q already registered", a.Name)
	}
	r.ammo = append(r.ammo, a)
	r.ammoName[key(a.Name)] = a
	return nil
}

// RegisterPlayerClass adds p to the registry.
//
// Precondition:  p must not be nil.
// Postcondition: PlayerClass(p.Name) returns p; returns error if the name is taken.
func (r *Registry) RegisterPlayerClass(p *PlayerClass) error {
	if r.Kind(p.Name) != KindNone {
		return fmt.Errorf("weapon: Registry.RegisterPlayerClass: name %q already registered", p.Name)
	}
	r.players[key(p.Name)] = p
	return nil
}

// SetGameInfo replaces the game-wide default slot table.
func (r *Registry) SetGameInfo(g *GameInfo) {
	if g == nil {
		g = &GameInfo{}
	}
	r.gameInfo = g
}

// GameInfo returns the game-wide default slot table. Never nil.
func (r *Registry) GameInfo() *GameInfo {
	return r.gameInfo
}

// Class returns the weapon type with the given name, or nil.
func (r *Registry) Class(name string) *Class {
	return r.byName[key(name)]
}

// Ammo returns the ammo type with the given name, or nil.
func (r *Registry) Ammo(name string) *AmmoClass {
	return r.ammoName[key(name)]
}

// PlayerClass returns the player class with the given name and whether it exists.
func (r *Registry) PlayerClass(name string) (*PlayerClass, bool) {
	p, ok := r.players[key(name)]
	return p, ok
}

// Kind reports what a name refers to: KindWeapon, KindAmmo, KindPlayer, or
// KindNone when the name is unknown.
func (r *Registry) Kind(name string) string {
	k := key(name)
	switch {
	case r.byName[k] != nil:
		return KindWeapon
	case r.ammoName[k] != nil:
		return KindAmmo
	case r.players[k] != nil:
		return KindPlayer
	}
	return KindNone
}

// Classes returns all weapon types in registration order.
//
// Postcondition: the returned slice is a copy.
func (r *Registry) Classes() []*Class {
	out := make([]*Class, len(r.classes))
	copy(out, r.classes)
	return out
}

// AmmoClasses returns all ammo types in registration order.
func (r *Registry) AmmoClasses() []*AmmoClass {
	out := make([]*AmmoClass, len(r.ammo))
	copy(out, r.ammo)
	return out
}

// Load registers defs: ammo types first, then weapon types, then resolves
// the ammo, sister, and replacement references of every weapon.
//
// Postcondition: returns an error naming the first duplicate or dangling reference.
func (r *Registry) Load(defs []*Def) error {
	for _, d := range defs {
		if d.kind() != KindAmmo {
			continue
		}
		if err := r.RegisterAmmo(&AmmoClass{Name: d.Name, MaxAmount: d.MaxAmount}); err != nil {
			return err
		}
	}

	var weapons []*Def
	for _, d := range defs {
		if d.kind() != KindWeapon {
			continue
		}
		c, err := r.newClass(d)
		if err != nil {
			return err
		}
		if err := r.RegisterWeapon(c); err != nil {
			return err
		}
		weapons = append(weapons, d)
	}

	for _, d := range weapons {
		if err := r.link(d); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) newClass(d *Def) (*Class, error) {
	flags, err := ParseFlags(d.Flags)
	if err != nil {
		return nil, fmt.Errorf("weapon %s: %w", d.Name, err)
	}
	filter, err := ruleset.ParseGameFilter(d.Games)
	if err != nil {
		return nil, fmt.Errorf("weapon %s: %w", d.Name, err)
	}
	c := NewClass(d.Name, d.States...)
	c.GameFilter = filter
	c.Flags = flags
	c.IgnoreSkill = d.IgnoreSkill
	c.AmmoUse1, c.AmmoUse2 = d.AmmoUse1, d.AmmoUse2
	c.AmmoGive1, c.AmmoGive2 = d.AmmoGive1, d.AmmoGive2
	if d.Slot != nil {
		c.SlotNumber = *d.Slot
	}
	if d.Priority != nil {
		c.SlotPriority = *d.Priority
	}
	if d.AmmoType1 != "" {
		if c.AmmoType1 = r.Ammo(d.AmmoType1); c.AmmoType1 == nil {
			return nil, fmt.Errorf("weapon %s: unknown ammo type %q", d.Name, d.AmmoType1)
		}
	}
	if d.AmmoType2 != "" {
		if c.AmmoType2 = r.Ammo(d.AmmoType2); c.AmmoType2 == nil {
			return nil, fmt.Errorf("weapon %s: unknown ammo type %q", d.Name, d.AmmoType2)
		}
	}
	return c, nil
}

func (r *Registry) link(d *Def) error {
	c := r.Class(d.Name)
	if d.Sister != "" {
		if c.SisterType = r.Class(d.Sister); c.SisterType == nil {
			return fmt.Errorf("weapon %s: unknown sister weapon %q", d.Name, d.Sister)
		}
	}
	if d.ReplacedBy != "" {
		if c.Replacement = r.Class(d.ReplacedBy); c.Replacement == nil {
			return fmt.Errorf("weapon %s: unknown replacement %q", d.Name, d.ReplacedBy)
		}
	}
	return nil
}
