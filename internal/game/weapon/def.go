package weapon

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/arsenal/internal/game/ruleset"
)

// Kind constants for Def.Kind.
const (
	KindWeapon = "weapon"
	KindAmmo   = "ammo"
)

// Def is the YAML form of a weapon or ammo type. A file may hold several
// documents separated by "---".
type Def struct {
	Kind        string   `yaml:"kind"`
	Name        string   `yaml:"name"`
	Games       []string `yaml:"games"`
	Slot        *int     `yaml:"slot"`
	Priority    *int32   `yaml:"priority"`
	AmmoType1   string   `yaml:"ammo_type1"`
	AmmoType2   string   `yaml:"ammo_type2"`
	AmmoUse1    int      `yaml:"ammo_use1"`
	AmmoUse2    int      `yaml:"ammo_use2"`
	AmmoGive1   int      `yaml:"ammo_give1"`
	AmmoGive2   int      `yaml:"ammo_give2"`
	Sister      string   `yaml:"sister"`
	ReplacedBy  string   `yaml:"replaced_by"`
	Flags       []string `yaml:"flags"`
	IgnoreSkill bool     `yaml:"ignore_skill"`
	States      []string `yaml:"states"`
	MaxAmount   int      `yaml:"max_amount"`
}

// kind returns d.Kind, defaulting to KindWeapon.
func (d *Def) kind() string {
	if d.Kind == "" {
		return KindWeapon
	}
	return d.Kind
}

// Validate checks that the Def satisfies its invariants, including the
// rule that a weapon defining any core state defines all of them.
//
// Precondition: d is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (d *Def) Validate() error {
	var errs []error
	if d.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	switch d.kind() {
	case KindAmmo:
		if d.MaxAmount < 0 {
			errs = append(errs, errors.New("MaxAmount must be >= 0"))
		}
	case KindWeapon:
		if d.AmmoUse1 < 0 || d.AmmoUse2 < 0 {
			errs = append(errs, errors.New("ammo use must be >= 0"))
		}
		if d.AmmoGive1 < 0 || d.AmmoGive2 < 0 {
			errs = append(errs, errors.New("ammo give must be >= 0"))
		}
		if _, err := ParseFlags(d.Flags); err != nil {
			errs = append(errs, err)
		}
		if _, err := ruleset.ParseGameFilter(d.Games); err != nil {
			errs = append(errs, err)
		}
		c := NewClass(d.Name, d.States...)
		if err := c.CheckStates(); err != nil {
			errs = append(errs, err)
		}
	default:
		errs = append(errs, fmt.Errorf("Kind must be one of weapon, ammo; got %q", d.Kind))
	}
	if len(errs) > 0 {
		return fmt.Errorf("weapon validation failed: %v", errs)
	}
	return nil
}

// LoadDefs reads all *.yaml and *.yml files from dir in lexicographic order,
// parses every document in each as a Def, validates it, and returns the
// collected slice in file and document order.
//
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid Defs or the first encountered error.
func LoadDefs(dir string) ([]*Def, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadDefs: cannot read directory %q: %w", dir, err)
	}

	var defs []*Def
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		fileDefs, err := decodeDefs(path)
		if err != nil {
			return nil, err
		}
		defs = append(defs, fileDefs...)
	}
	return defs, nil
}

func decodeDefs(path string) ([]*Def, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("LoadDefs: cannot read file %q: %w", path, err)
	}
	defer f.Close()

	var defs []*Def
	dec := yaml.NewDecoder(f)
	for {
		var d Def
		err := dec.Decode(&d)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("LoadDefs: cannot parse file %q: %w", path, err)
		}
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("LoadDefs: invalid definition in %q: %w", path, err)
		}
		defs = append(defs, &d)
	}
	return defs, nil
}

// LoadWeapons returns the weapon definitions of dir.
func LoadWeapons(dir string) ([]*Def, error) {
	return loadKind(dir, KindWeapon)
}

// LoadAmmo returns the ammo definitions of dir. Ammo and weapons may share
// a directory.
func LoadAmmo(dir string) ([]*Def, error) {
	return loadKind(dir, KindAmmo)
}

func loadKind(dir, kind string) ([]*Def, error) {
	defs, err := LoadDefs(dir)
	if err != nil {
		return nil, err
	}
	out := defs[:0]
	for _, d := range defs {
		if d.kind() == kind {
			out = append(out, d)
		}
	}
	return out, nil
}
