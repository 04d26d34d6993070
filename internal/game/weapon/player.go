package weapon

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// NumSlots is the number of weapon slots a player class or game info may fill.
const NumSlots = 10

// PlayerClass is the static slot layout of a player class. Slots maps a slot
// number to a space-delimited weapon list.
type PlayerClass struct {
	Name  string         `yaml:"name"`
	Slots map[int]string `yaml:"slots"`
}

// Slot returns the weapon list the class declares for slot i, or "".
func (p *PlayerClass) Slot(i int) string {
	return p.Slots[i]
}

// Validate checks that every slot key is in range.
func (p *PlayerClass) Validate() error {
	var errs []string
	if p.Name == "" {
		errs = append(errs, "Name must not be empty")
	}
	for i := range p.Slots {
		if i < 0 || i >= NumSlots {
			errs = append(errs, fmt.Sprintf("slot %d out of range [0, %d)", i, NumSlots))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("player class validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// GameInfo holds the game-wide per-slot default weapon names used when a
// player class and the auto-slot pass leave every slot empty.
type GameInfo struct {
	DefaultWeaponSlots [NumSlots][]string
}

// gameInfoFile is the YAML form of GameInfo.
type gameInfoFile struct {
	DefaultWeaponSlots map[int][]string `yaml:"default_weapon_slots"`
}

// LoadPlayerClasses reads all *.yaml files in dir as PlayerClass documents.
//
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid classes in file order or the first error.
func LoadPlayerClasses(dir string) ([]*PlayerClass, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadPlayerClasses: cannot read directory %q: %w", dir, err)
	}

	var classes []*PlayerClass
	for _, entry := range entries {
		if entry.IsDir() || (filepath.Ext(entry.Name()) != ".yaml" && filepath.Ext(entry.Name()) != ".yml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("LoadPlayerClasses: cannot read file %q: %w", path, err)
		}
		var p PlayerClass
		if err := yaml.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("LoadPlayerClasses: cannot parse file %q: %w", path, err)
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("LoadPlayerClasses: invalid class in %q: %w", path, err)
		}
		classes = append(classes, &p)
	}
	return classes, nil
}

// LoadGameInfo reads the game info file at path.
//
// Postcondition: returns an error if a slot key is out of range.
func LoadGameInfo(path string) (*GameInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadGameInfo: cannot read file %q: %w", path, err)
	}
	var f gameInfoFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("LoadGameInfo: cannot parse file %q: %w", path, err)
	}
	g := &GameInfo{}
	for i, names := range f.DefaultWeaponSlots {
		if i < 0 || i >= NumSlots {
			return nil, fmt.Errorf("LoadGameInfo: slot %d out of range in %q", i, path)
		}
		g.DefaultWeaponSlots[i] = names
	}
	return g, nil
}
