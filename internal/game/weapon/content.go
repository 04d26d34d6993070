package weapon

import (
	"fmt"

	"github.com/cory-johannsen/arsenal/internal/config"
)

// LoadContent builds a Registry from the configured content locations.
// ClassesDir and GameInfoFile are optional.
//
// Precondition: cfg.WeaponsDir names a readable directory.
// Postcondition: returns a fully linked Registry or the first load error.
func LoadContent(cfg config.ContentConfig) (*Registry, error) {
	defs, err := LoadDefs(cfg.WeaponsDir)
	if err != nil {
		return nil, err
	}
	reg := NewRegistry()
	if err := reg.Load(defs); err != nil {
		return nil, fmt.Errorf("LoadContent: %w", err)
	}

	if cfg.ClassesDir != "" {
		classes, err := LoadPlayerClasses(cfg.ClassesDir)
		if err != nil {
			return nil, err
		}
		for _, p := range classes {
			if err := reg.RegisterPlayerClass(p); err != nil {
				return nil, fmt.Errorf("LoadContent: %w", err)
			}
		}
	}

	if cfg.GameInfoFile != "" {
		g, err := LoadGameInfo(cfg.GameInfoFile)
		if err != nil {
			return nil, err
		}
		reg.SetGameInfo(g)
	}
	return reg, nil
}
