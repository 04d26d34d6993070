package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// NumWeaponSlots bounds the slot keys accepted in a weapons section.
const NumWeaponSlots = 10

// UserSlotConfig exposes the "<section>.weapons" tables of a user
// configuration file. Section and key lookups are case-insensitive.
//
// A section looks like:
//
//	doomplayer:
//	  weapons:
//	    slot1: "Fist Chainsaw"
//	    slot3: "Shotgun SuperShotgun"
type UserSlotConfig struct {
	v *viper.Viper
}

// LoadUserSlots reads the user slot configuration file at path.
//
// Precondition: path must name a readable YAML file.
// Postcondition: Returns a UserSlotConfig or a non-nil error.
func LoadUserSlots(path string) (*UserSlotConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading user slot config %q: %w", path, err)
	}
	return NewUserSlotConfig(v), nil
}

// NewUserSlotConfig wraps an already-populated Viper instance.
func NewUserSlotConfig(v *viper.Viper) *UserSlotConfig {
	return &UserSlotConfig{v: v}
}

// Section returns the slot lists stored under "<name>.weapons", keyed by slot
// number. Keys that are not slotN or slot[N] with N in [0, NumWeaponSlots)
// are ignored.
//
// Postcondition: ok is false iff the section does not exist.
func (u *UserSlotConfig) Section(name string) (map[int]string, bool) {
	key := strings.ToLower(name) + ".weapons"
	if !u.v.IsSet(key) {
		return nil, false
	}
	raw := u.v.GetStringMapString(key)
	out := make(map[int]string, len(raw))
	for k, list := range raw {
		slot, ok := ParseSlotKey(k)
		if !ok {
			continue
		}
		out[slot] = list
	}
	return out, true
}

// ParseSlotKey decodes a "slotN" or "slot[N]" key.
//
// Postcondition: ok is true iff key names a slot in [0, NumWeaponSlots).
func ParseSlotKey(key string) (int, bool) {
	k := strings.ToLower(strings.TrimSpace(key))
	if !strings.HasPrefix(k, "slot") {
		return 0, false
	}
	k = k[len("slot"):]
	if strings.HasPrefix(k, "[") {
		if !strings.HasSuffix(k, "]") {
			return 0, false
		}
		k = k[1 : len(k)-1]
	}
	if len(k) != 1 {
		return 0, false
	}
	n, err := strconv.Atoi(k)
	if err != nil || n < 0 || n >= NumWeaponSlots {
		return 0, false
	}
	return n, true
}
