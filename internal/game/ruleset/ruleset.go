// Package ruleset describes the game-mode flags, skill settings, and game
// filters that the weapon engine consults on every pickup and shot.
package ruleset

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/arsenal/internal/config"
)

// Game is a bitmask of games. A weapon's game filter uses the same mask;
// GameAny (zero) marks a weapon valid for every game.
type Game uint32

const (
	// GameAny is the filter of a weapon valid in every game.
	GameAny Game = 0
	// GameDoom is Doom and its derivatives.
	GameDoom Game = 1 << (iota - 1)
	// GameHeretic is Heretic.
	GameHeretic
	// GameHexen is Hexen.
	GameHexen
	// GameStrife is Strife.
	GameStrife
	// GameChex is Chex Quest.
	GameChex
)

// GameDoomChex groups the games whose deathmatch pickups carry the classic 5/2 ammo bonus.
const GameDoomChex = GameDoom | GameChex

var gameNames = map[string]Game{
	"any":     GameAny,
	"doom":    GameDoom,
	"heretic": GameHeretic,
	"hexen":   GameHexen,
	"strife":  GameStrife,
	"chex":    GameChex,
}

// ParseGame maps a game name to its mask. Matching is case-insensitive.
//
// Postcondition: Returns the mask or an error naming the unknown game.
func ParseGame(name string) (Game, error) {
	g, ok := gameNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("ruleset: unknown game %q", name)
	}
	return g, nil
}

// ParseGameFilter ORs together the masks of names. An empty list is GameAny.
func ParseGameFilter(names []string) (Game, error) {
	var filter Game
	for _, n := range names {
		g, err := ParseGame(n)
		if err != nil {
			return 0, err
		}
		filter |= g
	}
	return filter, nil
}

// String returns the names of the games in g joined by '|'.
func (g Game) String() string {
	if g == GameAny {
		return "any"
	}
	var parts []string
	for _, n := range []string{"doom", "heretic", "hexen", "strife", "chex"} {
		if g&gameNames[n] != 0 {
			parts = append(parts, n)
		}
	}
	return strings.Join(parts, "|")
}

// Allows reports whether a weapon with the given filter is valid in game g.
func (g Game) Allows(filter Game) bool {
	return filter == GameAny || filter&g != 0
}

// DefaultAmmoFactors are the per-skill ammo pickup multipliers: extra ammo
// in baby and nightmare modes.
var DefaultAmmoFactors = [5]float64{2, 1, 1, 1, 2}

// Rules is the active ruleset of a match.
type Rules struct {
	Game               Game
	Deathmatch         bool
	Multiplayer        bool
	InfiniteAmmo       bool
	WeaponsStay        bool
	AlwaysApplyDMFlags bool
	UnlimitedPickup    bool
	Skill              int

	ammoFactors [5]float64
}

// New returns single-player rules for game at the default skill.
//
// Postcondition: AmmoFactor() uses DefaultAmmoFactors.
func New(game Game) *Rules {
	return &Rules{Game: game, Skill: 2, ammoFactors: DefaultAmmoFactors}
}

// FromConfig builds Rules from the ruleset configuration section.
//
// Precondition: cfg has passed config.Config.Validate.
// Postcondition: Returns Rules or an error for an unknown game.
func FromConfig(cfg config.RulesetConfig) (*Rules, error) {
	game, err := ParseGame(cfg.Game)
	if err != nil {
		return nil, err
	}
	if game == GameAny {
		return nil, fmt.Errorf("ruleset: the active game must name a concrete game")
	}
	r := New(game)
	r.Deathmatch = cfg.Deathmatch
	r.Multiplayer = cfg.Multiplayer || cfg.Deathmatch
	r.InfiniteAmmo = cfg.InfiniteAmmo
	r.WeaponsStay = cfg.WeaponsStay
	r.AlwaysApplyDMFlags = cfg.AlwaysApplyDMFlags
	r.UnlimitedPickup = cfg.UnlimitedPickup
	r.Skill = cfg.Skill
	if len(cfg.AmmoFactors) == len(r.ammoFactors) {
		copy(r.ammoFactors[:], cfg.AmmoFactors)
	}
	return r, nil
}

// SetAmmoFactor overrides the pickup multiplier of one skill level.
//
// Precondition: skill in [0, 4].
func (r *Rules) SetAmmoFactor(skill int, factor float64) {
	r.ammoFactors[skill] = factor
}

// AmmoFactor returns the ammo pickup multiplier of the current skill.
func (r *Rules) AmmoFactor() float64 {
	if r.Skill < 0 || r.Skill >= len(r.ammoFactors) {
		return 1
	}
	return r.ammoFactors[r.Skill]
}

// ClassicDeathmatch reports whether weapon pickups grant the 5/2 deathmatch ammo bonus.
func (r *Rules) ClassicDeathmatch() bool {
	return r.Deathmatch && r.Game&GameDoomChex != 0
}

// WeaponsStayApply reports whether picked-up weapons stay behind for other
// players: cooperative netplay, or the weapons stay dmflag.
func (r *Rules) WeaponsStayApply() bool {
	coop := r.Multiplayer && !r.Deathmatch && !r.AlwaysApplyDMFlags
	return coop || r.WeaponsStay
}
