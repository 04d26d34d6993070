// Package config provides Viper-based configuration loading for the arsenal
// weapon engine and its tools.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// RulesetConfig holds the game-mode flags the weapon engine consults.
type RulesetConfig struct {
	// Game names the active game: doom, heretic, hexen, strife, chex.
	Game string `mapstructure:"game"`
	// Deathmatch enables deathmatch rules.
	Deathmatch bool `mapstructure:"deathmatch"`
	// Multiplayer is true for any networked session.
	Multiplayer bool `mapstructure:"multiplayer"`
	// InfiniteAmmo mirrors the infinite ammo dmflag.
	InfiniteAmmo bool `mapstructure:"infinite_ammo"`
	// WeaponsStay mirrors the weapons stay dmflag.
	WeaponsStay bool `mapstructure:"weapons_stay"`
	// AlwaysApplyDMFlags applies dmflags outside deathmatch.
	AlwaysApplyDMFlags bool `mapstructure:"always_apply_dmflags"`
	// UnlimitedPickup lets ammo pickups exceed pool capacity.
	UnlimitedPickup bool `mapstructure:"unlimited_pickup"`
	// Skill is the skill level, 0 (baby) through 4 (nightmare).
	Skill int `mapstructure:"skill"`
	// AmmoFactors overrides the per-skill ammo pickup multiplier.
	AmmoFactors []float64 `mapstructure:"ammo_factors"`
}

// ContentConfig locates the YAML content the registry is built from.
type ContentConfig struct {
	// WeaponsDir holds weapon and ammo class definitions.
	WeaponsDir string `mapstructure:"weapons_dir"`
	// ClassesDir holds player class slot definitions.
	ClassesDir string `mapstructure:"classes_dir"`
	// GameInfoFile holds the game-wide default weapon slots.
	GameInfoFile string `mapstructure:"gameinfo_file"`
	// KeyConfScript is an optional Lua configuration script; empty disables it.
	KeyConfScript string `mapstructure:"keyconf_script"`
}

// SlotsConfig holds user slot override settings.
type SlotsConfig struct {
	// WeaponSection is the initial weapon section; empty means class name only.
	WeaponSection string `mapstructure:"weapon_section"`
	// Store selects where user slot sections come from: "file" or "postgres".
	Store string `mapstructure:"store"`
	// UserConfig is the path of the user slot sections file when Store is "file".
	UserConfig string `mapstructure:"user_config"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	Database DatabaseConfig `mapstructure:"database"`
	Ruleset  RulesetConfig  `mapstructure:"ruleset"`
	Content  ContentConfig  `mapstructure:"content"`
	Slots    SlotsConfig    `mapstructure:"slots"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateRuleset(c.Ruleset); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateContent(c.Content); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateSlots(c.Slots); err != nil {
		errs = append(errs, err.Error())
	}
	// The database is only consulted by the postgres slot store.
	if c.Slots.Store == "postgres" {
		if err := validateDatabase(c.Database); err != nil {
			errs = append(errs, err.Error())
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateRuleset(r RulesetConfig) error {
	var errs []string
	validGames := map[string]bool{"doom": true, "heretic": true, "hexen": true, "strife": true, "chex": true}
	if !validGames[strings.ToLower(r.Game)] {
		errs = append(errs, fmt.Sprintf("ruleset.game must be one of [doom, heretic, hexen, strife, chex], got %q", r.Game))
	}
	if r.Skill < 0 || r.Skill > 4 {
		errs = append(errs, fmt.Sprintf("ruleset.skill must be 0-4, got %d", r.Skill))
	}
	if len(r.AmmoFactors) != 0 && len(r.AmmoFactors) != 5 {
		errs = append(errs, fmt.Sprintf("ruleset.ammo_factors must list 5 values, got %d", len(r.AmmoFactors)))
	}
	for i, f := range r.AmmoFactors {
		if f < 0 {
			errs = append(errs, fmt.Sprintf("ruleset.ammo_factors[%d] must be >= 0, got %v", i, f))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateContent(c ContentConfig) error {
	if c.WeaponsDir == "" {
		return errors.New("content.weapons_dir must not be empty")
	}
	return nil
}

func validateSlots(s SlotsConfig) error {
	validStores := map[string]bool{"file": true, "postgres": true}
	if !validStores[s.Store] {
		return fmt.Errorf("slots.store must be one of [file, postgres], got %q", s.Store)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with ARSENAL_ prefix
	v.SetEnvPrefix("ARSENAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "arsenal")
	v.SetDefault("database.password", "arsenal")
	v.SetDefault("database.name", "arsenal")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 4)
	v.SetDefault("database.min_conns", 1)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("ruleset.game", "doom")
	v.SetDefault("ruleset.skill", 2)

	v.SetDefault("content.weapons_dir", "content/weapons")
	v.SetDefault("content.classes_dir", "content/classes")
	v.SetDefault("content.gameinfo_file", "content/gameinfo.yaml")

	v.SetDefault("slots.store", "file")
}
