// Package main provides the arsenal binary: it loads weapon content, joins
// one player, applies the local slot configuration, and prints the
// resulting slot settings. Remaining arguments run as console lines.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/arsenal/internal/config"
	"github.com/cory-johannsen/arsenal/internal/game/ruleset"
	"github.com/cory-johannsen/arsenal/internal/game/session"
	"github.com/cory-johannsen/arsenal/internal/game/slots"
	"github.com/cory-johannsen/arsenal/internal/game/weapon"
	"github.com/cory-johannsen/arsenal/internal/observability"
	"github.com/cory-johannsen/arsenal/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	className := flag.String("class", "DoomPlayer", "player class to set up")
	demoOut := flag.String("demo-out", "", "write the weapon index table demo chunk to this file; empty = skip")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	rules, err := ruleset.FromConfig(cfg.Ruleset)
	if err != nil {
		logger.Fatal("building ruleset", zap.Error(err))
	}

	contentStart := time.Now()
	reg, err := weapon.LoadContent(cfg.Content)
	if err != nil {
		logger.Fatal("loading content", zap.Error(err))
	}
	logger.Info("content loaded",
		zap.Int("weapons", len(reg.Classes())),
		zap.Duration("elapsed", time.Since(contentStart)),
	)

	m := session.NewMatch(reg, rules, observability.Component(logger, "session"))
	defer m.Close()
	m.SetWeaponSection(cfg.Slots.WeaponSection)
	m.SetUserConfigPath(cfg.Slots.UserConfig)

	if cfg.Content.KeyConfScript != "" {
		if err := m.LoadKeyConf(cfg.Content.KeyConfScript, os.Stdout); err != nil {
			logger.Fatal("loading configuration script", zap.Error(err))
		}
	}

	ps, err := m.AddPlayer(*className)
	if err != nil {
		logger.Fatal("adding player", zap.Error(err))
	}

	src, err := sectionSource(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("loading user slot sections", zap.Error(err))
	}
	if err := m.LocalSetup(ps.Number, src); err != nil {
		logger.Fatal("applying local slot setup", zap.Error(err))
	}
	if err := m.RunTic(); err != nil {
		logger.Error("applying slot commands", zap.Error(err))
	}

	for _, line := range flag.Args() {
		if err := m.Execute(ps.Number, line, os.Stdout); err != nil {
			logger.Error("console command failed", zap.String("line", line), zap.Error(err))
			continue
		}
		if err := m.RunTic(); err != nil {
			logger.Error("applying slot commands", zap.Error(err))
		}
	}

	if err := ps.Slots.PrintSettings(os.Stdout); err != nil {
		logger.Fatal("printing slot settings", zap.Error(err))
	}

	if *demoOut != "" {
		if err := writeDemoChunk(m, *demoOut); err != nil {
			logger.Fatal("writing demo chunk", zap.Error(err))
		}
		logger.Info("demo chunk written", zap.String("path", *demoOut), zap.Int("weapons", m.Table().Len()))
	}

	logger.Info("slot setup complete",
		zap.String("class", ps.Class.Name),
		zap.Duration("elapsed", time.Since(start)),
	)
}

// sectionSource opens the configured store of user slot sections. A
// missing file store yields no source.
func sectionSource(ctx context.Context, cfg config.Config, logger *zap.Logger) (slots.SectionSource, error) {
	switch cfg.Slots.Store {
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		defer pool.Close()
		return pool.SlotSections().Load(ctx)
	default:
		if cfg.Slots.UserConfig == "" {
			return nil, nil
		}
		if _, err := os.Stat(cfg.Slots.UserConfig); os.IsNotExist(err) {
			logger.Info("no user slot config", zap.String("path", cfg.Slots.UserConfig))
			return nil, nil
		}
		return config.LoadUserSlots(cfg.Slots.UserConfig)
	}
}

func writeDemoChunk(m *session.Match, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := m.Table().WriteDemoChunk(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
