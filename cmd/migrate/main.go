package main

import (
	"errors"
	"flag"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/ogurasousui/codex-grpc-team-scope/internal/platform/config"
	"github.com/ogurasousui/codex-grpc-team-scope/internal/platform/logging"
	"github.com/sirupsen/logrus"
)

func main() {
	var (
		configPath    = flag.String("config", "", "path to config file (defaults to CONFIG_PATH env or assets/local.yaml)")
		migrationsDir = flag.String("dir", "assets/migrations", "directory containing migration files")
	)
	flag.Parse()

	action := "up"
	if flag.NArg() > 0 {
		action = flag.Arg(0)
	}

	if err := config.LoadEnv(); err != nil {
		logrus.Fatalf("failed to load .env: %v", err)
	}

	cfg, err := config.Load(config.ResolvePath(*configPath))
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Log, nil)
	if err != nil {
		logrus.Fatalf("failed to build logger: %v", err)
	}
	entry := logger.WithFields(logrus.Fields{"component": "migrate", "action": action})

	if err := runMigration(entry, action, flag.Args(), *migrationsDir, cfg.Database.DSN()); err != nil {
		entry.WithError(err).Fatal("migration failed")
	}

	entry.Info("migration completed")
}

func runMigration(logger *logrus.Entry, action string, args []string, dir, dsn string) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve path for %s: %w", dir, err)
	}
	absDir = filepath.ToSlash(absDir)

	m, err := migrate.New(fmt.Sprintf("file://%s", absDir), dsn)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	switch action {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		return nil
	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		return nil
	case "steps":
		if len(args) < 2 {
			return fmt.Errorf("steps requires a count")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid step count %q: %w", args[1], err)
		}
		if err := m.Steps(n); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		return nil
	case "drop":
		return m.Drop()
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			if errors.Is(err, migrate.ErrNilVersion) {
				logger.Info("no migration applied")
				return nil
			}
			return err
		}
		logger.WithFields(logrus.Fields{"version": version, "dirty": dirty}).Info("current migration version")
		return nil
	default:
		return fmt.Errorf("unsupported action %q", action)
	}
}
