// Command migrate applies the embedded schema migrations.
//
//	migrate [-dsn url] up|down|version
//	migrate [-dsn url] steps N
//	migrate [-dsn url] force V
//
// Without -dsn the connection is resolved the same way the server resolves it:
// .env, config.toml, the STEWARD_ENV overlay, then STEWARD_DATABASE_URL and
// the STEWARD_DB_* variables.
package main

import (
	"embed"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"

	"github.com/JaimeStill/steward/internal/config"
)

//go:embed migrations/*.sql
var migrations embed.FS

func main() {
	dsn := flag.String("dsn", "", "database connection URL (overrides configuration)")
	flag.Usage = usage
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	url, err := resolveDSN(*dsn)
	if err != nil {
		logger.Error("resolve database", "error", err)
		os.Exit(1)
	}

	if err := run(url, flag.Args(), logger); err != nil {
		logger.Error("migrate failed", "command", flag.Arg(0), "error", err)
		os.Exit(1)
	}
}

func resolveDSN(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	cfg, err := config.LoadDatabase()
	if err != nil {
		return "", err
	}
	return cfg.Dsn(), nil
}

func run(dsn string, args []string, logger *slog.Logger) error {
	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, dsn)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer m.Close()

	switch args[0] {
	case "up":
		return report(logger, "up", ignoreNoChange(m.Up()))
	case "down":
		return report(logger, "down", ignoreNoChange(m.Down()))
	case "steps":
		n, err := intArg(args)
		if err != nil {
			return err
		}
		return report(logger, "steps", ignoreNoChange(m.Steps(n)))
	case "force":
		v, err := intArg(args)
		if err != nil {
			return err
		}
		return report(logger, "force", m.Force(v))
	case "version":
		v, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			logger.Info("no migrations applied")
			return nil
		}
		if err != nil {
			return err
		}
		logger.Info("schema version", "version", v, "dirty", dirty)
		return nil
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func report(logger *slog.Logger, command string, err error) error {
	if err != nil {
		return err
	}
	logger.Info("migration complete", "command", command)
	return nil
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}

func intArg(args []string) (int, error) {
	if len(args) < 2 {
		return 0, fmt.Errorf("%s requires a numeric argument", args[0])
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, fmt.Errorf("%s: invalid number %q", args[0], args[1])
	}
	return n, nil
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: migrate [-dsn url] up|down|version|steps N|force V\n")
	flag.PrintDefaults()
}
