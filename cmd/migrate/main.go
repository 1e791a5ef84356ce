// Package main provides the news service database migration CLI.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/helixir/news-service/internal/config"
	"github.com/helixir/news-service/internal/database"
	"github.com/helixir/news-service/internal/observability"
)

// options are the parsed CLI flags. Exactly one action may be set.
type options struct {
	up      bool
	down    bool
	steps   int
	version bool
	force   int
	drop    bool
	confirm bool
	path    string
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() options {
	var o options
	flag.BoolVar(&o.up, "up", false, "Run all pending migrations")
	flag.BoolVar(&o.down, "down", false, "Roll back all migrations")
	flag.IntVar(&o.steps, "steps", 0, "Run N migration steps (positive=up, negative=down)")
	flag.BoolVar(&o.version, "version", false, "Print the current migration version")
	flag.IntVar(&o.force, "force", -1, "Force set migration version (use to recover from failed migrations)")
	flag.BoolVar(&o.drop, "drop", false, "Drop every table, including the migration history (needs -confirm)")
	flag.BoolVar(&o.confirm, "confirm", false, "Confirm a destructive action")
	flag.StringVar(&o.path, "path", "", "Override the migrations directory path")
	flag.Parse()
	return o
}

func (o options) actionCount() int {
	n := 0
	for _, set := range []bool{o.up, o.down, o.steps != 0, o.version, o.force >= 0, o.drop} {
		if set {
			n++
		}
	}
	return n
}

func run() error {
	opts := parseFlags()

	switch opts.actionCount() {
	case 0:
		flag.Usage()
		fmt.Fprintln(os.Stderr, "\nPlease specify one of: -up, -down, -steps N, -version, -force V, -drop")
		return errors.New("no action specified")
	case 1:
	default:
		return errors.New("specify only one action at a time")
	}
	if opts.drop && !opts.confirm {
		return errors.New("-drop deletes all data; rerun with -confirm")
	}

	// Database settings come from env/config file.
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := observability.NewLogger(observability.LoggingConfig{
		Level:      "info",
		Format:     "console",
		Output:     "stdout",
		TimeFormat: time.RFC3339,
	})
	logger = observability.WithComponent(logger, "migrate")

	migrationDir := cfg.Database.MigrationPath
	if opts.path != "" {
		migrationDir = opts.path
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.New(ctx, &cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	migrator, err := database.NewMigrator(db, migrationDir, logger)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer func() {
		if closeErr := migrator.Close(); closeErr != nil {
			logger.Error().Err(closeErr).Msg("failed to close migrator")
		}
	}()

	if err := apply(migrator, opts, logger); err != nil {
		return err
	}
	if !opts.drop {
		printVersion(migrator, logger)
	}
	return nil
}

func apply(migrator *database.Migrator, opts options, logger zerolog.Logger) error {
	switch {
	case opts.up:
		logger.Info().Msg("running all pending migrations")
		if err := migrator.Up(); err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}
	case opts.down:
		logger.Warn().Msg("rolling back all migrations")
		if err := migrator.Down(); err != nil {
			return fmt.Errorf("migrate down: %w", err)
		}
	case opts.steps != 0:
		logger.Info().Int("steps", opts.steps).Msg("running migration steps")
		if err := migrator.Steps(opts.steps); err != nil {
			return fmt.Errorf("migrate steps: %w", err)
		}
	case opts.force >= 0:
		logger.Warn().Int("version", opts.force).Msg("forcing migration version")
		if err := migrator.Force(opts.force); err != nil {
			return fmt.Errorf("force version: %w", err)
		}
	case opts.drop:
		if err := migrator.DropAll(); err != nil {
			return fmt.Errorf("drop: %w", err)
		}
	}
	return nil
}

// printVersion logs the current migration version.
func printVersion(migrator *database.Migrator, logger zerolog.Logger) {
	v, dirty, err := migrator.Version()
	if err != nil {
		logger.Warn().Err(err).Msg("could not determine migration version")
		return
	}
	logger.Info().
		Uint("version", v).
		Bool("dirty", dirty).
		Msg("current migration version")
}
