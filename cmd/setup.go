package main

import (
	"context"
	"fmt"
	"os"

	"github.com/soundprint/soundprint/internal/repositories"
	"github.com/soundprint/soundprint/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup initializes the run-history database and creates a config file from
// the embedded template when one is missing.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	var config *shared.Config
	if _, err := os.Stat(configPath); err == nil {
		if config, err = shared.LoadConfig(configPath); err != nil {
			r.logger.Warn("failed to load config, using defaults", "error", err)
			config = shared.DefaultConfig()
		}
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
			config = shared.DefaultConfig()
		} else {
			r.logger.Info("config file created", "path", configPath)
			if config, err = shared.LoadConfig(configPath); err != nil {
				r.logger.Warn("failed to load created config, using defaults", "error", err)
				config = shared.DefaultConfig()
			}
		}
	}

	config.ApplyEnv()

	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	r.logger.Infof("setup complete for database: %v", config.Database.Path)
	r.writePlainln("✓ Setup complete")
	r.writePlainln("Next: set your Spotify credentials in %s and run `soundprint auth`", configPath)

	return nil
}

// Runs lists recorded fetch runs for a user, newest first.
func (r *Runner) Runs(ctx context.Context, cmd *cli.Command) error {
	userID := cmd.String("user")
	limit := cmd.Int("limit")

	config := r.loadConfig(cmd)

	if userID == "" {
		resolved, err := resolveUser(config.Cache.DataRoot)
		if err != nil {
			return err
		}
		userID = resolved
	}

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database, run `soundprint setup` first: %w", err)
	}
	defer db.Close()

	repo := repositories.NewRunRepository(db)
	runs, err := repo.ListByUser(userID, int(limit))
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		r.writePlainln("No recorded runs for %s", userID)
		return nil
	}

	r.writeHeader(fmt.Sprintf("Fetch runs for %s", userID))
	for _, run := range runs {
		source := "live"
		if run.CacheHit {
			source = "cache"
		}
		r.writePlainln("#%d %s [%s] artists=%d tracks=%d playlists=%d failures=%d",
			run.Sequence, run.CreatedAt.Format("2006-01-02 15:04:05"), source,
			run.ArtistCount, run.TrackCount, run.PlaylistCount, run.PlaylistFailures)
	}

	return nil
}
