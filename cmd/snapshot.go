package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/soundprint/soundprint/internal/cache"
	"github.com/soundprint/soundprint/internal/pipeline"
	"github.com/soundprint/soundprint/internal/repositories"
	"github.com/soundprint/soundprint/internal/services"
	"github.com/soundprint/soundprint/internal/shared"
	"github.com/urfave/cli/v3"
)

// Snapshot acquires the user's listening profile and persists it under the
// data root, serving cached snapshots when all of them are present.
func (r *Runner) Snapshot(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	config := r.loadConfig(cmd)

	spotify := config.Credentials.Spotify
	if spotify.ClientID == "" || spotify.ClientSecret == "" {
		return fmt.Errorf("%w: Spotify client_id and client_secret must be set in config.toml or the environment", shared.ErrMissingCredentials)
	}

	token, err := r.ensureToken(ctx, configPath, config)
	if err != nil {
		return err
	}

	client, err := services.NewClient(token)
	if err != nil {
		return err
	}

	store := cache.NewStore(config.Cache.DataRoot)
	engine := pipeline.NewEngine(client, store, config.Limits, shared.WithLogger(r.logger, "component", "pipeline"))

	// Run history is recorded only when `soundprint setup` has created the
	// database; acquisition works without it.
	if _, err := os.Stat(config.Database.Path); err == nil {
		db, err := shared.NewDatabase(config.Database.Path)
		if err != nil {
			r.logger.Warn("failed to open run history database", "error", err)
		} else {
			defer db.Close()
			shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
			engine.WithRecorder(repositories.NewRunRepository(db))
		}
	}

	progress := make(chan pipeline.ProgressUpdate, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.writePlainln("→ %s", update.Message)
		}
	}()

	lib, err := engine.Acquire(ctx, progress)
	close(progress)
	<-done

	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(lib, pretty)
	}

	r.writeHeader("Snapshot complete")
	name := lib.Profile.DisplayName
	if name == "" {
		name = lib.Profile.ID
	}
	r.writePlainln("%s %s (%d followers)", labelStyle.Render("User:"), name, lib.Profile.Followers)
	r.writePlainln("%s %d", labelStyle.Render("Top artists:"), len(lib.Artists))
	r.writePlainln("%s %d", labelStyle.Render("Top tracks:"), len(lib.Tracks))
	r.writePlainln("%s %d", labelStyle.Render("Playlists:"), len(lib.Playlists))

	missing := 0
	for _, playlist := range lib.Playlists {
		if playlist.Tracks == nil {
			missing++
		}
	}
	if missing > 0 {
		r.writePlainln("⚠ Track lists unavailable for %d playlist(s)", missing)
	}

	if lib.FromCache {
		r.writePlainln("(served from cache at %s)", config.Cache.DataRoot)
	} else {
		r.writePlainln("✓ Snapshots written to %s", filepath.Join(config.Cache.DataRoot, lib.Profile.ID))
	}

	return nil
}
