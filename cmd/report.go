package main

import (
	"context"
	"fmt"
	"os"

	"github.com/soundprint/soundprint/internal/cache"
	"github.com/soundprint/soundprint/internal/models"
	"github.com/soundprint/soundprint/internal/report"
	"github.com/soundprint/soundprint/internal/shared"
	"github.com/urfave/cli/v3"
)

// Report renders the cached snapshot for a user as Markdown and HTML files.
func (r *Runner) Report(ctx context.Context, cmd *cli.Command) error {
	userID := cmd.String("user")
	outputDir := cmd.String("output")

	config := r.loadConfig(cmd)
	store := cache.NewStore(config.Cache.DataRoot)

	if userID == "" {
		resolved, err := resolveUser(config.Cache.DataRoot)
		if err != nil {
			return err
		}
		userID = resolved
	}

	lib := &models.Library{}
	if err := store.Read(userID, cache.EntityProfile, &lib.Profile); err != nil {
		return fmt.Errorf("no cached profile for %q, run `soundprint snapshot` first: %w", userID, err)
	}
	if err := store.Read(userID, cache.EntityArtists, &lib.Artists); err != nil {
		r.logger.Warn("no cached artists, report section will be empty", "user", userID)
	}
	if err := store.Read(userID, cache.EntityTracks, &lib.Tracks); err != nil {
		r.logger.Warn("no cached tracks, report section will be empty", "user", userID)
	}
	if err := store.Read(userID, cache.EntityPlaylists, &lib.Playlists); err != nil {
		r.logger.Warn("no cached playlists, report section will be empty", "user", userID)
	}

	result, err := report.Write(lib, outputDir)
	if err != nil {
		return err
	}

	r.writeHeader("Report generated")
	r.writePlainln("%s %s", labelStyle.Render("Markdown:"), result.MarkdownPath)
	r.writePlainln("%s %s", labelStyle.Render("HTML:"), result.HTMLPath)

	return nil
}

// resolveUser picks the user id when exactly one snapshot directory exists
// under the data root.
func resolveUser(dataRoot string) (string, error) {
	entries, err := os.ReadDir(dataRoot)
	if err != nil {
		return "", fmt.Errorf("%w: cannot read data root %s: %v", shared.ErrMissingArgument, dataRoot, err)
	}

	var users []string
	for _, entry := range entries {
		if entry.IsDir() {
			users = append(users, entry.Name())
		}
	}

	switch len(users) {
	case 0:
		return "", fmt.Errorf("%w: no snapshots under %s, run `soundprint snapshot` first", shared.ErrMissingArgument, dataRoot)
	case 1:
		return users[0], nil
	default:
		return "", fmt.Errorf("%w: multiple users under %s, pass --user", shared.ErrMissingArgument, dataRoot)
	}
}
