// package pipeline implements cache-first acquisition of a user's listening
// profile.
//
// The core abstraction is Engine, which resolves the user's profile, top
// artists, top tracks, and playlists (with nested tracks), preferring cached
// snapshots and degrading to live API calls. Operations emit progress updates
// via channels for non-blocking status reporting to the CLI layer.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/soundprint/soundprint/internal/cache"
	"github.com/soundprint/soundprint/internal/models"
	"github.com/soundprint/soundprint/internal/services"
	"github.com/soundprint/soundprint/internal/shared"
	"golang.org/x/sync/errgroup"
)

// Store abstracts the snapshot cache. Implemented by [cache.Store].
type Store interface {
	Read(userID, entity string, v any) error
	Write(userID, entity string, v any) error
}

// Recorder persists fetch-run history. Recording is best-effort: failures are
// logged, never propagated.
type Recorder interface {
	Create(run *models.FetchRun) error
}

// Engine produces the full [models.Library] for an authenticated session.
type Engine struct {
	svc      services.LibraryService
	store    Store
	recorder Recorder
	limits   shared.LimitsConfig
	logger   *log.Logger
}

// NewEngine creates an Engine with the provided service and store.
func NewEngine(svc services.LibraryService, store Store, limits shared.LimitsConfig, logger *log.Logger) *Engine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Engine{
		svc:    svc,
		store:  store,
		limits: limits,
		logger: logger,
	}
}

// WithRecorder attaches an optional fetch-run recorder.
func (e *Engine) WithRecorder(r Recorder) *Engine {
	e.recorder = r
	return e
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Acquire resolves the user's listening profile, cache-first.
//
// The profile itself is always fetched live (it is cheap and keys the cache)
// and persisted immediately. Artists, tracks, and playlists are served from
// cache only when all three snapshots are present and parse; partial cache
// presence is treated as a full miss so stale and fresh data never mix
// silently. On a miss the three collections are fetched concurrently, then
// each playlist's track list is fetched in an independent task joined with
// settle-all semantics: a failed sub-fetch leaves that playlist's tracks
// absent and never aborts its siblings or the run.
func (e *Engine) Acquire(ctx context.Context, progress chan<- ProgressUpdate) (*models.Library, error) {
	if e.svc == nil {
		return nil, fmt.Errorf("%w: library service not initialized", shared.ErrAPIRequest)
	}

	e.sendProgress(progress, fetchProfileUpdate())

	profile, err := e.svc.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrProfileFetch, err)
	}

	if err := e.store.Write(profile.ID, cache.EntityProfile, profile); err != nil {
		e.logger.Warn("failed to persist profile snapshot", "user", profile.ID, "error", err)
	}

	lib := &models.Library{Profile: *profile}

	e.sendProgress(progress, cacheLookupUpdate(false))

	var artists []models.Artist
	var tracks []models.Track
	var playlists []models.Playlist

	artistsErr := e.store.Read(profile.ID, cache.EntityArtists, &artists)
	tracksErr := e.store.Read(profile.ID, cache.EntityTracks, &tracks)
	playlistsErr := e.store.Read(profile.ID, cache.EntityPlaylists, &playlists)

	if artistsErr == nil && tracksErr == nil && playlistsErr == nil {
		e.sendProgress(progress, cacheLookupUpdate(true))
		e.logger.Info("all snapshots cached, skipping live fetch", "user", profile.ID)

		lib.Artists = artists
		lib.Tracks = tracks
		lib.Playlists = playlists
		lib.FromCache = true

		e.record(lib, 0)
		return lib, nil
	}

	e.logger.Info("cache miss, fetching live",
		"artists", artistsErr == nil, "tracks", tracksErr == nil, "playlists", playlistsErr == nil)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		e.sendProgress(progress, liveFetchUpdate(FetchArtists))
		var err error
		lib.Artists, err = e.svc.TopArtists(gctx, e.limits.TopArtists)
		return err
	})
	g.Go(func() error {
		e.sendProgress(progress, liveFetchUpdate(FetchTracks))
		var err error
		lib.Tracks, err = e.svc.TopTracks(gctx, e.limits.TopTracks)
		return err
	})
	g.Go(func() error {
		e.sendProgress(progress, liveFetchUpdate(FetchPlaylists))
		var err error
		lib.Playlists, err = e.svc.Playlists(gctx, e.limits.Playlists)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	failures := e.fetchPlaylistTracks(ctx, progress, lib.Playlists)

	e.persist(progress, lib)
	e.record(lib, failures)

	return lib, nil
}

// fetchPlaylistTracks fans out one task per playlist and waits for all of
// them regardless of individual failures. Returns the failure count.
func (e *Engine) fetchPlaylistTracks(ctx context.Context, progress chan<- ProgressUpdate, playlists []models.Playlist) int {
	total := len(playlists)
	if total == 0 {
		return 0
	}

	errs := make([]error, total)
	var wg sync.WaitGroup

	for i := range playlists {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			tracks, err := e.svc.PlaylistTracks(ctx, playlists[i].ID, e.limits.PlaylistTracks)
			if err != nil {
				errs[i] = err
				return
			}
			playlists[i].Tracks = tracks
		}(i)
	}

	wg.Wait()

	failures := 0
	for i, err := range errs {
		if err == nil {
			continue
		}
		failures++
		e.logger.Warn("playlist track fetch failed, tracks omitted",
			"playlist", playlists[i].ID, "name", playlists[i].Name, "error", err)
	}

	e.sendProgress(progress, playlistTracksUpdate(total, total))
	return failures
}

// persist writes each freshly fetched collection wholesale. One failed write
// is logged and does not block the others.
func (e *Engine) persist(progress chan<- ProgressUpdate, lib *models.Library) {
	entities := []struct {
		name  string
		value any
	}{
		{cache.EntityArtists, lib.Artists},
		{cache.EntityTracks, lib.Tracks},
		{cache.EntityPlaylists, lib.Playlists},
	}

	for i, entity := range entities {
		e.sendProgress(progress, persistUpdate(i+1, len(entities), entity.name))
		if err := e.store.Write(lib.Profile.ID, entity.name, entity.value); err != nil {
			e.logger.Warn("failed to persist snapshot", "entity", entity.name, "error", err)
		}
	}
}

// record stores run history when a recorder is attached. Errors are ignored
// beyond a log line so history never disrupts acquisition.
func (e *Engine) record(lib *models.Library, playlistFailures int) {
	if e.recorder == nil {
		return
	}

	run := &models.FetchRun{
		UserID:           lib.Profile.ID,
		ArtistCount:      len(lib.Artists),
		TrackCount:       len(lib.Tracks),
		PlaylistCount:    len(lib.Playlists),
		PlaylistFailures: playlistFailures,
		CacheHit:         lib.FromCache,
		CreatedAt:        time.Now(),
	}

	if err := e.recorder.Create(run); err != nil {
		e.logger.Warn("failed to record fetch run", "user", lib.Profile.ID, "error", err)
	}
}
