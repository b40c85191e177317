// package services implements HTTP clients for the Spotify Web API
//
// [AuthClient] drives the authorization-code grant (consent URL construction
// and the code → token exchange). [Client] performs authenticated resource
// reads (profile, top items, playlists).
package services

import (
	"context"

	"github.com/soundprint/soundprint/internal/models"
)

// LibraryService defines the read operations the acquisition pipeline needs.
//
// Implemented by [Client]; test doubles implement it in package tests.
type LibraryService interface {
	// CurrentUser retrieves the authenticated user's profile.
	CurrentUser(ctx context.Context) (*models.UserProfile, error)

	// TopArtists retrieves the user's top artists, provider-ranked, first
	// page only up to limit.
	TopArtists(ctx context.Context, limit int) ([]models.Artist, error)

	// TopTracks retrieves the user's top tracks, provider-ranked, first page
	// only up to limit.
	TopTracks(ctx context.Context, limit int) ([]models.Track, error)

	// Playlists retrieves the user's owned and followed playlists, first page
	// only up to limit. Track lists are not included.
	Playlists(ctx context.Context, limit int) ([]models.Playlist, error)

	// PlaylistTracks retrieves the track list of one playlist in provider
	// order, first page only up to limit.
	PlaylistTracks(ctx context.Context, playlistID string, limit int) ([]models.Track, error)
}
