// Spotify API implementation of [LibraryService]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/soundprint/soundprint/internal/models"
	"github.com/soundprint/soundprint/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const spotifyBaseURL = "https://api.spotify.com/v1"

// Hard ceilings for the first page of each listing. Top tracks may be
// configured well past the artists' bound.
const (
	maxTopArtistLimit     = 50
	maxTopTrackLimit      = 200
	maxPlaylistLimit      = 50
	maxPlaylistTrackLimit = 100
)

type externalURLs struct {
	Spotify string `json:"spotify"`
}

type followers struct {
	Total int `json:"total"`
}

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyUser represents a Spotify user profile.
type SpotifyUser struct {
	ID           string         `json:"id"`
	DisplayName  string         `json:"display_name"`
	Followers    followers      `json:"followers"`
	Images       []SpotifyImage `json:"images"`
	ExternalURLs externalURLs   `json:"external_urls"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Popularity   int          `json:"popularity"`
	ExternalURLs externalURLs `json:"external_urls"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Popularity   int          `json:"popularity"`
	ExternalURLs externalURLs `json:"external_urls"`
}

type owner struct {
	DisplayName  string       `json:"display_name"`
	ExternalURLs externalURLs `json:"external_urls"`
}

type playlistTrackRef struct {
	Total int `json:"total"`
}

// SpotifySimplePlaylist represents a simplified playlist object (used in lists).
type SpotifySimplePlaylist struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	Owner        owner            `json:"owner"`
	Public       bool             `json:"public"`
	Tracks       playlistTrackRef `json:"tracks"`
	ExternalURLs externalURLs     `json:"external_urls"`
}

// SpotifyPlaylistTrack represents a track within a playlist context.
type SpotifyPlaylistTrack struct {
	AddedAt string       `json:"added_at"`
	Track   SpotifyTrack `json:"track"`
}

type pagedArtists struct {
	Items []SpotifyArtist `json:"items"`
	Total int             `json:"total"`
}

type pagedTracks struct {
	Items []SpotifyTrack `json:"items"`
	Total int            `json:"total"`
}

type pagedPlaylists struct {
	Items []SpotifySimplePlaylist `json:"items"`
	Total int                     `json:"total"`
}

type pagedPlaylistTracks struct {
	Items []SpotifyPlaylistTrack `json:"items"`
	Total int                    `json:"total"`
}

// Client implements [LibraryService] against the Spotify Web API.
//
// Requests are paced by a [rate.Limiter] so a large playlist fan-out does not
// hammer the provider.
type Client struct {
	token      *oauth2.Token
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API base URL. Used in tests.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimit sets the request pacing in requests per second.
func WithRateLimit(rps float64) ClientOption {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), 1) }
}

// NewClient creates an authenticated Spotify API client.
func NewClient(token *oauth2.Token, opts ...ClientOption) (*Client, error) {
	if token == nil || token.AccessToken == "" {
		return nil, fmt.Errorf("%w: access token required", shared.ErrNotAuthorized)
	}

	client := &Client{
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    spotifyBaseURL,
		limiter:    rate.NewLimiter(rate.Limit(10), 1),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// doRequest performs an authenticated GET against the Spotify API and decodes
// the JSON response into result.
func (c *Client) doRequest(ctx context.Context, endpoint string, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s returned status %d", shared.ErrAPIRequest, endpoint, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("%w: failed to decode response: %v", shared.ErrAPIRequest, err)
		}
	}

	return nil
}

func clampLimit(limit, fallback, max int) int {
	if limit <= 0 {
		limit = fallback
	}
	if limit > max {
		limit = max
	}
	return limit
}

// CurrentUser retrieves the authenticated user's profile.
func (c *Client) CurrentUser(ctx context.Context) (*models.UserProfile, error) {
	var user SpotifyUser
	if err := c.doRequest(ctx, "/me", &user); err != nil {
		return nil, err
	}

	profile := &models.UserProfile{
		ID:          user.ID,
		DisplayName: user.DisplayName,
		Followers:   user.Followers.Total,
	}
	if len(user.Images) > 0 {
		profile.ImageURL = user.Images[0].URL
	}

	return profile, nil
}

// TopArtists retrieves the user's top artists in provider rank order.
func (c *Client) TopArtists(ctx context.Context, limit int) ([]models.Artist, error) {
	limit = clampLimit(limit, 20, maxTopArtistLimit)
	endpoint := fmt.Sprintf("/me/top/artists?limit=%d&offset=0", limit)

	var page pagedArtists
	if err := c.doRequest(ctx, endpoint, &page); err != nil {
		return nil, err
	}

	artists := make([]models.Artist, 0, len(page.Items))
	for _, item := range page.Items {
		artists = append(artists, models.Artist{
			ID:          item.ID,
			Name:        item.Name,
			ExternalURL: item.ExternalURLs.Spotify,
			Popularity:  item.Popularity,
		})
	}

	return artists, nil
}

// TopTracks retrieves the user's top tracks in provider rank order.
func (c *Client) TopTracks(ctx context.Context, limit int) ([]models.Track, error) {
	limit = clampLimit(limit, 20, maxTopTrackLimit)
	endpoint := fmt.Sprintf("/me/top/tracks?limit=%d&offset=0", limit)

	var page pagedTracks
	if err := c.doRequest(ctx, endpoint, &page); err != nil {
		return nil, err
	}

	return convertTracks(page.Items), nil
}

// Playlists retrieves the user's owned and followed playlists.
//
// Only the first page is requested; track lists are fetched separately via
// [Client.PlaylistTracks].
func (c *Client) Playlists(ctx context.Context, limit int) ([]models.Playlist, error) {
	limit = clampLimit(limit, 20, maxPlaylistLimit)
	endpoint := fmt.Sprintf("/me/playlists?limit=%d&offset=0", limit)

	var page pagedPlaylists
	if err := c.doRequest(ctx, endpoint, &page); err != nil {
		return nil, err
	}

	playlists := make([]models.Playlist, 0, len(page.Items))
	for _, item := range page.Items {
		playlists = append(playlists, models.Playlist{
			ID:               item.ID,
			Name:             item.Name,
			ExternalURL:      item.ExternalURLs.Spotify,
			OwnerDisplayName: item.Owner.DisplayName,
			OwnerExternalURL: item.Owner.ExternalURLs.Spotify,
			TrackCount:       item.Tracks.Total,
			Public:           item.Public,
			Description:      item.Description,
		})
	}

	return playlists, nil
}

// PlaylistTracks retrieves the track list of one playlist in provider order.
func (c *Client) PlaylistTracks(ctx context.Context, playlistID string, limit int) ([]models.Track, error) {
	if playlistID == "" {
		return nil, fmt.Errorf("%w: playlist id required", shared.ErrInvalidArgument)
	}

	limit = clampLimit(limit, 20, maxPlaylistTrackLimit)
	endpoint := fmt.Sprintf("/playlists/%s/tracks?limit=%d&offset=0", url.PathEscape(playlistID), limit)

	var page pagedPlaylistTracks
	if err := c.doRequest(ctx, endpoint, &page); err != nil {
		return nil, err
	}

	tracks := make([]models.Track, 0, len(page.Items))
	for _, item := range page.Items {
		tracks = append(tracks, models.Track{
			ID:          item.Track.ID,
			Name:        item.Track.Name,
			ExternalURL: item.Track.ExternalURLs.Spotify,
			Popularity:  item.Track.Popularity,
		})
	}

	return tracks, nil
}

func convertTracks(items []SpotifyTrack) []models.Track {
	tracks := make([]models.Track, 0, len(items))
	for _, item := range items {
		tracks = append(tracks, models.Track{
			ID:          item.ID,
			Name:        item.Name,
			ExternalURL: item.ExternalURLs.Spotify,
			Popularity:  item.Popularity,
		})
	}
	return tracks
}
