// package models defines the data model for the listening profile snapshot service
package models

import (
	"fmt"
	"time"
)

// UserProfile represents the authenticated user's identity.
//
// Fetched once per run and treated as read-only afterward; its ID keys all
// cached entities.
type UserProfile struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Followers   int    `json:"followers"`
	ImageURL    string `json:"image_url,omitempty"`
}

// Artist is a ranked entry in the user's top artists.
type Artist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ExternalURL string `json:"external_url"`
	Popularity  int    `json:"popularity,omitempty"`
}

// Track is a ranked entry in the user's top tracks, or a member of a
// playlist's track list.
type Track struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ExternalURL string `json:"external_url"`
	Popularity  int    `json:"popularity,omitempty"`
}

// Playlist represents an owned or followed playlist.
//
// Tracks is populated by a separate fan-out fetch and is nil only when that
// sub-fetch failed; a successful fetch of an empty playlist yields an empty
// non-nil list. The distinction survives the JSON round-trip (null vs []),
// so the field must not carry omitempty. The list is all-or-nothing per
// fetch attempt and preserves provider order.
type Playlist struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	ExternalURL      string  `json:"external_url"`
	OwnerDisplayName string  `json:"owner_display_name"`
	OwnerExternalURL string  `json:"owner_external_url"`
	TrackCount       int     `json:"track_count"`
	Public           bool    `json:"is_public"`
	Description      string  `json:"description"`
	Tracks           []Track `json:"tracks"`
}

// Library bundles everything the acquisition pipeline produces for one user.
type Library struct {
	Profile   UserProfile `json:"profile"`
	Artists   []Artist    `json:"artists"`
	Tracks    []Track     `json:"tracks"`
	Playlists []Playlist  `json:"playlists"`
	FromCache bool        `json:"-"`
}

// FetchRun records one completed acquisition run.
type FetchRun struct {
	ID               string
	Sequence         int
	UserID           string
	ArtistCount      int
	TrackCount       int
	PlaylistCount    int
	PlaylistFailures int
	CacheHit         bool
	CreatedAt        time.Time
}

// Validate checks that the run carries the fields required for persistence.
func (r *FetchRun) Validate() error {
	if r.UserID == "" {
		return fmt.Errorf("fetch run requires a user id")
	}
	if r.CreatedAt.IsZero() {
		return fmt.Errorf("fetch run requires a creation time")
	}
	return nil
}
