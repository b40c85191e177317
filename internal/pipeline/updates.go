package pipeline

import (
	"fmt"
)

// ProgressUpdate represents a progress event during an acquisition run.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
}

// Operation phase enumeration
type Phase int

const (
	FetchProfile Phase = iota
	CacheLookup
	FetchArtists
	FetchTracks
	FetchPlaylists
	FetchPlaylistTracks
	Persist
)

func (p Phase) String() string {
	switch p {
	case FetchProfile:
		return "fetch_profile"
	case CacheLookup:
		return "cache_lookup"
	case FetchArtists:
		return "fetch_artists"
	case FetchTracks:
		return "fetch_tracks"
	case FetchPlaylists:
		return "fetch_playlists"
	case FetchPlaylistTracks:
		return "fetch_playlist_tracks"
	case Persist:
		return "persist"
	default:
		return ""
	}
}

func fetchProfileUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchProfile,
		Step:    1,
		Total:   1,
		Message: "Fetching user profile...",
	}
}

func cacheLookupUpdate(hit bool) ProgressUpdate {
	message := "Checking local snapshots..."
	if hit {
		message = "Serving snapshot from cache"
	}
	return ProgressUpdate{
		Phase:   CacheLookup,
		Step:    1,
		Total:   1,
		Message: message,
	}
}

func liveFetchUpdate(phase Phase) ProgressUpdate {
	var message string
	switch phase {
	case FetchArtists:
		message = "Fetching top artists..."
	case FetchTracks:
		message = "Fetching top tracks..."
	case FetchPlaylists:
		message = "Fetching playlists..."
	}
	return ProgressUpdate{
		Phase:   phase,
		Step:    1,
		Total:   1,
		Message: message,
	}
}

func playlistTracksUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPlaylistTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Fetching playlist tracks (%d/%d)...", step, total),
	}
}

func persistUpdate(step, total int, entity string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Persist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Persisting %s...", entity),
	}
}
