// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"net/http"
	"os"
	"testing"

	"github.com/soundprint/soundprint/internal/models"
)

// MockLibraryService is a configurable test double for [services.LibraryService].
//
// Unset function fields return empty successes.
type MockLibraryService struct {
	CurrentUserFunc    func(ctx context.Context) (*models.UserProfile, error)
	TopArtistsFunc     func(ctx context.Context, limit int) ([]models.Artist, error)
	TopTracksFunc      func(ctx context.Context, limit int) ([]models.Track, error)
	PlaylistsFunc      func(ctx context.Context, limit int) ([]models.Playlist, error)
	PlaylistTracksFunc func(ctx context.Context, playlistID string, limit int) ([]models.Track, error)
}

func (m *MockLibraryService) CurrentUser(ctx context.Context) (*models.UserProfile, error) {
	if m.CurrentUserFunc != nil {
		return m.CurrentUserFunc(ctx)
	}
	return &models.UserProfile{ID: "mock-user"}, nil
}

func (m *MockLibraryService) TopArtists(ctx context.Context, limit int) ([]models.Artist, error) {
	if m.TopArtistsFunc != nil {
		return m.TopArtistsFunc(ctx, limit)
	}
	return []models.Artist{}, nil
}

func (m *MockLibraryService) TopTracks(ctx context.Context, limit int) ([]models.Track, error) {
	if m.TopTracksFunc != nil {
		return m.TopTracksFunc(ctx, limit)
	}
	return []models.Track{}, nil
}

func (m *MockLibraryService) Playlists(ctx context.Context, limit int) ([]models.Playlist, error) {
	if m.PlaylistsFunc != nil {
		return m.PlaylistsFunc(ctx, limit)
	}
	return []models.Playlist{}, nil
}

func (m *MockLibraryService) PlaylistTracks(ctx context.Context, playlistID string, limit int) ([]models.Track, error) {
	if m.PlaylistTracksFunc != nil {
		return m.PlaylistTracksFunc(ctx, playlistID, limit)
	}
	return []models.Track{}, nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
