// package cache persists JSON snapshots of fetched entities, one directory
// per user, one file per entity
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/soundprint/soundprint/internal/shared"
)

// Entity names used by the acquisition pipeline.
const (
	EntityProfile   = "profile"
	EntityArtists   = "artists"
	EntityTracks    = "tracks"
	EntityPlaylists = "playlists"
)

// Store reads and writes per-user entity snapshots under a data root.
//
// Layout is <root>/<user_id>/<entity>.json, pretty-printed for humans. No
// locking is performed; the store assumes single-process, single-run usage
// with last-writer-wins semantics.
type Store struct {
	root string
}

// NewStore creates a Store rooted at the given directory.
//
// The directory tree is created lazily on first write.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Path returns the file path for the given user and entity.
func (s *Store) Path(userID, entity string) string {
	return filepath.Join(s.root, userID, entity+".json")
}

// Read loads a cached entity into v.
//
// Any failure (missing file, unreadable directory, unparsable content) is
// uniformly a [shared.ErrCacheMiss]: the caller does not distinguish "never
// fetched" from "corrupted", it simply re-fetches live.
func (s *Store) Read(userID, entity string, v any) error {
	data, err := os.ReadFile(s.Path(userID, entity))
	if err != nil {
		return fmt.Errorf("%w: %s/%s: %v", shared.ErrCacheMiss, userID, entity, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s/%s: unparsable content: %v", shared.ErrCacheMiss, userID, entity, err)
	}

	return nil
}

// Write persists an entity wholesale, overwriting any previous snapshot.
func (s *Store) Write(userID, entity string, v any) error {
	if userID == "" {
		return fmt.Errorf("%w: user id required", shared.ErrPersistence)
	}

	dir := filepath.Join(s.root, userID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: %s/%s: %v", shared.ErrPersistence, userID, entity, err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %s/%s: %v", shared.ErrPersistence, userID, entity, err)
	}

	if err := os.WriteFile(s.Path(userID, entity), data, 0644); err != nil {
		return fmt.Errorf("%w: %s/%s: %v", shared.ErrPersistence, userID, entity, err)
	}

	return nil
}
