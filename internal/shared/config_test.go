package shared

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Server.Port != 3000 {
			t.Errorf("expected server port 3000, got %d", config.Server.Port)
		}

		if config.Cache.DataRoot != "./data" {
			t.Errorf("expected data root ./data, got %s", config.Cache.DataRoot)
		}

		if config.Database.Path != "./soundprint.db" {
			t.Errorf("expected database path ./soundprint.db, got %s", config.Database.Path)
		}

		if config.Credentials.Spotify.ClientID != "your_spotify_client_id" {
			t.Errorf("expected spotify client_id your_spotify_client_id, got %s", config.Credentials.Spotify.ClientID)
		}

		if config.Limits.TopArtists != 50 || config.Limits.PlaylistTracks != 100 {
			t.Errorf("unexpected default limits: %+v", config.Limits)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		t.Run("Missing File", func(t *testing.T) {
			if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
				t.Error("expected error for missing config file")
			}
		})

		t.Run("Invalid TOML", func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.toml")
			os.WriteFile(configPath, []byte("not [valid toml"), 0644)

			if _, err := LoadConfig(configPath); err == nil {
				t.Error("expected error for invalid config file")
			}
		})
	})

	t.Run("SaveConfig Round Trip", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		config := DefaultConfig()
		config.Credentials.Spotify.ClientID = "saved_client"
		config.Credentials.Spotify.AccessToken = "saved_token"

		if err := SaveConfig(configPath, config); err != nil {
			t.Fatalf("failed to save config: %v", err)
		}

		loaded, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load saved config: %v", err)
		}

		if loaded.Credentials.Spotify.ClientID != "saved_client" {
			t.Errorf("expected client id saved_client, got %s", loaded.Credentials.Spotify.ClientID)
		}

		if loaded.Credentials.Spotify.AccessToken != "saved_token" {
			t.Errorf("expected access token saved_token, got %s", loaded.Credentials.Spotify.AccessToken)
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		t.Setenv("SPOTIFY_CLIENT_ID", "env_client")
		t.Setenv("SPOTIFY_SECRET_ID", "env_secret")
		t.Setenv("SPOTIFY_ACCESS_TOKEN", "env_token")

		config := DefaultConfig()
		config.ApplyEnv()

		if config.Credentials.Spotify.ClientID != "env_client" {
			t.Errorf("expected env client id, got %s", config.Credentials.Spotify.ClientID)
		}
		if config.Credentials.Spotify.ClientSecret != "env_secret" {
			t.Errorf("expected env client secret, got %s", config.Credentials.Spotify.ClientSecret)
		}
		if config.Credentials.Spotify.AccessToken != "env_token" {
			t.Errorf("expected env access token, got %s", config.Credentials.Spotify.AccessToken)
		}
	})

	t.Run("RedirectURI Derived From Server", func(t *testing.T) {
		config := DefaultConfig()
		config.Credentials.Spotify.RedirectURI = ""
		config.Server.Host = "localhost"
		config.Server.Port = 9999

		if got := config.RedirectURI(); got != "http://localhost:9999/callback" {
			t.Errorf("unexpected derived redirect URI: %s", got)
		}
	})
}

func TestSpotifyConfigToken(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		config := SpotifyConfig{}
		if config.Token() != nil {
			t.Error("expected nil token when no access token stored")
		}
	})

	t.Run("Round Trip", func(t *testing.T) {
		expiry := time.Now().Add(time.Hour).Truncate(time.Second)
		token := &oauth2.Token{
			AccessToken:  "access",
			RefreshToken: "refresh",
			Expiry:       expiry,
		}

		config := SpotifyConfig{AuthCode: "stale_code"}
		if err := config.Update(token); err != nil {
			t.Fatalf("failed to update config: %v", err)
		}

		if config.AuthCode != "" {
			t.Error("expected stale auth code to be cleared")
		}

		restored := config.Token()
		if restored == nil {
			t.Fatal("expected restored token")
		}
		if restored.AccessToken != "access" || restored.RefreshToken != "refresh" {
			t.Errorf("unexpected restored token: %+v", restored)
		}
		if !restored.Expiry.Equal(expiry) {
			t.Errorf("expected expiry %v, got %v", expiry, restored.Expiry)
		}
	})

	t.Run("Update Rejects Empty Token", func(t *testing.T) {
		config := SpotifyConfig{}
		if err := config.Update(&oauth2.Token{}); err == nil {
			t.Error("expected error for empty token")
		}
		if err := config.Update(nil); err == nil {
			t.Error("expected error for nil token")
		}
	})
}
