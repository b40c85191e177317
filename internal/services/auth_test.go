package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/soundprint/soundprint/internal/shared"
)

func TestNewAuthClient(t *testing.T) {
	t.Run("With Valid Credentials", func(t *testing.T) {
		client, err := NewAuthClient("id", "secret", "http://127.0.0.1:3000/callback")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if client == nil {
			t.Fatal("expected client to be created")
		}
	})

	t.Run("Missing Credentials", func(t *testing.T) {
		if _, err := NewAuthClient("", "secret", ""); err == nil {
			t.Error("expected error for missing client id")
		}
		if _, err := NewAuthClient("id", "", ""); err == nil {
			t.Error("expected error for missing client secret")
		}
	})
}

func TestAuthURL(t *testing.T) {
	client, err := NewAuthClient("test_client_id", "test_secret", "http://127.0.0.1:3000/callback")
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	authURL := client.AuthURL("test_state")

	if !strings.Contains(authURL, "accounts.spotify.com") {
		t.Error("auth URL should contain Spotify accounts domain")
	}
	if !strings.Contains(authURL, "response_type=code") {
		t.Error("auth URL should request an authorization code")
	}
	if !strings.Contains(authURL, "test_client_id") {
		t.Error("auth URL should contain client_id")
	}
	if !strings.Contains(authURL, "state=test_state") {
		t.Error("auth URL should contain state")
	}
	if !strings.Contains(authURL, "user-top-read") {
		t.Error("auth URL should request the top-items scope")
	}
	if !strings.Contains(authURL, "playlist-read-private") {
		t.Error("auth URL should request the private playlist scope")
	}
}

func TestExchange(t *testing.T) {
	newExchangeServer := func(t *testing.T, status int, body any) *httptest.Server {
		t.Helper()
		return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("expected POST, got %s", r.Method)
			}

			user, pass, ok := r.BasicAuth()
			if !ok || user != "test_id" || pass != "test_secret" {
				t.Errorf("expected basic auth with client credentials, got %s:%s", user, pass)
			}

			if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
				t.Errorf("expected form content type, got %s", ct)
			}

			if err := r.ParseForm(); err != nil {
				t.Fatalf("failed to parse form: %v", err)
			}
			if grant := r.PostForm.Get("grant_type"); grant != "authorization_code" {
				t.Errorf("expected authorization_code grant, got %s", grant)
			}
			if code := r.PostForm.Get("code"); code != "test_code" {
				t.Errorf("expected code test_code, got %s", code)
			}
			if redirect := r.PostForm.Get("redirect_uri"); redirect != "http://127.0.0.1:3000/callback" {
				t.Errorf("expected redirect_uri to be echoed, got %s", redirect)
			}

			w.WriteHeader(status)
			json.NewEncoder(w).Encode(body)
		}))
	}

	newClient := func(t *testing.T, tokenURL string) *AuthClient {
		t.Helper()
		client, err := NewAuthClient("test_id", "test_secret", "http://127.0.0.1:3000/callback", WithTokenURL(tokenURL))
		if err != nil {
			t.Fatalf("failed to create client: %v", err)
		}
		return client
	}

	t.Run("Success", func(t *testing.T) {
		srv := newExchangeServer(t, http.StatusOK, map[string]any{
			"access_token":  "access123",
			"token_type":    "Bearer",
			"expires_in":    3600,
			"refresh_token": "refresh123",
		})
		defer srv.Close()

		token, err := newClient(t, srv.URL).Exchange(context.Background(), "test_code")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if token.AccessToken != "access123" {
			t.Errorf("expected access token access123, got %s", token.AccessToken)
		}
		if token.RefreshToken != "refresh123" {
			t.Errorf("expected refresh token refresh123, got %s", token.RefreshToken)
		}
		if token.Expiry.IsZero() {
			t.Error("expected expiry to be set from expires_in")
		}
	})

	t.Run("Accepts 201", func(t *testing.T) {
		srv := newExchangeServer(t, http.StatusCreated, map[string]any{
			"access_token": "access201",
			"token_type":   "Bearer",
		})
		defer srv.Close()

		token, err := newClient(t, srv.URL).Exchange(context.Background(), "test_code")
		if err != nil {
			t.Fatalf("expected no error for 201, got %v", err)
		}
		if token.AccessToken != "access201" {
			t.Errorf("unexpected access token: %s", token.AccessToken)
		}
	})

	t.Run("400 Surfaces Provider Reason", func(t *testing.T) {
		srv := newExchangeServer(t, http.StatusBadRequest, map[string]any{
			"error":             "invalid_grant",
			"error_description": "Invalid authorization code",
		})
		defer srv.Close()

		_, err := newClient(t, srv.URL).Exchange(context.Background(), "test_code")
		if err == nil {
			t.Fatal("expected error for 400 response")
		}
		if !errors.Is(err, shared.ErrTokenExchange) {
			t.Errorf("expected ErrTokenExchange, got %v", err)
		}
		if !strings.Contains(err.Error(), "invalid_grant") {
			t.Errorf("expected provider reason in error, got %v", err)
		}
	})

	t.Run("Other Statuses Are Fatal", func(t *testing.T) {
		srv := newExchangeServer(t, http.StatusInternalServerError, map[string]any{})
		defer srv.Close()

		_, err := newClient(t, srv.URL).Exchange(context.Background(), "test_code")
		if !errors.Is(err, shared.ErrTokenExchange) {
			t.Errorf("expected ErrTokenExchange for 500, got %v", err)
		}
	})

	t.Run("No Retry", func(t *testing.T) {
		calls := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		newClient(t, srv.URL).Exchange(context.Background(), "test_code")
		if calls != 1 {
			t.Errorf("expected exactly one exchange attempt, got %d", calls)
		}
	})

	t.Run("Empty Access Token Rejected", func(t *testing.T) {
		srv := newExchangeServer(t, http.StatusOK, map[string]any{"token_type": "Bearer"})
		defer srv.Close()

		if _, err := newClient(t, srv.URL).Exchange(context.Background(), "test_code"); err == nil {
			t.Error("expected error when response carries no access token")
		}
	})

	t.Run("Empty Code Rejected", func(t *testing.T) {
		client := newClient(t, "http://127.0.0.1:1")
		if _, err := client.Exchange(context.Background(), ""); err == nil {
			t.Error("expected error for empty authorization code")
		}
	})

	t.Run("Transport Failure", func(t *testing.T) {
		client := newClient(t, "http://127.0.0.1:1")
		_, err := client.Exchange(context.Background(), "test_code")
		if !errors.Is(err, shared.ErrTokenExchange) {
			t.Errorf("expected ErrTokenExchange for transport failure, got %v", err)
		}
	})
}
