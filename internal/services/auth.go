package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/soundprint/soundprint/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
)

// Scopes requested during authorization. Top-item reads are always needed;
// the playlist scopes cover owned and followed playlists.
var spotifyScopes = []string{
	"user-top-read",
	"playlist-read-private",
	"playlist-read-collaborative",
}

// AuthClient performs the authorization-code grant against Spotify's accounts
// service.
type AuthClient struct {
	config     *oauth2.Config
	tokenURL   string
	httpClient *http.Client
}

// AuthOption configures an AuthClient.
type AuthOption func(*AuthClient)

// WithTokenURL overrides the token endpoint. Used in tests.
func WithTokenURL(u string) AuthOption {
	return func(c *AuthClient) { c.tokenURL = u }
}

// WithAuthHTTPClient overrides the HTTP client used for the token exchange.
func WithAuthHTTPClient(hc *http.Client) AuthOption {
	return func(c *AuthClient) { c.httpClient = hc }
}

// NewAuthClient creates a new AuthClient for the given application credentials.
func NewAuthClient(clientID, clientSecret, redirectURI string, opts ...AuthOption) (*AuthClient, error) {
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("%w: client_id and client_secret are required", shared.ErrMissingCredentials)
	}

	client := &AuthClient{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Scopes:       spotifyScopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  spotifyAuthURL,
				TokenURL: spotifyTokenURL,
			},
		},
		tokenURL:   spotifyTokenURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// AuthURL returns the consent URL the user's browser must visit.
//
// Carries response_type=code, client_id, the space-joined scope list, the
// state token, and the redirect URI.
func (c *AuthClient) AuthURL(state string) string {
	return c.config.AuthCodeURL(state)
}

// tokenResponse is the JSON body of a successful token exchange.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	Scope        string `json:"scope"`
}

// Exchange trades an authorization code for an access token.
//
// POSTs a form-encoded body with HTTP Basic client authentication. 200 and
// 201 are success; 400 carries a provider-reported reason in its JSON body,
// which is surfaced in the returned error. No retry is attempted: a stale or
// invalid code cannot become valid on retry.
func (c *AuthClient) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: empty authorization code", shared.ErrTokenExchange)
	}

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", c.config.RedirectURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrTokenExchange, err)
	}
	req.SetBasicAuth(c.config.ClientID, c.config.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrTokenExchange, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		// Accepted below.
	case resp.StatusCode == http.StatusBadRequest:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: provider rejected the code: %s", shared.ErrTokenExchange, strings.TrimSpace(string(body)))
	default:
		return nil, fmt.Errorf("%w: unexpected status %d", shared.ErrTokenExchange, resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", shared.ErrTokenExchange, err)
	}

	if tr.AccessToken == "" {
		return nil, fmt.Errorf("%w: response carried no access token", shared.ErrTokenExchange)
	}

	token := &oauth2.Token{
		AccessToken:  tr.AccessToken,
		TokenType:    tr.TokenType,
		RefreshToken: tr.RefreshToken,
	}
	if tr.ExpiresIn > 0 {
		token.Expiry = time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	}

	return token, nil
}
