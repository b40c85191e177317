package main

import (
	"context"
	"fmt"

	"github.com/soundprint/soundprint/internal/auth"
	"github.com/soundprint/soundprint/internal/services"
	"github.com/soundprint/soundprint/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// Auth performs the OAuth2 authorization-code flow for Spotify.
//
// Starts a local callback listener, opens the browser for consent, exchanges
// the authorization code for tokens, and saves them to the config file. A
// pre-provisioned authorization code (config or SPOTIFY_AUTH_CODE) skips the
// browser step.
func (r *Runner) Auth(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	config := r.loadConfig(cmd)

	spotify := config.Credentials.Spotify
	if spotify.ClientID == "" || spotify.ClientSecret == "" {
		return fmt.Errorf("%w: Spotify client_id and client_secret must be set in config.toml or the environment", shared.ErrMissingCredentials)
	}

	sess, err := r.doAuthFlow(ctx, config, spotify.AuthCode)
	if err != nil {
		return err
	}

	if err := config.Credentials.Spotify.Update(sess.Token); err != nil {
		return fmt.Errorf("failed to update spotify configuration: %w", err)
	}

	if err := shared.SaveConfig(configPath, config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	r.writePlainln("✓ Authorization successful")
	r.writePlainln("✓ Tokens saved to %s", configPath)
	r.writePlainln("")
	r.writePlainln("You can now use: soundprint snapshot")

	return nil
}

// doAuthFlow builds and runs the authorization flow against the real Spotify
// accounts service.
func (r *Runner) doAuthFlow(ctx context.Context, config *shared.Config, authCode string) (*auth.Session, error) {
	spotify := config.Credentials.Spotify

	authClient, err := services.NewAuthClient(spotify.ClientID, spotify.ClientSecret, config.RedirectURI())
	if err != nil {
		return nil, fmt.Errorf("failed to create auth client: %w", err)
	}

	flow, err := auth.NewFlow(auth.FlowOpts{
		ClientID:    spotify.ClientID,
		RedirectURI: config.RedirectURI(),
		ListenAddr:  fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port),
		AuthCode:    authCode,
		Exchanger:   authClient,
		OpenBrowser: r.openBrowser,
		Logger:      shared.WithLogger(r.logger, "component", "auth"),
	})
	if err != nil {
		return nil, err
	}

	if authCode == "" {
		r.writePlainln("→ Opening browser for Spotify authorization...")
	}

	return flow.Run(ctx)
}

// ensureToken returns a usable token, running the authorization flow when the
// config carries neither a token nor a pre-provisioned code worth keeping.
func (r *Runner) ensureToken(ctx context.Context, configPath string, config *shared.Config) (*oauth2.Token, error) {
	if token := config.Credentials.Spotify.Token(); token != nil {
		return token, nil
	}

	sess, err := r.doAuthFlow(ctx, config, config.Credentials.Spotify.AuthCode)
	if err != nil {
		return nil, err
	}

	if err := config.Credentials.Spotify.Update(sess.Token); err != nil {
		return nil, fmt.Errorf("failed to update spotify configuration: %w", err)
	}

	if err := shared.SaveConfig(configPath, config); err != nil {
		r.logger.Warn("failed to save tokens to config", "path", configPath, "error", err)
	}

	return sess.Token, nil
}
