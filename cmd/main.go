package main

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/soundprint/soundprint/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	// Credentials may live in a .env file instead of config.toml.
	_ = godotenv.Load()

	logger := shared.NewLogger(nil)
	if os.Getenv("SOUNDPRINT_DEBUG") != "" {
		shared.SetLogLevel(logger, log.DebugLevel)
	}
	runner := NewRunner(RunnerOpts{Logger: logger})

	app := &cli.Command{
		Name:     "soundprint",
		Usage:    "Snapshot your Spotify listening profile to local storage",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Error("run failed", "error", err)

		switch {
		case errors.Is(err, shared.ErrAuthDenied):
			os.Exit(shared.ExitAuthDenied)
		case errors.Is(err, shared.ErrTokenExchange):
			os.Exit(shared.ExitExchange)
		case errors.Is(err, shared.ErrProfileFetch):
			os.Exit(shared.ExitProfileFetch)
		default:
			os.Exit(shared.ExitFailure)
		}
	}
}
