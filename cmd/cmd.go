// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// setupCommand initializes the config file and run-history database
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Initialize config file and run-history database",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Setup,
	}
}

// authCommand handles the browser-based Spotify authorization
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "auth",
		Usage:  "Authenticate with Spotify using OAuth2",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Auth,
	}
}

// snapshotCommand runs the acquisition pipeline
func snapshotCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "snapshot",
		Usage: "Fetch and persist your listening profile (cache-first)",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output the acquired library as JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
			},
		},
		Action: r.Snapshot,
	}
}

// reportCommand renders cached snapshots to Markdown and HTML
func reportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Render the cached snapshot as Markdown and HTML",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "user",
				Usage: "User ID to report on (auto-detected when only one snapshot exists)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory for report files",
				Value:   "report",
			},
		},
		Action: r.Report,
	}
}

// runsCommand lists recorded fetch runs
func runsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "runs",
		Usage: "List recorded fetch runs",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "user",
				Usage: "User ID to list runs for (auto-detected when only one snapshot exists)",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of runs to list",
				Value: 20,
			},
		},
		Action: r.Runs,
	}
}
