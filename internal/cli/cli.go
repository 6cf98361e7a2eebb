// Package cli provides the command-line interface for bloxsync.
package cli

import (
	"context"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/bloxtools/bloxsync/internal/logging"
	"github.com/bloxtools/bloxsync/internal/settings"
	"github.com/bloxtools/bloxsync/internal/ui"
)

var (
	// Version is the current version of the application.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// BuildDate is the date and time of the build.
	BuildDate = "unknown"
)

// appSettings holds user settings loaded once in the Before hook.
var appSettings = settings.Default()

// Run executes the CLI application with the given context and arguments.
func Run(ctx context.Context, args []string) error {
	app := &cli.Command{
		Name:    "bloxsync",
		Usage:   "Sync declared developer products and game passes to Roblox",
		Version: Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose output (info level logging)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug output (debug level logging, implies verbose)",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			// A project-local .env may carry ROBLOX_PRODUCTS_API_KEY.
			_ = godotenv.Load()

			loaded, err := settings.Load()
			if err != nil {
				logging.Warn("failed to load settings, using defaults",
					logging.Err(err))
			} else {
				appSettings = loaded
			}

			configureColors(cmd)
			return ctx, configureLogging(cmd)
		},
		Commands: []*cli.Command{
			initCommand(),
			syncCommand(),
			generateCommand(),
			listCommand(),
			versionCommand(),
		},
	}
	return app.Run(ctx, args)
}

// configureColors sets up color output based on settings and CLI flags.
func configureColors(cmd *cli.Command) {
	switch appSettings.Output.Color {
	case "never":
		ui.DisableColors()
	case "always":
		ui.EnableColors()
	}
	if cmd.Bool("no-color") {
		ui.DisableColors()
	}
}

// configureLogging sets up the logging level based on settings and CLI flags.
func configureLogging(cmd *cli.Command) error {
	opts := logging.DefaultOptions()

	switch {
	case cmd.Bool("debug"):
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	case cmd.Bool("verbose") || appSettings.Output.Verbose:
		opts.Level = slog.LevelInfo
	}

	logger := logging.New(opts)
	logging.SetDefault(logger)

	logging.Debug("logging configured", slog.String("level", opts.Level.String()))

	return nil
}
