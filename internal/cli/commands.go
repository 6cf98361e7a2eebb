package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/bloxtools/bloxsync/internal/codegen"
	"github.com/bloxtools/bloxsync/internal/config"
	"github.com/bloxtools/bloxsync/internal/logging"
	"github.com/bloxtools/bloxsync/internal/mapping"
	"github.com/bloxtools/bloxsync/internal/progress"
	"github.com/bloxtools/bloxsync/internal/remote/roblox"
	"github.com/bloxtools/bloxsync/internal/sync"
	"github.com/bloxtools/bloxsync/internal/ui"
)

func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to the product manifest",
		Value:   config.DefaultPath,
	}
}

func mappingFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "mapping",
		Aliases: []string{"m"},
		Usage:   "Path to the sync mapping lockfile",
		Value:   mapping.DefaultPath,
	}
}

func initCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Create a starter product manifest",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite an existing manifest",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			path := cmd.String("config")

			if config.Exists(path) && !cmd.Bool("force") {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			if err := config.Default().Save(path); err != nil {
				return fmt.Errorf("failed to write manifest: %w", err)
			}

			fmt.Printf("Created %s\n", path)
			fmt.Println("Edit the universe_id and product entries, then run: bloxsync sync")
			return nil
		},
	}
}

func syncCommand() *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Reconcile declared products with Roblox",
		Description: `Compares each declared product against the mapping lockfile and
   creates or updates it on Roblox as needed. Unchanged products make
   no remote calls. The lockfile records every successful sync.

   The Open Cloud API key is read from ROBLOX_PRODUCTS_API_KEY, or
   from a .env file in the working directory.`,
		Flags: []cli.Flag{
			configFlag(),
			mappingFlag(),
			&cli.BoolFlag{
				Name:    "dry-run",
				Aliases: []string{"d"},
				Usage:   "Preview changes without calling Roblox",
			},
			&cli.BoolFlag{
				Name:  "no-generate",
				Usage: "Skip code generation after syncing",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadManifest(cmd.String("config"))
			if err != nil {
				return err
			}
			store, err := mapping.Load(cmd.String("mapping"))
			if err != nil {
				return err
			}

			dryRun := cmd.Bool("dry-run")

			// Downstream log lines carry the universe without repeating it
			// at every call site.
			ctx = logging.NewContext(ctx, logging.With(logging.Universe(cfg.UniverseID)))

			gateway, err := roblox.NewFromEnv()
			if err != nil {
				return err
			}

			opts := sync.DefaultOptions()
			opts.DryRun = dryRun
			opts.MaxRetries = appSettings.Retry.MaxRetries
			opts.BaseDelay = appSettings.Retry.BaseDelay

			bar := progress.ForProducts(len(cfg.Products))
			opts.OnResult = func(pr sync.ProductResult) {
				_ = bar.Clear()
				printProductResult(pr)
				_ = bar.Add(1)
			}

			if dryRun {
				fmt.Printf("Dry run for universe %d:\n\n", cfg.UniverseID)
			} else {
				fmt.Printf("Syncing products for universe %d...\n\n", cfg.UniverseID)
			}

			result, err := sync.New(gateway, opts).SyncAll(ctx, cfg, store)
			_ = bar.Finish()
			if err != nil {
				return err
			}

			if !dryRun {
				if err := store.Save(); err != nil {
					return fmt.Errorf("failed to save mapping: %w", err)
				}
				fmt.Printf("\nMapping saved to: %s\n", store.Path())

				if !cmd.Bool("no-generate") {
					if err := codegen.WriteOutput(cfg, store); err != nil {
						return fmt.Errorf("code generation failed: %w", err)
					}
				}
			}

			fmt.Printf("\n%s\n", result.Summary())

			if !result.Success() {
				return fmt.Errorf("%d of %d products failed to sync",
					len(result.Failed()), result.TotalProcessed())
			}
			return nil
		},
	}
}

func generateCommand() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "Write the product module from the manifest and mapping",
		Flags: []cli.Flag{
			configFlag(),
			mappingFlag(),
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg, err := loadManifest(cmd.String("config"))
			if err != nil {
				return err
			}
			store, err := mapping.Load(cmd.String("mapping"))
			if err != nil {
				return err
			}
			return codegen.WriteOutput(cfg, store)
		},
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List declared products and their sync status",
		Flags: []cli.Flag{
			configFlag(),
			mappingFlag(),
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg, err := loadManifest(cmd.String("config"))
			if err != nil {
				return err
			}
			store, err := mapping.Load(cmd.String("mapping"))
			if err != nil {
				return err
			}

			fmt.Printf("Universe ID: %d\n\n", cfg.UniverseID)
			rows := ui.BuildProductRows(cfg, store)
			fmt.Print(ui.RenderProductTable(rows))
			return nil
		},
	}
}

// loadManifest loads the product manifest; Load validates it.
func loadManifest(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	logging.Debug("manifest loaded",
		logging.Path(path),
		logging.Count(len(cfg.Products)),
	)
	return cfg, nil
}

// printProductResult prints one status line per product outcome.
func printProductResult(pr sync.ProductResult) {
	label := fmt.Sprintf("%s (%s, %s)", pr.Key, pr.Product.Type.Display(), ui.Robux(pr.Product.Price))

	switch pr.Action {
	case sync.ActionCreated:
		msg := fmt.Sprintf("%s created", label)
		if pr.Message != "" {
			msg = fmt.Sprintf("%s %s", label, pr.Message)
		} else if pr.RobloxID != 0 {
			msg = fmt.Sprintf("%s created with ID %d", label, pr.RobloxID)
		}
		fmt.Println(ui.StatusSuccess(msg))
	case sync.ActionUpdated:
		msg := fmt.Sprintf("%s updated", label)
		if pr.Message != "" {
			msg = fmt.Sprintf("%s %s", label, pr.Message)
		}
		fmt.Println(ui.StatusSuccess(msg))
	case sync.ActionSkipped:
		fmt.Println(ui.StatusSkipped(fmt.Sprintf("%s unchanged", label)))
	case sync.ActionFailed:
		fmt.Println(ui.StatusError(fmt.Sprintf("%s failed: %v", label, pr.Error)))
	}
}
