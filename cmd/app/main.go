package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/fortuna-events/weft/internal"
	pkgconfig "github.com/fortuna-events/weft/pkg/config"
)

func run(ctx context.Context, cmd *cli.Command) error {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
		internal.WithDataPath(cmd.String("data")),
	}
	if cmd.Bool("fast") {
		opts = append(opts, internal.WithFastMode())
	}
	if cmd.Bool("dry") {
		opts = append(opts, internal.WithDryRun())
	}
	if cmd.Bool("preview") {
		opts = append(opts, internal.WithPreview())
	}
	if cmd.Bool("with-debug") {
		opts = append(opts, internal.WithDebugFragment())
	}
	if cmd.Bool("quiet") {
		opts = append(opts, internal.WithQuiet())
	}
	if cmd.Bool("watch") {
		opts = append(opts, internal.WithWatch())
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:   "weft",
		Usage:  "Publish cross-referencing text fragments as short URLs, substituting every reference with the real link",
		Action: run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("WEFT_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:        "data",
				Aliases:     []string{"d"},
				Usage:       "Path to the fragment data file",
				DefaultText: "data.txt",
				Value:       "data.txt",
			},
			&cli.BoolFlag{
				Name:    "fast",
				Aliases: []string{"f"},
				Usage:   "Resolve in dependency order, one registry call per fragment (fails on cycles)",
			},
			&cli.BoolFlag{
				Name:  "dry",
				Usage: "Parse and link only, do not resolve",
			},
			&cli.BoolFlag{
				Name:    "preview",
				Aliases: []string{"p"},
				Usage:   "Write a preview.dot/preview.png dependency graph",
			},
			&cli.BoolFlag{
				Name:  "with-debug",
				Usage: "Append a synthetic DEBUG fragment enumerating every fragment",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Show the progress bar only",
			},
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "Keep running and re-resolve when the data file changes",
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
