package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/ChuckBuilds/ledmatrix-of-the-day/internal"
	"github.com/ChuckBuilds/ledmatrix-of-the-day/internal/config"
)

func run(ctx context.Context, cmd *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	configPath := cmd.String("config")

	cfg := config.Default()
	if _, err := os.Stat(configPath); err == nil {
		if err := config.Load(configPath, cfg); err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}
	} else {
		slog.Warn("config file not found, using defaults", slog.String("path", configPath))
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
		internal.WithConfigPath(configPath),
	}
	if cmd.Bool("headless") {
		opts = append(opts, internal.WithHeadless(int(cmd.Int("hz")), cmd.Uint("ticks")))
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:   "ofday",
		Usage:  "Daily featured content on a small LED matrix: words, verses, facts, rotated by category and day of year",
		Action: run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("OFDAY_CONFIG_FILE"),
			},
			&cli.BoolFlag{
				Name:  "headless",
				Usage: "Run without a window",
			},
			&cli.IntFlag{
				Name:  "hz",
				Usage: "Tick rate in headless mode",
				Value: 60,
			},
			&cli.UintFlag{
				Name:  "ticks",
				Usage: "Stop after N ticks in headless mode (0 = run forever)",
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
