package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/zttl/internal"
	pkgconfig "github.com/starford/zttl/pkg/config"
)

const usage = "Usage: zttl [watch|mcp] <vault_path>"

var errVaultRequired = errors.New("vault path is required")

// loadConfig builds the configuration from defaults, the optional config
// file, and the positional vault path.
func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	vault := cmd.Args().First()
	if vault == "" {
		fmt.Fprintln(os.Stderr, usage)
		return nil, errVaultRequired
	}

	cfg := internal.NewDefaultConfig()
	if _, err := pkgconfig.LoadIfExists(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Vault.Path = vault

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func runConvert(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if _, err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func runWatch(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Watch(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app watch error: %w", err)
	}
	return nil
}

func runMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.ServeMCP(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app mcp error: %w", err)
	}
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:      "zttl",
		Usage:     "Rename Markdown notes to timestamped Zettelkasten identifiers and rewrite their links",
		ArgsUsage: "<vault_path>",
		Action:    runConvert,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "zttl.yaml",
				Value:       "zttl.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "watch",
				Usage:     "Convert the vault, then keep converting notes as they change",
				ArgsUsage: "<vault_path>",
				Action:    runWatch,
			},
			{
				Name:      "mcp",
				Usage:     "Serve conversion tools over MCP stdio",
				ArgsUsage: "<vault_path>",
				Action:    runMCP,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
