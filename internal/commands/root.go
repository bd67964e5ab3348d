// Package commands implements the screentime command-line interface.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/starford/screentime/internal"
	"github.com/starford/screentime/internal/store"
	"github.com/starford/screentime/internal/timeservice"
	"github.com/starford/screentime/internal/version"
	pkgconfig "github.com/starford/screentime/pkg/config"
)

// globals holds the root flags shared by every command.
type globals struct {
	configPath string
	database   string
	jsonOut    bool
	verbose    bool
}

// New builds the root command.
func New() *cli.Command {
	g := &globals{}
	return &cli.Command{
		Name:    "screentime",
		Usage:   "Track screen time as a base value plus rule-based adjustments",
		Version: version.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
				Destination: &g.configPath,
			},
			&cli.StringFlag{
				Name:        "database",
				Aliases:     []string{"d"},
				Usage:       "Database DSN, overriding the config file",
				Destination: &g.database,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "Print results as JSON instead of tables",
				Destination: &g.jsonOut,
			},
			&cli.BoolFlag{
				Name:        "verbose",
				Usage:       "Log at debug level",
				Destination: &g.verbose,
			},
		},
		Commands: []*cli.Command{
			g.serveCommand(),
			g.mcpCommand(),
			g.timeCommand(),
			g.adjustmentTypeCommand(),
			g.adjustmentCommand(),
			g.timeEntryCommand(),
		},
	}
}

// loadConfig reads the config file if present, then applies the root flags.
func (g *globals) loadConfig() (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(g.configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if g.database != "" {
		cfg.Database.DSN = g.database
	}
	if g.verbose {
		cfg.App.LogLevel = slog.LevelDebug
	}
	return cfg, nil
}

// withService opens the configured store for the duration of fn.
func (g *globals) withService(ctx context.Context, fn func(*timeservice.Service) error) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	level := slog.LevelWarn
	if g.verbose {
		level = slog.LevelDebug
	}
	logger := internal.NewLogger(os.Stderr, level)

	st, err := store.Open(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer st.Close()

	logger.Debug("store opened", slog.String("driver", cfg.Database.Driver))
	return fn(timeservice.NewService(st, timeservice.WithLogger(logger)))
}

func (g *globals) serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API server",
		Action: func(ctx context.Context, _ *cli.Command) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
				return fmt.Errorf("app run error: %w", err)
			}
			return nil
		},
	}
}

func (g *globals) mcpCommand() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Serve MCP tools over stdio",
		Action: func(ctx context.Context, _ *cli.Command) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			return internal.RunMCP(ctx, internal.WithConfig(cfg))
		},
	}
}

func (g *globals) timeCommand() *cli.Command {
	return &cli.Command{
		Name:  "time",
		Usage: "Print the current adjusted time",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return g.withService(ctx, func(svc *timeservice.Service) error {
				t, err := svc.AdjustedTime(ctx)
				if err != nil {
					return err
				}
				if g.jsonOut {
					return printJSON(cmd, t)
				}
				_, err = fmt.Fprintln(out(cmd), t.FormattedTime)
				return err
			})
		},
	}
}
