package main

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gnana997/uitokens/pkg/config"
	"github.com/gnana997/uitokens/pkg/export"
	"github.com/gnana997/uitokens/pkg/generator"
	"github.com/gnana997/uitokens/pkg/util"
)

const version = "0.1.0-dev"

// app is the state shared by the subcommands of one invocation.
type app struct {
	dir      string
	logLevel string

	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "uitokens",
		Short: "Generate design tokens from a numeric configuration",
		Long: `uitokens derives color palettes, breakpoint matrices, typography and
spacing scales from a small configuration and exports them as DTCG-style
JSON, publishes them to a variables host, or serves them over MCP.

Configuration is read from .uitokens/config.yaml (or .yml/.toml), then .env,
then UITOKENS_* environment variables.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&a.dir, "dir", ".", "Project root containing .uitokens/ and .env")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Override the configured log level (debug, info, warn, error)")

	root.AddCommand(
		newGenerateCmd(a),
		newPublishCmd(a),
		newShadesCmd(),
		newContrastCmd(),
		newServeCmd(a),
		newWatchCmd(a),
		newVersionCmd(),
	)
	return root
}

// loadConfig reads the project configuration and builds the logger. Logs go
// to errOut so stdout stays free for command output and MCP.
func (a *app) loadConfig(errOut io.Writer) (*config.Config, error) {
	cfg, err := a.readConfig()
	if err != nil {
		return nil, err
	}
	lc := cfg.LoggerConfig()
	lc.Output = errOut
	a.logger = util.NewLogger(lc)
	return cfg, nil
}

// readConfig loads the configuration and applies the global flags. Paths in
// the configuration are relative to the project root.
func (a *app) readConfig() (*config.Config, error) {
	cfg, err := config.Load(a.dir)
	if err != nil {
		return nil, err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	cfg.OutputDir = a.path(cfg.OutputDir)
	cfg.ImportDir = a.path(cfg.ImportDir)
	cfg.MCPLogPath = a.path(cfg.MCPLogPath)
	return cfg, nil
}

// path resolves a configured path against the project root.
func (a *app) path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(a.dir, p)
}

// newEngine builds an engine for cfg, importing previously exported
// collections when an import directory is configured.
func (a *app) newEngine(cfg *config.Config, opts ...generator.Option) (*generator.Engine, error) {
	opts = append([]generator.Option{generator.WithLogger(a.logger)}, opts...)

	if cfg.ImportDir != "" {
		cache := util.NewFileCache(util.FileCacheConfig{Logger: a.logger})
		defer cache.Close()

		cols, err := export.Import(cache, cfg.ImportDir)
		if err != nil {
			return nil, fmt.Errorf("failed to import %s: %w", cfg.ImportDir, err)
		}
		a.logger.Info("Imported collections", "dir", cfg.ImportDir, "collections", len(cols))
		opts = append(opts, generator.WithImported(cols...))
	}
	return generator.New(cfg.Settings(), opts...), nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "uitokens %s\n", version)
		},
	}
}
