package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/gnana997/uitokens/pkg/config"
	"github.com/gnana997/uitokens/pkg/generator"
	mcpserver "github.com/gnana997/uitokens/pkg/mcp"
	"github.com/gnana997/uitokens/pkg/mcplog"
	"github.com/gnana997/uitokens/pkg/metrics"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		metricsAddr string
		mcpLogPath  string
		watchConfig bool
	)

	cmd := &cobra.Command{
		Use:   "serve [collections...]",
		Short: "Serve the generated tokens over MCP on stdin/stdout",
		Long: `Generate the collections once and serve them to MCP clients over stdio.

Tools: list_collections, get_tokens, resolve_reference, generate_shades,
contrast_color. With --watch the served tokens are regenerated whenever the
configuration changes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if metricsAddr == "" {
				metricsAddr = cfg.MetricsAddr
			}
			if mcpLogPath == "" {
				mcpLogPath = cfg.MCPLogPath
			}
			if len(args) == 0 {
				args = cfg.Collections
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			m, shutdown := a.startMetrics(metricsAddr)
			defer shutdown()

			out, err := a.run(cfg, m, args)
			if err != nil {
				return err
			}

			callLog, err := mcplog.Open(mcpLogPath)
			if err != nil {
				return err
			}
			if callLog != nil {
				defer callLog.Close()
			}

			srv, err := mcpserver.NewServer(out.Result, mcpserver.Options{CallLog: callLog, Metrics: m})
			if err != nil {
				return err
			}

			if watchConfig {
				go func() {
					err := a.watchConfig(ctx, func(cfg *config.Config) {
						out, err := a.run(cfg, m, args)
						if err != nil {
							a.logger.Error("Regeneration failed", "error", err)
							return
						}
						srv.SetResult(out.Result)
						a.logger.Info("Serving regenerated tokens", "tokens", out.Result.Library.Len())
					})
					if err != nil {
						a.logger.Error("Config watcher failed", "error", err)
					}
				}()
			}

			a.logger.Info("MCP server listening on stdio", "collections", len(out.Result.Library.Names()))
			return srv.ServeStdio()
		},
	}

	f := cmd.Flags()
	f.StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")
	f.StringVar(&mcpLogPath, "mcp-log", "", "Append a JSONL line per tool call to this file")
	f.BoolVar(&watchConfig, "watch", false, "Regenerate when the configuration changes")
	return cmd
}

// run generates names with cfg. A partial run is logged, not returned as an
// error, so clients still see every token that resolved.
func (a *app) run(cfg *config.Config, m *metrics.Metrics, names []string) (*generator.Output, error) {
	engine, err := a.newEngine(cfg, observe(m)...)
	if err != nil {
		return nil, err
	}
	out, err := engine.Run(names...)
	if err != nil {
		return nil, err
	}
	if ferr := out.Err(); ferr != nil {
		a.logger.Warn("Run reported failures", "error", ferr)
	}
	return out, nil
}
