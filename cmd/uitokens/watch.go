package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gnana997/uitokens/pkg/config"
	"github.com/gnana997/uitokens/pkg/watch"
)

func newWatchCmd(a *app) *cobra.Command {
	var (
		o           generateOptions
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "watch [collections...]",
		Short: "Regenerate the export whenever the configuration changes",
		Long: `Generate once, then watch .uitokens/config.(yaml|yml|toml) and .env and
regenerate after every change. Files that do not exist yet are picked up when
they are created. An invalid configuration is logged and the previous export
is kept.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if metricsAddr == "" {
				metricsAddr = cfg.MetricsAddr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			m, shutdown := a.startMetrics(metricsAddr)
			defer shutdown()

			flags := o
			flags.collections = args
			run := func(cfg *config.Config) {
				opts := flags
				opts.apply(cfg, cmd)
				out, err := a.generate(ctx, cfg, opts, m)
				if err != nil {
					a.logger.Error("Generation failed", "error", err)
					return
				}
				printRunSummary(cmd.OutOrStdout(), out)
			}

			run(cfg)
			return a.watchConfig(ctx, run)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&o.outDir, "out", "o", "", "Output directory (default from config, \"tokens\")")
	f.StringVar(&o.zipPath, "zip", "", "Write a ZIP archive to this path instead of a directory")
	f.StringSliceVar(&o.include, "include", nil, "Only export tokens matching these Collection/path globs")
	f.StringSliceVar(&o.exclude, "exclude", nil, "Skip tokens matching these Collection/path globs")
	f.StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")
	return cmd
}

// watchConfig calls onReload with a freshly loaded configuration after every
// change to the project's configuration files, until ctx is done. Reloads
// that fail validation are logged and skipped.
func (a *app) watchConfig(ctx context.Context, onReload func(*config.Config)) error {
	w, err := watch.New(config.WatchPaths(a.dir), func(changed []string) {
		cfg, err := a.readConfig()
		if err != nil {
			a.logger.Error("Ignoring invalid configuration", "files", changed, "error", err)
			return
		}
		onReload(cfg)
	}, watch.Options{}, a.logger)
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}

	<-ctx.Done()
	return w.Stop()
}
