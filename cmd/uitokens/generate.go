package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/gnana997/uitokens/pkg/config"
	"github.com/gnana997/uitokens/pkg/export"
	"github.com/gnana997/uitokens/pkg/generator"
	"github.com/gnana997/uitokens/pkg/metrics"
)

// ErrStrict is returned by --strict runs that recorded failures.
var ErrStrict = errors.New("generation reported failures")

type generateOptions struct {
	collections []string
	outDir      string
	zipPath     string
	include     []string
	exclude     []string
	importDir   string
	strict      bool
	concurrency int
}

func newGenerateCmd(a *app) *cobra.Command {
	var o generateOptions

	cmd := &cobra.Command{
		Use:   "generate [collections...]",
		Short: "Generate token collections and export them as JSON",
		Long: `Generate the named collections (all when none are named) and write one
<Collection>/<mode>.tokens.json file per mode.

Examples:
  uitokens generate                               # every collection into ./tokens
  uitokens generate Theme --out build/tokens      # Theme plus the collections it aliases
  uitokens generate --zip tokens.zip              # archive instead of a directory
  uitokens generate --include 'Theme/**' --exclude '**/hover'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			o.collections = args
			o.apply(cfg, cmd)

			out, err := a.generate(cmd.Context(), cfg, o, nil)
			if err != nil {
				return err
			}
			printRunSummary(cmd.OutOrStdout(), out)
			if o.strict {
				if ferr := out.Err(); ferr != nil {
					return fmt.Errorf("%w: %w", ErrStrict, ferr)
				}
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&o.outDir, "out", "o", "", "Output directory (default from config, \"tokens\")")
	f.StringVar(&o.zipPath, "zip", "", "Write a ZIP archive to this path instead of a directory")
	f.StringSliceVar(&o.include, "include", nil, "Only export tokens matching these Collection/path globs")
	f.StringSliceVar(&o.exclude, "exclude", nil, "Skip tokens matching these Collection/path globs")
	f.StringVar(&o.importDir, "import", "", "Read previously exported collections from this directory")
	f.BoolVar(&o.strict, "strict", false, "Exit non-zero when any token or collection failed")
	f.IntVar(&o.concurrency, "concurrency", 0, "Parallel file writes (0 = automatic)")
	return cmd
}

// apply fills unset options from the configuration. Flags win.
func (o *generateOptions) apply(cfg *config.Config, cmd *cobra.Command) {
	if len(o.collections) == 0 {
		o.collections = cfg.Collections
	}
	if o.outDir == "" {
		o.outDir = cfg.OutputDir
	}
	if !cmd.Flags().Changed("include") {
		o.include = cfg.Include
	}
	if o.importDir != "" {
		cfg.ImportDir = o.importDir
	}
}

// generate runs the engine and writes the export. m may be nil.
func (a *app) generate(ctx context.Context, cfg *config.Config, o generateOptions, m *metrics.Metrics) (*generator.Output, error) {
	filter, err := export.NewFilter(o.include, o.exclude)
	if err != nil {
		return nil, err
	}

	out, err := a.run(cfg, m, o.collections)
	if err != nil {
		return nil, err
	}

	files, err := export.Files(out.Result, generated(out), filter)
	if err != nil {
		return nil, err
	}

	format := "json"
	if o.zipPath != "" {
		format = "zip"
		err = export.WriteZipFile(o.zipPath, files)
	} else {
		err = export.WriteDir(ctx, o.outDir, files, o.concurrency)
	}
	if err != nil {
		return nil, err
	}
	if m != nil {
		m.RecordFilesWritten(format, len(files))
	}

	dest := o.outDir
	if o.zipPath != "" {
		dest = o.zipPath
	}
	a.logger.Info("Export written", "files", len(files), "format", format, "path", dest)
	return out, nil
}

// generated lists the requested collections that were generated.
func generated(out *generator.Output) []string {
	cols := out.Collections()
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}

func printRunSummary(w io.Writer, out *generator.Output) {
	cols := out.Collections()
	tokens := 0
	for _, c := range cols {
		tokens += len(c.Tokens)
	}
	fmt.Fprintf(w, "Generated %d tokens in %d collections (%s)\n", tokens, len(cols), out.Duration.Round(time.Millisecond))

	failures := len(out.Failures) + len(out.Result.Failures)
	if failures > 0 {
		fmt.Fprintf(w, "%d failures:\n", failures)
		for _, err := range out.Failures {
			fmt.Fprintf(w, "  %v\n", err)
		}
		for _, f := range out.Result.Failures {
			fmt.Fprintf(w, "  %v\n", f)
		}
	}
}
