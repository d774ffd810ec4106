package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gnana997/uitokens/pkg/host"
)

func newPublishCmd(a *app) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "publish [collections...]",
		Short: "Publish collections to the in-memory variables host",
		Long: `Generate the named collections (all when none are named) and publish them
as variables: collections and modes first, then values and alias pointers.
Aliases into collections that are not published are bound as values.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if len(args) == 0 {
				args = cfg.Collections
			}

			out, err := a.run(cfg, nil, args)
			if err != nil {
				return err
			}

			// Without names the whole library is published, imported
			// collections included.
			popts := []host.PublishOption{host.WithLogger(a.logger)}
			if len(args) > 0 {
				popts = append(popts, host.WithCollections(generated(out)...))
			}

			mem := host.NewMemory()
			report, err := host.Publish(cmd.Context(), mem, out.Result, popts...)
			if err != nil {
				return fmt.Errorf("publish failed: %w", err)
			}
			printReport(cmd.OutOrStdout(), report, mem)

			if strict && len(report.Skipped) > 0 {
				return fmt.Errorf("%w: %d bindings skipped", ErrStrict, len(report.Skipped))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when any binding was skipped")
	return cmd
}

func printReport(w io.Writer, r *host.Report, mem *host.Memory) {
	for _, c := range mem.Collections() {
		fmt.Fprintf(w, "%-20s %4d variables  %d modes\n", c.Name, len(c.Variables), len(c.Modes))
	}
	fmt.Fprintf(w, "Published %d variables in %d collections: %d values, %d aliases, %d inlined, %d fallbacks\n",
		r.Variables, r.Collections, r.Values, r.Aliases, r.Inlined, r.Fallbacks)
	for _, s := range r.Skipped {
		fmt.Fprintf(w, "  skipped %s/%s [%s]: %v\n", s.Collection, s.Token, s.Mode, s.Err)
	}
}
