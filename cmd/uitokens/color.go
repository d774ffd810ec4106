package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gnana997/uitokens/pkg/color"
)

// shadeRow is one printed ramp step. On names the foreground, light or
// dark, that reads better on the shade.
type shadeRow struct {
	Step int    `json:"step"`
	Hex  string `json:"hex"`
	On   string `json:"on"`
}

func newShadesCmd() *cobra.Command {
	var fine, asJSON bool

	cmd := &cobra.Command{
		Use:   "shades HEX",
		Short: "Print the shade ramp of a color",
		Example: `  uitokens shades '#3b82f6'
  uitokens shades 3b82f6 --fine --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := color.ParseHex(args[0])
			if err != nil {
				return err
			}
			steps := color.ShadeSteps
			if fine {
				steps = color.FineSteps
			}
			shades := color.ShadesOf(base, steps)

			rows := make([]shadeRow, len(shades))
			for i, s := range shades {
				rows[i] = shadeRow{
					Step: s.Step,
					Hex:  s.Color.Hex(),
					On:   string(color.ContrastColor(s.Color, color.White, color.Black)),
				}
			}

			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}
			for _, r := range rows {
				fmt.Fprintf(w, "%4d  %s  %s\n", r.Step, r.Hex, r.On)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&fine, "fine", false, "Use 19 steps in increments of 50")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func newContrastCmd() *cobra.Command {
	var light, dark string

	cmd := &cobra.Command{
		Use:   "contrast BG",
		Short: "Pick the foreground that reads better on a background",
		Example: `  uitokens contrast '#1e293b'
  uitokens contrast '#fef3c7' --light '#fffbeb' --dark '#451a03'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bg, err := color.ParseHex(args[0])
			if err != nil {
				return fmt.Errorf("background: %w", err)
			}
			l, err := color.ParseHex(light)
			if err != nil {
				return fmt.Errorf("--light: %w", err)
			}
			d, err := color.ParseHex(dark)
			if err != nil {
				return fmt.Errorf("--dark: %w", err)
			}

			picked := l
			choice := color.ContrastColor(bg, l, d)
			if choice == color.Dark {
				picked = d
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (light %.2f:1, dark %.2f:1)\n",
				choice, picked.Hex(), color.ContrastRatio(bg, l), color.ContrastRatio(bg, d))
			return nil
		},
	}
	cmd.Flags().StringVar(&light, "light", "#ffffff", "Light candidate")
	cmd.Flags().StringVar(&dark, "dark", "#000000", "Dark candidate")
	return cmd
}
