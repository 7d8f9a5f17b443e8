// Package cli implements the layerblend command: content validation and
// scripted tick simulation.
package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command. cfg supplies flag defaults.
func NewRootCommand(cfg Config) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "layerblend",
		Short: "Inspect and simulate priority-masked animation layering",
		Long: `layerblend loads animation registry content and runs it through the
priority, sweep, and directional blend passes without a game engine.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", cfg.Verbose, "log each tick to stderr")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", cfg.Format, "output format (json|text)")

	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewSimulateCommand(opts, cfg))

	return cmd
}
