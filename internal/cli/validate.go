package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phanxgames/layerblend"
)

// AnimationSummary describes one registry entry.
type AnimationSummary struct {
	Path        string   `json:"path"`
	Mask        string   `json:"mask"`
	Layers      []string `json:"layers,omitempty"`
	Nodes       []uint32 `json:"nodes"`
	Directional bool     `json:"directional,omitempty"`
}

// ValidationResult is the output of the validate command.
type ValidationResult struct {
	Layers     []string           `json:"layers"`
	Animations []AnimationSummary `json:"animations"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <content.yaml>",
		Short: "Validate registry content",
		Long: `Load registry content and report every animation with its mask and nodes.
Fails on unknown layers, duplicate paths, empty animations, and mask overflow.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadContent(args[0])
			if err != nil {
				return err
			}
			return writeValidation(cmd.OutOrStdout(), rootOpts.Format, summarize(c))
		},
	}
}

func summarize(c *layerblend.Content) ValidationResult {
	res := ValidationResult{Layers: c.Layout.Names(layerblend.MaskAllBlocked)}
	for e := range c.Registry.Entries() {
		s := AnimationSummary{
			Path:        string(e.Path),
			Mask:        e.Mask.String(),
			Layers:      c.Layout.Names(e.Mask),
			Directional: e.Directional != nil,
		}
		for _, n := range e.Nodes {
			s.Nodes = append(s.Nodes, uint32(n))
		}
		res.Animations = append(res.Animations, s)
	}
	return res
}

func writeValidation(w io.Writer, format string, res ValidationResult) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	fmt.Fprintf(w, "ok: %d animations, %d layers\n", len(res.Animations), len(res.Layers))
	for _, a := range res.Animations {
		kind := ""
		if a.Directional {
			kind = " directional"
		}
		fmt.Fprintf(w, "  %s%s mask=%s layers=[%s] nodes=%v\n",
			a.Path, kind, a.Mask, strings.Join(a.Layers, " "), a.Nodes)
	}
	return nil
}
