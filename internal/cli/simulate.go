package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/tanema/gween/ease"

	"github.com/phanxgames/layerblend"
)

// SimulateOptions holds flags for the simulate command.
type SimulateOptions struct {
	DT     float64
	Smooth float64
}

// CallRecord is one player call in simulate output.
type CallRecord struct {
	Op   string `json:"op"`
	Node uint32 `json:"node"`
}

// NodeRecord is one node's state after a frame.
type NodeRecord struct {
	Node   uint32  `json:"node"`
	Mask   string  `json:"mask"`
	Weight float32 `json:"weight"`
}

// FrameRecord is one simulated frame.
type FrameRecord struct {
	Frame    int          `json:"frame"`
	Resolve  bool         `json:"resolve"`
	Started  int          `json:"started"`
	Stopped  int          `json:"stopped"`
	Weighted int          `json:"weighted"`
	Missing  []string     `json:"missing,omitempty"`
	Calls    []CallRecord `json:"calls,omitempty"`
	Nodes    []NodeRecord `json:"nodes"`
}

// NewSimulateCommand creates the simulate command.
func NewSimulateCommand(rootOpts *RootOptions, cfg Config) *cobra.Command {
	opts := &SimulateOptions{}

	cmd := &cobra.Command{
		Use:   "simulate <content.yaml> <script.yaml>",
		Short: "Run a scripted sequence of ticks",
		Long: `Run a script of request, movement, and tick steps against registry content
and print every player call and node state after each frame.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd, rootOpts, opts, args[0], args[1])
		},
	}

	cmd.Flags().Float64Var(&opts.DT, "dt", cfg.DT, "seconds per frame for tick steps without dt")
	cmd.Flags().Float64Var(&opts.Smooth, "smooth", 0, "ease directional weights over this many seconds")

	return cmd
}

func runSimulate(cmd *cobra.Command, rootOpts *RootOptions, opts *SimulateOptions, contentPath, scriptPath string) error {
	c, err := loadContent(contentPath)
	if err != nil {
		return err
	}
	script, err := loadScript(scriptPath)
	if err != nil {
		return err
	}

	var animOpts []layerblend.AnimatorOption
	if rootOpts.Verbose {
		logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
		animOpts = append(animOpts, layerblend.WithLogger(logger), layerblend.WithDebug(true))
	}
	if opts.Smooth > 0 {
		animOpts = append(animOpts, layerblend.WithSmoothing(layerblend.NewWeightSmoother(float32(opts.Smooth), ease.InOutQuad)))
	}

	runner := layerblend.NewScriptRunner(script, c.Registry, animOpts...)
	runner.SetFrameTime(float32(opts.DT))

	var frames []FrameRecord
	runner.Run(func(rep layerblend.FrameReport) {
		frames = append(frames, record(rep, runner.Graph()))
	})

	return writeFrames(cmd.OutOrStdout(), rootOpts.Format, frames)
}

func record(rep layerblend.FrameReport, g *layerblend.MapGraph) FrameRecord {
	fr := FrameRecord{
		Frame:    rep.Frame,
		Resolve:  rep.Resolve,
		Started:  rep.Stats.Started,
		Stopped:  rep.Stats.Stopped,
		Weighted: rep.Stats.Weighted,
	}
	for _, p := range rep.Stats.Missing {
		fr.Missing = append(fr.Missing, string(p))
	}
	for _, c := range rep.Calls {
		fr.Calls = append(fr.Calls, CallRecord{Op: c.Op.String(), Node: uint32(c.Node)})
	}
	for _, n := range g.Nodes() {
		node, _ := g.Node(n)
		fr.Nodes = append(fr.Nodes, NodeRecord{Node: uint32(n), Mask: node.Mask.String(), Weight: node.Weight})
	}
	return fr
}

func writeFrames(w io.Writer, format string, frames []FrameRecord) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(frames)
	}
	for _, f := range frames {
		tag := ""
		if f.Resolve {
			tag = " resolve"
		}
		fmt.Fprintf(w, "frame %d%s started=%d stopped=%d weighted=%d\n",
			f.Frame, tag, f.Started, f.Stopped, f.Weighted)
		for _, p := range f.Missing {
			fmt.Fprintf(w, "  skip %s\n", p)
		}
		for _, c := range f.Calls {
			fmt.Fprintf(w, "  %s %d\n", c.Op, c.Node)
		}
		for _, n := range f.Nodes {
			fmt.Fprintf(w, "  node %d mask=%s weight=%.3f\n", n.Node, n.Mask, n.Weight)
		}
	}
	return nil
}
