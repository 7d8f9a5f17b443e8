package layerblend

import (
	"io"
	"iter"
	"log/slog"
	"slices"
)

// TickStats summarizes what one Animator update changed.
type TickStats struct {
	Started  int    // Replay or Repeat calls
	Stopped  int    // Stop calls
	Masked   int    // node masks written by the priority pass
	Weighted int    // node weights written by the directional pass
	Missing  []Path // requested paths without a registry entry
}

// Target is one animation player and the graph it drives. An entity with a
// split rig has one Target per player.
type Target struct {
	Graph  Graph
	Player Player
}

type target struct {
	Target
	smoother *WeightSmoother
}

// Animator runs the per-tick layering passes for one entity. It owns no
// graph or player state; it only holds the targets it was built with and the
// active set from the last priority pass.
//
// An Animator is not safe for concurrent use. Entities with disjoint graphs
// may be updated from separate goroutines with one Animator each.
type Animator struct {
	reg     Registry
	targets []target

	logger   *slog.Logger
	debug    bool
	smoother *WeightSmoother

	active ActiveSet
}

// AnimatorOption configures an Animator.
type AnimatorOption func(*Animator)

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) AnimatorOption {
	return func(a *Animator) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithDebug enables per-tick debug logging of TickStats and skipped lookups.
func WithDebug(enabled bool) AnimatorOption {
	return func(a *Animator) { a.debug = enabled }
}

// WithSmoothing eases directional weights through s instead of writing them
// directly. Additional targets get their own smoother with the same duration
// and easing. Call Advance each frame to progress the easing.
func WithSmoothing(s *WeightSmoother) AnimatorOption {
	return func(a *Animator) { a.smoother = s }
}

// WithTarget adds another player and graph driven by the same requests.
// Targets with a nil graph or player are ignored.
func WithTarget(graph Graph, player Player) AnimatorOption {
	return func(a *Animator) { a.addTarget(graph, player) }
}

// NewAnimator creates an Animator over one entity's registry, graph, and
// player. Use WithTarget for entities with more than one player.
func NewAnimator(reg Registry, graph Graph, player Player, opts ...AnimatorOption) *Animator {
	a := &Animator{
		reg:    reg,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		active: make(ActiveSet),
	}
	a.addTarget(graph, player)
	for _, opt := range opts {
		opt(a)
	}
	if a.smoother != nil {
		for i := range a.targets {
			if i == 0 {
				a.targets[i].smoother = a.smoother
			} else {
				a.targets[i].smoother = a.smoother.clone()
			}
		}
	}
	return a
}

func (a *Animator) addTarget(graph Graph, player Player) {
	if graph == nil || player == nil {
		return
	}
	a.targets = append(a.targets, target{Target: Target{Graph: graph, Player: player}})
}

// Update runs the priority pass, the inactivity sweep, and the directional
// pass in that order. Running it again with unchanged requests does not
// start any node twice.
func (a *Animator) Update(d Dispatcher, orient Orientation, dirs DirectionProvider) TickStats {
	stats := a.updateMasks(d)
	if dirs != nil {
		stats.Weighted = a.UpdateBlend(d.ActivePaths(), orient, dirs)
	}
	a.debugLog(stats)
	return stats
}

// UpdateMasks runs only the priority pass and the inactivity sweep. Use it
// on ticks where requests changed but movement did not.
func (a *Animator) UpdateMasks(src RequestSource) TickStats {
	stats := a.updateMasks(src)
	a.debugLog(stats)
	return stats
}

func (a *Animator) updateMasks(src RequestSource) TickStats {
	var stats TickStats
	active := make(ActiveSet, len(a.active))
	for i, t := range a.targets {
		missing := len(stats.Missing)
		resolve(a.reg, src, t.Graph, t.Player, active, &stats)
		if i > 0 {
			// Every target sees the same requests.
			stats.Missing = stats.Missing[:missing]
		}
	}
	for _, t := range a.targets {
		stats.Stopped += len(Sweep(a.reg, active, t.Graph, t.Player))
	}
	a.active = active
	return stats
}

// UpdateBlend runs only the directional pass over paths. It returns the
// number of node weights written, or targeted when smoothing is enabled,
// summed over every target.
func (a *Animator) UpdateBlend(paths iter.Seq[Path], orient Orientation, dirs DirectionProvider) int {
	move, ok := dirs.MovementDirection()
	if !ok {
		return 0
	}
	if len(a.targets) > 1 {
		paths = slices.Values(slices.Collect(paths))
	}
	var weighted int
	for _, t := range a.targets {
		weighted += blendDirectional(a.reg, paths, orient, move, t.setWeight)
	}
	return weighted
}

func (t target) setWeight(n NodeIndex, w float32) bool {
	if t.smoother != nil {
		return t.smoother.SetTarget(t.Graph, n, w)
	}
	node, ok := t.Graph.Node(n)
	if !ok {
		return false
	}
	node.Weight = w
	return true
}

// Advance progresses weight smoothing by dt seconds. It does nothing when
// smoothing is disabled.
func (a *Animator) Advance(dt float32) {
	for _, t := range a.targets {
		if t.smoother != nil {
			t.smoother.Update(t.Graph, dt)
		}
	}
}

// Active returns the nodes left running by the last priority pass. The
// returned set must not be modified.
func (a *Animator) Active() ActiveSet {
	return a.active
}

// Graph returns the graph of the first target, or nil when there is none.
func (a *Animator) Graph() Graph {
	if len(a.targets) == 0 {
		return nil
	}
	return a.targets[0].Graph
}

// Targets returns every player and graph the Animator drives.
func (a *Animator) Targets() []Target {
	out := make([]Target, len(a.targets))
	for i, t := range a.targets {
		out[i] = t.Target
	}
	return out
}

// Registry returns the registry the Animator reads from.
func (a *Animator) Registry() Registry {
	return a.reg
}
