package layerblend

import (
	"iter"
	"slices"
)

// RequestSource yields the requests active at one priority.
type RequestSource interface {
	Requests(p Priority) iter.Seq[Request]
}

// ActiveSet is the set of graph nodes left running after a resolution pass.
type ActiveSet map[NodeIndex]struct{}

// Contains reports whether n is active.
func (s ActiveSet) Contains(n NodeIndex) bool {
	_, ok := s[n]
	return ok
}

// Nodes returns the active nodes in ascending order.
func (s ActiveSet) Nodes() []NodeIndex {
	out := make([]NodeIndex, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

// Resolve walks the requests from PriorityHigh to PriorityLow, unmasking each
// requested node on its own bits and masking it with every bit claimed by a
// strictly higher priority. Nodes that are not already playing are started
// with the request's play mode. Requests without a registry entry are
// skipped. It returns the nodes that should keep running this tick.
func Resolve(reg Registry, src RequestSource, graph Graph, player Player) ActiveSet {
	active := make(ActiveSet)
	resolve(reg, src, graph, player, active, nil)
	return active
}

func resolve(reg Registry, src RequestSource, graph Graph, player Player, active ActiveSet, stats *TickStats) {
	var higher Mask
	for _, prio := range Priorities {
		// Bits claimed inside this tier only apply to lower tiers.
		blocked := higher
		for req := range src.Requests(prio) {
			entry, ok := reg.Lookup(req.Path)
			if !ok {
				if stats != nil {
					stats.Missing = append(stats.Missing, req.Path)
				}
				continue
			}
			for _, n := range entry.Nodes {
				active[n] = struct{}{}
				if node, ok := graph.Node(n); ok {
					node.Mask &^= entry.Mask
					node.Mask |= blocked
					if stats != nil {
						stats.Masked++
					}
				}
				if player.IsPlaying(n) {
					continue
				}
				switch req.Mode {
				case PlayReplay:
					player.Replay(n)
				default:
					player.Repeat(n)
				}
				if stats != nil {
					stats.Started++
				}
			}
			higher |= entry.Mask
		}
	}
}
