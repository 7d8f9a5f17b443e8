package layerblend

// Sweep fully masks and stops every registered animation that shares no node
// with active. An animation with at least one active node is left alone.
// Stop is called once per node on each sweep, even for nodes shared by two
// inactive animations, so players must tolerate stopping a node that is
// already stopped. It returns the stopped nodes in registry order.
func Sweep(reg Registry, active ActiveSet, graph Graph, player Player) []NodeIndex {
	var stopped []NodeIndex
	seen := make(map[NodeIndex]struct{})
	for e := range reg.Entries() {
		if overlaps(e.Nodes, active) {
			continue
		}
		for _, n := range e.Nodes {
			if _, dup := seen[n]; dup {
				continue
			}
			seen[n] = struct{}{}
			if node, ok := graph.Node(n); ok {
				node.Mask = MaskAllBlocked
			}
			player.Stop(n)
			stopped = append(stopped, n)
		}
	}
	return stopped
}

func overlaps(nodes []NodeIndex, active ActiveSet) bool {
	for _, n := range nodes {
		if active.Contains(n) {
			return true
		}
	}
	return false
}
