package layerblend

import "slices"

// Graph gives the engine mutable access to animation graph nodes. A missing
// node is skipped, never treated as an error.
type Graph interface {
	Node(n NodeIndex) (*GraphNode, bool)
}

// MapGraph is a Graph backed by a map. New nodes start unmasked with full
// weight, the way a freshly instantiated graph asset does.
type MapGraph struct {
	nodes map[NodeIndex]*GraphNode
}

// NewMapGraph creates a graph holding the given nodes.
func NewMapGraph(nodes ...NodeIndex) *MapGraph {
	g := &MapGraph{nodes: make(map[NodeIndex]*GraphNode, len(nodes))}
	for _, n := range nodes {
		g.Add(n)
	}
	return g
}

// NewMapGraphFor creates a graph holding every node referenced by reg.
func NewMapGraphFor(reg Registry) *MapGraph {
	g := NewMapGraph()
	for e := range reg.Entries() {
		for _, n := range e.Nodes {
			g.Add(n)
		}
	}
	return g
}

// Add inserts a node if it is not present and returns it.
func (g *MapGraph) Add(n NodeIndex) *GraphNode {
	if node, ok := g.nodes[n]; ok {
		return node
	}
	node := &GraphNode{Weight: 1}
	g.nodes[n] = node
	return node
}

// Remove deletes a node from the graph.
func (g *MapGraph) Remove(n NodeIndex) {
	delete(g.nodes, n)
}

// Node implements Graph.
func (g *MapGraph) Node(n NodeIndex) (*GraphNode, bool) {
	node, ok := g.nodes[n]
	return node, ok
}

// Nodes returns every node index in ascending order.
func (g *MapGraph) Nodes() []NodeIndex {
	out := make([]NodeIndex, 0, len(g.nodes))
	for n := range g.nodes {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

// Len returns the number of nodes in the graph.
func (g *MapGraph) Len() int {
	return len(g.nodes)
}
