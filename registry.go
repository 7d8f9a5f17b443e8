package layerblend

import (
	"errors"
	"fmt"
	"iter"
	"slices"
)

var (
	// ErrDuplicatePath is returned when two entries share a logical path.
	ErrDuplicatePath = errors.New("layerblend: duplicate animation path")
	// ErrEmptyEntry is returned when an entry maps to no graph nodes.
	ErrEmptyEntry = errors.New("layerblend: animation has no nodes")
)

// DirectionalNodes holds the four cardinal sub-clips of a 4-way directional
// animation.
type DirectionalNodes struct {
	Forward, Backward, Left, Right NodeIndex
}

// Nodes returns the sub-clips in forward, backward, left, right order.
func (d DirectionalNodes) Nodes() [4]NodeIndex {
	return [4]NodeIndex{d.Forward, d.Backward, d.Left, d.Right}
}

// Entry maps a logical animation to the graph nodes that realize it and the
// mask bits it occupies.
type Entry struct {
	Path  Path
	Nodes []NodeIndex
	Mask  Mask

	// Directional is non-nil for 4-way directional animations. Its nodes are
	// always included in Nodes.
	Directional *DirectionalNodes
}

// Registry resolves logical animations to graph nodes. It is read-only while
// a tick runs.
type Registry interface {
	// Lookup returns the entry for path. A missing entry is not an error; the
	// animation is simply skipped.
	Lookup(path Path) (Entry, bool)
	// Entries yields every entry in registration order.
	Entries() iter.Seq[Entry]
}

// StaticRegistry is an immutable Registry built by RegistryBuilder.
type StaticRegistry struct {
	entries []Entry
	byPath  map[Path]int
}

// Lookup implements Registry.
func (r *StaticRegistry) Lookup(path Path) (Entry, bool) {
	if r == nil {
		return Entry{}, false
	}
	i, ok := r.byPath[path]
	if !ok {
		return Entry{}, false
	}
	return r.entries[i], true
}

// Entries implements Registry.
func (r *StaticRegistry) Entries() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		if r == nil {
			return
		}
		for _, e := range r.entries {
			if !yield(e) {
				return
			}
		}
	}
}

// Len returns the number of registered animations.
func (r *StaticRegistry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}

// RegistryBuilder collects entries and validates them once in Build. Errors
// from Add are deferred to Build so definitions can be chained.
type RegistryBuilder struct {
	entries []Entry
	byPath  map[Path]int
	errs    []error
}

// NewRegistryBuilder returns an empty builder.
func NewRegistryBuilder() *RegistryBuilder {
	return &RegistryBuilder{byPath: make(map[Path]int)}
}

// Add registers a plain animation. Duplicate node indices are dropped while
// keeping first-seen order.
func (b *RegistryBuilder) Add(path Path, mask Mask, nodes ...NodeIndex) *RegistryBuilder {
	b.add(Entry{Path: path, Mask: mask, Nodes: dedupNodes(nodes)})
	return b
}

// AddDirectional registers a 4-way directional animation. Any extra nodes
// are layered alongside the four sub-clips.
func (b *RegistryBuilder) AddDirectional(path Path, mask Mask, dir DirectionalNodes, extra ...NodeIndex) *RegistryBuilder {
	cardinal := dir.Nodes()
	nodes := dedupNodes(append(cardinal[:], extra...))
	b.add(Entry{Path: path, Mask: mask, Nodes: nodes, Directional: &dir})
	return b
}

func (b *RegistryBuilder) add(e Entry) {
	if len(e.Nodes) == 0 {
		b.errs = append(b.errs, fmt.Errorf("add %q: %w", e.Path, ErrEmptyEntry))
		return
	}
	if _, ok := b.byPath[e.Path]; ok {
		b.errs = append(b.errs, fmt.Errorf("add %q: %w", e.Path, ErrDuplicatePath))
		return
	}
	b.byPath[e.Path] = len(b.entries)
	b.entries = append(b.entries, e)
}

// Build validates the collected entries and returns the registry.
func (b *RegistryBuilder) Build() (*StaticRegistry, error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}
	r := &StaticRegistry{
		entries: slices.Clone(b.entries),
		byPath:  make(map[Path]int, len(b.byPath)),
	}
	for p, i := range b.byPath {
		r.byPath[p] = i
	}
	return r, nil
}

func dedupNodes(nodes []NodeIndex) []NodeIndex {
	out := make([]NodeIndex, 0, len(nodes))
	seen := make(map[NodeIndex]struct{}, len(nodes))
	for _, n := range nodes {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
