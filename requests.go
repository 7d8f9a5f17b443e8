package layerblend

import "iter"

// Dispatcher supplies an entity's requests for one tick.
type Dispatcher interface {
	RequestSource
	// ActivePaths yields every requested path across all priorities.
	ActivePaths() iter.Seq[Path]
}

// RequestTable is an in-memory Dispatcher. Requests keep insertion order
// within a priority. Version changes on every mutation so callers can skip
// ticks whose requests did not change.
type RequestTable struct {
	tiers   [len(Priorities)][]Request
	version uint64
}

// tier returns the requests at prio, or nil for an unknown priority.
func (t *RequestTable) tier(prio Priority) *[]Request {
	if int(prio) >= len(t.tiers) {
		return nil
	}
	return &t.tiers[prio]
}

// Set requests path at prio. Setting a path already present at prio updates
// its mode in place. Unknown priorities are ignored.
func (t *RequestTable) Set(prio Priority, path Path, mode PlayMode) {
	tier := t.tier(prio)
	if tier == nil {
		return
	}
	for i := range *tier {
		if (*tier)[i].Path == path {
			if (*tier)[i].Mode != mode {
				(*tier)[i].Mode = mode
				t.version++
			}
			return
		}
	}
	*tier = append(*tier, Request{Path: path, Mode: mode})
	t.version++
}

// Remove drops path from prio and reports whether it was present.
func (t *RequestTable) Remove(prio Priority, path Path) bool {
	tier := t.tier(prio)
	if tier == nil {
		return false
	}
	for i := range *tier {
		if (*tier)[i].Path == path {
			*tier = append((*tier)[:i], (*tier)[i+1:]...)
			t.version++
			return true
		}
	}
	return false
}

// RemoveAll drops path from every priority.
func (t *RequestTable) RemoveAll(path Path) {
	for _, p := range Priorities {
		t.Remove(p, path)
	}
}

// Clear drops every request at prio.
func (t *RequestTable) Clear(prio Priority) {
	tier := t.tier(prio)
	if tier == nil || len(*tier) == 0 {
		return
	}
	*tier = (*tier)[:0]
	t.version++
}

// Reset drops every request.
func (t *RequestTable) Reset() {
	for _, p := range Priorities {
		t.Clear(p)
	}
}

// Has reports whether path is requested at prio.
func (t *RequestTable) Has(prio Priority, path Path) bool {
	tier := t.tier(prio)
	if tier == nil {
		return false
	}
	for _, r := range *tier {
		if r.Path == path {
			return true
		}
	}
	return false
}

// Version returns a counter that changes whenever the table is mutated.
func (t *RequestTable) Version() uint64 {
	return t.version
}

// Requests implements RequestSource.
func (t *RequestTable) Requests(prio Priority) iter.Seq[Request] {
	return func(yield func(Request) bool) {
		tier := t.tier(prio)
		if tier == nil {
			return
		}
		for _, r := range *tier {
			if !yield(r) {
				return
			}
		}
	}
}

// ActivePaths implements Dispatcher. Paths requested at several priorities
// are yielded once, highest priority first.
func (t *RequestTable) ActivePaths() iter.Seq[Path] {
	return func(yield func(Path) bool) {
		seen := make(map[Path]struct{})
		for _, p := range Priorities {
			for _, r := range t.tiers[p] {
				if _, ok := seen[r.Path]; ok {
					continue
				}
				seen[r.Path] = struct{}{}
				if !yield(r.Path) {
					return
				}
			}
		}
	}
}
