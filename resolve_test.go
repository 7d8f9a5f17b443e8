package layerblend

import (
	"iter"
	"testing"
)

// tiers is a RequestSource keyed by priority.
type tiers map[Priority][]Request

func (t tiers) Requests(p Priority) iter.Seq[Request] {
	return func(yield func(Request) bool) {
		for _, r := range t[p] {
			if !yield(r) {
				return
			}
		}
	}
}

func walkBlockRegistry(t *testing.T) *StaticRegistry {
	t.Helper()
	reg, err := NewRegistryBuilder().
		Add("walk", 0b01, 1, 2, 3).
		Add("block", 0b10, 9).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return reg
}

func assertMask(t *testing.T, g Graph, n NodeIndex, want Mask) {
	t.Helper()
	node, ok := g.Node(n)
	if !ok {
		t.Fatalf("node %d missing from graph", n)
	}
	if node.Mask != want {
		t.Errorf("node %d mask = %v, want %v", n, node.Mask, want)
	}
}

func TestResolveSingleRequest(t *testing.T) {
	reg := walkBlockRegistry(t)
	g := NewMapGraph(1, 2, 3, 9)
	p := NewClipPlayer()

	active := Resolve(reg, tiers{
		PriorityMedium: {{Path: "walk", Mode: PlayRepeat}},
	}, g, p)

	for _, n := range []NodeIndex{1, 2, 3} {
		assertMask(t, g, n, 0b00)
		if got := p.Count(OpRepeat, n); got != 1 {
			t.Errorf("node %d repeat calls = %d, want 1", n, got)
		}
		if got := p.Count(OpReplay, n); got != 0 {
			t.Errorf("node %d replay calls = %d, want 0", n, got)
		}
		if !active.Contains(n) {
			t.Errorf("node %d not active", n)
		}
	}
	if active.Contains(9) {
		t.Error("unrequested node 9 is active")
	}
}

func TestResolveHigherTierBlocksLower(t *testing.T) {
	reg := walkBlockRegistry(t)
	g := NewMapGraph(1, 2, 3, 9)
	p := NewClipPlayer()

	Resolve(reg, tiers{
		PriorityHigh:   {{Path: "block", Mode: PlayReplay}},
		PriorityMedium: {{Path: "walk", Mode: PlayRepeat}},
	}, g, p)

	for _, n := range []NodeIndex{1, 2, 3} {
		assertMask(t, g, n, 0b10)
	}
	assertMask(t, g, 9, 0b00)
	if got := p.Count(OpReplay, 9); got != 1 {
		t.Errorf("block replay calls = %d, want 1", got)
	}
}

func TestResolveSameTierDoesNotBlock(t *testing.T) {
	reg, err := NewRegistryBuilder().
		Add("a", 0b011, 1).
		Add("b", 0b110, 2).
		Add("c", 0b001, 3).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	g := NewMapGraph(1, 2, 3)
	p := NewClipPlayer()

	Resolve(reg, tiers{
		PriorityMedium: {{Path: "a"}, {Path: "b"}},
		PriorityLow:    {{Path: "c"}},
	}, g, p)

	assertMask(t, g, 1, 0)
	assertMask(t, g, 2, 0)
	// Low is blocked by every bit claimed at Medium, including bits it does not own.
	assertMask(t, g, 3, 0b111)
}

func TestResolveClearsOwnBitsBeforeBlocking(t *testing.T) {
	reg, err := NewRegistryBuilder().
		Add("legs", 0b01, 1).
		Add("torso", 0b10, 2).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	g := NewMapGraph(1, 2)
	g.Add(1).Mask = MaskAllBlocked
	g.Add(2).Mask = MaskAllBlocked
	p := NewClipPlayer()

	Resolve(reg, tiers{
		PriorityHigh: {{Path: "torso"}},
		PriorityLow:  {{Path: "legs"}},
	}, g, p)

	// Own bit cleared, higher bit set, other stale bits left in place.
	assertMask(t, g, 1, MaskAllBlocked&^0b01)
	assertMask(t, g, 2, MaskAllBlocked&^0b10)
}

func TestResolveSweptNodeRerequested(t *testing.T) {
	reg := walkBlockRegistry(t)
	g := NewMapGraph(1, 2, 3, 9)
	p := NewClipPlayer()

	active := Resolve(reg, tiers{PriorityMedium: {{Path: "walk"}}}, g, p)
	Sweep(reg, active, g, p)
	assertMask(t, g, 9, MaskAllBlocked)

	Resolve(reg, tiers{
		PriorityHigh:   {{Path: "block", Mode: PlayReplay}},
		PriorityMedium: {{Path: "walk"}},
	}, g, p)

	// Only block's own bit is reopened; the rest of the swept mask stays.
	assertMask(t, g, 9, MaskAllBlocked&^0b10)
	for _, n := range []NodeIndex{1, 2, 3} {
		assertMask(t, g, n, 0b10)
	}
	if got := p.Count(OpReplay, 9); got != 1 {
		t.Errorf("block replay calls = %d, want 1", got)
	}
}

func TestResolveIdempotent(t *testing.T) {
	reg := walkBlockRegistry(t)
	g := NewMapGraph(1, 2, 3, 9)
	p := NewClipPlayer()
	src := tiers{
		PriorityHigh:   {{Path: "block", Mode: PlayReplay}},
		PriorityMedium: {{Path: "walk", Mode: PlayRepeat}},
	}

	Resolve(reg, src, g, p)
	first := len(p.Calls)
	Resolve(reg, src, g, p)

	if len(p.Calls) != first {
		t.Errorf("second resolve made %d extra calls", len(p.Calls)-first)
	}
	assertMask(t, g, 1, 0b10)
	assertMask(t, g, 9, 0)
}

func TestResolveSkipsMissingEntriesAndNodes(t *testing.T) {
	reg := walkBlockRegistry(t)
	g := NewMapGraph(1, 3) // node 2 not instantiated yet
	p := NewClipPlayer()

	active := Resolve(reg, tiers{
		PriorityHigh:   {{Path: "not-loaded"}},
		PriorityMedium: {{Path: "walk"}},
	}, g, p)

	assertMask(t, g, 1, 0)
	assertMask(t, g, 3, 0)
	if !active.Contains(2) {
		t.Error("node 2 should still be active")
	}
	if got := p.Count(OpRepeat, 2); got != 1 {
		t.Errorf("node 2 repeat calls = %d, want 1", got)
	}
}

func TestResolvePropertyLowerSharedBitBlocked(t *testing.T) {
	reg, err := NewRegistryBuilder().
		Add("hit", 0b100, 1).
		Add("aim", 0b110, 2).
		Add("run", 0b001, 3).
		Add("idle", 0b100, 4).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	g := NewMapGraphFor(reg)
	p := NewClipPlayer()

	Resolve(reg, tiers{
		PriorityHigh:   {{Path: "hit"}},
		PriorityMedium: {{Path: "aim"}, {Path: "run"}},
		PriorityLow:    {{Path: "idle"}},
	}, g, p)

	// aim shares 0b100 with hit: blocked on that bit only.
	assertMask(t, g, 2, 0b100)
	// run shares no bit with hit but is still masked with every High bit.
	assertMask(t, g, 3, 0b100)
	// idle is blocked by High and Medium claims.
	assertMask(t, g, 4, 0b111)
	n1, _ := g.Node(1)
	if n1.Mask.Overlaps(0b100) {
		t.Errorf("hit blocked on its own bit: %v", n1.Mask)
	}
}

func TestActiveSetNodesSorted(t *testing.T) {
	s := ActiveSet{5: {}, 1: {}, 3: {}}
	got := s.Nodes()
	want := []NodeIndex{1, 3, 5}
	if len(got) != len(want) {
		t.Fatalf("Nodes() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Nodes() = %v, want %v", got, want)
		}
	}
}
