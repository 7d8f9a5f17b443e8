package layerblend

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/tanema/gween/ease"
)

func locomotionRegistry(t *testing.T) *StaticRegistry {
	t.Helper()
	reg, err := NewRegistryBuilder().
		AddDirectional("move", 0b001, DirectionalNodes{Forward: 1, Backward: 2, Left: 3, Right: 4}).
		Add("attack", 0b010, 5, 6).
		Add("block", 0b011, 7).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	return reg
}

func forward() DirectionProvider {
	return DirectionFunc(func() (Vec3, bool) { return Vec3{0, 0, -1}, true })
}

func TestAnimatorUpdateRunsAllPasses(t *testing.T) {
	reg := locomotionRegistry(t)
	g := NewMapGraphFor(reg)
	p := NewClipPlayer()
	a := NewAnimator(reg, g, p)

	var tbl RequestTable
	tbl.Set(PriorityLow, "move", PlayRepeat)
	tbl.Set(PriorityMedium, "attack", PlayReplay)

	stats := a.Update(&tbl, OrientationFromYaw(0), forward())

	if stats.Started != 6 {
		t.Errorf("Started = %d, want 6", stats.Started)
	}
	if stats.Stopped != 1 {
		t.Errorf("Stopped = %d, want 1 (block)", stats.Stopped)
	}
	if stats.Weighted != 4 {
		t.Errorf("Weighted = %d, want 4", stats.Weighted)
	}
	assertMask(t, g, 1, 0b010)
	assertMask(t, g, 5, 0)
	assertMask(t, g, 7, MaskAllBlocked)
	if w := weightOf(t, g, 1); w != 1 {
		t.Errorf("forward weight = %v", w)
	}
	if w := weightOf(t, g, 2); w != 0 {
		t.Errorf("backward weight = %v", w)
	}
	if len(a.Active()) != 6 {
		t.Errorf("active = %v", a.Active().Nodes())
	}
}

func TestAnimatorUpdateIdempotent(t *testing.T) {
	reg := locomotionRegistry(t)
	g := NewMapGraphFor(reg)
	p := NewClipPlayer()
	a := NewAnimator(reg, g, p)

	var tbl RequestTable
	tbl.Set(PriorityHigh, "block", PlayRepeat)
	tbl.Set(PriorityLow, "move", PlayRepeat)

	a.Update(&tbl, OrientationFromYaw(0), forward())
	p.ResetCalls()
	stats := a.Update(&tbl, OrientationFromYaw(0), forward())

	if stats.Started != 0 {
		t.Errorf("second update started %d nodes", stats.Started)
	}
	for _, c := range p.Calls {
		if c.Op != OpStop {
			t.Errorf("unexpected %v on node %d", c.Op, c.Node)
		}
	}
	assertMask(t, g, 1, 0b011)
}

func TestAnimatorStopAfterRequestDropped(t *testing.T) {
	reg := locomotionRegistry(t)
	g := NewMapGraphFor(reg)
	p := NewClipPlayer()
	a := NewAnimator(reg, g, p)

	var tbl RequestTable
	tbl.Set(PriorityMedium, "attack", PlayRepeat)
	a.UpdateMasks(&tbl)
	p.ResetCalls()

	tbl.Remove(PriorityMedium, "attack")
	stats := a.UpdateMasks(&tbl)

	for _, n := range []NodeIndex{5, 6} {
		assertMask(t, g, n, MaskAllBlocked)
		if got := p.Count(OpStop, n); got != 1 {
			t.Errorf("node %d stop calls = %d, want 1", n, got)
		}
	}
	if stats.Stopped != 7 {
		t.Errorf("Stopped = %d, want every node", stats.Stopped)
	}
}

func TestAnimatorNilDirectionSkipsBlend(t *testing.T) {
	reg := locomotionRegistry(t)
	g := NewMapGraphFor(reg)
	a := NewAnimator(reg, g, NewClipPlayer())

	var tbl RequestTable
	tbl.Set(PriorityLow, "move", PlayRepeat)
	if stats := a.Update(&tbl, OrientationFromYaw(0), nil); stats.Weighted != 0 {
		t.Errorf("Weighted = %d, want 0", stats.Weighted)
	}
}

func TestAnimatorSmoothing(t *testing.T) {
	reg := locomotionRegistry(t)
	g := NewMapGraphFor(reg)
	a := NewAnimator(reg, g, NewClipPlayer(), WithSmoothing(NewWeightSmoother(1, ease.Linear)))

	var tbl RequestTable
	tbl.Set(PriorityLow, "move", PlayRepeat)
	a.Update(&tbl, OrientationFromYaw(0), forward())

	// Backward starts at 1 and eases toward 0.
	if w := weightOf(t, g, 2); w != 1 {
		t.Errorf("backward weight before Advance = %v, want 1", w)
	}
	a.Advance(0.5)
	a.Advance(0.5)
	if w := weightOf(t, g, 2); w != 0 {
		t.Errorf("backward weight after Advance = %v, want 0", w)
	}
}

func TestAnimatorDebugLogging(t *testing.T) {
	reg := locomotionRegistry(t)
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	a := NewAnimator(reg, NewMapGraphFor(reg), NewClipPlayer(), WithLogger(logger), WithDebug(true))

	var tbl RequestTable
	tbl.Set(PriorityHigh, "not-loaded", PlayReplay)
	stats := a.UpdateMasks(&tbl)

	if len(stats.Missing) != 1 || stats.Missing[0] != "not-loaded" {
		t.Errorf("Missing = %v", stats.Missing)
	}
	out := buf.String()
	if !strings.Contains(out, "layerblend tick") {
		t.Errorf("missing tick log: %q", out)
	}
	if !strings.Contains(out, "path=not-loaded") {
		t.Errorf("missing skipped path log: %q", out)
	}
}

func TestAnimatorDebugOffIsSilent(t *testing.T) {
	reg := locomotionRegistry(t)
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	a := NewAnimator(reg, NewMapGraphFor(reg), NewClipPlayer(), WithLogger(logger))

	var tbl RequestTable
	a.UpdateMasks(&tbl)
	if buf.Len() != 0 {
		t.Errorf("unexpected log output: %q", buf.String())
	}
}

func TestAnimatorDrivesEveryTarget(t *testing.T) {
	reg := locomotionRegistry(t)
	body, bodyPlayer := NewMapGraphFor(reg), NewClipPlayer()
	cape, capePlayer := NewMapGraphFor(reg), NewClipPlayer()
	a := NewAnimator(reg, body, bodyPlayer, WithTarget(cape, capePlayer))

	if got := len(a.Targets()); got != 2 {
		t.Fatalf("targets = %d, want 2", got)
	}

	var tbl RequestTable
	tbl.Set(PriorityLow, "move", PlayRepeat)
	tbl.Set(PriorityMedium, "attack", PlayReplay)
	tbl.Set(PriorityHigh, "not-loaded", PlayReplay)
	stats := a.Update(&tbl, OrientationFromYaw(0), forward())

	if stats.Started != 12 {
		t.Errorf("Started = %d, want 6 per target", stats.Started)
	}
	if stats.Stopped != 2 {
		t.Errorf("Stopped = %d, want block on each target", stats.Stopped)
	}
	if stats.Weighted != 8 {
		t.Errorf("Weighted = %d, want 4 per target", stats.Weighted)
	}
	if len(stats.Missing) != 1 {
		t.Errorf("Missing = %v, want one entry", stats.Missing)
	}
	for _, g := range []Graph{body, cape} {
		assertMask(t, g, 1, 0b010)
		assertMask(t, g, 7, MaskAllBlocked)
		if w := weightOf(t, g, 2); w != 0 {
			t.Errorf("backward weight = %v, want 0", w)
		}
	}
	for _, p := range []*ClipPlayer{bodyPlayer, capePlayer} {
		if got := p.Count(OpReplay, 5); got != 1 {
			t.Errorf("attack replay calls = %d, want 1", got)
		}
		if got := p.Count(OpStop, 7); got != 1 {
			t.Errorf("block stop calls = %d, want 1", got)
		}
	}
}

func TestAnimatorSmoothsEveryTarget(t *testing.T) {
	reg := locomotionRegistry(t)
	body, cape := NewMapGraphFor(reg), NewMapGraphFor(reg)
	a := NewAnimator(reg, body, NewClipPlayer(),
		WithTarget(cape, NewClipPlayer()),
		WithSmoothing(NewWeightSmoother(1, ease.Linear)))

	var tbl RequestTable
	tbl.Set(PriorityLow, "move", PlayRepeat)
	a.Update(&tbl, OrientationFromYaw(0), forward())
	a.Advance(1)

	for _, g := range []Graph{body, cape} {
		if w := weightOf(t, g, 2); w != 0 {
			t.Errorf("backward weight after Advance = %v, want 0", w)
		}
	}
}

func TestAnimatorIgnoresNilTarget(t *testing.T) {
	reg := locomotionRegistry(t)
	a := NewAnimator(reg, NewMapGraphFor(reg), NewClipPlayer(), WithTarget(nil, NewClipPlayer()))
	if got := len(a.Targets()); got != 1 {
		t.Errorf("targets = %d, want 1", got)
	}
}
