package layerblend

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

type weightTween struct {
	tween  *gween.Tween
	target float32
}

// WeightSmoother eases node weights toward their latest targets instead of
// snapping to them. Targets come from the directional pass; call Update(dt)
// each frame to write the eased values into the graph.
//
// A smoother with a non-positive duration writes targets directly.
type WeightSmoother struct {
	duration float32
	fn       ease.TweenFunc
	tweens   map[NodeIndex]*weightTween
}

// NewWeightSmoother creates a smoother that reaches each new target after
// duration seconds using fn. A nil fn means ease.Linear.
func NewWeightSmoother(duration float32, fn ease.TweenFunc) *WeightSmoother {
	if fn == nil {
		fn = ease.Linear
	}
	return &WeightSmoother{
		duration: duration,
		fn:       fn,
		tweens:   make(map[NodeIndex]*weightTween),
	}
}

func (s *WeightSmoother) clone() *WeightSmoother {
	return NewWeightSmoother(s.duration, s.fn)
}

// SetTarget starts easing node from its current weight toward target. A
// tween already heading to the same target keeps running. It reports whether
// the node exists in graph.
func (s *WeightSmoother) SetTarget(graph Graph, n NodeIndex, target float32) bool {
	node, ok := graph.Node(n)
	if !ok {
		return false
	}
	if s.duration <= 0 {
		node.Weight = target
		delete(s.tweens, n)
		return true
	}
	if tw, ok := s.tweens[n]; ok && tw.target == target {
		return true
	}
	if node.Weight == target {
		delete(s.tweens, n)
		return true
	}
	s.tweens[n] = &weightTween{
		tween:  gween.New(node.Weight, target, s.duration, s.fn),
		target: target,
	}
	return true
}

// Update advances every running tween by dt seconds and writes the eased
// weights. Finished tweens and tweens whose node left the graph are dropped.
func (s *WeightSmoother) Update(graph Graph, dt float32) {
	for n, tw := range s.tweens {
		node, ok := graph.Node(n)
		if !ok {
			delete(s.tweens, n)
			continue
		}
		val, finished := tw.tween.Update(dt)
		node.Weight = val
		if finished {
			node.Weight = tw.target
			delete(s.tweens, n)
		}
	}
}

// Pending returns the number of weights still easing.
func (s *WeightSmoother) Pending() int {
	return len(s.tweens)
}
