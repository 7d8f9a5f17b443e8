package layerblend

import (
	"iter"
	"math"
)

// Orientation holds an entity's four body-relative unit directions.
type Orientation struct {
	Forward, Back, Left, Right Vec3
}

// OrientationFromYaw builds an orientation for a Y-up body rotated by yaw
// radians about the Y axis. Yaw 0 faces -Z with +X to the right.
func OrientationFromYaw(yaw float64) Orientation {
	sin, cos := math.Sincos(yaw)
	fwd := Vec3{X: float32(-sin), Z: float32(-cos)}
	right := Vec3{X: float32(cos), Z: float32(-sin)}
	return Orientation{
		Forward: fwd,
		Back:    fwd.Neg(),
		Left:    right.Neg(),
		Right:   right,
	}
}

// DirectionProvider reports the direction an entity is moving in. ok is
// false when there is no movement signal this tick.
type DirectionProvider interface {
	MovementDirection() (dir Vec3, ok bool)
}

// DirectionFunc adapts a function to DirectionProvider.
type DirectionFunc func() (Vec3, bool)

// MovementDirection implements DirectionProvider.
func (f DirectionFunc) MovementDirection() (Vec3, bool) { return f() }

// DirectionalWeight returns the blend weight of a sub-clip facing bodyDir
// while moving along moveDir. Both must be unit vectors. The weight is 1 when
// they are aligned, falls linearly with the angle to 0 at 90 degrees, and
// stays 0 beyond. It is never NaN.
func DirectionalWeight(bodyDir, moveDir Vec3) float32 {
	dot := bodyDir.Dot(moveDir)
	switch {
	case dot <= 0:
		return 0
	case dot >= 1:
		// Rounding can push near-parallel vectors past 1, where acos is NaN.
		return 1
	default:
		return float32(1 - math.Acos(float64(dot))/(math.Pi/2))
	}
}

// DirectionalWeights returns the weights of the forward, backward, left, and
// right sub-clips for moveDir.
func DirectionalWeights(orient Orientation, moveDir Vec3) [4]float32 {
	return [4]float32{
		DirectionalWeight(orient.Forward, moveDir),
		DirectionalWeight(orient.Back, moveDir),
		DirectionalWeight(orient.Left, moveDir),
		DirectionalWeight(orient.Right, moveDir),
	}
}

// BlendDirectional writes directional weights onto the four sub-clips of every
// directional animation in paths. When dirs reports no movement nothing is
// written and previous weights are kept. It returns the number of nodes whose
// weight was set.
func BlendDirectional(reg Registry, paths iter.Seq[Path], orient Orientation, dirs DirectionProvider, graph Graph) int {
	move, ok := dirs.MovementDirection()
	if !ok {
		return 0
	}
	return blendDirectional(reg, paths, orient, move, func(n NodeIndex, w float32) bool {
		node, ok := graph.Node(n)
		if !ok {
			return false
		}
		node.Weight = w
		return true
	})
}

func blendDirectional(reg Registry, paths iter.Seq[Path], orient Orientation, move Vec3, set func(NodeIndex, float32) bool) int {
	weights := DirectionalWeights(orient, move)
	written := 0
	for p := range paths {
		entry, ok := reg.Lookup(p)
		if !ok || entry.Directional == nil {
			continue
		}
		for i, n := range entry.Directional.Nodes() {
			if set(n, weights[i]) {
				written++
			}
		}
	}
	return written
}
