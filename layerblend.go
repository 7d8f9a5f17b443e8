package layerblend

import (
	"fmt"
	"math"
)

// Priority ranks an animation request. Higher priorities silence lower ones
// on every mask bit they share.
type Priority uint8

const (
	PriorityLow    Priority = iota // base locomotion, idles
	PriorityMedium                 // upper-body actions layered over locomotion
	PriorityHigh                   // blocks, hit reactions, anything that must win
)

// Priorities lists every priority in resolution order, highest first.
var Priorities = [3]Priority{PriorityHigh, PriorityMedium, PriorityLow}

// String returns the lowercase name of the priority.
func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	case PriorityLow:
		return "low"
	default:
		return fmt.Sprintf("priority(%d)", uint8(p))
	}
}

// ParsePriority converts a name produced by Priority.String back to a Priority.
func ParsePriority(s string) (Priority, error) {
	switch s {
	case "high":
		return PriorityHigh, nil
	case "medium":
		return PriorityMedium, nil
	case "low":
		return PriorityLow, nil
	}
	return 0, fmt.Errorf("layerblend: unknown priority %q", s)
}

// PlayMode selects how a newly triggered clip starts.
type PlayMode uint8

const (
	PlayRepeat PlayMode = iota // loop until stopped
	PlayReplay                 // play once from frame 0
)

// String returns the lowercase name of the play mode.
func (m PlayMode) String() string {
	switch m {
	case PlayRepeat:
		return "repeat"
	case PlayReplay:
		return "replay"
	default:
		return fmt.Sprintf("playmode(%d)", uint8(m))
	}
}

// ParsePlayMode converts a name produced by PlayMode.String back to a PlayMode.
// An empty string yields PlayRepeat.
func ParsePlayMode(s string) (PlayMode, error) {
	switch s {
	case "", "repeat":
		return PlayRepeat, nil
	case "replay":
		return PlayReplay, nil
	}
	return 0, fmt.Errorf("layerblend: unknown play mode %q", s)
}

// Path names a logical animation, independent of how many graph nodes
// realize it.
type Path string

// Request declares that a logical animation should be active.
type Request struct {
	Path Path
	Mode PlayMode
}

// NodeIndex identifies one playable unit inside an animation graph.
type NodeIndex uint32

// GraphNode is the per-node state the engine writes each tick.
type GraphNode struct {
	Mask   Mask
	Weight float32
}

// Vec3 is a 3D vector used for orientation and movement directions.
type Vec3 struct {
	X, Y, Z float32
}

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float32 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Neg returns -v.
func (v Vec3) Neg() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

// Len returns the length of v.
func (v Vec3) Len() float32 {
	return float32(math.Sqrt(float64(v.Dot(v))))
}

// Normalize returns v scaled to unit length. ok is false for a zero vector.
func (v Vec3) Normalize() (u Vec3, ok bool) {
	l := v.Len()
	if l == 0 {
		return Vec3{}, false
	}
	return Vec3{v.X / l, v.Y / l, v.Z / l}, true
}
