package ecs

import (
	"github.com/phanxgames/layerblend"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
)

// AnimatorData holds an entity's animator and the request version it last
// resolved.
type AnimatorData struct {
	Animator *layerblend.Animator

	resolved uint64
	primed   bool
}

// MotionData is an entity's facing and movement for the directional pass.
type MotionData struct {
	Yaw       float64 // radians about +Y
	Direction layerblend.Vec3 // any length; zero counts as not moving
	Moving    bool
}

// TickEvent reports a resolution pass on one entity.
type TickEvent struct {
	Entity donburi.Entity
	Stats  layerblend.TickStats
}

var (
	// Animator is the component holding an entity's animator.
	Animator = donburi.NewComponentType[AnimatorData]()
	// Requests is the component holding an entity's animation requests.
	Requests = donburi.NewComponentType[layerblend.RequestTable]()
	// Motion is the optional component driving directional blending.
	Motion = donburi.NewComponentType[MotionData]()

	// TickEventType is published after every resolution pass. Subscribe to
	// it in your ECS systems to react to playback changes.
	TickEventType = events.NewEventType[TickEvent]()
)

// System updates every entity that has both Animator and Requests.
type System struct {
	query *donburi.Query
}

// NewSystem creates a System.
func NewSystem() *System {
	return &System{
		query: donburi.NewQuery(filter.Contains(Animator, Requests)),
	}
}

// Update resolves entities whose requests changed since their last pass,
// reblends entities with Motion, and advances weight smoothing by dt.
func (s *System) Update(world donburi.World, dt float32) {
	s.query.Each(world, func(entry *donburi.Entry) {
		data := Animator.Get(entry)
		if data.Animator == nil {
			return
		}
		reqs := Requests.Get(entry)

		var motion *MotionData
		if entry.HasComponent(Motion) {
			motion = Motion.Get(entry)
		}

		if !data.primed || reqs.Version() != data.resolved {
			stats := data.Animator.UpdateMasks(reqs)
			data.resolved = reqs.Version()
			data.primed = true
			if motion != nil {
				stats.Weighted = blend(data.Animator, reqs, motion)
			}
			TickEventType.Publish(world, TickEvent{Entity: entry.Entity(), Stats: stats})
		} else if motion != nil {
			blend(data.Animator, reqs, motion)
		}

		data.Animator.Advance(dt)
	})
}

func blend(a *layerblend.Animator, reqs *layerblend.RequestTable, m *MotionData) int {
	dirs := layerblend.DirectionFunc(func() (layerblend.Vec3, bool) {
		if !m.Moving {
			return layerblend.Vec3{}, false
		}
		return m.Direction.Normalize()
	})
	return a.UpdateBlend(reqs.ActivePaths(), layerblend.OrientationFromYaw(m.Yaw), dirs)
}
