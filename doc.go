// Package layerblend turns a declarative set of prioritized animation
// requests into playback, masking, and blend-weight updates on an animation
// graph.
//
// Each tick, for each animated entity, three passes run in order:
//
//   - [Resolve] walks requests from [PriorityHigh] to [PriorityLow]. Every
//     requested node is unmasked on its own bits and masked with every bit
//     claimed by a strictly higher priority, then started if it is not
//     already playing.
//   - [Sweep] fully masks and stops every registered animation that has no
//     node in the active set.
//   - [BlendDirectional] writes per-node weights for the four cardinal
//     sub-clips of directional animations from the entity's facing and
//     movement direction.
//
// [Animator] runs all three against one entity's [Registry], [Graph], and
// [Player]:
//
//	reg, _ := layerblend.NewRegistryBuilder().
//		Add("walk", 0b01, 1, 2, 3).
//		Add("block", 0b10, 9).
//		Build()
//	anim := layerblend.NewAnimator(reg, layerblend.NewMapGraphFor(reg), player)
//
//	var reqs layerblend.RequestTable
//	reqs.Set(layerblend.PriorityMedium, "walk", layerblend.PlayRepeat)
//	anim.Update(&reqs, layerblend.OrientationFromYaw(yaw), dirs)
//
// Nothing in the engine fails at runtime. Missing registry entries, graph
// nodes, and movement signals are skipped for the tick and pick up again
// once they exist.
//
// Registry content can be loaded from YAML with [LoadContent], and whole
// tick sequences replayed with [ScriptRunner]. Package ecs runs animators
// inside a [Donburi] world.
//
// [Donburi]: https://github.com/yohamta/donburi
package layerblend
