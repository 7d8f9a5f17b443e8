// Package ecs runs layerblend animators inside a [Donburi] world.
//
// Attach [Animator] and [Requests] to an entity, plus [Motion] for entities
// with directional locomotion, then call [System.Update] once per tick:
//
//	e := world.Create(ecs.Animator, ecs.Requests, ecs.Motion)
//	entry := world.Entry(e)
//	ecs.Animator.SetValue(entry, ecs.AnimatorData{Animator: anim})
//	ecs.Requests.Get(entry).Set(layerblend.PriorityLow, "walk", layerblend.PlayRepeat)
//
//	sys := ecs.NewSystem()
//	sys.Update(world, dt)
//
// Each resolution publishes a [TickEvent] on [TickEventType].
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
