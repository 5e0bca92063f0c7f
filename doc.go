// Package flowsync keeps a retained-mode widget tree in step with a flow
// engine: a scheduler that owns variables, component outputs and per-page
// timeline positions.
//
// # Quick start
//
// The simplest way to get started is a project definition, which builds the
// widget [Tree], an in-memory [MemoryFlow] and the [Runtime] for you:
//
//	def, err := flowsync.LoadProject("project.yaml")
//	if err != nil { ... }
//	p, err := flowsync.Build(def, flowsync.Config{})
//	if err != nil { ... }
//	for p.Tick() {
//		// render p.Tree
//	}
//
// For full control, implement [Toolkit] over your own widget library and
// [Flow] over your own engine, then drive a [Runtime] directly:
//
//	rt := flowsync.NewRuntime(toolkit, engine, flowsync.Config{})
//	rt.AddKeyframe(title, 0, flowsync.Keyframe{Start: 0, End: 1}.
//		Set(flowsync.PropOpacity, 1, flowsync.EaseOutQuad))
//	rt.Bind(flowsync.UpdateSliderValue, slider, volumeRef)
//	rt.Watch(flowsync.UpdateSliderValue, slider, volumeRef)
//	rt.PageLoaded(0)
//
// # Tick
//
// Each [Runtime.Tick] runs three phases in order: the flow step, the
// animation pass for the active page, and the update-task drain. A stopped
// flow makes Tick a no-op.
//
// # Timelines
//
// A widget's [WidgetTimeline] is a list of [Keyframe] windows on a
// normalized axis. Keyframes are evaluated in authoring order, never sorted:
// elapsed keyframes snap to their targets, the first active keyframe blends
// toward its targets with a per-property [Easing], and evaluation stops
// there. Position and size may follow quadratic or cubic Bezier curves.
// Evaluating the same position twice writes nothing.
//
// # Bindings and the write guard
//
// Bindings copy flow values into widgets. A write happens only when the
// value differs, and always under the runtime's [WriteGuard]. Toolkits fire
// change events synchronously from setters; watches and triggers consult the
// guard so that flow-originated writes are never echoed back into the flow,
// while user changes are forwarded.
//
// # Threading
//
// flowsync is single-threaded. Tick, registration and toolkit event delivery
// must all happen on one goroutine.
//
// # ECS integration
//
// Forwarded user changes can be published into a [Donburi] world with the
// adapter in flowsync/ecs.
//
// [Donburi]: https://github.com/yohamta/donburi
package flowsync
