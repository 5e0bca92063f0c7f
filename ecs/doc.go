// Package ecs provides ECS adapters for flowsync.
//
// The primary adapter is [NewDonburiSink], which publishes every user change
// a flowsync Runtime forwards into its flow (watched values and triggered
// outputs) into a [Donburi] world as typed events. Subscribe to
// [UserEventType] in your ECS systems to receive them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	runtime.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
