package ecs

import (
	"github.com/phanxgames/flowsync"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// UserEventType is the Donburi event type for forwarded flowsync user events.
var UserEventType = events.NewEventType[flowsync.UserEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Events are
// queued on UserEventType and delivered by ProcessEvents.
func NewDonburiSink(world donburi.World) flowsync.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event flowsync.UserEvent) {
	UserEventType.Publish(s.world, event)
}
