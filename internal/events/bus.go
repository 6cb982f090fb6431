package events

import (
	"github.com/kelindar/event"
)

// Bus carries node events between publishers and subscribers in process,
// backed by a kelindar/event dispatcher.
type Bus struct {
	dispatcher *event.Dispatcher
}

// New creates an event bus with its own dispatcher.
func New() *Bus {
	return &Bus{
		dispatcher: event.NewDispatcher(),
	}
}

// Publish delivers ev to every subscriber of its concrete type.
// kelindar/event dispatches per concrete type, hence the switch.
func (b *Bus) Publish(ev Event) {
	switch e := ev.(type) {
	case PresetCreatedEvent:
		event.Publish(b.dispatcher, e)
	case PresetUpdatedEvent:
		event.Publish(b.dispatcher, e)
	case PresetDeletedEvent:
		event.Publish(b.dispatcher, e)
	case ArtifactRegisteredEvent:
		event.Publish(b.dispatcher, e)
	case ArtifactRemovedEvent:
		event.Publish(b.dispatcher, e)
	case CapabilityReloadedEvent:
		event.Publish(b.dispatcher, e)
	case LogEntryEvent:
		event.Publish(b.dispatcher, e)
	}
}

// Subscribe registers a handler for the event type named in its signature
// and returns the matching unsubscribe function. A handler for an unknown
// type gets a no-op unsubscribe and will never fire.
//
//	unsub := bus.Subscribe(func(e PresetCreatedEvent) { ... })
func (b *Bus) Subscribe(handler any) func() {
	switch h := handler.(type) {
	case func(PresetCreatedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(PresetUpdatedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(PresetDeletedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(ArtifactRegisteredEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(ArtifactRemovedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(CapabilityReloadedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(LogEntryEvent):
		return event.Subscribe(b.dispatcher, h)
	default:
		return func() {}
	}
}
