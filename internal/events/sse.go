package events

import "github.com/kelindar/event"

// SubscribeToChannel forwards events of type T from the bus into ch so SSE
// handlers can select on it alongside the request context. Sends never block:
// when ch is full the event is dropped and a slow client falls behind by
// losing frames rather than stalling publishers.
func SubscribeToChannel[T Event](bus *Bus, ch chan<- any) func() {
	return event.Subscribe(bus.dispatcher, func(ev T) {
		select {
		case ch <- ev:
		default:
		}
	})
}
