package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"
	"github.com/smazurov/transformnode/internal/events"
)

// registerSSERoutes registers the combined event stream.
func (s *Server) registerSSERoutes() {
	sse.Register(s.api, huma.Operation{
		OperationID: "events-stream",
		Method:      http.MethodGet,
		Path:        "/api/events",
		Summary:     "Server-Sent Events Stream",
		Description: "Real-time event stream for preset changes, artifact registrations, and capability reloads",
		Tags:        []string{"events"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, map[string]any{
		"preset-created":      events.PresetCreatedEvent{},
		"preset-updated":      events.PresetUpdatedEvent{},
		"preset-deleted":      events.PresetDeletedEvent{},
		"artifact-registered": events.ArtifactRegisteredEvent{},
		"artifact-removed":    events.ArtifactRemovedEvent{},
		"capability-reloaded": events.CapabilityReloadedEvent{},
	}, func(ctx context.Context, _ *struct{}, send sse.Sender) {
		feed := make(chan any, 10)

		// One shared channel, one subscription per event type carried by
		// this stream.
		unsubscribers := []func(){
			events.SubscribeToChannel[events.PresetCreatedEvent](s.eventBus, feed),
			events.SubscribeToChannel[events.PresetUpdatedEvent](s.eventBus, feed),
			events.SubscribeToChannel[events.PresetDeletedEvent](s.eventBus, feed),
			events.SubscribeToChannel[events.ArtifactRegisteredEvent](s.eventBus, feed),
			events.SubscribeToChannel[events.ArtifactRemovedEvent](s.eventBus, feed),
			events.SubscribeToChannel[events.CapabilityReloadedEvent](s.eventBus, feed),
		}
		defer func() {
			for _, unsub := range unsubscribers {
				unsub()
			}
		}()

		// Send the active profile as the opening frame so clients know
		// what the node plans against before any change arrives.
		profile := s.capabilities.Current()
		opening := events.CapabilityReloadedEvent{
			Profile:     profile.Name,
			VideoCodecs: len(profile.VideoCodecs),
			AudioCodecs: len(profile.AudioCodecs),
			Timestamp:   time.Now().Format(time.RFC3339),
		}
		if err := send.Data(opening); err != nil {
			return
		}

		for {
			select {
			case <-ctx.Done():
				return
			case event := <-feed:
				if err := send.Data(event); err != nil {
					return
				}
			}
		}
	})
}
