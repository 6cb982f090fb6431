package artifact

import (
	"time"

	"github.com/smazurov/transformnode/internal/api/models"
	"github.com/smazurov/transformnode/internal/events"
	"github.com/smazurov/transformnode/pkg/transform"
)

// Data returns the wire representation of the artifact.
func (a Artifact) Data() models.ArtifactData {
	return models.ArtifactData{
		ID:         a.ID,
		RequestKey: a.Request.Key(),
		URI:        a.URI,
		SizeBytes:  a.SizeBytes,
		DurationMS: a.DurationMS,
		CreatedAt:  a.CreatedAt,
	}
}

func (r *Registry) publishRegistered(a Artifact) {
	if r.eventBus == nil {
		return
	}
	r.eventBus.Publish(events.ArtifactRegisteredEvent{
		Artifact:  a.Data(),
		Action:    "registered",
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

func (r *Registry) publishRemoved(id string, req transform.Request) {
	if r.eventBus == nil {
		return
	}
	r.eventBus.Publish(events.ArtifactRemovedEvent{
		ArtifactID: id,
		RequestKey: req.Key(),
		Action:     "removed",
		Timestamp:  time.Now().Format(time.RFC3339),
	})
}
