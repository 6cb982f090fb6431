package presets

import (
	"time"

	"github.com/smazurov/transformnode/internal/api/models"
	"github.com/smazurov/transformnode/internal/events"
)

// Data returns the wire representation of the preset.
func (p *Preset) Data() models.PresetData {
	return models.PresetData{
		Name:                 p.Spec.Name,
		FlattenForSlowMotion: p.Request.FlattenForSlowMotion(),
		OutputHeight:         p.Request.OutputHeight(),
		AudioMimeType:        p.Request.AudioMimeType(),
		VideoMimeType:        p.Request.VideoMimeType(),
		HDRMode:              p.Request.HDRMode().String(),
		RequestKey:           p.Request.Key(),
		CreatedAt:            p.Spec.CreatedAt,
		UpdatedAt:            p.Spec.UpdatedAt,
	}
}

func (s *ServiceImpl) publishCreated(p *Preset) {
	if s.eventBus == nil {
		return
	}
	s.eventBus.Publish(events.PresetCreatedEvent{
		Preset:    p.Data(),
		Action:    "created",
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

func (s *ServiceImpl) publishUpdated(p *Preset) {
	if s.eventBus == nil {
		return
	}
	s.eventBus.Publish(events.PresetUpdatedEvent{
		Preset:    p.Data(),
		Action:    "updated",
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

func (s *ServiceImpl) publishDeleted(name string) {
	if s.eventBus == nil {
		return
	}
	s.eventBus.Publish(events.PresetDeletedEvent{
		Name:      name,
		Action:    "deleted",
		Timestamp: time.Now().Format(time.RFC3339),
	})
}
