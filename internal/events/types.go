package events

import "github.com/smazurov/transformnode/internal/api/models"

// Dispatch type identifiers, one per event struct.
const (
	TypePresetCreated uint32 = iota + 1
	TypePresetUpdated
	TypePresetDeleted
	TypeArtifactRegistered
	TypeArtifactRemoved
	TypeCapabilityReloaded
	TypeLogEntry
)

// Event is what the bus carries; kelindar/event keys dispatch on Type.
type Event interface {
	Type() uint32
}

// PresetCreatedEvent represents a successful preset creation.
type PresetCreatedEvent struct {
	Preset    models.PresetData `json:"preset" doc:"Created preset data"`
	Action    string            `json:"action" example:"created" doc:"Action type"`
	Timestamp string            `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for PresetCreatedEvent.
func (e PresetCreatedEvent) Type() uint32 { return TypePresetCreated }

// PresetUpdatedEvent represents a successful preset update.
type PresetUpdatedEvent struct {
	Preset    models.PresetData `json:"preset" doc:"Updated preset data"`
	Action    string            `json:"action" example:"updated" doc:"Action type"`
	Timestamp string            `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for PresetUpdatedEvent.
func (e PresetUpdatedEvent) Type() uint32 { return TypePresetUpdated }

// PresetDeletedEvent represents a successful preset deletion.
type PresetDeletedEvent struct {
	Name      string `json:"name" example:"mobile-720p" doc:"Deleted preset name"`
	Action    string `json:"action" example:"deleted" doc:"Action type"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for PresetDeletedEvent.
func (e PresetDeletedEvent) Type() uint32 { return TypePresetDeleted }

// ArtifactRegisteredEvent represents a new transcoded output being recorded.
type ArtifactRegisteredEvent struct {
	Artifact  models.ArtifactData `json:"artifact" doc:"Registered artifact data"`
	Action    string              `json:"action" example:"registered" doc:"Action type"`
	Timestamp string              `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for ArtifactRegisteredEvent.
func (e ArtifactRegisteredEvent) Type() uint32 { return TypeArtifactRegistered }

// ArtifactRemovedEvent represents an artifact being dropped from the registry.
type ArtifactRemovedEvent struct {
	ArtifactID string `json:"artifact_id" example:"7f9c24e8-3b1a-4d56-9c0f-1a2b3c4d5e6f" doc:"Removed artifact identifier"`
	RequestKey string `json:"request_key" example:"9c5f2a4d8e1b3c70" doc:"Key of the request the artifact belonged to"`
	Action     string `json:"action" example:"removed" doc:"Action type"`
	Timestamp  string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for ArtifactRemovedEvent.
func (e ArtifactRemovedEvent) Type() uint32 { return TypeArtifactRemoved }

// CapabilityReloadedEvent is published when the capability profile changes on disk
// and the node picks up the new profile without a restart.
type CapabilityReloadedEvent struct {
	Profile     string `json:"profile" example:"portable-baseline" doc:"Name of the newly active profile"`
	VideoCodecs int    `json:"video_codecs" example:"3" doc:"Number of video codecs in the profile"`
	AudioCodecs int    `json:"audio_codecs" example:"2" doc:"Number of audio codecs in the profile"`
	Timestamp   string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for CapabilityReloadedEvent.
func (e CapabilityReloadedEvent) Type() uint32 { return TypeCapabilityReloaded }

// LogEntryEvent carries one recorded log line to live log tails.
type LogEntryEvent struct {
	Seq        uint64         `json:"seq" example:"42" doc:"Monotonic sequence number for deduplication"`
	Timestamp  string         `json:"timestamp" example:"2025-01-09T10:30:00.123Z" doc:"Log timestamp"`
	Level      string         `json:"level" example:"info" doc:"Log level"`
	Module     string         `json:"module" example:"api" doc:"Source module"`
	Message    string         `json:"message" doc:"Log message"`
	Attributes map[string]any `json:"attributes,omitempty" doc:"Structured log attributes"`
}

// Type returns the event type identifier for LogEntryEvent.
func (e LogEntryEvent) Type() uint32 { return TypeLogEntry }
