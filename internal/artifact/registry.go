package artifact

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/smazurov/transformnode/internal/events"
	"github.com/smazurov/transformnode/internal/metrics"
	"github.com/smazurov/transformnode/pkg/transform"
)

// Artifact records where a finished transcode for a request lives.
type Artifact struct {
	ID         string
	Request    transform.Request
	URI        string
	SizeBytes  int64
	DurationMS int64
	CreatedAt  time.Time
}

// Registry maps transformation requests to their most recent artifact.
// Requests compare by value, so two requests built from the same fields
// share one slot and re-registering replaces the previous artifact. The
// request key doubles as the external handle for lookups and removals.
// The registry is in-memory only and empties on restart.
type Registry struct {
	mu        sync.RWMutex
	artifacts map[transform.Request]Artifact
	byKey     map[string]transform.Request
	eventBus  *events.Bus
	logger    *slog.Logger
}

// NewRegistry creates an empty artifact registry.
// The event bus may be nil when event broadcasting is not wanted.
func NewRegistry(eventBus *events.Bus, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}

	return &Registry{
		artifacts: make(map[transform.Request]Artifact),
		byKey:     make(map[string]transform.Request),
		eventBus:  eventBus,
		logger:    logger,
	}
}

// Register records an artifact for the given request, replacing any
// previous artifact registered under an equal request.
func (r *Registry) Register(req transform.Request, uri string, sizeBytes, durationMS int64) Artifact {
	artifact := Artifact{
		ID:         uuid.NewString(),
		Request:    req,
		URI:        uri,
		SizeBytes:  sizeBytes,
		DurationMS: durationMS,
		CreatedAt:  time.Now(),
	}

	r.mu.Lock()
	r.artifacts[req] = artifact
	r.byKey[req.Key()] = req
	count := len(r.artifacts)
	r.mu.Unlock()

	metrics.SetArtifactCount(count)
	r.logger.Info("Artifact registered",
		"artifact_id", artifact.ID,
		"request_key", req.Key(),
		"uri", uri)
	r.publishRegistered(artifact)

	return artifact
}

// Lookup returns the artifact registered for an equal request, if any.
func (r *Registry) Lookup(req transform.Request) (Artifact, bool) {
	r.mu.RLock()
	artifact, exists := r.artifacts[req]
	r.mu.RUnlock()

	if exists {
		metrics.ObserveArtifactLookup(metrics.LookupHit)
	} else {
		metrics.ObserveArtifactLookup(metrics.LookupMiss)
	}

	return artifact, exists
}

// LookupKey returns the artifact registered under a request key, if any.
// Keys are the hex form handed out by validate and plan responses.
func (r *Registry) LookupKey(key string) (Artifact, bool) {
	r.mu.RLock()
	req, exists := r.byKey[key]
	var artifact Artifact
	if exists {
		artifact, exists = r.artifacts[req]
	}
	r.mu.RUnlock()

	if exists {
		metrics.ObserveArtifactLookup(metrics.LookupHit)
	} else {
		metrics.ObserveArtifactLookup(metrics.LookupMiss)
	}

	return artifact, exists
}

// Remove drops the artifact registered for an equal request.
func (r *Registry) Remove(req transform.Request) bool {
	return r.remove(req)
}

// RemoveKey drops the artifact registered under a request key.
func (r *Registry) RemoveKey(key string) bool {
	r.mu.RLock()
	req, exists := r.byKey[key]
	r.mu.RUnlock()
	if !exists {
		return false
	}
	return r.remove(req)
}

func (r *Registry) remove(req transform.Request) bool {
	r.mu.Lock()
	artifact, exists := r.artifacts[req]
	if !exists {
		r.mu.Unlock()
		return false
	}
	delete(r.artifacts, req)
	delete(r.byKey, req.Key())
	count := len(r.artifacts)
	r.mu.Unlock()

	metrics.SetArtifactCount(count)
	r.logger.Info("Artifact removed", "artifact_id", artifact.ID, "request_key", req.Key())
	r.publishRemoved(artifact.ID, req)

	return true
}

// List returns all artifacts, newest first.
func (r *Registry) List() []Artifact {
	r.mu.RLock()
	defer r.mu.RUnlock()

	artifacts := make([]Artifact, 0, len(r.artifacts))
	for _, artifact := range r.artifacts {
		artifacts = append(artifacts, artifact)
	}

	sort.Slice(artifacts, func(i, j int) bool {
		if !artifacts[i].CreatedAt.Equal(artifacts[j].CreatedAt) {
			return artifacts[i].CreatedAt.After(artifacts[j].CreatedAt)
		}
		return artifacts[i].ID < artifacts[j].ID
	})

	return artifacts
}

// Len returns the number of registered artifacts.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.artifacts)
}
