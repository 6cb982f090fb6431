package presets

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/smazurov/transformnode/internal/events"
	"github.com/smazurov/transformnode/internal/metrics"
	"github.com/smazurov/transformnode/pkg/transform"
)

// Preset is the runtime form of a stored preset: the spec plus the
// transformation request resolved from it.
type Preset struct {
	Spec    Spec
	Request transform.Request
}

// Service defines the interface for preset operations
type Service interface {
	CreatePreset(ctx context.Context, spec Spec) (*Preset, error)
	UpdatePreset(ctx context.Context, name string, spec Spec) (*Preset, error)
	DeletePreset(ctx context.Context, name string) error
	GetPreset(ctx context.Context, name string) (*Preset, error)
	ListPresets(ctx context.Context) ([]Preset, error)
	LoadFromStore() error
}

// ServiceImpl implements the Service interface
type ServiceImpl struct {
	store        Store              // Preset store for persistence
	presets      map[string]*Preset // In-memory preset cache
	presetsMutex sync.RWMutex
	eventBus     *events.Bus // Optional event broadcasting
	logger       *slog.Logger
}

// NewService creates a new preset service backed by the given store.
// The event bus may be nil when event broadcasting is not wanted.
func NewService(store Store, eventBus *events.Bus, logger *slog.Logger) *ServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}

	return &ServiceImpl{
		store:    store,
		presets:  make(map[string]*Preset),
		eventBus: eventBus,
		logger:   logger,
	}
}

// CreatePreset validates and stores a new preset
func (s *ServiceImpl) CreatePreset(ctx context.Context, spec Spec) (*Preset, error) {
	if err := spec.ValidateName(); err != nil {
		return nil, err
	}

	// Resolve the request up front so invalid specs never reach the store
	req, err := spec.Canonicalize()
	if err != nil {
		return nil, err
	}

	s.presetsMutex.Lock()
	defer s.presetsMutex.Unlock()

	if _, exists := s.presets[spec.Name]; exists {
		return nil, NewPresetError(ErrCodePresetExists,
			fmt.Sprintf("preset %s already exists", spec.Name), nil)
	}

	now := time.Now()
	spec.CreatedAt = now
	spec.UpdatedAt = now

	if err := s.store.AddPreset(spec); err != nil {
		return nil, NewPresetError(ErrCodeStoreError, "failed to save preset", err)
	}

	preset := &Preset{Spec: spec, Request: req}
	s.presets[spec.Name] = preset
	metrics.SetPresetCount(len(s.presets))

	s.logger.Info("Preset created", "name", spec.Name, "request_key", req.Key())
	s.publishCreated(preset)

	// Return a copy to avoid external mutation
	presetCopy := *preset
	return &presetCopy, nil
}

// UpdatePreset replaces the spec of an existing preset
func (s *ServiceImpl) UpdatePreset(ctx context.Context, name string, spec Spec) (*Preset, error) {
	spec.Name = name
	if err := spec.ValidateName(); err != nil {
		return nil, err
	}

	req, err := spec.Canonicalize()
	if err != nil {
		return nil, err
	}

	s.presetsMutex.Lock()
	defer s.presetsMutex.Unlock()

	existing, exists := s.presets[name]
	if !exists {
		return nil, NewPresetError(ErrCodePresetNotFound,
			fmt.Sprintf("preset %s not found", name), nil)
	}

	spec.CreatedAt = existing.Spec.CreatedAt
	spec.UpdatedAt = time.Now()

	if err := s.store.UpdatePreset(name, spec); err != nil {
		return nil, NewPresetError(ErrCodeStoreError, "failed to save preset", err)
	}

	preset := &Preset{Spec: spec, Request: req}
	s.presets[name] = preset

	s.logger.Info("Preset updated", "name", name, "request_key", req.Key())
	s.publishUpdated(preset)

	presetCopy := *preset
	return &presetCopy, nil
}

// DeletePreset removes a preset
func (s *ServiceImpl) DeletePreset(ctx context.Context, name string) error {
	s.presetsMutex.Lock()
	defer s.presetsMutex.Unlock()

	if _, exists := s.presets[name]; !exists {
		return NewPresetError(ErrCodePresetNotFound,
			fmt.Sprintf("preset %s not found", name), nil)
	}

	if err := s.store.RemovePreset(name); err != nil {
		return NewPresetError(ErrCodeStoreError, "failed to delete preset", err)
	}

	delete(s.presets, name)
	metrics.SetPresetCount(len(s.presets))

	s.logger.Info("Preset deleted", "name", name)
	s.publishDeleted(name)
	return nil
}

// GetPreset retrieves a specific preset
func (s *ServiceImpl) GetPreset(ctx context.Context, name string) (*Preset, error) {
	s.presetsMutex.RLock()
	preset, exists := s.presets[name]
	s.presetsMutex.RUnlock()

	if !exists {
		return nil, NewPresetError(ErrCodePresetNotFound,
			fmt.Sprintf("preset %s not found", name), nil)
	}

	// Return a copy to avoid external mutation
	presetCopy := *preset
	return &presetCopy, nil
}

// ListPresets returns all presets sorted by name
func (s *ServiceImpl) ListPresets(ctx context.Context) ([]Preset, error) {
	s.presetsMutex.RLock()
	defer s.presetsMutex.RUnlock()

	presets := make([]Preset, 0, len(s.presets))
	for _, preset := range s.presets {
		// Return copies to avoid external mutation
		presetCopy := *preset
		presets = append(presets, presetCopy)
	}

	sort.Slice(presets, func(i, j int) bool {
		return presets[i].Spec.Name < presets[j].Spec.Name
	})

	return presets, nil
}

// LoadFromStore loads existing presets from the store into memory.
// Invalid entries are skipped with a warning rather than failing the load.
func (s *ServiceImpl) LoadFromStore() error {
	if s.store == nil {
		return fmt.Errorf("store not initialized")
	}

	if err := s.store.Load(); err != nil {
		return fmt.Errorf("failed to load presets configuration: %w", err)
	}

	specs := s.store.GetAllPresets()

	s.presetsMutex.Lock()
	defer s.presetsMutex.Unlock()

	for name, spec := range specs {
		if spec.Name == "" {
			spec.Name = name
		}

		req, err := spec.Request()
		if err != nil {
			s.logger.Warn("Skipping invalid preset", "name", name, "error", err)
			continue
		}

		s.presets[name] = &Preset{Spec: spec, Request: req}
	}

	metrics.SetPresetCount(len(s.presets))
	s.logger.Info("Loaded presets from configuration", "count", len(s.presets))
	return nil
}
