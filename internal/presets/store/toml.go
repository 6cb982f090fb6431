package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/smazurov/transformnode/internal/presets"
)

// config is the on-disk shape of the presets file.
type config struct {
	Version int                     `toml:"version" json:"version"`
	Presets map[string]presets.Spec `toml:"presets" json:"presets"`
}

// tomlStore implements Store over a single TOML file.
type tomlStore struct {
	configPath string
	config     *config
}

// NewTOML creates a store backed by the TOML file at configPath.
func NewTOML(configPath string) presets.Store {
	if configPath == "" {
		configPath = "presets.toml"
	}

	return &tomlStore{
		configPath: configPath,
		config: &config{
			Version: 1,
			Presets: make(map[string]presets.Spec),
		},
	}
}

// Load reads the presets file. A missing file is an empty preset set.
func (s *tomlStore) Load() error {
	data, err := os.ReadFile(s.configPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read presets config: %w", err)
	}

	if unmarshalErr := toml.Unmarshal(data, s.config); unmarshalErr != nil {
		return fmt.Errorf("failed to parse presets config: %w", unmarshalErr)
	}

	if s.config.Presets == nil {
		s.config.Presets = make(map[string]presets.Spec)
	}
	if s.config.Version == 0 {
		s.config.Version = 1
	}
	return nil
}

// Save atomically replaces the presets file: the content lands in a
// temp file first and moves into place with a rename.
func (s *tomlStore) Save() error {
	dir := filepath.Dir(s.configPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(s.config)
	if err != nil {
		return fmt.Errorf("failed to marshal presets config: %w", err)
	}

	tmp := s.configPath + ".tmp"
	if writeErr := os.WriteFile(tmp, data, 0o644); writeErr != nil {
		return fmt.Errorf("failed to write presets config: %w", writeErr)
	}
	if renameErr := os.Rename(tmp, s.configPath); renameErr != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace presets config: %w", renameErr)
	}
	return nil
}

// AddPreset stores a new preset and saves the file.
func (s *tomlStore) AddPreset(preset presets.Spec) error {
	s.config.Presets[preset.Name] = preset
	return s.Save()
}

// UpdatePreset replaces a stored preset and saves the file.
func (s *tomlStore) UpdatePreset(name string, updates presets.Spec) error {
	s.config.Presets[name] = updates
	return s.Save()
}

// RemovePreset deletes a stored preset and saves the file.
func (s *tomlStore) RemovePreset(name string) error {
	delete(s.config.Presets, name)
	return s.Save()
}

// GetPreset returns the spec stored under name.
func (s *tomlStore) GetPreset(name string) (presets.Spec, bool) {
	preset, exists := s.config.Presets[name]
	return preset, exists
}

// GetAllPresets returns the stored specs keyed by name.
func (s *tomlStore) GetAllPresets() map[string]presets.Spec {
	return s.config.Presets
}
