package presets

// Store defines the interface for preset persistence
type Store interface {
	// Load loads the configuration from storage
	Load() error

	// Save saves the configuration to storage
	Save() error

	// AddPreset adds a new preset to the configuration
	AddPreset(preset Spec) error

	// UpdatePreset updates an existing preset
	UpdatePreset(name string, preset Spec) error

	// RemovePreset removes a preset from the configuration
	RemovePreset(name string) error

	// GetPreset retrieves a preset by name
	GetPreset(name string) (Spec, bool)

	// GetAllPresets returns all presets
	GetAllPresets() map[string]Spec
}
