// Package updater replaces the running transformnode binary with a
// published release and can roll back to the previous one.
package updater

import (
	"context"
	"time"
)

// State names a phase of the update lifecycle.
type State string

const (
	StateIdle        State = "idle"
	StateChecking    State = "checking"
	StateAvailable   State = "available"
	StateDownloading State = "downloading"
	StateApplying    State = "applying"
	StateRestarting  State = "restarting"
	StateError       State = "error"
	StateRolledBack  State = "rolled_back"
)

// Service is the update surface the API exposes.
type Service interface {
	// CheckForUpdate compares the running version against the newest release.
	CheckForUpdate(ctx context.Context) (*UpdateInfo, error)

	// ApplyUpdate installs the release found by CheckForUpdate and restarts.
	ApplyUpdate(ctx context.Context) error

	// ApplyDevBuild installs the rolling dev release and restarts.
	ApplyDevBuild(ctx context.Context) error

	// Rollback reinstates the backed-up binary and restarts.
	Rollback(ctx context.Context) error

	// Restart restarts the node without touching the binary.
	Restart(ctx context.Context) error

	// GetStatus reports the updater state machine.
	GetStatus(ctx context.Context) *Status

	// IsEnabled is false when the binary location is not writable.
	IsEnabled() bool

	// DisabledReason explains a false IsEnabled, empty otherwise.
	DisabledReason() string
}

// UpdateInfo describes the newest release relative to the running binary.
type UpdateInfo struct {
	CurrentVersion  string    `json:"current_version"`
	LatestVersion   string    `json:"latest_version"`
	ReleaseNotes    string    `json:"release_notes"`
	ReleaseURL      string    `json:"release_url"`
	PublishedAt     time.Time `json:"published_at"`
	AssetSize       int       `json:"asset_size"`
	UpdateAvailable bool      `json:"update_available"`
}

// Status is a snapshot of the updater state machine.
type Status struct {
	State           State      `json:"state"`
	CurrentVersion  string     `json:"current_version"`
	TargetVersion   string     `json:"target_version,omitempty"`
	Error           string     `json:"error,omitempty"`
	LastChecked     *time.Time `json:"last_checked,omitempty"`
	BackupAvailable bool       `json:"backup_available"`
	BackupVersion   string     `json:"backup_version,omitempty"`
}

// Options configures NewService.
type Options struct {
	Repository string // GitHub slug, owner/name
	Prerelease bool
}
