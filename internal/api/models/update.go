package models

import "time"

// UpdateCheckData describes the latest release relative to the running binary.
type UpdateCheckData struct {
	CurrentVersion  string    `json:"current_version" example:"1.0.0" doc:"Version this node is running"`
	LatestVersion   string    `json:"latest_version" example:"1.1.0" doc:"Newest published version"`
	ReleaseNotes    string    `json:"release_notes" doc:"Markdown release notes"`
	ReleaseURL      string    `json:"release_url" doc:"Release page URL"`
	PublishedAt     time.Time `json:"published_at" doc:"Release publication time"`
	AssetSize       int       `json:"asset_size" example:"5242880" doc:"Download size in bytes"`
	UpdateAvailable bool      `json:"update_available" example:"true" doc:"True when latest is newer than current"`
}

// UpdateCheckResponse wraps UpdateCheckData for API responses.
type UpdateCheckResponse struct {
	Body UpdateCheckData
}

// UpdateStatusData reports where the updater state machine currently is.
type UpdateStatusData struct {
	State           string     `json:"state" example:"idle" doc:"Updater state"`
	CurrentVersion  string     `json:"current_version" example:"1.0.0" doc:"Version this node is running"`
	TargetVersion   string     `json:"target_version,omitempty" example:"1.1.0" doc:"Version being applied"`
	Error           string     `json:"error,omitempty" doc:"Failure detail when state is error"`
	LastChecked     *time.Time `json:"last_checked,omitempty" doc:"Time of the last release check"`
	BackupAvailable bool       `json:"backup_available" example:"true" doc:"True when the previous binary is kept for rollback"`
	BackupVersion   string     `json:"backup_version,omitempty" example:"1.0.0" doc:"Version of the kept backup"`
}

// UpdateStatusResponse wraps UpdateStatusData for API responses.
type UpdateStatusResponse struct {
	Body UpdateStatusData
}

// UpdateMessageData is the body shared by update actions that only
// acknowledge and restart.
type UpdateMessageData struct {
	Message string `json:"message" example:"Update applied, restarting..." doc:"Status message"`
}

// UpdateApplyResponse acknowledges a started update.
type UpdateApplyResponse struct {
	Body UpdateMessageData
}

// UpdateRollbackResponse acknowledges a started rollback.
type UpdateRollbackResponse struct {
	Body UpdateMessageData
}

// RestartResponse acknowledges a restart without update.
type RestartResponse struct {
	Body UpdateMessageData
}

// ApplyDevBuildResponse acknowledges a started dev build install.
type ApplyDevBuildResponse struct {
	Body UpdateMessageData
}
