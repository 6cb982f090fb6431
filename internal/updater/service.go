package updater

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"sync"
	"syscall"
	"time"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/smazurov/transformnode/internal/logging"
	"github.com/smazurov/transformnode/internal/version"
)

// restartDelay gives the HTTP response time to reach the client before
// the process asks systemd to restart it.
const restartDelay = 500 * time.Millisecond

type service struct {
	repository selfupdate.Repository
	slug       string // owner/name, used to build dev release URLs
	updater    *selfupdate.Updater
	backup     *binaryBackup

	mu            sync.RWMutex
	state         State
	latestRelease *selfupdate.Release
	lastChecked   *time.Time
	lastError     error

	enabled        bool
	disabledReason string

	logger *slog.Logger
}

// NewService builds the updater. When the binary location is not writable
// the service still constructs, but disabled, so the API can report why.
func NewService(opts *Options) (Service, error) {
	logger := logging.GetLogger("updater")

	if reason, ok := binaryWritable(); !ok {
		logger.Warn("Update service disabled", "reason", reason)
		return &service{
			state:          StateIdle,
			disabledReason: reason,
			logger:         logger,
		}, nil
	}

	source, err := selfupdate.NewGitHubSource(selfupdate.GitHubConfig{})
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub source: %w", err)
	}

	up, err := selfupdate.NewUpdater(selfupdate.Config{
		Source:     source,
		Prerelease: opts.Prerelease,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create updater: %w", err)
	}

	backup, err := newBinaryBackup(logger)
	if err != nil {
		logger.Warn("Backup unavailable, updates will not be reversible", "error", err)
	}

	return &service{
		repository: selfupdate.ParseSlug(opts.Repository),
		slug:       opts.Repository,
		updater:    up,
		backup:     backup,
		state:      StateIdle,
		enabled:    true,
		logger:     logger,
	}, nil
}

// binaryWritable probes whether the process can replace its own binary
// by creating a scratch file next to it.
func binaryWritable() (string, bool) {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Sprintf("failed to get executable path: %v", err), false
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return fmt.Sprintf("failed to resolve symlinks: %v", err), false
	}

	dir := filepath.Dir(exe)
	probe := filepath.Join(dir, ".transformnode-writecheck")
	f, err := os.Create(probe)
	if err != nil {
		return fmt.Sprintf("no write permission to %s: %v", dir, err), false
	}
	f.Close()
	os.Remove(probe)
	return "", true
}

func (s *service) IsEnabled() bool {
	return s.enabled
}

func (s *service) DisabledReason() string {
	return s.disabledReason
}

// CheckForUpdate asks GitHub for the newest release and remembers it for
// a later ApplyUpdate. A "dev" build always counts as outdated.
func (s *service) CheckForUpdate(ctx context.Context) (*UpdateInfo, error) {
	if !s.enabled {
		return nil, newError(ErrCodeDisabled, s.disabledReason, nil)
	}
	if err := s.begin("check for updates", StateChecking, StateIdle, StateAvailable, StateError); err != nil {
		return nil, err
	}

	current := version.Version

	release, found, err := s.updater.DetectLatest(ctx, s.repository)
	if err != nil {
		s.fail(err)
		return nil, newError(ErrCodeCheckFailed, "failed to check for updates", err)
	}

	now := time.Now()
	s.mu.Lock()
	s.lastChecked = &now
	s.mu.Unlock()

	if !found {
		err := fmt.Errorf("repository not found or has no releases")
		s.fail(err)
		return nil, newError(ErrCodeNotFound, err.Error(), nil)
	}

	if current != "dev" && !release.GreaterThan(current) {
		s.setState(StateIdle)
		return &UpdateInfo{
			CurrentVersion: current,
			LatestVersion:  release.Version(),
		}, nil
	}

	s.mu.Lock()
	s.latestRelease = release
	s.mu.Unlock()
	s.setState(StateAvailable)

	return &UpdateInfo{
		CurrentVersion:  current,
		LatestVersion:   release.Version(),
		ReleaseNotes:    release.ReleaseNotes,
		ReleaseURL:      release.URL,
		PublishedAt:     release.PublishedAt,
		AssetSize:       release.AssetByteSize,
		UpdateAvailable: true,
	}, nil
}

// ApplyUpdate installs the release found by the last check. Called from
// idle it runs the check itself first.
func (s *service) ApplyUpdate(ctx context.Context) error {
	if !s.enabled {
		return newError(ErrCodeDisabled, s.disabledReason, nil)
	}

	if s.currentState() == StateIdle {
		info, err := s.CheckForUpdate(ctx)
		if err != nil {
			return err
		}
		if !info.UpdateAvailable {
			return newError(ErrCodeNoUpdate, "no update available", nil)
		}
	}

	if err := s.begin("apply update", StateDownloading, StateAvailable); err != nil {
		return err
	}

	s.mu.RLock()
	release := s.latestRelease
	s.mu.RUnlock()

	return s.install("release "+release.Version(), func(exe string) error {
		return s.updater.UpdateTo(ctx, release, exe)
	})
}

// ApplyDevBuild installs the asset from the rolling "dev" release tag,
// regardless of version ordering.
func (s *service) ApplyDevBuild(ctx context.Context) error {
	if !s.enabled {
		return newError(ErrCodeDisabled, s.disabledReason, nil)
	}
	if err := s.begin("apply dev build", StateDownloading, StateIdle, StateAvailable, StateError); err != nil {
		return err
	}

	asset := fmt.Sprintf("transformnode_linux_%s.tar.gz", runtime.GOARCH)
	url := fmt.Sprintf("https://github.com/%s/releases/download/dev/%s", s.slug, asset)
	s.logger.Info("Downloading dev build", "url", url)

	return s.install("dev build", func(exe string) error {
		return selfupdate.UpdateTo(ctx, url, asset, exe)
	})
}

// install backs up the current binary, runs the supplied replacement step
// and schedules the restart. On failure it rolls back when it can.
func (s *service) install(what string, replace func(exe string) error) error {
	if s.backup != nil {
		if err := s.backup.create(); err != nil {
			s.fail(err)
			return newError(ErrCodeBackupFailed, "failed to create backup", err)
		}
	}

	s.setState(StateApplying)

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		s.fail(err)
		s.recoverBinary()
		return newError(ErrCodeApplyFailed, "failed to get executable path", err)
	}
	if err := replace(exe); err != nil {
		s.fail(err)
		s.recoverBinary()
		return newError(ErrCodeApplyFailed, "failed to apply "+what, err)
	}

	s.setState(StateRestarting)
	s.logger.Info("Binary replaced, triggering restart", "installed", what)
	s.scheduleRestart()
	return nil
}

// Rollback reinstates the backed-up binary and restarts.
func (s *service) Rollback(_ context.Context) error {
	if !s.enabled {
		return newError(ErrCodeDisabled, s.disabledReason, nil)
	}
	if s.backup == nil || !s.backup.available() {
		return newError(ErrCodeNoBackup, "no backup available for rollback", nil)
	}

	if err := s.backup.restore(); err != nil {
		return newError(ErrCodeRollbackFailed, "failed to restore backup", err)
	}

	s.setState(StateRolledBack)
	s.logger.Info("Rollback completed, triggering restart")
	s.scheduleRestart()
	return nil
}

// Restart restarts the node without touching the binary.
func (s *service) Restart(_ context.Context) error {
	s.logger.Info("Restart requested")
	s.scheduleRestart()
	return nil
}

// GetStatus reports the updater state machine.
func (s *service) GetStatus(_ context.Context) *Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := &Status{
		State:          s.state,
		CurrentVersion: version.Version,
		LastChecked:    s.lastChecked,
	}
	if s.latestRelease != nil {
		status.TargetVersion = s.latestRelease.Version()
	}
	if s.lastError != nil {
		status.Error = s.lastError.Error()
	}
	if s.backup != nil {
		status.BackupAvailable = s.backup.available()
		status.BackupVersion = s.backup.version()
	}
	return status
}

// begin moves to the target state if the machine is in one of the listed
// states, otherwise returns an invalid-state error for op.
func (s *service) begin(op string, to State, from ...State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !slices.Contains(from, s.state) {
		return errInvalidState(op, s.state)
	}
	s.logger.Debug("State transition", "from", s.state, "to", to)
	s.state = to
	s.lastError = nil
	return nil
}

func (s *service) setState(to State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger.Debug("State transition", "from", s.state, "to", to)
	s.state = to
	s.lastError = nil
}

func (s *service) currentState() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *service) fail(err error) {
	s.mu.Lock()
	s.lastError = err
	s.state = StateError
	s.mu.Unlock()
}

// recoverBinary restores the backup after a failed install so the node
// keeps a working binary on disk.
func (s *service) recoverBinary() {
	if s.backup == nil || !s.backup.available() {
		s.logger.Error("No backup available for automatic rollback")
		return
	}
	if err := s.backup.restore(); err != nil {
		s.logger.Error("Failed to restore backup", "error", err)
		return
	}
	s.setState(StateRolledBack)
	s.logger.Info("Automatic rollback completed")
}

func (s *service) scheduleRestart() {
	go func() {
		time.Sleep(restartDelay)

		proc, err := os.FindProcess(os.Getpid())
		if err != nil {
			s.logger.Error("Failed to find own process", "error", err)
			return
		}
		s.logger.Info("Sending SIGTERM to trigger restart")
		if err := proc.Signal(syscall.SIGTERM); err != nil {
			s.logger.Error("Failed to send SIGTERM", "error", err)
		}
	}()
}
