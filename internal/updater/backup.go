package updater

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/smazurov/transformnode/internal/version"
)

const (
	backupBinaryName   = "transformnode.previous"
	backupManifestName = "manifest.json"
)

// backupManifest records what the kept binary is, so a rollback after a
// process restart still knows the version and install path.
type backupManifest struct {
	Version   string    `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	ExecPath  string    `json:"exec_path"`
}

// binaryBackup keeps one copy of the previous binary under the user cache
// directory and restores it on rollback.
type binaryBackup struct {
	mu       sync.RWMutex
	dir      string
	manifest *backupManifest
	logger   *slog.Logger
}

func newBinaryBackup(logger *slog.Logger) (*binaryBackup, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	dir := filepath.Join(home, ".cache", "transformnode", "backup")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	b := &binaryBackup{dir: dir, logger: logger}
	b.loadManifest()
	return b, nil
}

// loadManifest picks up a backup left by a previous process, if any.
func (b *binaryBackup) loadManifest() {
	data, err := os.ReadFile(filepath.Join(b.dir, backupManifestName))
	if err != nil {
		return
	}

	var m backupManifest
	if err := json.Unmarshal(data, &m); err != nil {
		b.logger.Warn("Failed to parse backup manifest", "error", err)
		return
	}
	if _, err := os.Stat(filepath.Join(b.dir, backupBinaryName)); err != nil {
		b.logger.Warn("Backup manifest present but binary missing", "dir", b.dir)
		return
	}

	b.mu.Lock()
	b.manifest = &m
	b.mu.Unlock()
	b.logger.Info("Found existing backup", "version", m.Version)
}

// create copies the running binary aside before an update overwrites it.
func (b *binaryBackup) create() error {
	execPath, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}

	dst := filepath.Join(b.dir, backupBinaryName)
	if err := copyFile(dst, execPath); err != nil {
		return err
	}

	m := backupManifest{
		Version:   version.Version,
		CreatedAt: time.Now(),
		ExecPath:  execPath,
	}
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal backup manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(b.dir, backupManifestName), data, 0o644); err != nil {
		return fmt.Errorf("failed to write backup manifest: %w", err)
	}

	b.mu.Lock()
	b.manifest = &m
	b.mu.Unlock()

	b.logger.Info("Backup created", "version", m.Version, "path", dst)
	return nil
}

// restore puts the kept binary back at its recorded install path.
func (b *binaryBackup) restore() error {
	b.mu.RLock()
	m := b.manifest
	b.mu.RUnlock()
	if m == nil {
		return fmt.Errorf("no backup available")
	}

	if err := copyFile(m.ExecPath, filepath.Join(b.dir, backupBinaryName)); err != nil {
		return err
	}
	b.logger.Info("Backup restored", "version", m.Version)
	return nil
}

func (b *binaryBackup) available() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.manifest != nil
}

func (b *binaryBackup) version() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.manifest == nil {
		return ""
	}
	return b.manifest.Version
}

// copyFile replaces dst with a copy of src, keeping it executable.
func copyFile(dst, src string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o755)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	return nil
}
