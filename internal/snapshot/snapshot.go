// Package snapshot persists the full domain state as one JSON document on
// disk, written through after every mutation and loaded once at startup.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/noah-isme/absensi-sd-api/internal/models"
)

// FileStore reads and writes the snapshot document at a fixed path.
type FileStore struct {
	path   string
	logger *zap.Logger
}

// NewFileStore ensures the parent directory exists and returns a handle.
func NewFileStore(path string, logger *zap.Logger) (*FileStore, error) {
	if path == "" {
		path = "./data/absensi.json"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot directory: %w", err)
	}
	return &FileStore{path: path, logger: logger}, nil
}

// Save writes the full state synchronously. The document replaces the prior
// one wholesale; there is no batching and no schema version tag.
func (f *FileStore) Save(snap models.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("install snapshot: %w", err)
	}
	return nil
}

// Load reads the last saved state. The second return is false when no
// snapshot exists yet. A malformed document is reported as an error so the
// caller can fall back to seed data.
func (f *FileStore) Load() (models.Snapshot, bool, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return models.Snapshot{}, false, nil
		}
		return models.Snapshot{}, false, fmt.Errorf("read snapshot: %w", err)
	}
	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return models.Snapshot{}, false, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, true, nil
}

// Path exposes the underlying location (useful for debugging).
func (f *FileStore) Path() string {
	return f.path
}

// Observer adapts Save into a store change hook; failures are logged, never
// fatal, and leave the in-memory state authoritative. onWrite, when non-nil,
// receives the outcome of every write attempt.
func (f *FileStore) Observer(onWrite func(error)) func(models.Snapshot) {
	return func(snap models.Snapshot) {
		err := f.Save(snap)
		if err != nil {
			f.logger.Error("snapshot write-through failed", zap.String("path", f.path), zap.Error(err))
		}
		if onWrite != nil {
			onWrite(err)
		}
	}
}
