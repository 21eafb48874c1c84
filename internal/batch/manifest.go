package batch

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// ManifestEntry describes one finished render.
type ManifestEntry struct {
	ID         string    `json:"id"`
	Engine     string    `json:"engine"`
	Output     string    `json:"output"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	Samples    int       `json:"samples,omitempty"`
	Depth      int       `json:"depth,omitempty"`
	Seed       uint64    `json:"seed"`
	DurationMS int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewEntry starts an entry with a fresh job ID.
func NewEntry(engine string) ManifestEntry {
	return ManifestEntry{
		ID:        uuid.NewString(),
		Engine:    engine,
		CreatedAt: time.Now().UTC(),
	}
}

// ReadManifest returns the entries stored at path; a missing file is empty.
func ReadManifest(path string) ([]ManifestEntry, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("manifest: read %s: %w", path, err)
	}
	var entries []ManifestEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("manifest: parse %s: %w", path, err)
	}
	return entries, nil
}

// WriteManifest appends entries to the manifest at path.
func WriteManifest(path string, entries ...ManifestEntry) error {
	existing, err := ReadManifest(path)
	if err != nil {
		return err
	}
	existing = append(existing, entries...)

	data, err := json.MarshalIndent(existing, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("manifest: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
