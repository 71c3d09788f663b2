package fund

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"DoubleDown/internal/model"
)

// Snapshot is a replay's final state saved to disk.
type Snapshot struct {
	SavedAt time.Time     `json:"saved_at"`
	Code    string        `json:"code"`
	Start   string        `json:"start_date"`
	End     string        `json:"end_date"`
	State   model.State   `json:"state"`
	Result  *model.Result `json:"result,omitempty"`
}

// SaveSnapshot writes snap as indented JSON, creating the parent directory.
// The file is replaced atomically.
func SaveSnapshot(filePath string, snap *Snapshot) error {
	snap.SavedAt = time.Now()
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return err
	}
	tmp := filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, filePath)
}

// LoadSnapshot reads a snapshot written by SaveSnapshot.
func LoadSnapshot(filePath string) (*Snapshot, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", filePath, err)
	}
	return &snap, nil
}
