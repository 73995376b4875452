package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/KirkDiggler/zombeers/internal/models"
)

// FileConfig holds configuration for the file session repository
type FileConfig struct {
	// Dir is the directory snapshots are written to. It is created on first
	// save.
	Dir string
}

// fileRepository implements the Repository interface with one JSON file per
// key
type fileRepository struct {
	dir string
}

// NewFile creates a new file-backed session repository
func NewFile(cfg *FileConfig) (*fileRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if strings.TrimSpace(cfg.Dir) == "" {
		return nil, errors.New("directory cannot be empty")
	}

	return &fileRepository{
		dir: cfg.Dir,
	}, nil
}

// GetSnapshot reads a snapshot file
func (r *fileRepository) GetSnapshot(ctx context.Context, input *GetSnapshotInput) (*models.RoomState, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	data, err := os.ReadFile(r.path(input.Key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	return decode(data)
}

// SaveSnapshot writes a snapshot to a temp file and renames it into place
func (r *fileRepository) SaveSnapshot(ctx context.Context, input *SaveSnapshotInput) error {
	if input == nil || input.State == nil {
		return errors.New("input and state cannot be nil")
	}

	data, err := models.EncodeSnapshot(input.State)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot dir: %w", err)
	}

	tmp, err := os.CreateTemp(r.dir, ".snapshot-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	if err := os.Rename(tmp.Name(), r.path(input.Key)); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	return nil
}

// DeleteSnapshot removes a snapshot file. Deleting a missing file is not an
// error.
func (r *fileRepository) DeleteSnapshot(ctx context.Context, input *DeleteSnapshotInput) error {
	if input == nil {
		return errors.New("input cannot be nil")
	}

	if err := os.Remove(r.path(input.Key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}

	return nil
}

func (r *fileRepository) path(key string) string {
	return filepath.Join(r.dir, filepath.Base(keyOrDefault(key))+".json")
}
