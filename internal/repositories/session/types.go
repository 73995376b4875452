package session

import (
	"errors"

	"github.com/KirkDiggler/zombeers/internal/models"
)

// DefaultKey is the storage key used when an input leaves Key empty
const DefaultKey = "zombeersGameState"

var (
	// ErrSnapshotNotFound is returned when nothing is stored under a key
	ErrSnapshotNotFound = errors.New("snapshot not found")

	// ErrCorruptSnapshot is returned when stored bytes cannot be parsed
	ErrCorruptSnapshot = errors.New("corrupt snapshot")
)

// GetSnapshotInput contains parameters for loading a snapshot
type GetSnapshotInput struct {
	Key string
}

// SaveSnapshotInput contains parameters for storing a snapshot
type SaveSnapshotInput struct {
	Key   string
	State *models.RoomState
}

// DeleteSnapshotInput contains parameters for removing a snapshot
type DeleteSnapshotInput struct {
	Key string
}

func keyOrDefault(key string) string {
	if key == "" {
		return DefaultKey
	}
	return key
}

// decode parses stored bytes, wrapping failures in ErrCorruptSnapshot
func decode(data []byte) (*models.RoomState, error) {
	state, err := models.DecodeSnapshot(data)
	if err != nil {
		return nil, errors.Join(ErrCorruptSnapshot, err)
	}
	return state, nil
}
