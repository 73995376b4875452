package session

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/zombeers/internal/repositories/session Repository

import (
	"context"

	"github.com/KirkDiggler/zombeers/internal/models"
)

// Repository defines the interface for local session snapshot persistence
type Repository interface {
	// GetSnapshot loads the stored snapshot for a key
	GetSnapshot(ctx context.Context, input *GetSnapshotInput) (*models.RoomState, error)

	// SaveSnapshot stores the durable fields of a state under a key
	SaveSnapshot(ctx context.Context, input *SaveSnapshotInput) error

	// DeleteSnapshot removes the stored snapshot for a key
	DeleteSnapshot(ctx context.Context, input *DeleteSnapshotInput) error
}
