package uuid

import "github.com/google/uuid"

//go:generate mockgen -package=mocks -destination=mocks/mock_uuid.go github.com/KirkDiggler/zombeers/internal/common/uuid UUID

// UUID generates player and websocket session identifiers
type UUID interface {
	NewUUID() string
}

// Random implements UUID with version 4 UUIDs
type Random struct{}

func New() *Random {
	return &Random{}
}

// NewUUID returns a new random UUID string
func (r *Random) NewUUID() string {
	return uuid.NewString()
}
