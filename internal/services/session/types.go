package session

import (
	"github.com/KirkDiggler/zombeers/internal/common/clock"
	"github.com/KirkDiggler/zombeers/internal/models"
	sessionrepo "github.com/KirkDiggler/zombeers/internal/repositories/session"
	"github.com/KirkDiggler/zombeers/internal/services/game"
	"github.com/KirkDiggler/zombeers/internal/services/messaging"
	"go.uber.org/zap"
)

// Config holds configuration for the local session
type Config struct {
	// Repository stores the snapshot
	Repository sessionrepo.Repository

	// GameService applies the game rules
	GameService game.Service

	// MessagingService renders persistence errors
	MessagingService messaging.Service

	// Clock stamps start times
	Clock clock.Clock

	// Key is the storage key, sessionrepo.DefaultKey when empty
	Key string

	// Logger is optional
	Logger *zap.Logger
}

type LoadInput struct {
}

type LoadOutput struct {
	// State is a copy of the loaded state
	State *models.RoomState

	// Restored is true when a stored snapshot was found and parsed
	Restored bool
}

type SaveInput struct {
}

type GetStateInput struct {
}

type GetStateOutput struct {
	Session *models.LocalSession
}

type AddPlayerInput struct {
	Name string
}

type AddPlayerOutput struct {
	Player *models.Player
}

type RemovePlayerInput struct {
	PlayerID string
}

type RemovePlayerOutput struct {
	Player *models.Player
}

// UpdatePlayerInput overwrites the non-nil counters of a player
type UpdatePlayerInput struct {
	PlayerID string
	Points   *int
	Beers    *int
	Shots    *int
}

type UpdatePlayerOutput struct {
	Player *models.Player
}

type AppendHistoryInput struct {
	Entry *models.HistoryEntry
}

type SetActiveInput struct {
	Active bool

	// StartTime is used when activating. The clock is read when it is nil.
	StartTime *int64
}

type UpdateSettingsInput struct {
	Settings any
}

type UpdateSettingsOutput struct {
	Applied  []string
	Rejected []*game.Error
}

type ResetAllInput struct {
}

type SetRoomCodeInput struct {
	// RoomCode is nil when leaving a room
	RoomCode *string
}

type StartGameInput struct {
}

type StartGameOutput struct {
	StartTime int64
}

type ApplyActionInput struct {
	PlayerID string
	Action   models.ActionType
}

type ApplyActionOutput struct {
	Player *models.Player
	Entry  *models.HistoryEntry
}

type ResetGameInput struct {
}

type EndGameInput struct {
}

type EndGameOutput struct {
	Stats *models.GameStats
}

type StartFreshInput struct {
	// WinnerID is the challenge winner of the finished session, if any
	WinnerID string
}
