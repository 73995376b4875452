package game

import (
	"github.com/KirkDiggler/zombeers/internal/common/clock"
	"github.com/KirkDiggler/zombeers/internal/common/uuid"
	"github.com/KirkDiggler/zombeers/internal/models"
	"github.com/KirkDiggler/zombeers/internal/services/messaging"
	"go.uber.org/zap"
)

// Config holds configuration for the game service
type Config struct {
	// Clock stamps start times and history entries
	Clock clock.Clock

	// UUIDGenerator creates player IDs
	UUIDGenerator uuid.UUID

	// MessagingService renders history and error messages
	MessagingService messaging.Service

	// Logger is optional
	Logger *zap.Logger
}

type AddPlayerInput struct {
	State *models.RoomState
	Name  string
}

type AddPlayerOutput struct {
	Player *models.Player
}

type RemovePlayerInput struct {
	State    *models.RoomState
	PlayerID string
}

type RemovePlayerOutput struct {
	Player *models.Player
}

type StartGameInput struct {
	State *models.RoomState
}

type StartGameOutput struct {
	StartTime int64
}

type ApplyActionInput struct {
	State    *models.RoomState
	PlayerID string
	Action   models.ActionType
}

type ApplyActionOutput struct {
	// Player is a copy of the player after the action
	Player *models.Player

	// Entry is the appended history entry
	Entry *models.HistoryEntry
}

type ResetGameInput struct {
	State *models.RoomState
}

type ResetGameOutput struct {
}

type NewGameSetupInput struct {
	State *models.RoomState
}

type NewGameSetupOutput struct {
}

type EndGameInput struct {
	State *models.RoomState
}

type EndGameOutput struct {
	Stats *models.GameStats
}

type UpdateSettingsInput struct {
	State *models.RoomState

	// Settings is a decoded JSON object keyed by setting name. Any other
	// type is rejected as a bad format.
	Settings any
}

type UpdateSettingsOutput struct {
	// Applied lists the keys whose values were accepted
	Applied []string

	// Rejected holds one validation error per rejected key
	Rejected []*Error
}

// Changed reports whether any value was applied
func (o *UpdateSettingsOutput) Changed() bool {
	return len(o.Applied) > 0
}

type GetLeaderboardInput struct {
	State *models.RoomState
}

type GetLeaderboardOutput struct {
	Leaderboard *models.Leaderboard
}

type GetTotalsInput struct {
	State *models.RoomState
}

type GetTotalsOutput struct {
	Totals models.Totals
}
