package room

import (
	"github.com/KirkDiggler/zombeers/internal/common/roomcode"
	"github.com/KirkDiggler/zombeers/internal/models"
	"github.com/KirkDiggler/zombeers/internal/services/game"
	"github.com/KirkDiggler/zombeers/internal/services/messaging"
	"go.uber.org/zap"
)

// DefaultMaxCodeAttempts bounds room code generation
const DefaultMaxCodeAttempts = 1000

// EventType is the name of a server to client event
type EventType string

const (
	EventGameStateUpdate EventType = "gameStateUpdate"
	EventShowScreen      EventType = "showScreen"
	EventActionError     EventType = "actionError"
	EventActionFeedback  EventType = "actionFeedback"
	EventPlayerJoined    EventType = "playerJoined"
	EventPlayerLeft      EventType = "playerLeft"
)

// Screens named by showScreen events
const (
	ScreenSetup = "setup"
	ScreenGame  = "game"
)

// Event is delivered to sessions by a Notifier. Payload is JSON encodable:
// a *models.RoomState, a screen name, a session ID or one of the payload
// structs below.
type Event struct {
	Type    EventType
	Payload any
}

// ActionErrorPayload is the payload of an actionError event
type ActionErrorPayload struct {
	Message string `json:"message"`
}

// ActionFeedbackPayload is the payload of an actionFeedback event
type ActionFeedbackPayload struct {
	PlayerID string            `json:"playerId"`
	Action   models.ActionType `json:"action"`
}

// Config holds configuration for the room registry
type Config struct {
	// GameService applies the game rules to room states
	GameService game.Service

	// MessagingService renders membership errors
	MessagingService messaging.Service

	// CodeGenerator creates room codes
	CodeGenerator roomcode.Generator

	// Notifier delivers events to sessions
	Notifier Notifier

	// MaxCodeAttempts bounds retries on code collisions,
	// DefaultMaxCodeAttempts when zero
	MaxCodeAttempts int

	// Logger is optional
	Logger *zap.Logger
}

type CreateRoomInput struct {
	SessionID string
}

type CreateRoomOutput struct {
	RoomCode string
	State    *models.RoomState
}

type JoinRoomInput struct {
	SessionID string
	RoomCode  string
}

type JoinRoomOutput struct {
	// RoomCode is the normalized code
	RoomCode string
	State    *models.RoomState
}

type RequestStateInput struct {
	SessionID string
	RoomCode  string
}

type RequestStateOutput struct {
	State *models.RoomState
}

type AddPlayerInput struct {
	SessionID string
	RoomCode  string
	Name      string
}

type RemovePlayerInput struct {
	SessionID string
	RoomCode  string
	PlayerID  string
}

type StartGameInput struct {
	SessionID string
	RoomCode  string
}

type PlayerActionInput struct {
	SessionID string
	RoomCode  string
	PlayerID  string
	Action    models.ActionType
}

type UpdateSettingsInput struct {
	SessionID string
	RoomCode  string

	// Settings is the decoded newSettings value
	Settings any
}

type ResetGameInput struct {
	SessionID string
	RoomCode  string
}

type NewGameSetupInput struct {
	SessionID string
	RoomCode  string
}

type DisconnectInput struct {
	SessionID string
}

type DisconnectOutput struct {
	// LeftRooms are the codes the session was removed from
	LeftRooms []string

	// DeletedRooms are the codes deleted because they became empty
	DeletedRooms []string
}

type GetRoomInput struct {
	RoomCode string
}

type GetRoomOutput struct {
	RoomCode string
	State    *models.RoomState
	Members  int
}

type StatsOutput struct {
	Rooms   int
	Members int
}
