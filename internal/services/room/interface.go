package room

import "context"

// Notifier delivers events to connected sessions. Notify is called while a
// room is locked and must not block or call back into the registry.
type Notifier interface {
	Notify(sessionIDs []string, event *Event)
}

// Service owns the live rooms and the sessions connected to them.
//
// Fire-and-forget operations report a rejection to the calling session with
// an actionError event and also return it.
type Service interface {
	// CreateRoom opens a room with the caller as its only member
	CreateRoom(ctx context.Context, input *CreateRoomInput) (*CreateRoomOutput, error)

	// JoinRoom adds the caller to an existing room
	JoinRoom(ctx context.Context, input *JoinRoomInput) (*JoinRoomOutput, error)

	// RequestState returns the state of a room the caller belongs to
	RequestState(ctx context.Context, input *RequestStateInput) (*RequestStateOutput, error)

	// AddPlayer adds a named player to a room
	AddPlayer(ctx context.Context, input *AddPlayerInput) error

	// RemovePlayer removes a player from a room
	RemovePlayer(ctx context.Context, input *RemovePlayerInput) error

	// StartGame starts the game of a room
	StartGame(ctx context.Context, input *StartGameInput) error

	// PlayerAction applies a player action in a room
	PlayerAction(ctx context.Context, input *PlayerActionInput) error

	// UpdateSettings merges new settings into a room
	UpdateSettings(ctx context.Context, input *UpdateSettingsInput) error

	// ResetGame zeroes the stats of a room and returns it to setup
	ResetGame(ctx context.Context, input *ResetGameInput) error

	// NewGameSetup stops the running game of a room
	NewGameSetup(ctx context.Context, input *NewGameSetupInput) error

	// Disconnect removes a session from every room it belongs to
	Disconnect(ctx context.Context, input *DisconnectInput) (*DisconnectOutput, error)

	// GetRoom returns a live room without requiring membership
	GetRoom(ctx context.Context, input *GetRoomInput) (*GetRoomOutput, error)

	// Stats counts live rooms and connected sessions
	Stats(ctx context.Context) (*StatsOutput, error)
}
