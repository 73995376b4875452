package session

import "context"

// Service is the single-user session used for offline play. It keeps one
// room state in memory and writes it through to a repository after every
// mutation.
type Service interface {
	// Load replaces the in-memory state with the stored snapshot
	Load(ctx context.Context, input *LoadInput) (*LoadOutput, error)

	// Save persists the in-memory state
	Save(ctx context.Context, input *SaveInput) error

	// GetState returns a copy of the session
	GetState(ctx context.Context, input *GetStateInput) (*GetStateOutput, error)

	// AddPlayer adds a named player
	AddPlayer(ctx context.Context, input *AddPlayerInput) (*AddPlayerOutput, error)

	// RemovePlayer removes a player by ID
	RemovePlayer(ctx context.Context, input *RemovePlayerInput) (*RemovePlayerOutput, error)

	// UpdatePlayer overwrites the counters of a player
	UpdatePlayer(ctx context.Context, input *UpdatePlayerInput) (*UpdatePlayerOutput, error)

	// AppendHistory adds a history entry
	AppendHistory(ctx context.Context, input *AppendHistoryInput) error

	// SetActive starts or stops the game clock
	SetActive(ctx context.Context, input *SetActiveInput) error

	// UpdateSettings merges validated setting values
	UpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*UpdateSettingsOutput, error)

	// ResetAll clears players and history, keeps settings and removes the
	// stored snapshot
	ResetAll(ctx context.Context, input *ResetAllInput) error

	// SetRoomCode records the joined room. It is not persisted.
	SetRoomCode(ctx context.Context, input *SetRoomCodeInput) error

	// StartGame starts a game with the current players
	StartGame(ctx context.Context, input *StartGameInput) (*StartGameOutput, error)

	// ApplyAction applies a player action
	ApplyAction(ctx context.Context, input *ApplyActionInput) (*ApplyActionOutput, error)

	// ResetGame zeroes stats and returns to setup
	ResetGame(ctx context.Context, input *ResetGameInput) error

	// EndGame stops the game and keeps its summary as the last game stats
	EndGame(ctx context.Context, input *EndGameInput) (*EndGameOutput, error)

	// StartFresh ends the session for a new group of players
	StartFresh(ctx context.Context, input *StartFreshInput) error
}
