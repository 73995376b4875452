package game

import "context"

// Service applies the game rules to a room state. Every method mutates the
// state passed in its input and never keeps a reference to it; callers
// serialize access to a state.
type Service interface {
	// AddPlayer adds a named player to the state
	AddPlayer(ctx context.Context, input *AddPlayerInput) (*AddPlayerOutput, error)

	// RemovePlayer removes a player by ID
	RemovePlayer(ctx context.Context, input *RemovePlayerInput) (*RemovePlayerOutput, error)

	// StartGame moves the state from setup to active
	StartGame(ctx context.Context, input *StartGameInput) (*StartGameOutput, error)

	// ApplyAction applies a player action while the game is active
	ApplyAction(ctx context.Context, input *ApplyActionInput) (*ApplyActionOutput, error)

	// ResetGame zeroes player stats and clears history, returning to setup
	ResetGame(ctx context.Context, input *ResetGameInput) (*ResetGameOutput, error)

	// NewGameSetup stops the active game without touching stats or history
	NewGameSetup(ctx context.Context, input *NewGameSetupInput) (*NewGameSetupOutput, error)

	// EndGame stops the active game and returns its summary
	EndGame(ctx context.Context, input *EndGameInput) (*EndGameOutput, error)

	// UpdateSettings merges validated setting values
	UpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*UpdateSettingsOutput, error)

	// GetLeaderboard returns the standings of the state
	GetLeaderboard(ctx context.Context, input *GetLeaderboardInput) (*GetLeaderboardOutput, error)

	// GetTotals returns the totals derived from the state
	GetTotals(ctx context.Context, input *GetTotalsInput) (*GetTotalsOutput, error)
}
