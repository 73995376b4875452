package messaging

import "context"

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/KirkDiggler/zombeers/internal/services/messaging Service

// Service renders the human readable text shown to players
type Service interface {
	// GetActionMessage returns the history message for an applied action
	GetActionMessage(ctx context.Context, input *GetActionMessageInput) (*GetActionMessageOutput, error)

	// GetErrorMessage returns a user-facing message for a rejected operation
	GetErrorMessage(ctx context.Context, input *GetErrorMessageInput) (*GetErrorMessageOutput, error)

	// GetLeaderboardMessage renders the standings as plain text
	GetLeaderboardMessage(ctx context.Context, input *GetLeaderboardMessageInput) (*GetLeaderboardMessageOutput, error)

	// GetGameStatsMessage renders an end of game summary as plain text
	GetGameStatsMessage(ctx context.Context, input *GetGameStatsMessageInput) (*GetGameStatsMessageOutput, error)
}
