package messaging

import (
	"github.com/KirkDiggler/zombeers/internal/models"
	"golang.org/x/text/language"
)

// ErrorReason identifies why an operation was rejected
type ErrorReason string

const (
	ReasonEmptyName             ErrorReason = "empty_name"
	ReasonDuplicateName         ErrorReason = "duplicate_name"
	ReasonRoomFull              ErrorReason = "room_full"
	ReasonNoPlayers             ErrorReason = "no_players"
	ReasonShotLimit             ErrorReason = "shot_limit"
	ReasonInsufficientPoints    ErrorReason = "insufficient_points"
	ReasonPlayerNotFound        ErrorReason = "player_not_found"
	ReasonGameNotActive         ErrorReason = "game_not_active"
	ReasonGameAlreadyActive     ErrorReason = "game_already_active"
	ReasonNoActiveGame          ErrorReason = "no_active_game"
	ReasonUnknownAction         ErrorReason = "unknown_action"
	ReasonInvalidSetting        ErrorReason = "invalid_setting"
	ReasonInvalidSettingsFormat ErrorReason = "invalid_settings_format"
	ReasonRoomNotFound          ErrorReason = "room_not_found"
	ReasonNotInRoom             ErrorReason = "not_in_room"
	ReasonPersistence           ErrorReason = "persistence"
	ReasonCorruptSnapshot       ErrorReason = "corrupt_snapshot"
	ReasonLoadFailed            ErrorReason = "load_failed"
	ReasonInvalidMessage        ErrorReason = "invalid_message"
	ReasonUnknownMessageType    ErrorReason = "unknown_message_type"
)

// ServiceConfig holds configuration for the messaging service
type ServiceConfig struct {
	// Language used for number formatting, English when unset
	Language language.Tag
}

// GetActionMessageInput contains the facts of an applied action
type GetActionMessageInput struct {
	// PlayerName is the name of the player the action was applied to
	PlayerName string

	// Action is the applied action
	Action models.ActionType

	// Change is the signed point delta
	Change int

	// Shots is the player's shot count after the action
	Shots int

	// ShotLimit is the room's shot limit
	ShotLimit int
}

// GetActionMessageOutput contains the rendered history message
type GetActionMessageOutput struct {
	Message string
}

// GetErrorMessageInput contains parameters for an error message
type GetErrorMessageInput struct {
	// Reason is why the operation was rejected
	Reason ErrorReason

	// PlayerName is set for player specific rule violations
	PlayerName string

	// Detail carries the offending setting key, action or message type
	Detail string
}

// GetErrorMessageOutput contains the rendered error message
type GetErrorMessageOutput struct {
	Message string
}

// GetLeaderboardMessageInput contains the standings to render
type GetLeaderboardMessageInput struct {
	Leaderboard *models.Leaderboard
}

// GetLeaderboardMessageOutput contains the rendered standings
type GetLeaderboardMessageOutput struct {
	Message string
}

// GetGameStatsMessageInput contains the summary to render
type GetGameStatsMessageInput struct {
	Stats *models.GameStats
}

// GetGameStatsMessageOutput contains the rendered summary
type GetGameStatsMessageOutput struct {
	Message string
}
