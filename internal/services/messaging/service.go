package messaging

import (
	"context"
	"errors"
	"strings"

	"github.com/KirkDiggler/zombeers/internal/models"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// errorMessages maps a reason to its format. Formats taking a player name use
// the first verb for it.
var errorMessages = map[ErrorReason]string{
	ReasonEmptyName:             "Please enter a player name.",
	ReasonDuplicateName:         "Player name already exists!",
	ReasonRoomFull:              "Maximum number of players reached (%d).",
	ReasonNoPlayers:             "Add players first!",
	ReasonShotLimit:             "%s reached shot limit!",
	ReasonInsufficientPoints:    "%s needs more points!",
	ReasonPlayerNotFound:        "Player not found.",
	ReasonGameNotActive:         "Game is not active.",
	ReasonGameAlreadyActive:     "Game already in progress.",
	ReasonNoActiveGame:          "No active game to end.",
	ReasonUnknownAction:         "Unknown action: %s",
	ReasonInvalidSetting:        "Invalid value for %s. Must be a non-negative number.",
	ReasonInvalidSettingsFormat: "Invalid settings format received.",
	ReasonRoomNotFound:          "Room not found.",
	ReasonNotInRoom:             "Not in room or room not found.",
	ReasonPersistence:           "Could not save game state. Storage might be full or unavailable.",
	ReasonCorruptSnapshot:       "Saved game state was corrupt and has been reset.",
	ReasonLoadFailed:            "Could not load saved game state. Starting with defaults.",
	ReasonInvalidMessage:        "Invalid message format.",
	ReasonUnknownMessageType:    "Unknown message type: %s",
}

// service implements the Service interface
type service struct {
	lang language.Tag
}

// NewService creates a new messaging service
func NewService(config *ServiceConfig) (Service, error) {
	lang := language.English
	if config != nil && config.Language != language.Und {
		lang = config.Language
	}

	return &service{
		lang: lang,
	}, nil
}

func (s *service) printer() *message.Printer {
	return message.NewPrinter(s.lang)
}

// GetActionMessage returns the history message for an applied action
func (s *service) GetActionMessage(ctx context.Context, input *GetActionMessageInput) (*GetActionMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	p := s.printer()
	var msg string

	switch input.Action {
	case models.ActionBeer:
		msg = p.Sprintf("%s drank a beer! (+%d pts)", input.PlayerName, input.Change)
	case models.ActionShot:
		msg = p.Sprintf("%s took a shot! (+%d pts) (%d/%d)", input.PlayerName, input.Change, input.Shots, input.ShotLimit)
	case models.ActionRevive:
		msg = p.Sprintf("%s got a revive! (+%d pts)", input.PlayerName, input.Change)
	case models.ActionRedeem:
		msg = p.Sprintf("%s redeemed points! (%d pts)", input.PlayerName, input.Change)
	case models.ActionResetScore:
		msg = input.PlayerName + "'s score was reset by an admin/host."
	default:
		return nil, errors.New("unknown action")
	}

	return &GetActionMessageOutput{
		Message: msg,
	}, nil
}

// GetErrorMessage returns a user-facing message for a rejected operation
func (s *service) GetErrorMessage(ctx context.Context, input *GetErrorMessageInput) (*GetErrorMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	format, ok := errorMessages[input.Reason]
	if !ok {
		return &GetErrorMessageOutput{
			Message: "Something went wrong.",
		}, nil
	}

	var msg string
	switch input.Reason {
	case ReasonRoomFull:
		msg = s.printer().Sprintf(format, models.MaxPlayers)
	case ReasonShotLimit, ReasonInsufficientPoints:
		msg = s.printer().Sprintf(format, input.PlayerName)
	case ReasonUnknownAction, ReasonInvalidSetting, ReasonUnknownMessageType:
		msg = s.printer().Sprintf(format, input.Detail)
	default:
		msg = format
	}

	return &GetErrorMessageOutput{
		Message: msg,
	}, nil
}

// GetLeaderboardMessage renders the standings as plain text
func (s *service) GetLeaderboardMessage(ctx context.Context, input *GetLeaderboardMessageInput) (*GetLeaderboardMessageOutput, error) {
	if input == nil || input.Leaderboard == nil {
		return nil, errors.New("input and leaderboard cannot be nil")
	}

	if len(input.Leaderboard.Entries) == 0 {
		return &GetLeaderboardMessageOutput{
			Message: "No players yet.",
		}, nil
	}

	p := s.printer()
	var b strings.Builder
	for _, entry := range input.Leaderboard.Entries {
		b.WriteString(p.Sprintf("%d. %s - %d pts\n", entry.Rank, entry.PlayerName, entry.Points))
	}

	return &GetLeaderboardMessageOutput{
		Message: strings.TrimSuffix(b.String(), "\n"),
	}, nil
}

// GetGameStatsMessage renders an end of game summary as plain text
func (s *service) GetGameStatsMessage(ctx context.Context, input *GetGameStatsMessageInput) (*GetGameStatsMessageOutput, error) {
	if input == nil || input.Stats == nil {
		return nil, errors.New("input and stats cannot be nil")
	}

	p := s.printer()
	stats := input.Stats

	var b strings.Builder
	b.WriteString(p.Sprintf("Game over! Duration: %s\n", stats.Duration))
	for i, player := range stats.Players {
		b.WriteString(p.Sprintf("%d. %s - %d pts (%d beers, %d shots)\n", i+1, player.Name, player.Points, player.Beers, player.Shots))
	}
	b.WriteString(p.Sprintf("Points earned: %d\n", stats.Earned))
	b.WriteString(p.Sprintf("Points spent: %d\n", stats.Spent))
	b.WriteString(p.Sprintf("Beers: %d, Shots: %d, Revives: %d", stats.Beers, stats.Shots, stats.Revives))

	return &GetGameStatsMessageOutput{
		Message: b.String(),
	}, nil
}
