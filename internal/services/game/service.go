package game

import (
	"context"
	"strings"

	"github.com/KirkDiggler/zombeers/internal/common/clock"
	"github.com/KirkDiggler/zombeers/internal/common/uuid"
	"github.com/KirkDiggler/zombeers/internal/models"
	"github.com/KirkDiggler/zombeers/internal/services/messaging"
	"go.uber.org/zap"
)

// service implements the Service interface
type service struct {
	clock            clock.Clock
	uuidGenerator    uuid.UUID
	messagingService messaging.Service
	logger           *zap.Logger
}

// New creates a new game service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.Clock == nil {
		return nil, ErrNilClock
	}

	if cfg.UUIDGenerator == nil {
		return nil, ErrNilUUIDGenerator
	}

	if cfg.MessagingService == nil {
		return nil, ErrNilMessagingService
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &service{
		clock:            cfg.Clock,
		uuidGenerator:    cfg.UUIDGenerator,
		messagingService: cfg.MessagingService,
		logger:           logger,
	}, nil
}

// AddPlayer adds a named player to the state
func (s *service) AddPlayer(ctx context.Context, input *AddPlayerInput) (*AddPlayerOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}
	if input.State == nil {
		return nil, ErrNilState
	}

	state := input.State
	name := strings.TrimSpace(input.Name)

	if name == "" {
		return nil, s.reject(ctx, KindValidation, ErrEmptyPlayerName, messaging.ReasonEmptyName, "", "")
	}

	if len(state.Players) >= models.MaxPlayers {
		return nil, s.reject(ctx, KindValidation, ErrRoomFull, messaging.ReasonRoomFull, "", "")
	}

	if state.FindPlayerByName(name) != nil {
		return nil, s.reject(ctx, KindValidation, ErrDuplicatePlayerName, messaging.ReasonDuplicateName, "", "")
	}

	player := &models.Player{
		ID:     s.uuidGenerator.NewUUID(),
		Name:   name,
		Points: 0,
		Beers:  0,
		Shots:  0,
	}
	state.Players = append(state.Players, player)

	return &AddPlayerOutput{
		Player: player.Clone(),
	}, nil
}

// RemovePlayer removes a player by ID
func (s *service) RemovePlayer(ctx context.Context, input *RemovePlayerInput) (*RemovePlayerOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}
	if input.State == nil {
		return nil, ErrNilState
	}

	state := input.State
	for i, p := range state.Players {
		if p.ID != input.PlayerID {
			continue
		}

		state.Players = append(state.Players[:i:i], state.Players[i+1:]...)
		return &RemovePlayerOutput{
			Player: p,
		}, nil
	}

	return nil, s.reject(ctx, KindNotFound, ErrPlayerNotFound, messaging.ReasonPlayerNotFound, "", "")
}

// StartGame moves the state from setup to active
func (s *service) StartGame(ctx context.Context, input *StartGameInput) (*StartGameOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}
	if input.State == nil {
		return nil, ErrNilState
	}

	state := input.State

	if state.GameActive {
		return nil, s.reject(ctx, KindRuleViolation, ErrGameAlreadyActive, messaging.ReasonGameAlreadyActive, "", "")
	}

	if len(state.Players) == 0 {
		return nil, s.reject(ctx, KindRuleViolation, ErrNoPlayers, messaging.ReasonNoPlayers, "", "")
	}

	startTime := clock.Millis(s.clock.Now())
	state.GameActive = true
	state.StartTime = &startTime
	state.History = []*models.HistoryEntry{}

	return &StartGameOutput{
		StartTime: startTime,
	}, nil
}

// ApplyAction applies a player action while the game is active
func (s *service) ApplyAction(ctx context.Context, input *ApplyActionInput) (*ApplyActionOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}
	if input.State == nil {
		return nil, ErrNilState
	}

	state := input.State
	settings := state.Settings

	player := state.FindPlayer(input.PlayerID)
	if player == nil {
		return nil, s.reject(ctx, KindNotFound, ErrPlayerNotFound, messaging.ReasonPlayerNotFound, "", "")
	}

	if !state.GameActive {
		return nil, s.reject(ctx, KindRuleViolation, ErrGameNotActive, messaging.ReasonGameNotActive, "", "")
	}

	// Work on a copy so a rejected action leaves the player untouched
	updated := *player
	var change int

	switch input.Action {
	case models.ActionBeer:
		updated.Beers++
		change = settings.PointsPerBeer

	case models.ActionShot:
		if player.Shots >= settings.ShotLimit {
			return nil, s.reject(ctx, KindRuleViolation, ErrShotLimitReached, messaging.ReasonShotLimit, player.Name, "")
		}
		updated.Shots++
		change = settings.PointsPerShot

	case models.ActionRevive:
		change = settings.PointsPerRevive

	case models.ActionRedeem:
		if player.Points < settings.RedemptionCost {
			return nil, s.reject(ctx, KindRuleViolation, ErrInsufficientPoints, messaging.ReasonInsufficientPoints, player.Name, "")
		}
		change = -settings.RedemptionCost

	case models.ActionResetScore:
		change = -player.Points
		updated.Beers = 0
		updated.Shots = 0

	default:
		s.logger.Warn("unknown player action",
			zap.String("action", string(input.Action)),
			zap.String("player_id", input.PlayerID))
		return nil, s.reject(ctx, KindValidation, ErrUnknownAction, messaging.ReasonUnknownAction, "", string(input.Action))
	}

	updated.Points += change

	msgOutput, err := s.messagingService.GetActionMessage(ctx, &messaging.GetActionMessageInput{
		PlayerName: player.Name,
		Action:     input.Action,
		Change:     change,
		Shots:      updated.Shots,
		ShotLimit:  settings.ShotLimit,
	})
	if err != nil {
		return nil, err
	}

	*player = updated

	entry := &models.HistoryEntry{
		Timestamp: clock.Millis(s.clock.Now()),
		Player:    player.Name,
		Action:    input.Action,
		Change:    change,
		Message:   msgOutput.Message,
	}
	state.AppendHistory(entry)

	copied := *entry
	return &ApplyActionOutput{
		Player: player.Clone(),
		Entry:  &copied,
	}, nil
}

// ResetGame zeroes player stats and clears history, returning to setup.
// Player identities and settings are kept.
func (s *service) ResetGame(ctx context.Context, input *ResetGameInput) (*ResetGameOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}
	if input.State == nil {
		return nil, ErrNilState
	}

	state := input.State
	for _, p := range state.Players {
		p.Points = 0
		p.Beers = 0
		p.Shots = 0
	}
	state.GameActive = false
	state.StartTime = nil
	state.History = []*models.HistoryEntry{}

	return &ResetGameOutput{}, nil
}

// NewGameSetup stops the active game without touching stats or history
func (s *service) NewGameSetup(ctx context.Context, input *NewGameSetupInput) (*NewGameSetupOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}
	if input.State == nil {
		return nil, ErrNilState
	}

	if !input.State.GameActive {
		return nil, s.reject(ctx, KindRuleViolation, ErrGameNotActive, messaging.ReasonNoActiveGame, "", "")
	}

	input.State.GameActive = false
	input.State.StartTime = nil

	return &NewGameSetupOutput{}, nil
}

// EndGame stops the active game and returns its summary
func (s *service) EndGame(ctx context.Context, input *EndGameInput) (*EndGameOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}
	if input.State == nil {
		return nil, ErrNilState
	}

	if !input.State.GameActive {
		return nil, s.reject(ctx, KindRuleViolation, ErrGameNotActive, messaging.ReasonNoActiveGame, "", "")
	}

	stats := BuildGameStats(input.State, s.clock.Now())

	input.State.GameActive = false
	input.State.StartTime = nil

	return &EndGameOutput{
		Stats: stats,
	}, nil
}

// UpdateSettings merges validated setting values. Valid keys are applied
// even when other keys are rejected.
func (s *service) UpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*UpdateSettingsOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}
	if input.State == nil {
		return nil, ErrNilState
	}

	update, ok := input.Settings.(map[string]any)
	if !ok || update == nil {
		s.logger.Warn("invalid settings format received")
		return nil, s.reject(ctx, KindValidation, ErrInvalidSettings, messaging.ReasonInvalidSettingsFormat, "", "")
	}

	merged, rejected := input.State.Settings.Merge(update)

	output := &UpdateSettingsOutput{
		Applied:  []string{},
		Rejected: []*Error{},
	}

	rejectedKeys := make(map[string]bool, len(rejected))
	for _, r := range rejected {
		rejectedKeys[r.Key] = true
		s.logger.Warn("invalid setting value",
			zap.String("key", r.Key),
			zap.Any("value", r.Value))
		output.Rejected = append(output.Rejected, s.reject(ctx, KindValidation, ErrInvalidSetting, messaging.ReasonInvalidSetting, "", r.Key))
	}

	for _, key := range models.SettingKeys {
		if _, present := update[key]; present && !rejectedKeys[key] {
			output.Applied = append(output.Applied, key)
		}
	}

	input.State.Settings = merged

	return output, nil
}

// GetLeaderboard returns the standings of the state
func (s *service) GetLeaderboard(ctx context.Context, input *GetLeaderboardInput) (*GetLeaderboardOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}
	if input.State == nil {
		return nil, ErrNilState
	}

	return &GetLeaderboardOutput{
		Leaderboard: BuildLeaderboard(input.State.Players),
	}, nil
}

// GetTotals returns the totals derived from the state
func (s *service) GetTotals(ctx context.Context, input *GetTotalsInput) (*GetTotalsOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}
	if input.State == nil {
		return nil, ErrNilState
	}

	return &GetTotalsOutput{
		Totals: CalculateTotals(input.State),
	}, nil
}

// reject builds a player facing error for a rejected operation
func (s *service) reject(ctx context.Context, kind ErrorKind, sentinel GameError, reason messaging.ErrorReason, playerName, detail string) *Error {
	msg := sentinel.Error()

	out, err := s.messagingService.GetErrorMessage(ctx, &messaging.GetErrorMessageInput{
		Reason:     reason,
		PlayerName: playerName,
		Detail:     detail,
	})
	if err == nil {
		msg = out.Message
	}

	return NewError(kind, sentinel, msg)
}
