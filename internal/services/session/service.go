package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/KirkDiggler/zombeers/internal/common/clock"
	"github.com/KirkDiggler/zombeers/internal/models"
	sessionrepo "github.com/KirkDiggler/zombeers/internal/repositories/session"
	"github.com/KirkDiggler/zombeers/internal/services/game"
	"github.com/KirkDiggler/zombeers/internal/services/messaging"
	"go.uber.org/zap"
)

// service implements the Service interface
type service struct {
	repository       sessionrepo.Repository
	gameService      game.Service
	messagingService messaging.Service
	clock            clock.Clock
	key              string
	logger           *zap.Logger

	mu            sync.Mutex
	state         *models.RoomState
	roomCode      *string
	lastGameStats *models.GameStats
}

// New creates a local session holding a fresh state. Call Load to restore
// the stored snapshot.
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.Repository == nil {
		return nil, ErrNilRepository
	}

	if cfg.GameService == nil {
		return nil, ErrNilGameService
	}

	if cfg.MessagingService == nil {
		return nil, ErrNilMessagingService
	}

	if cfg.Clock == nil {
		return nil, ErrNilClock
	}

	key := cfg.Key
	if key == "" {
		key = sessionrepo.DefaultKey
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &service{
		repository:       cfg.Repository,
		gameService:      cfg.GameService,
		messagingService: cfg.MessagingService,
		clock:            cfg.Clock,
		key:              key,
		logger:           logger.With(zap.String("session_key", key)),
		state:            models.NewRoomState(),
	}, nil
}

// Load replaces the in-memory state with the stored snapshot. A corrupt
// snapshot is deleted and the session starts from defaults; the returned
// persistence error is informational and the session stays usable.
func (s *service) Load(ctx context.Context, input *LoadInput) (*LoadOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastGameStats = nil

	state, err := s.repository.GetSnapshot(ctx, &sessionrepo.GetSnapshotInput{Key: s.key})
	switch {
	case err == nil:
		s.state = state
		s.logger.Info("session loaded",
			zap.Int("players", len(state.Players)),
			zap.Bool("game_active", state.GameActive))
		return &LoadOutput{State: s.state.Clone(), Restored: true}, nil

	case errors.Is(err, sessionrepo.ErrSnapshotNotFound):
		s.state = models.NewRoomState()
		s.logger.Info("no saved session found, using defaults")
		return &LoadOutput{State: s.state.Clone()}, nil

	case errors.Is(err, sessionrepo.ErrCorruptSnapshot):
		s.state = models.NewRoomState()
		s.logger.Error("discarding corrupt session snapshot", zap.Error(err))
		if delErr := s.repository.DeleteSnapshot(ctx, &sessionrepo.DeleteSnapshotInput{Key: s.key}); delErr != nil {
			s.logger.Error("failed to delete corrupt session snapshot", zap.Error(delErr))
		}
		return &LoadOutput{State: s.state.Clone()}, s.persistenceError(ctx, ErrDiscardedSnapshot, err, messaging.ReasonCorruptSnapshot)

	default:
		s.state = models.NewRoomState()
		s.logger.Error("failed to load session", zap.Error(err))
		return &LoadOutput{State: s.state.Clone()}, s.persistenceError(ctx, ErrLoadFailed, err, messaging.ReasonLoadFailed)
	}
}

// Save persists the in-memory state
func (s *service) Save(ctx context.Context, input *SaveInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.persist(ctx)
}

// GetState returns a copy of the session
func (s *service) GetState(ctx context.Context, input *GetStateInput) (*GetStateOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := &models.LocalSession{
		State: s.state.Clone(),
	}

	if s.roomCode != nil {
		code := *s.roomCode
		session.RoomCode = &code
	}

	if s.lastGameStats != nil {
		stats := *s.lastGameStats
		session.LastGameStats = &stats
	}

	return &GetStateOutput{
		Session: session,
	}, nil
}

// AddPlayer adds a named player
func (s *service) AddPlayer(ctx context.Context, input *AddPlayerInput) (*AddPlayerOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out, err := s.gameService.AddPlayer(ctx, &game.AddPlayerInput{
		State: s.state,
		Name:  input.Name,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("player added", zap.String("player_id", out.Player.ID), zap.String("player_name", out.Player.Name))

	return &AddPlayerOutput{Player: out.Player}, s.persist(ctx)
}

// RemovePlayer removes a player by ID
func (s *service) RemovePlayer(ctx context.Context, input *RemovePlayerInput) (*RemovePlayerOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out, err := s.gameService.RemovePlayer(ctx, &game.RemovePlayerInput{
		State:    s.state,
		PlayerID: input.PlayerID,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("player removed", zap.String("player_id", out.Player.ID))

	return &RemovePlayerOutput{Player: out.Player}, s.persist(ctx)
}

// UpdatePlayer overwrites the non-nil counters of a player
func (s *service) UpdatePlayer(ctx context.Context, input *UpdatePlayerInput) (*UpdatePlayerOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	player := s.state.FindPlayer(input.PlayerID)
	if player == nil {
		return nil, s.gameError(ctx, game.KindNotFound, game.ErrPlayerNotFound, messaging.ReasonPlayerNotFound)
	}

	if (input.Beers != nil && *input.Beers < 0) || (input.Shots != nil && *input.Shots < 0) {
		return nil, game.NewError(game.KindValidation, ErrNegativeCount, "Beers and shots cannot be negative.")
	}

	if input.Points != nil {
		player.Points = *input.Points
	}
	if input.Beers != nil {
		player.Beers = *input.Beers
	}
	if input.Shots != nil {
		player.Shots = *input.Shots
	}

	return &UpdatePlayerOutput{Player: player.Clone()}, s.persist(ctx)
}

// AppendHistory adds a history entry
func (s *service) AppendHistory(ctx context.Context, input *AppendHistoryInput) error {
	if input == nil || input.Entry == nil {
		return ErrNilInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry := *input.Entry
	s.state.AppendHistory(&entry)

	return s.persist(ctx)
}

// SetActive starts or stops the game clock. Stopping always clears the start
// time.
func (s *service) SetActive(ctx context.Context, input *SetActiveInput) error {
	if input == nil {
		return ErrNilInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.GameActive = input.Active
	s.state.StartTime = nil

	if input.Active {
		start := clock.Millis(s.clock.Now())
		if input.StartTime != nil {
			start = *input.StartTime
		}
		s.state.StartTime = &start
	}

	return s.persist(ctx)
}

// UpdateSettings merges validated setting values and persists when any value
// was applied
func (s *service) UpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*UpdateSettingsOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out, err := s.gameService.UpdateSettings(ctx, &game.UpdateSettingsInput{
		State:    s.state,
		Settings: input.Settings,
	})
	if err != nil {
		return nil, err
	}

	output := &UpdateSettingsOutput{
		Applied:  out.Applied,
		Rejected: out.Rejected,
	}

	if !out.Changed() {
		return output, nil
	}

	s.logger.Info("settings updated", zap.Strings("keys", out.Applied))

	return output, s.persist(ctx)
}

// ResetAll clears players, history and the active flag, keeps the current
// settings and removes the stored snapshot
func (s *service) ResetAll(ctx context.Context, input *ResetAllInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.resetAll(ctx)
}

// SetRoomCode records the joined room
func (s *service) SetRoomCode(ctx context.Context, input *SetRoomCodeInput) error {
	if input == nil {
		return ErrNilInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.roomCode = nil
	if input.RoomCode != nil {
		code := strings.ToUpper(strings.TrimSpace(*input.RoomCode))
		s.roomCode = &code
	}

	return nil
}

// StartGame starts a game with the current players
func (s *service) StartGame(ctx context.Context, input *StartGameInput) (*StartGameOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out, err := s.gameService.StartGame(ctx, &game.StartGameInput{State: s.state})
	if err != nil {
		return nil, err
	}

	s.lastGameStats = nil
	s.logger.Info("game started", zap.Int("players", len(s.state.Players)))

	return &StartGameOutput{StartTime: out.StartTime}, s.persist(ctx)
}

// ApplyAction applies a player action
func (s *service) ApplyAction(ctx context.Context, input *ApplyActionInput) (*ApplyActionOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out, err := s.gameService.ApplyAction(ctx, &game.ApplyActionInput{
		State:    s.state,
		PlayerID: input.PlayerID,
		Action:   input.Action,
	})
	if err != nil {
		return nil, err
	}

	return &ApplyActionOutput{
		Player: out.Player,
		Entry:  out.Entry,
	}, s.persist(ctx)
}

// ResetGame zeroes stats and returns to setup
func (s *service) ResetGame(ctx context.Context, input *ResetGameInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.gameService.ResetGame(ctx, &game.ResetGameInput{State: s.state}); err != nil {
		return err
	}

	s.logger.Info("game reset")

	return s.persist(ctx)
}

// EndGame stops the game and keeps its summary as the last game stats
func (s *service) EndGame(ctx context.Context, input *EndGameInput) (*EndGameOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out, err := s.gameService.EndGame(ctx, &game.EndGameInput{State: s.state})
	if err != nil {
		return nil, err
	}

	s.lastGameStats = out.Stats
	s.logger.Info("game ended", zap.String("duration", out.Stats.Duration))

	return &EndGameOutput{Stats: out.Stats}, s.persist(ctx)
}

// StartFresh records the challenge winner, if any, and resets everything but
// the settings
func (s *service) StartFresh(ctx context.Context, input *StartFreshInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if input != nil && input.WinnerID != "" {
		if winner := s.state.FindPlayer(input.WinnerID); winner != nil {
			s.logger.Info("challenge completed", zap.String("winner", winner.Name))
		}
	}

	return s.resetAll(ctx)
}

func (s *service) resetAll(ctx context.Context) error {
	settings := s.state.Settings

	s.state = models.NewRoomState()
	s.state.Settings = settings
	s.lastGameStats = nil

	if err := s.repository.DeleteSnapshot(ctx, &sessionrepo.DeleteSnapshotInput{Key: s.key}); err != nil {
		s.logger.Error("failed to clear session snapshot", zap.Error(err))
		return s.persistenceError(ctx, ErrSaveFailed, err, messaging.ReasonPersistence)
	}

	s.logger.Info("session reset")
	return nil
}

// persist writes the current state. Callers hold mu.
func (s *service) persist(ctx context.Context) error {
	err := s.repository.SaveSnapshot(ctx, &sessionrepo.SaveSnapshotInput{
		Key:   s.key,
		State: s.state,
	})
	if err != nil {
		s.logger.Error("failed to save session", zap.Error(err))
		return s.persistenceError(ctx, ErrSaveFailed, err, messaging.ReasonPersistence)
	}
	return nil
}

func (s *service) persistenceError(ctx context.Context, sentinel SessionError, cause error, reason messaging.ErrorReason) *game.Error {
	gameErr := s.gameError(ctx, game.KindPersistence, sentinel, reason)
	gameErr.Err = fmt.Errorf("%w: %w", sentinel, cause)
	return gameErr
}

func (s *service) gameError(ctx context.Context, kind game.ErrorKind, sentinel error, reason messaging.ErrorReason) *game.Error {
	msg := sentinel.Error()

	out, err := s.messagingService.GetErrorMessage(ctx, &messaging.GetErrorMessageInput{Reason: reason})
	if err == nil {
		msg = out.Message
	}

	return game.NewError(kind, sentinel, msg)
}
