package room

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/KirkDiggler/zombeers/internal/common/roomcode"
	"github.com/KirkDiggler/zombeers/internal/models"
	"github.com/KirkDiggler/zombeers/internal/services/game"
	"github.com/KirkDiggler/zombeers/internal/services/messaging"
	"go.uber.org/zap"
)

// room is one live room. state and members are guarded by mu; members is
// only changed while the registry lock is also held.
type room struct {
	mu      sync.Mutex
	code    string
	state   *models.RoomState
	members map[string]struct{}
}

func (r *room) memberIDs() []string {
	ids := make([]string, 0, len(r.members))
	for id := range r.members {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (r *room) otherMemberIDs(sessionID string) []string {
	ids := make([]string, 0, len(r.members))
	for _, id := range r.memberIDs() {
		if id != sessionID {
			ids = append(ids, id)
		}
	}
	return ids
}

// service implements the Service interface. Lock order is the registry mu
// first, then a room mu.
type service struct {
	gameService      game.Service
	messagingService messaging.Service
	codeGenerator    roomcode.Generator
	notifier         Notifier
	maxCodeAttempts  int
	logger           *zap.Logger

	mu       sync.Mutex
	rooms    map[string]*room
	sessions map[string]map[string]struct{}
}

// New creates a new room registry
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.GameService == nil {
		return nil, ErrNilGameService
	}

	if cfg.MessagingService == nil {
		return nil, ErrNilMessagingService
	}

	if cfg.CodeGenerator == nil {
		return nil, ErrNilCodeGenerator
	}

	if cfg.Notifier == nil {
		return nil, ErrNilNotifier
	}

	attempts := cfg.MaxCodeAttempts
	if attempts <= 0 {
		attempts = DefaultMaxCodeAttempts
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &service{
		gameService:      cfg.GameService,
		messagingService: cfg.MessagingService,
		codeGenerator:    cfg.CodeGenerator,
		notifier:         cfg.Notifier,
		maxCodeAttempts:  attempts,
		logger:           logger,
		rooms:            make(map[string]*room),
		sessions:         make(map[string]map[string]struct{}),
	}, nil
}

// CreateRoom opens a room with the caller as its only member
func (s *service) CreateRoom(ctx context.Context, input *CreateRoomInput) (*CreateRoomOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}
	if input.SessionID == "" {
		return nil, ErrEmptySessionID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	code := ""
	for i := 0; i < s.maxCodeAttempts; i++ {
		candidate := s.codeGenerator.Generate()
		if _, taken := s.rooms[candidate]; !taken {
			code = candidate
			break
		}
	}
	if code == "" {
		s.logger.Error("room code space exhausted", zap.Int("rooms", len(s.rooms)))
		return nil, ErrCodeSpaceExhausted
	}

	r := &room{
		code:    code,
		state:   models.NewRoomState(),
		members: map[string]struct{}{input.SessionID: {}},
	}
	s.rooms[code] = r
	s.addSessionRoom(input.SessionID, code)

	s.logger.Info("room created", zap.String("room_code", code), zap.String("session_id", input.SessionID))

	return &CreateRoomOutput{
		RoomCode: code,
		State:    r.state.Clone(),
	}, nil
}

// JoinRoom adds the caller to an existing room and tells the other members.
// Joining a room twice is a no-op that returns the state.
func (s *service) JoinRoom(ctx context.Context, input *JoinRoomInput) (*JoinRoomOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}
	if input.SessionID == "" {
		return nil, ErrEmptySessionID
	}

	code := roomcode.Normalize(input.RoomCode)

	s.mu.Lock()
	r, ok := s.rooms[code]
	if !ok {
		s.mu.Unlock()
		return nil, s.newError(ctx, game.KindNotFound, ErrRoomNotFound, messaging.ReasonRoomNotFound)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, already := r.members[input.SessionID]
	if !already {
		r.members[input.SessionID] = struct{}{}
		s.addSessionRoom(input.SessionID, code)
	}
	s.mu.Unlock()

	if !already {
		s.logger.Info("session joined room", zap.String("room_code", code), zap.String("session_id", input.SessionID))
		s.notifier.Notify(r.otherMemberIDs(input.SessionID), &Event{Type: EventPlayerJoined, Payload: input.SessionID})
	}

	return &JoinRoomOutput{
		RoomCode: code,
		State:    r.state.Clone(),
	}, nil
}

// RequestState returns the state of a room the caller belongs to
func (s *service) RequestState(ctx context.Context, input *RequestStateInput) (*RequestStateOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	r, err := s.lockMember(ctx, input.SessionID, input.RoomCode)
	if err != nil {
		return nil, err
	}
	defer r.mu.Unlock()

	return &RequestStateOutput{
		State: r.state.Clone(),
	}, nil
}

// AddPlayer adds a named player and broadcasts the state
func (s *service) AddPlayer(ctx context.Context, input *AddPlayerInput) error {
	if input == nil {
		return ErrNilInput
	}

	return s.mutate(ctx, input.SessionID, input.RoomCode, func(r *room) error {
		out, err := s.gameService.AddPlayer(ctx, &game.AddPlayerInput{State: r.state, Name: input.Name})
		if err != nil {
			return err
		}

		s.logger.Info("player added",
			zap.String("room_code", r.code),
			zap.String("player_id", out.Player.ID),
			zap.String("player_name", out.Player.Name))
		s.broadcastState(r)
		return nil
	})
}

// RemovePlayer removes a player and broadcasts the state
func (s *service) RemovePlayer(ctx context.Context, input *RemovePlayerInput) error {
	if input == nil {
		return ErrNilInput
	}

	return s.mutate(ctx, input.SessionID, input.RoomCode, func(r *room) error {
		if _, err := s.gameService.RemovePlayer(ctx, &game.RemovePlayerInput{State: r.state, PlayerID: input.PlayerID}); err != nil {
			return err
		}

		s.logger.Info("player removed", zap.String("room_code", r.code), zap.String("player_id", input.PlayerID))
		s.broadcastState(r)
		return nil
	})
}

// StartGame starts the game, broadcasts the state and shows the game screen
func (s *service) StartGame(ctx context.Context, input *StartGameInput) error {
	if input == nil {
		return ErrNilInput
	}

	return s.mutate(ctx, input.SessionID, input.RoomCode, func(r *room) error {
		if _, err := s.gameService.StartGame(ctx, &game.StartGameInput{State: r.state}); err != nil {
			return err
		}

		s.logger.Info("game started", zap.String("room_code", r.code), zap.Int("players", len(r.state.Players)))
		s.broadcastState(r)
		s.notifier.Notify(r.memberIDs(), &Event{Type: EventShowScreen, Payload: ScreenGame})
		return nil
	})
}

// PlayerAction applies a player action, broadcasts the state and the action
// feedback
func (s *service) PlayerAction(ctx context.Context, input *PlayerActionInput) error {
	if input == nil {
		return ErrNilInput
	}

	return s.mutate(ctx, input.SessionID, input.RoomCode, func(r *room) error {
		out, err := s.gameService.ApplyAction(ctx, &game.ApplyActionInput{
			State:    r.state,
			PlayerID: input.PlayerID,
			Action:   input.Action,
		})
		if err != nil {
			return err
		}

		s.logger.Debug("player action applied",
			zap.String("room_code", r.code),
			zap.String("player_id", input.PlayerID),
			zap.String("action", string(input.Action)),
			zap.Int("change", out.Entry.Change))
		s.broadcastState(r)
		s.notifier.Notify(r.memberIDs(), &Event{
			Type: EventActionFeedback,
			Payload: &ActionFeedbackPayload{
				PlayerID: input.PlayerID,
				Action:   input.Action,
			},
		})
		return nil
	})
}

// UpdateSettings merges new settings. Each rejected key is reported to the
// caller and the state is broadcast when any key was applied.
func (s *service) UpdateSettings(ctx context.Context, input *UpdateSettingsInput) error {
	if input == nil {
		return ErrNilInput
	}

	return s.mutate(ctx, input.SessionID, input.RoomCode, func(r *room) error {
		out, err := s.gameService.UpdateSettings(ctx, &game.UpdateSettingsInput{State: r.state, Settings: input.Settings})
		if err != nil {
			return err
		}

		for _, rejected := range out.Rejected {
			s.reportError(input.SessionID, rejected)
		}

		if out.Changed() {
			s.logger.Info("settings updated", zap.String("room_code", r.code), zap.Strings("keys", out.Applied))
			s.broadcastState(r)
		}

		if len(out.Rejected) > 0 {
			return out.Rejected[0]
		}
		return nil
	})
}

// ResetGame zeroes stats, broadcasts the state and shows the setup screen
func (s *service) ResetGame(ctx context.Context, input *ResetGameInput) error {
	if input == nil {
		return ErrNilInput
	}

	return s.mutate(ctx, input.SessionID, input.RoomCode, func(r *room) error {
		if _, err := s.gameService.ResetGame(ctx, &game.ResetGameInput{State: r.state}); err != nil {
			return err
		}

		s.logger.Info("game reset", zap.String("room_code", r.code))
		s.broadcastState(r)
		s.notifier.Notify(r.memberIDs(), &Event{Type: EventShowScreen, Payload: ScreenSetup})
		return nil
	})
}

// NewGameSetup stops the game, broadcasts the state and shows the setup
// screen
func (s *service) NewGameSetup(ctx context.Context, input *NewGameSetupInput) error {
	if input == nil {
		return ErrNilInput
	}

	return s.mutate(ctx, input.SessionID, input.RoomCode, func(r *room) error {
		if _, err := s.gameService.NewGameSetup(ctx, &game.NewGameSetupInput{State: r.state}); err != nil {
			return err
		}

		s.logger.Info("new game setup", zap.String("room_code", r.code))
		s.broadcastState(r)
		s.notifier.Notify(r.memberIDs(), &Event{Type: EventShowScreen, Payload: ScreenSetup})
		return nil
	})
}

// Disconnect removes a session from every room it belongs to. Remaining
// members are told; a room left empty is deleted.
func (s *service) Disconnect(ctx context.Context, input *DisconnectInput) (*DisconnectOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	output := &DisconnectOutput{
		LeftRooms:    []string{},
		DeletedRooms: []string{},
	}

	codes := make([]string, 0, len(s.sessions[input.SessionID]))
	for code := range s.sessions[input.SessionID] {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	delete(s.sessions, input.SessionID)

	for _, code := range codes {
		r, ok := s.rooms[code]
		if !ok {
			continue
		}

		r.mu.Lock()
		delete(r.members, input.SessionID)
		output.LeftRooms = append(output.LeftRooms, code)
		s.logger.Info("session left room", zap.String("room_code", code), zap.String("session_id", input.SessionID))

		if len(r.members) == 0 {
			delete(s.rooms, code)
			output.DeletedRooms = append(output.DeletedRooms, code)
			s.logger.Info("room deleted", zap.String("room_code", code))
		} else {
			s.notifier.Notify(r.memberIDs(), &Event{Type: EventPlayerLeft, Payload: input.SessionID})
		}
		r.mu.Unlock()
	}

	return output, nil
}

// GetRoom returns a live room without requiring membership
func (s *service) GetRoom(ctx context.Context, input *GetRoomInput) (*GetRoomOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	code := roomcode.Normalize(input.RoomCode)

	s.mu.Lock()
	r, ok := s.rooms[code]
	if !ok {
		s.mu.Unlock()
		return nil, s.newError(ctx, game.KindNotFound, ErrRoomNotFound, messaging.ReasonRoomNotFound)
	}
	r.mu.Lock()
	s.mu.Unlock()
	defer r.mu.Unlock()

	return &GetRoomOutput{
		RoomCode: code,
		State:    r.state.Clone(),
		Members:  len(r.members),
	}, nil
}

// Stats counts live rooms and the sessions that belong to at least one room
func (s *service) Stats(ctx context.Context) (*StatsOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return &StatsOutput{
		Rooms:   len(s.rooms),
		Members: len(s.sessions),
	}, nil
}

// lockMember resolves a room the session belongs to and returns it locked
func (s *service) lockMember(ctx context.Context, sessionID, code string) (*room, error) {
	code = roomcode.Normalize(code)

	s.mu.Lock()
	r, ok := s.rooms[code]
	if !ok {
		s.mu.Unlock()
		return nil, s.newError(ctx, game.KindNotFound, ErrNotInRoom, messaging.ReasonNotInRoom)
	}
	if _, member := r.members[sessionID]; !member {
		s.mu.Unlock()
		return nil, s.newError(ctx, game.KindNotFound, ErrNotInRoom, messaging.ReasonNotInRoom)
	}

	r.mu.Lock()
	s.mu.Unlock()
	return r, nil
}

// mutate runs fn on a room the session belongs to while the room is locked.
// An error from fn or a failed membership check is reported to the session.
func (s *service) mutate(ctx context.Context, sessionID, code string, fn func(r *room) error) error {
	r, err := s.lockMember(ctx, sessionID, code)
	if err != nil {
		s.logger.Debug("rejected request from non-member",
			zap.String("room_code", roomcode.Normalize(code)),
			zap.String("session_id", sessionID))
		s.reportError(sessionID, err)
		return err
	}
	defer r.mu.Unlock()

	if err := fn(r); err != nil {
		// Settings rejections are reported per key inside fn
		if !errors.Is(err, game.ErrInvalidSetting) {
			s.reportError(sessionID, err)
		}
		return err
	}
	return nil
}

func (s *service) broadcastState(r *room) {
	s.notifier.Notify(r.memberIDs(), &Event{Type: EventGameStateUpdate, Payload: r.state.Clone()})
}

func (s *service) reportError(sessionID string, err error) {
	s.notifier.Notify([]string{sessionID}, &Event{
		Type: EventActionError,
		Payload: &ActionErrorPayload{
			Message: game.MessageOf(err),
		},
	})
}

func (s *service) addSessionRoom(sessionID, code string) {
	codes, ok := s.sessions[sessionID]
	if !ok {
		codes = make(map[string]struct{})
		s.sessions[sessionID] = codes
	}
	codes[code] = struct{}{}
}

func (s *service) newError(ctx context.Context, kind game.ErrorKind, sentinel RoomError, reason messaging.ErrorReason) *game.Error {
	msg := sentinel.Error()

	out, err := s.messagingService.GetErrorMessage(ctx, &messaging.GetErrorMessageInput{Reason: reason})
	if err == nil {
		msg = out.Message
	}

	return game.NewError(kind, sentinel, msg)
}
