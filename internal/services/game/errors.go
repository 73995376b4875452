package game

import "errors"

// GameError is a custom error type for game-related errors
type GameError string

// Error implements the error interface
func (e GameError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrPlayerNotFound      GameError = "player not found"
	ErrEmptyPlayerName     GameError = "player name cannot be empty"
	ErrDuplicatePlayerName GameError = "player name already exists"
	ErrRoomFull            GameError = "room is at maximum capacity"
	ErrNoPlayers           GameError = "game has no players"
	ErrGameNotActive       GameError = "game is not active"
	ErrGameAlreadyActive   GameError = "game is already active"
	ErrShotLimitReached    GameError = "shot limit reached"
	ErrInsufficientPoints  GameError = "insufficient points"
	ErrUnknownAction       GameError = "unknown action"
	ErrInvalidSetting      GameError = "invalid setting value"
	ErrInvalidSettings     GameError = "invalid settings format"
	ErrNilInput            GameError = "input cannot be nil"
	ErrNilState            GameError = "state cannot be nil"
	ErrNilConfig           GameError = "config cannot be nil"
	ErrNilClock            GameError = "clock cannot be nil"
	ErrNilUUIDGenerator    GameError = "UUID generator cannot be nil"
	ErrNilMessagingService GameError = "messaging service cannot be nil"
)

// ErrorKind classifies an error reported to a player
type ErrorKind string

const (
	// KindValidation covers bad names, duplicate names and bad settings
	KindValidation ErrorKind = "validation"

	// KindRuleViolation covers shot limits, redemption affordability and
	// illegal state transitions
	KindRuleViolation ErrorKind = "rule_violation"

	// KindNotFound covers missing rooms, players and memberships
	KindNotFound ErrorKind = "not_found"

	// KindPersistence covers snapshot read and write failures
	KindPersistence ErrorKind = "persistence"
)

// Error is an error with a kind and a message fit to show a player. The
// wrapped error is a sentinel usable with errors.Is.
type Error struct {
	// Kind classifies the error
	Kind ErrorKind

	// Message is shown to the originating caller
	Message string

	// Err is the underlying sentinel or cause
	Err error
}

// NewError creates an Error
func NewError(kind ErrorKind, err error, message string) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of err, or an empty kind when err is not an *Error
func KindOf(err error) ErrorKind {
	var gameErr *Error
	if errors.As(err, &gameErr) {
		return gameErr.Kind
	}
	return ""
}

// MessageOf returns the player facing message of err
func MessageOf(err error) string {
	var gameErr *Error
	if errors.As(err, &gameErr) && gameErr.Message != "" {
		return gameErr.Message
	}
	return "Something went wrong."
}
