package room

// RoomError is a custom error type for room registry errors
type RoomError string

// Error implements the error interface
func (e RoomError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrNilConfig           RoomError = "config cannot be nil"
	ErrNilGameService      RoomError = "game service cannot be nil"
	ErrNilMessagingService RoomError = "messaging service cannot be nil"
	ErrNilCodeGenerator    RoomError = "code generator cannot be nil"
	ErrNilNotifier         RoomError = "notifier cannot be nil"
	ErrNilInput            RoomError = "input cannot be nil"
	ErrEmptySessionID      RoomError = "session ID cannot be empty"
	ErrRoomNotFound        RoomError = "room not found"
	ErrNotInRoom           RoomError = "session is not in room"
	ErrCodeSpaceExhausted  RoomError = "could not generate a unique room code"
)
