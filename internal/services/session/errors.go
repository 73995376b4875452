package session

// SessionError is a custom error type for local session errors
type SessionError string

// Error implements the error interface
func (e SessionError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrNilConfig           SessionError = "config cannot be nil"
	ErrNilRepository       SessionError = "repository cannot be nil"
	ErrNilGameService      SessionError = "game service cannot be nil"
	ErrNilMessagingService SessionError = "messaging service cannot be nil"
	ErrNilClock            SessionError = "clock cannot be nil"
	ErrNilInput            SessionError = "input cannot be nil"
	ErrSaveFailed          SessionError = "failed to save session"
	ErrLoadFailed          SessionError = "failed to load session"
	ErrDiscardedSnapshot   SessionError = "corrupt session snapshot was discarded"
	ErrNegativeCount       SessionError = "beers and shots cannot be negative"
)
