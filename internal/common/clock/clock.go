package clock

import "time"

//go:generate mockgen -package=mocks -destination=mocks/mock_clock.go github.com/KirkDiggler/zombeers/internal/common/clock Clock

// Clock is the time source of game start times and history timestamps
type Clock interface {
	Now() time.Time
}

// System implements Clock with the wall clock
type System struct{}

func New() *System {
	return &System{}
}

// Now returns the current time
func (c *System) Now() time.Time {
	return time.Now()
}

// Millis returns t as epoch milliseconds, the unit stored in room state
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}

// Since returns the time elapsed from startMillis to now, never negative
func Since(startMillis int64, now time.Time) time.Duration {
	d := time.Duration(now.UnixMilli()-startMillis) * time.Millisecond
	if d < 0 {
		return 0
	}
	return d
}
