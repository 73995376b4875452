package models

// ActionType names a point-affecting event applied to one player
type ActionType string

const (
	// ActionBeer records a beer
	ActionBeer ActionType = "beer"

	// ActionShot records a shot, bounded by the shot limit
	ActionShot ActionType = "shot"

	// ActionRevive records a revive
	ActionRevive ActionType = "revive"

	// ActionRedeem spends points
	ActionRedeem ActionType = "redeem"

	// ActionResetScore zeroes a player's stats
	ActionResetScore ActionType = "reset-score"
)

// IsValid reports whether the action is one of the known actions
func (a ActionType) IsValid() bool {
	switch a {
	case ActionBeer, ActionShot, ActionRevive, ActionRedeem, ActionResetScore:
		return true
	}
	return false
}

// MaxHistory is the number of most recent history entries kept
const MaxHistory = 100

// HistoryEntry is an audit record of one applied action
type HistoryEntry struct {
	// Timestamp is when the action was applied, in epoch milliseconds
	Timestamp int64 `json:"timestamp" yaml:"timestamp"`

	// Player is the player's name at the time of the action
	Player string `json:"player" yaml:"player"`

	// Action is the applied action
	Action ActionType `json:"action" yaml:"action"`

	// Change is the signed point delta
	Change int `json:"change" yaml:"change"`

	// Message is the pre-rendered human readable description
	Message string `json:"message" yaml:"message"`
}
