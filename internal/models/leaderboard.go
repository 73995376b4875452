package models

// LeaderboardEntry is one row of the standings
type LeaderboardEntry struct {
	// Rank is the 1-based position in the standings
	Rank int `json:"rank" yaml:"rank"`

	// PlayerID is the ID of the player
	PlayerID string `json:"playerId" yaml:"playerId"`

	// PlayerName is the display name of the player
	PlayerName string `json:"playerName" yaml:"playerName"`

	// Points is the player's current score
	Points int `json:"points" yaml:"points"`
}

// Leaderboard represents the current standings, highest points first
type Leaderboard struct {
	// Entries contains one row per player
	Entries []*LeaderboardEntry `json:"entries" yaml:"entries"`
}
