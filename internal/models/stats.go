package models

// Totals are aggregates derived from a state's history and players
type Totals struct {
	// Earned is the sum of positive changes from non-redeem actions
	Earned int `json:"totalPointsEarned" yaml:"totalPointsEarned"`

	// Spent is the sum of points spent on redemptions
	Spent int `json:"totalPointsSpent" yaml:"totalPointsSpent"`

	// Beers is the sum of beers over current players
	Beers int `json:"totalBeers" yaml:"totalBeers"`

	// Shots is the sum of shots over current players
	Shots int `json:"totalShots" yaml:"totalShots"`

	// Revives is the number of revive entries in history
	Revives int `json:"totalRevives" yaml:"totalRevives"`
}

// PlayerSummary is a player's line in the end of game summary
type PlayerSummary struct {
	Name   string `json:"name" yaml:"name"`
	Points int    `json:"points" yaml:"points"`
	Beers  int    `json:"beers" yaml:"beers"`
	Shots  int    `json:"shots" yaml:"shots"`
}

// GameStats is the summary computed when a game ends
type GameStats struct {
	// Duration is the elapsed game time formatted as HH:MM:SS
	Duration string `json:"duration" yaml:"duration"`

	// Players sorted by points, highest first
	Players []*PlayerSummary `json:"players" yaml:"players"`

	Totals `yaml:",inline"`
}
