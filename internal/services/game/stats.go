package game

import (
	"fmt"
	"sort"
	"time"

	"github.com/KirkDiggler/zombeers/internal/common/clock"
	"github.com/KirkDiggler/zombeers/internal/models"
)

// CalculateTotals derives the aggregate totals of a state. Earned, spent and
// revives come from history; beers and shots are summed over the current
// players.
func CalculateTotals(state *models.RoomState) models.Totals {
	var totals models.Totals
	if state == nil {
		return totals
	}

	for _, entry := range state.History {
		if entry.Change > 0 && entry.Action != models.ActionRedeem {
			totals.Earned += entry.Change
		}
		if entry.Action == models.ActionRedeem && entry.Change < 0 {
			totals.Spent += -entry.Change
		}
		if entry.Action == models.ActionRevive {
			totals.Revives++
		}
	}

	for _, p := range state.Players {
		totals.Beers += p.Beers
		totals.Shots += p.Shots
	}

	return totals
}

// SortedByPoints returns a copy of players ordered by points, highest first.
// Ties keep their original order.
func SortedByPoints(players []*models.Player) []*models.Player {
	sorted := make([]*models.Player, len(players))
	copy(sorted, players)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Points > sorted[j].Points
	})
	return sorted
}

// BuildLeaderboard ranks players by points
func BuildLeaderboard(players []*models.Player) *models.Leaderboard {
	leaderboard := &models.Leaderboard{
		Entries: make([]*models.LeaderboardEntry, 0, len(players)),
	}

	for i, p := range SortedByPoints(players) {
		leaderboard.Entries = append(leaderboard.Entries, &models.LeaderboardEntry{
			Rank:       i + 1,
			PlayerID:   p.ID,
			PlayerName: p.Name,
			Points:     p.Points,
		})
	}

	return leaderboard
}

// BuildGameStats summarizes a state at now
func BuildGameStats(state *models.RoomState, now time.Time) *models.GameStats {
	stats := &models.GameStats{
		Duration: FormatElapsed(state.StartTime, now),
		Players:  make([]*models.PlayerSummary, 0, len(state.Players)),
		Totals:   CalculateTotals(state),
	}

	for _, p := range SortedByPoints(state.Players) {
		stats.Players = append(stats.Players, &models.PlayerSummary{
			Name:   p.Name,
			Points: p.Points,
			Beers:  p.Beers,
			Shots:  p.Shots,
		})
	}

	return stats
}

// FormatElapsed renders now minus startTime as HH:MM:SS. A nil start time or
// a start in the future renders as 00:00:00.
func FormatElapsed(startTime *int64, now time.Time) string {
	if startTime == nil {
		return FormatDuration(0)
	}
	return FormatDuration(clock.Since(*startTime, now))
}

// FormatDuration renders d as HH:MM:SS, clamping negative durations to zero
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}
