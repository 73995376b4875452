package game

import (
	"testing"
	"time"

	"github.com/KirkDiggler/zombeers/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateTotals(t *testing.T) {
	state := models.NewRoomState()
	state.Players = []*models.Player{
		{ID: "a", Name: "Alice", Points: 2000, Beers: 1, Shots: 2},
		{ID: "b", Name: "Bob", Points: 500, Beers: 3},
	}
	state.History = []*models.HistoryEntry{
		{Player: "Alice", Action: models.ActionBeer, Change: 2500},
		{Player: "Alice", Action: models.ActionRedeem, Change: -500},
		{Player: "Bob", Action: models.ActionRevive, Change: 500},
		{Player: "Bob", Action: models.ActionRevive, Change: 500},
		{Player: "Bob", Action: models.ActionResetScore, Change: -1000},
		{Player: "Bob", Action: models.ActionResetScore, Change: 0},
	}

	totals := CalculateTotals(state)

	assert.Equal(t, 3500, totals.Earned)
	assert.Equal(t, 500, totals.Spent)
	assert.Equal(t, 2, totals.Revives)
	assert.Equal(t, 4, totals.Beers)
	assert.Equal(t, 2, totals.Shots)
}

func TestCalculateTotals_NilState(t *testing.T) {
	assert.Equal(t, models.Totals{}, CalculateTotals(nil))
}

func TestBuildLeaderboard_TiesKeepOrder(t *testing.T) {
	players := []*models.Player{
		{ID: "a", Name: "Alice", Points: 100},
		{ID: "b", Name: "Bob", Points: 300},
		{ID: "c", Name: "Cara", Points: 100},
		{ID: "d", Name: "Dan", Points: 300},
	}

	lb := BuildLeaderboard(players)

	require.Len(t, lb.Entries, 4)
	names := []string{}
	for _, e := range lb.Entries {
		names = append(names, e.PlayerName)
	}
	assert.Equal(t, []string{"Bob", "Dan", "Alice", "Cara"}, names)
	assert.Equal(t, 4, lb.Entries[3].Rank)

	// Input order is untouched
	assert.Equal(t, "Alice", players[0].Name)
}

func TestFormatElapsed(t *testing.T) {
	now := time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC)

	start := now.Add(-(2*time.Hour + 3*time.Minute + 4*time.Second + 900*time.Millisecond)).UnixMilli()
	assert.Equal(t, "02:03:04", FormatElapsed(&start, now))

	future := now.Add(time.Minute).UnixMilli()
	assert.Equal(t, "00:00:00", FormatElapsed(&future, now))

	assert.Equal(t, "00:00:00", FormatElapsed(nil, now))

	long := now.Add(-100 * time.Hour).UnixMilli()
	assert.Equal(t, "100:00:00", FormatElapsed(&long, now))
}

func TestBuildGameStats(t *testing.T) {
	now := time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC)
	start := now.Add(-time.Minute).UnixMilli()

	state := models.NewRoomState()
	state.GameActive = true
	state.StartTime = &start
	state.Players = []*models.Player{
		{ID: "a", Name: "Alice", Points: 100},
		{ID: "b", Name: "Bob", Points: 2500, Beers: 1},
	}
	state.History = []*models.HistoryEntry{
		{Player: "Bob", Action: models.ActionBeer, Change: 2500},
	}

	stats := BuildGameStats(state, now)

	assert.Equal(t, "00:01:00", stats.Duration)
	require.Len(t, stats.Players, 2)
	assert.Equal(t, "Bob", stats.Players[0].Name)
	assert.Equal(t, 2500, stats.Earned)
	assert.Equal(t, 1, stats.Beers)
}
