package models

import "encoding/json"

// LocalSession is a single-user game state that is not associated with a
// room
type LocalSession struct {
	// State is the durable part of the session
	State *RoomState `json:"state" yaml:"state"`

	// RoomCode is the joined room, nil when playing locally
	RoomCode *string `json:"roomCode" yaml:"roomCode"`

	// LastGameStats is the summary of the last ended game. It is never
	// persisted.
	LastGameStats *GameStats `json:"lastGameStats,omitempty" yaml:"lastGameStats,omitempty"`
}

// EncodeSnapshot serializes the durable fields of a state
func EncodeSnapshot(state *RoomState) ([]byte, error) {
	return json.Marshal(state)
}

// DecodeSnapshot parses a persisted snapshot and merges it over a fresh
// state. Fields missing from the snapshot, or holding a value of the wrong
// type, keep their defaults; settings are merged key by key. Only bytes that
// are not a JSON object fail.
func DecodeSnapshot(data []byte) (*RoomState, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}

	state := NewRoomState()

	decodeField(fields, "gameActive", &state.GameActive)
	decodeField(fields, "players", &state.Players)
	decodeField(fields, "startTime", &state.StartTime)
	decodeField(fields, "history", &state.History)

	var settings map[string]any
	if decodeField(fields, "settings", &settings) {
		state.Settings, _ = state.Settings.Merge(settings)
	}

	state.Players = compactPlayers(state.Players)
	state.History = compactHistory(state.History)

	// A running game always has a start time
	if state.GameActive && state.StartTime == nil {
		state.GameActive = false
	}
	if !state.GameActive {
		state.StartTime = nil
	}

	return state, nil
}

// decodeField unmarshals one field into dst, leaving dst untouched when the
// field is absent or does not fit
func decodeField[T any](fields map[string]json.RawMessage, key string, dst *T) bool {
	raw, ok := fields[key]
	if !ok {
		return false
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}

	*dst = v
	return true
}

func compactPlayers(players []*Player) []*Player {
	out := make([]*Player, 0, len(players))
	for _, p := range players {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

func compactHistory(history []*HistoryEntry) []*HistoryEntry {
	out := make([]*HistoryEntry, 0, len(history))
	for _, h := range history {
		if h != nil {
			out = append(out, h)
		}
	}
	if over := len(out) - MaxHistory; over > 0 {
		out = out[over:]
	}
	return out
}
