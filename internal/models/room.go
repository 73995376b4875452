package models

// RoomState is the full state of a room or local session
type RoomState struct {
	// GameActive is true while a game is running
	GameActive bool `json:"gameActive" yaml:"gameActive"`

	// Players in the order they were added
	Players []*Player `json:"players" yaml:"players"`

	// Settings of the room
	Settings Settings `json:"settings" yaml:"settings"`

	// StartTime is the epoch millisecond start of the running game, nil when
	// no game is running
	StartTime *int64 `json:"startTime" yaml:"startTime"`

	// History of applied actions, newest last
	History []*HistoryEntry `json:"history" yaml:"history"`
}

// NewRoomState returns a fresh state with default settings
func NewRoomState() *RoomState {
	return &RoomState{
		GameActive: false,
		Players:    []*Player{},
		Settings:   DefaultSettings(),
		StartTime:  nil,
		History:    []*HistoryEntry{},
	}
}

// Clone returns a deep copy of the state
func (s *RoomState) Clone() *RoomState {
	if s == nil {
		return nil
	}

	c := &RoomState{
		GameActive: s.GameActive,
		Players:    make([]*Player, 0, len(s.Players)),
		Settings:   s.Settings,
		History:    make([]*HistoryEntry, 0, len(s.History)),
	}

	if s.StartTime != nil {
		start := *s.StartTime
		c.StartTime = &start
	}

	for _, p := range s.Players {
		c.Players = append(c.Players, p.Clone())
	}

	for _, h := range s.History {
		entry := *h
		c.History = append(c.History, &entry)
	}

	return c
}

// FindPlayer returns the player with the given ID, or nil
func (s *RoomState) FindPlayer(id string) *Player {
	for _, p := range s.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// FindPlayerByName returns the player whose name matches ignoring case, or nil
func (s *RoomState) FindPlayerByName(name string) *Player {
	for _, p := range s.Players {
		if p.SameName(name) {
			return p
		}
	}
	return nil
}

// AppendHistory adds an entry and evicts the oldest entries beyond MaxHistory
func (s *RoomState) AppendHistory(entry *HistoryEntry) {
	s.History = append(s.History, entry)
	if over := len(s.History) - MaxHistory; over > 0 {
		s.History = append([]*HistoryEntry(nil), s.History[over:]...)
	}
}
