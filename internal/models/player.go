package models

import "strings"

// MaxPlayers is the hard cap on players per room or local session
const MaxPlayers = 10

// Player represents a participant in a room or local session
type Player struct {
	// ID is the opaque unique identifier of the player
	ID string `json:"id" yaml:"id"`

	// Name is the display name, unique within a room ignoring case
	Name string `json:"name" yaml:"name"`

	// Points is the current score
	Points int `json:"points" yaml:"points"`

	// Beers is the number of beers recorded for the player
	Beers int `json:"beers" yaml:"beers"`

	// Shots is the number of shots recorded, never above the shot limit
	Shots int `json:"shots" yaml:"shots"`
}

// Clone returns a copy of the player
func (p *Player) Clone() *Player {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// SameName reports whether name matches the player's name ignoring case
func (p *Player) SameName(name string) bool {
	return strings.EqualFold(p.Name, name)
}
