package models

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Setting keys as they appear on the wire and in snapshots
const (
	SettingPointsPerBeer   = "pointsPerBeer"
	SettingPointsPerShot   = "pointsPerShot"
	SettingPointsPerRevive = "pointsPerRevive"
	SettingRedemptionCost  = "redemptionCost"
	SettingShotLimit       = "shotLimit"
)

// SettingKeys lists the recognized setting keys in a stable order
var SettingKeys = []string{
	SettingPointsPerBeer,
	SettingPointsPerShot,
	SettingPointsPerRevive,
	SettingRedemptionCost,
	SettingShotLimit,
}

// Settings holds the point values and limits of a room
type Settings struct {
	// PointsPerBeer is awarded for each beer
	PointsPerBeer int `json:"pointsPerBeer" yaml:"pointsPerBeer"`

	// PointsPerShot is awarded for each shot
	PointsPerShot int `json:"pointsPerShot" yaml:"pointsPerShot"`

	// PointsPerRevive is awarded for each revive
	PointsPerRevive int `json:"pointsPerRevive" yaml:"pointsPerRevive"`

	// RedemptionCost is deducted for each redemption
	RedemptionCost int `json:"redemptionCost" yaml:"redemptionCost"`

	// ShotLimit caps the number of shots per player
	ShotLimit int `json:"shotLimit" yaml:"shotLimit"`
}

// DefaultSettings returns the settings a fresh room starts with
func DefaultSettings() Settings {
	return Settings{
		PointsPerBeer:   2500,
		PointsPerShot:   1000,
		PointsPerRevive: 500,
		RedemptionCost:  500,
		ShotLimit:       3,
	}
}

// SettingError describes a rejected value for a recognized key
type SettingError struct {
	// Key is the offending setting key
	Key string

	// Value is the value that failed validation
	Value any
}

// Merge applies the recognized keys of update to a copy of s. A value is
// accepted when it parses as an integer and is not negative; rejected keys
// keep their current value and are returned in key order. Unrecognized keys
// are ignored.
func (s Settings) Merge(update map[string]any) (Settings, []SettingError) {
	merged := s
	var rejected []SettingError

	for _, key := range SettingKeys {
		raw, ok := update[key]
		if !ok {
			continue
		}

		value, ok := ParseSettingValue(raw)
		if !ok || value < 0 {
			rejected = append(rejected, SettingError{Key: key, Value: raw})
			continue
		}

		*merged.field(key) = value
	}

	return merged, rejected
}

// Get returns the value of a recognized key
func (s Settings) Get(key string) (int, bool) {
	f := s.field(key)
	if f == nil {
		return 0, false
	}
	return *f, true
}

func (s *Settings) field(key string) *int {
	switch key {
	case SettingPointsPerBeer:
		return &s.PointsPerBeer
	case SettingPointsPerShot:
		return &s.PointsPerShot
	case SettingPointsPerRevive:
		return &s.PointsPerRevive
	case SettingRedemptionCost:
		return &s.RedemptionCost
	case SettingShotLimit:
		return &s.ShotLimit
	}
	return nil
}

// ParseSettingValue converts a decoded JSON value or a string to an integer
// the way a browser parseInt would: fractional numbers are truncated and a
// string is read up to its first non-digit. It reports false when no integer
// can be read.
func ParseSettingValue(raw any) (int, bool) {
	switch v := raw.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return int(math.Trunc(v)), true
	case json.Number:
		return parseLeadingInt(v.String())
	case string:
		return parseLeadingInt(v)
	}
	return 0, false
}

func parseLeadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)

	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
