// Package event defines the Event type produced from the game client's live log.
//
// This package is separated from the main vallocal package to avoid import cycles
// between pkg/vallocal and internal/classify.
package event

import (
	"sort"
	"strings"
	"time"
)

// Type represents the kind of gameplay event observed in the log.
type Type string

const (
	// RoundEnded indicates a round finished. Round carries the round number.
	RoundEnded Type = "round_ended"

	// MatchEnded indicates the match finished. WinningTeam carries the winner,
	// or "unknown" when the log line does not name one.
	MatchEnded Type = "match_ended"

	// PlayerDied indicates the local player's pawn entered the post-death state.
	PlayerDied Type = "player_died"

	// BombInteraction indicates an agent started planting or defusing.
	// Agent carries the agent name.
	BombInteraction Type = "bomb_interaction"

	// GameplayStarted indicates the match simulation started.
	GameplayStarted Type = "gameplay_started"
)

// allTypes is the canonical list of all event types.
// Add new event types here when extending the classifier.
var allTypes = []Type{RoundEnded, MatchEnded, PlayerDied, BombInteraction, GameplayStarted}

// TypeNames returns a sorted list of all valid event type names.
func TypeNames() []string {
	names := make([]string, len(allTypes))
	for i, t := range allTypes {
		names[i] = string(t)
	}
	sort.Strings(names)
	return names
}

var typeByName = func() map[string]Type {
	m := make(map[string]Type, len(allTypes))
	for _, t := range allTypes {
		m[string(t)] = t
	}
	return m
}()

// ParseType converts a string to Type if valid.
// It is case-insensitive and trims leading/trailing whitespace.
func ParseType(name string) (Type, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	t, ok := typeByName[name]
	return t, ok
}

// Event is a single gameplay event classified from one log line.
// Only the payload field that belongs to Type is populated.
type Event struct {
	// Type is the event type.
	Type Type `json:"type"`

	// Round is the round number (RoundEnded).
	Round uint `json:"round,omitempty"`

	// WinningTeam is the winning team identifier (MatchEnded).
	WinningTeam string `json:"winning_team,omitempty"`

	// Agent is the agent performing a bomb interaction (BombInteraction).
	Agent string `json:"agent,omitempty"`

	// ObservedAt is when the line was read, not a timestamp from the log.
	ObservedAt time.Time `json:"observed_at,omitzero"`

	// RawLine is the original log line (only included if requested).
	RawLine string `json:"raw_line,omitempty"`
}
