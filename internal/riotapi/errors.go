package riotapi

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrNotInMatch is returned when the player has no pregame or core-game match.
	ErrNotInMatch = errors.New("not in a match")

	// ErrPlayerNotFound is returned when a name and tag resolve to no player.
	ErrPlayerNotFound = errors.New("player not found")
)

// APIError is a non-success response from a remote or local endpoint.
type APIError struct {
	Status int
	Path   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Path)
}
