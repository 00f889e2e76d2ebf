package vallocal

import (
	"github.com/vallocal/vallocal-go/internal/eventbus"
	"github.com/vallocal/vallocal-go/internal/lockfile"
	"github.com/vallocal/vallocal-go/internal/riotapi"
	"github.com/vallocal/vallocal-go/internal/session"
	"github.com/vallocal/vallocal-go/pkg/vallocal/event"
)

// Re-export types for convenience.
// Users can import just "github.com/vallocal/vallocal-go/pkg/vallocal"
// and use vallocal.Event, vallocal.EventRoundEnded, etc.

// Event is a gameplay event classified from one log line.
type Event = event.Event

// EventType is the kind of gameplay event.
type EventType = event.Type

// Event type constants.
const (
	EventRoundEnded      = event.RoundEnded
	EventMatchEnded      = event.MatchEnded
	EventPlayerDied      = event.PlayerDied
	EventBombInteraction = event.BombInteraction
	EventGameplayStarted = event.GameplayStarted
)

// Subscription is one subscriber's bounded queue of events.
type Subscription = eventbus.Subscription

// Session is the authenticated identity plus cluster routing.
type Session = session.Session

// Credentials are the local control API secrets read from the lockfile.
type Credentials = lockfile.Credentials

// Remote API response types.
type (
	PregamePlayer     = riotapi.PregamePlayer
	CoregamePlayer    = riotapi.CoregamePlayer
	CoregameMatch     = riotapi.CoregameMatch
	MatchHistoryEntry = riotapi.MatchHistoryEntry
	MatchDetails      = riotapi.MatchDetails
	MMR               = riotapi.MMR
	NameEntry         = riotapi.NameEntry
)
