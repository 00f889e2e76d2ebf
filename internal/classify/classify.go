// Package classify turns ShooterGame.log lines into gameplay events.
package classify

import (
	"strconv"
	"strings"

	"github.com/vallocal/vallocal-go/pkg/vallocal/event"
)

// detector inspects a line and reports an event if its signature matches.
// matched is true when the marker was present, even if the payload was not
// extractable; that stops later detectors from looking at the line.
type detector func(line string) (ev event.Event, ok bool, matched bool)

// detectors run in order; the first whose marker matches decides the result.
var detectors = []detector{
	detectRoundEnded,
	detectMatchEnded,
	detectPlayerDied,
	detectBombInteraction,
	detectGameplayStarted,
}

// Classify classifies a single log line.
//
// Returns:
//   - (Event, true): the line matched a signature and its payload parsed
//   - (Event{}, false): no signature matched, or the payload was malformed
//
// Classify is pure: the same line always yields the same result.
func Classify(line string) (event.Event, bool) {
	line = strings.TrimRight(line, "\r\n")

	for _, d := range detectors {
		ev, ok, matched := d(line)
		if matched {
			return ev, ok
		}
	}
	return event.Event{}, false
}

func detectRoundEnded(line string) (event.Event, bool, bool) {
	if !strings.Contains(line, roundEndedMarker) {
		return event.Event{}, false, false
	}
	raw, ok := between(line, roundOpen, quote)
	if !ok {
		return event.Event{}, false, true
	}
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return event.Event{}, false, true
	}
	return event.Event{Type: event.RoundEnded, Round: uint(n)}, true, true
}

func detectMatchEnded(line string) (event.Event, bool, bool) {
	if !strings.Contains(line, matchEndedMarker) {
		return event.Event{}, false, false
	}
	team := unknownTeam
	if strings.Contains(line, winningTeamLabel) {
		t, ok := between(line, winningTeamOpen, quote)
		if !ok {
			return event.Event{}, false, true
		}
		team = t
	}
	return event.Event{Type: event.MatchEnded, WinningTeam: team}, true, true
}

func detectPlayerDied(line string) (event.Event, bool, bool) {
	if !strings.Contains(line, postDeathMarker) ||
		!strings.Contains(line, acknowledgeMarker) ||
		strings.Contains(line, previousPawnMarker) {
		return event.Event{}, false, false
	}
	if !strings.Contains(line, clientRestartMark) {
		// Other acknowledgement chatter; let later detectors look.
		return event.Event{}, false, false
	}
	return event.Event{Type: event.PlayerDied}, true, true
}

func detectBombInteraction(line string) (event.Event, bool, bool) {
	if !strings.Contains(line, bombBuffMarker) {
		return event.Event{}, false, false
	}
	_, after, ok := strings.Cut(line, effectAddedMarker)
	if !ok {
		return event.Event{}, false, true
	}
	agent, _, _ := strings.Cut(after, "_")
	if agent == "" {
		return event.Event{}, false, true
	}
	return event.Event{Type: event.BombInteraction, Agent: agent}, true, true
}

func detectGameplayStarted(line string) (event.Event, bool, bool) {
	if !strings.Contains(line, gameplayStartedMarker) {
		return event.Event{}, false, false
	}
	return event.Event{Type: event.GameplayStarted}, true, true
}

// between returns the text following the first open up to the next close.
// A missing close delimiter yields the remainder of the line.
func between(line, open, close string) (string, bool) {
	_, after, ok := strings.Cut(line, open)
	if !ok {
		return "", false
	}
	inner, _, _ := strings.Cut(after, close)
	return inner, true
}
