package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vallocal/vallocal-go/pkg/vallocal"
)

// ValidFormats lists all valid output formats.
var ValidFormats = map[string]bool{
	"jsonl":  true,
	"pretty": true,
}

// OutputEvent writes an event in the specified format to the writer.
func OutputEvent(format string, ev vallocal.Event, out io.Writer) error {
	switch format {
	case "jsonl":
		return OutputJSON(ev, out)
	case "pretty":
		return OutputPretty(ev, out)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// OutputJSON writes an event as JSON Lines format.
func OutputJSON(ev vallocal.Event, out io.Writer) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

// OutputPretty writes an event in human-readable format.
// Events without an observation time (batch parsing) are stamped "--:--:--".
func OutputPretty(ev vallocal.Event, out io.Writer) error {
	ts := "--:--:--"
	if !ev.ObservedAt.IsZero() {
		ts = ev.ObservedAt.Format("15:04:05")
	}

	var err error
	switch ev.Type {
	case vallocal.EventRoundEnded:
		_, err = fmt.Fprintf(out, "[%s] # round %d ended\n", ts, ev.Round)
	case vallocal.EventMatchEnded:
		_, err = fmt.Fprintf(out, "[%s] # match ended, winner: %s\n", ts, ev.WinningTeam)
	case vallocal.EventPlayerDied:
		_, err = fmt.Fprintf(out, "[%s] x player died\n", ts)
	case vallocal.EventBombInteraction:
		_, err = fmt.Fprintf(out, "[%s] ! %s is planting or defusing\n", ts, ev.Agent)
	case vallocal.EventGameplayStarted:
		_, err = fmt.Fprintf(out, "[%s] > gameplay started\n", ts)
	default:
		_, err = fmt.Fprintf(out, "[%s] * %s\n", ts, ev.Type)
	}
	return err
}
