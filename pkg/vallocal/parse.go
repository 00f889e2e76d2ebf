package vallocal

import (
	"bufio"
	"context"
	"errors"
	"iter"
	"os"

	"github.com/vallocal/vallocal-go/internal/classify"
)

// maxLineSize bounds a single log line read by ParseFile.
const maxLineSize = 512 * 1024

// ParseLine classifies a single log line.
// The boolean is false if the line is not a recognized event.
//
// Example:
//
//	line := "LogShooterGameState: Match Ended: Completion State: 'Completed', Winning Team: 'Blue'"
//	if ev, ok := vallocal.ParseLine(line); ok {
//	    fmt.Println(ev.Type, ev.WinningTeam)
//	}
func ParseLine(line string) (Event, bool) {
	return classify.Classify(line)
}

// ParseOption configures ParseFile.
type ParseOption func(*parseConfig)

type parseConfig struct {
	filter         typeFilter
	includeRawLine bool
}

// WithParseIncludeTypes yields only events of the specified types.
func WithParseIncludeTypes(types ...EventType) ParseOption {
	return func(c *parseConfig) {
		c.filter.include = typeSet(types)
	}
}

// WithParseExcludeTypes skips events of the specified types.
func WithParseExcludeTypes(types ...EventType) ParseOption {
	return func(c *parseConfig) {
		c.filter.exclude = typeSet(types)
	}
}

// WithParseIncludeRawLine includes the original log line in Event.RawLine.
func WithParseIncludeRawLine(include bool) ParseOption {
	return func(c *parseConfig) {
		c.includeRawLine = include
	}
}

// ParseFile classifies every line of a finished or live log file once and
// returns an iterator over the events found. The file is opened lazily on
// first iteration. ObservedAt is left zero: the log carries no timestamps
// the classifier reads.
//
// The iterator yields (Event{}, err) once and stops on open, read, or
// context errors.
func ParseFile(ctx context.Context, path string, opts ...ParseOption) iter.Seq2[Event, error] {
	if path == "" {
		return func(yield func(Event, error) bool) {
			yield(Event{}, errors.New("vallocal: path required"))
		}
	}

	var cfg parseConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return func(yield func(Event, error) bool) {
		file, err := os.Open(path)
		if err != nil {
			yield(Event{}, err)
			return
		}
		defer file.Close()

		scanner := bufio.NewScanner(file)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

		for scanner.Scan() {
			if err := ctx.Err(); err != nil {
				yield(Event{}, err)
				return
			}

			line := scanner.Text()
			ev, ok := classify.Classify(line)
			if !ok || !cfg.filter.allows(ev.Type) {
				continue
			}
			if cfg.includeRawLine {
				ev.RawLine = line
			}
			if !yield(ev, nil) {
				return
			}
		}

		if err := scanner.Err(); err != nil {
			yield(Event{}, err)
		}
	}
}

// ParseFileAll collects all events of ParseFile into a slice.
// Stops on the first error and returns the events collected so far.
func ParseFileAll(ctx context.Context, path string, opts ...ParseOption) ([]Event, error) {
	var events []Event
	for ev, err := range ParseFile(ctx, path, opts...) {
		if err != nil {
			return events, err
		}
		events = append(events, ev)
	}
	return events, nil
}
