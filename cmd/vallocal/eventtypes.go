package main

import (
	"fmt"
	"strings"

	"github.com/vallocal/vallocal-go/pkg/vallocal"
	"github.com/vallocal/vallocal-go/pkg/vallocal/event"
)

// ValidEventTypeNames returns a sorted list of valid event type names.
// Delegates to event.TypeNames() as the single source of truth.
func ValidEventTypeNames() []string {
	return event.TypeNames()
}

// NormalizeEventTypes converts CLI string values to a vallocal.EventType slice.
// It handles case-insensitivity, whitespace trimming, and duplicate removal.
func NormalizeEventTypes(values []string) ([]vallocal.EventType, error) {
	if len(values) == 0 {
		return nil, nil
	}

	result := make([]vallocal.EventType, 0, len(values))
	seen := make(map[vallocal.EventType]struct{})

	for _, raw := range values {
		if strings.TrimSpace(raw) == "" {
			return nil, fmt.Errorf("empty event type provided (input: %q); valid types: %s", raw, strings.Join(ValidEventTypeNames(), ", "))
		}

		t, ok := event.ParseType(raw)
		if !ok {
			return nil, fmt.Errorf("unknown event type %q (valid: %s)", raw, strings.Join(ValidEventTypeNames(), ", "))
		}

		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		result = append(result, t)
	}

	return result, nil
}

// RejectOverlap returns an error if any event type is in both includes and excludes.
func RejectOverlap(includes, excludes []vallocal.EventType) error {
	ex := make(map[vallocal.EventType]struct{}, len(excludes))
	for _, t := range excludes {
		ex[t] = struct{}{}
	}
	for _, t := range includes {
		if _, ok := ex[t]; ok {
			return fmt.Errorf("event type %q cannot be both included and excluded", t)
		}
	}
	return nil
}

// eventTypeFilters normalizes the include and exclude flag values together.
func eventTypeFilters(include, exclude []string) (includes, excludes []vallocal.EventType, err error) {
	if includes, err = NormalizeEventTypes(include); err != nil {
		return nil, nil, err
	}
	if excludes, err = NormalizeEventTypes(exclude); err != nil {
		return nil, nil, err
	}
	if err = RejectOverlap(includes, excludes); err != nil {
		return nil, nil, err
	}
	return includes, excludes, nil
}
