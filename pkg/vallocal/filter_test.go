package vallocal

import "testing"

func TestTypeFilter(t *testing.T) {
	tests := []struct {
		name    string
		filter  typeFilter
		allowed []EventType
		denied  []EventType
	}{
		{
			name:    "zero value allows all",
			allowed: []EventType{EventRoundEnded, EventMatchEnded, EventPlayerDied},
		},
		{
			name:    "include only",
			filter:  typeFilter{include: typeSet([]EventType{EventPlayerDied})},
			allowed: []EventType{EventPlayerDied},
			denied:  []EventType{EventRoundEnded, EventBombInteraction},
		},
		{
			name:    "exclude only",
			filter:  typeFilter{exclude: typeSet([]EventType{EventPlayerDied})},
			allowed: []EventType{EventRoundEnded, EventGameplayStarted},
			denied:  []EventType{EventPlayerDied},
		},
		{
			name: "exclude wins",
			filter: typeFilter{
				include: typeSet([]EventType{EventRoundEnded, EventMatchEnded}),
				exclude: typeSet([]EventType{EventMatchEnded}),
			},
			allowed: []EventType{EventRoundEnded},
			denied:  []EventType{EventMatchEnded, EventPlayerDied},
		},
		{
			name:    "empty include is no restriction",
			filter:  typeFilter{include: typeSet(nil)},
			allowed: []EventType{EventBombInteraction},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, typ := range tt.allowed {
				if !tt.filter.allows(typ) {
					t.Errorf("allows(%q) = false, want true", typ)
				}
			}
			for _, typ := range tt.denied {
				if tt.filter.allows(typ) {
					t.Errorf("allows(%q) = true, want false", typ)
				}
			}
		})
	}
}
