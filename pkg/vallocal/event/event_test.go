package event

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   Type
		wantOK bool
	}{
		// Valid types - exact match
		{"round_ended exact", "round_ended", RoundEnded, true},
		{"match_ended exact", "match_ended", MatchEnded, true},
		{"player_died exact", "player_died", PlayerDied, true},
		{"bomb_interaction exact", "bomb_interaction", BombInteraction, true},
		{"gameplay_started exact", "gameplay_started", GameplayStarted, true},

		// Case-insensitive
		{"uppercase ROUND_ENDED", "ROUND_ENDED", RoundEnded, true},
		{"mixed case Match_Ended", "Match_Ended", MatchEnded, true},

		// Whitespace handling
		{"leading space", " player_died", PlayerDied, true},
		{"trailing space", "player_died ", PlayerDied, true},
		{"tab", "\tgameplay_started\t", GameplayStarted, true},

		// Invalid types
		{"unknown type", "unknown", "", false},
		{"empty string", "", "", false},
		{"only spaces", "   ", "", false},
		{"internal space", "round ended", "", false},
		{"typo", "round_endde", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseType(tt.input)
			if ok != tt.wantOK {
				t.Errorf("ParseType(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ParseType(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseType_RoundTrip(t *testing.T) {
	for _, name := range TypeNames() {
		t.Run(name, func(t *testing.T) {
			got, ok := ParseType(name)
			if !ok {
				t.Errorf("ParseType(%q) returned false, expected true", name)
			}
			if string(got) != name {
				t.Errorf("ParseType(%q) = %q, expected %q", name, got, name)
			}
		})
	}
}

func TestTypeNames_Sorted(t *testing.T) {
	names := TypeNames()
	if len(names) != 5 {
		t.Fatalf("TypeNames() returned %d names, want 5", len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("TypeNames() not sorted: %q > %q", names[i-1], names[i])
		}
	}
}

func TestEvent_JSONOmitsUnsetPayload(t *testing.T) {
	data, err := json.Marshal(Event{Type: PlayerDied})
	if err != nil {
		t.Fatal(err)
	}
	if got := string(data); got != `{"type":"player_died"}` {
		t.Errorf("json = %s, want only the type field", got)
	}

	data, err = json.Marshal(Event{Type: RoundEnded, Round: 7})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"round":7`) {
		t.Errorf("json = %s, want round field", data)
	}
}
