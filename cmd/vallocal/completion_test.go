package main

import (
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestCompleteEventTypes(t *testing.T) {
	tests := []struct {
		name       string
		toComplete string
		flagVals   []string
		want       []string
	}{
		{
			name:       "empty input returns all types",
			toComplete: "",
			want:       []string{"bomb_interaction", "gameplay_started", "match_ended", "player_died", "round_ended"},
		},
		{
			name:       "prefix filters",
			toComplete: "ro",
			want:       []string{"round_ended"},
		},
		{
			name:       "comma prefix preserves already typed values",
			toComplete: "round_ended,ma",
			want:       []string{"round_ended,match_ended"},
		},
		{
			name:       "excludes already typed values",
			toComplete: "round_ended,",
			want: []string{
				"round_ended,bomb_interaction",
				"round_ended,gameplay_started",
				"round_ended,match_ended",
				"round_ended,player_died",
			},
		},
		{
			name:       "excludes values from flag",
			toComplete: "",
			flagVals:   []string{"round_ended", "match_ended"},
			want:       []string{"bomb_interaction", "gameplay_started", "player_died"},
		},
		{
			name:       "case insensitive matching",
			toComplete: "PLAY",
			want:       []string{"player_died"},
		},
		{
			name:       "trims whitespace",
			toComplete: "  bomb  ",
			want:       []string{"bomb_interaction"},
		},
		{
			name:       "no match returns empty",
			toComplete: "xyz",
			want:       nil,
		},
		{
			name:       "all types used returns empty",
			toComplete: "bomb_interaction,gameplay_started,match_ended,player_died,round_ended,",
			want:       nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cobra.Command{}
			cmd.Flags().StringSlice("include-types", nil, "")
			if tt.flagVals != nil {
				if err := cmd.Flags().Set("include-types", strings.Join(tt.flagVals, ",")); err != nil {
					t.Fatalf("failed to set flag: %v", err)
				}
			}

			complete := completeEventTypes("include-types")
			got, dir := complete(cmd, nil, tt.toComplete)

			expectedDir := cobra.ShellCompDirectiveNoSpace | cobra.ShellCompDirectiveNoFileComp
			if dir != expectedDir {
				t.Errorf("directive = %v, want %v", dir, expectedDir)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("candidates = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompleteFormats(t *testing.T) {
	got, dir := completeFormats(tailCmd, nil, "")
	if !reflect.DeepEqual(got, []string{"jsonl", "pretty"}) {
		t.Errorf("candidates = %v", got)
	}
	if dir != cobra.ShellCompDirectiveNoFileComp {
		t.Errorf("directive = %v", dir)
	}

	got, _ = completeFormats(tailCmd, nil, "p")
	if !reflect.DeepEqual(got, []string{"pretty"}) {
		t.Errorf("candidates for %q = %v", "p", got)
	}
}

func TestSplitTypeList(t *testing.T) {
	done, current := splitTypeList("round_ended,match_ended, PLA")
	if !reflect.DeepEqual(done, []string{"round_ended", "match_ended"}) {
		t.Errorf("done = %v", done)
	}
	if current != "pla" {
		t.Errorf("current = %q, want %q", current, "pla")
	}

	done, current = splitTypeList("")
	if len(done) != 0 || current != "" {
		t.Errorf("splitTypeList(\"\") = %v, %q", done, current)
	}
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			var buf strings.Builder
			completionCmd.SetOut(&buf)
			defer completionCmd.SetOut(nil)

			if err := completionCmd.RunE(completionCmd, []string{shell}); err != nil {
				t.Fatalf("completion %s: %v", shell, err)
			}
			if !strings.Contains(buf.String(), "vallocal") {
				t.Errorf("completion %s output does not mention vallocal", shell)
			}
		})
	}

	if err := completionCmd.Args(completionCmd, []string{"tcsh"}); err == nil {
		t.Error("expected an error for an unsupported shell")
	}
}
