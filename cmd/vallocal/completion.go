package main

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

// shellGenerators writes the completion script for each supported shell.
var shellGenerators = map[string]func(root *cobra.Command, out io.Writer) error{
	"bash":       func(root *cobra.Command, out io.Writer) error { return root.GenBashCompletionV2(out, true) },
	"zsh":        func(root *cobra.Command, out io.Writer) error { return root.GenZshCompletion(out) },
	"fish":       func(root *cobra.Command, out io.Writer) error { return root.GenFishCompletion(out, true) },
	"powershell": func(root *cobra.Command, out io.Writer) error { return root.GenPowerShellCompletionWithDesc(out) },
}

var completionCmd = &cobra.Command{
	Use:   "completion <shell>",
	Short: "Print a shell completion script",
	Long: `Print a completion script for bash, zsh, fish, or powershell.

Event type flags (--include-types, --exclude-types) complete to the known
types, comma separated, and --format completes to jsonl and pretty.

  vallocal completion bash > ~/.local/share/bash-completion/completions/vallocal
  vallocal completion zsh > "${fpath[1]}/_vallocal"
  vallocal completion fish > ~/.config/fish/completions/vallocal.fish
  vallocal completion powershell >> $PROFILE`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		gen, ok := shellGenerators[args[0]]
		if !ok {
			return fmt.Errorf("unsupported shell %q", args[0])
		}
		return gen(cmd.Root(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}

// splitTypeList splits a partially typed comma list into the already
// complete entries and the entry being typed.
func splitTypeList(toComplete string) (done []string, current string) {
	parts := strings.Split(toComplete, ",")
	last := len(parts) - 1
	return parts[:last], strings.ToLower(strings.TrimSpace(parts[last]))
}

// typeCandidates returns the event type names starting with current that
// are not in used, each prefixed with the completed part of the list.
func typeCandidates(done []string, current string, used map[string]bool) []string {
	prefix := ""
	if len(done) > 0 {
		prefix = strings.Join(done, ",") + ","
	}
	var out []string
	for _, name := range ValidEventTypeNames() {
		if !used[name] && strings.HasPrefix(name, current) {
			out = append(out, prefix+name)
		}
	}
	return out
}

// completeEventTypes completes a comma separated event type flag. Types
// already listed in the current value or in earlier uses of the flag are
// not offered again.
func completeEventTypes(flagName string) cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		done, current := splitTypeList(toComplete)

		used := make(map[string]bool)
		previous, _ := cmd.Flags().GetStringSlice(flagName)
		for _, v := range slices.Concat(done, previous) {
			if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
				used[v] = true
			}
		}

		return typeCandidates(done, current, used), cobra.ShellCompDirectiveNoSpace | cobra.ShellCompDirectiveNoFileComp
	}
}

func registerEventTypeCompletion(cmd *cobra.Command, flagName string) {
	_ = cmd.RegisterFlagCompletionFunc(flagName, completeEventTypes(flagName))
}

func completeFormats(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var out []string
	for name := range ValidFormats {
		if strings.HasPrefix(name, toComplete) {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out, cobra.ShellCompDirectiveNoFileComp
}

func registerFormatCompletion(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)
}
