package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/vallocal/vallocal-go/internal/config"
	"github.com/vallocal/vallocal-go/pkg/vallocal"
)

var (
	// tail flags
	tailLogFile      string
	format           string
	tailIncludeTypes []string
	tailExcludeTypes []string
	includeRaw       bool
	replay           bool
)

var tailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Follow the live game log and output events",
	Long: `Follow the game client's live log and output gameplay events.

Only lines appended after the command starts are classified, unless
--replay is given. Events are output as JSON Lines by default (one JSON
object per line), which makes it easy to process with tools like jq.

Examples:
  # Follow the auto-detected log file
  vallocal tail

  # Specify the log file
  vallocal tail --log-file "C:\Users\me\AppData\Local\VALORANT\Saved\Logs\ShooterGame.log"

  # Output only round and match results
  vallocal tail --include-types round_ended,match_ended

  # Human-readable output
  vallocal tail --format pretty

  # Pipe to jq for filtering
  vallocal tail | jq 'select(.type == "round_ended")'`,
	RunE: runTail,
}

func init() {
	tailCmd.Flags().StringVarP(&tailLogFile, "log-file", "l", "",
		"Live log file (auto-detected if not specified)")
	tailCmd.Flags().StringVarP(&format, "format", "f", "jsonl",
		"Output format: jsonl, pretty")
	tailCmd.Flags().StringSliceVar(&tailIncludeTypes, "include-types", nil,
		"Event types to include (comma-separated: round_ended,match_ended,...)")
	tailCmd.Flags().StringSliceVar(&tailExcludeTypes, "exclude-types", nil,
		"Event types to exclude (comma-separated)")
	tailCmd.Flags().BoolVar(&includeRaw, "raw", false,
		"Include raw log lines in output")
	tailCmd.Flags().BoolVar(&replay, "replay", false,
		"Classify the existing log content before following new lines")

	registerEventTypeCompletion(tailCmd, "include-types")
	registerEventTypeCompletion(tailCmd, "exclude-types")
	registerFormatCompletion(tailCmd)
}

func runTail(cmd *cobra.Command, args []string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format %q: must be one of: jsonl, pretty", format)
	}

	includes, excludes, err := eventTypeFilters(tailIncludeTypes, tailExcludeTypes)
	if err != nil {
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logFile := cfg.LogFile
	if tailLogFile != "" {
		logFile = tailLogFile
	}

	opts := []vallocal.StreamOption{
		vallocal.WithLogFile(logFile),
		vallocal.WithBufferSize(cfg.Stream.Buffer),
		vallocal.WithPoll(cfg.Stream.Poll),
		vallocal.WithIncludeRawLine(includeRaw),
	}
	if replay {
		opts = append(opts, vallocal.WithReplayFromStart())
	}
	if verbose {
		opts = append(opts, vallocal.WithLogger(newLogger(true)))
	}
	if len(includes) > 0 {
		opts = append(opts, vallocal.WithIncludeTypes(includes...))
	}
	if len(excludes) > 0 {
		opts = append(opts, vallocal.WithExcludeTypes(excludes...))
	}

	stream := vallocal.NewLogStream(opts...)
	defer stream.Close()

	sub := stream.Subscribe()
	if err := stream.Start(ctx); err != nil {
		return err
	}

	return printEvents(ctx, sub, stream, os.Stdout)
}

// printEvents writes events until ctx ends or the stream stops.
// A stream stopped by a read error returns that error.
func printEvents(ctx context.Context, sub *vallocal.Subscription, stream *vallocal.LogStream, out io.Writer) error {
	for {
		select {
		case ev, ok := <-sub.Events():
			if !ok {
				if dropped := sub.Dropped(); dropped > 0 {
					fmt.Fprintf(os.Stderr, "warning: %d events dropped\n", dropped)
				}
				if ctx.Err() != nil {
					return nil
				}
				return stream.Err()
			}
			if err := OutputEvent(format, ev, out); err != nil {
				return fmt.Errorf("output error: %w", err)
			}
		case <-ctx.Done():
			return nil
		}
	}
}
