package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/vallocal/vallocal-go/internal/config"
	"github.com/vallocal/vallocal-go/internal/logfinder"
	"github.com/vallocal/vallocal-go/pkg/vallocal"
)

var (
	// parse flags
	parseIncludeTypes []string
	parseExcludeTypes []string
	parseFormat       string
	parseRaw          bool
)

var parseCmd = &cobra.Command{
	Use:   "parse [files...]",
	Short: "Classify log files once (batch mode)",
	Long: `Classify every line of one or more log files and output the events.

Unlike 'tail', this command reads the files once without following them.
With no arguments the configured or auto-detected live log file is read.
Batch events carry no observed_at time.

Examples:
  # Parse the auto-detected log file
  vallocal parse

  # Parse saved logs in order
  vallocal parse ShooterGame-backup-1.log ShooterGame.log

  # Count rounds of the last session
  vallocal parse --include-types round_ended | wc -l`,
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringSliceVar(&parseIncludeTypes, "include-types", nil,
		"Event types to include (comma-separated: round_ended,match_ended,...)")
	parseCmd.Flags().StringSliceVar(&parseExcludeTypes, "exclude-types", nil,
		"Event types to exclude (comma-separated)")
	parseCmd.Flags().StringVarP(&parseFormat, "format", "f", "jsonl",
		"Output format: jsonl, pretty")
	parseCmd.Flags().BoolVar(&parseRaw, "raw", false,
		"Include raw log lines in output")

	registerEventTypeCompletion(parseCmd, "include-types")
	registerEventTypeCompletion(parseCmd, "exclude-types")
	registerFormatCompletion(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	if !ValidFormats[parseFormat] {
		return fmt.Errorf("invalid format %q: must be one of: jsonl, pretty", parseFormat)
	}

	includes, excludes, err := eventTypeFilters(parseIncludeTypes, parseExcludeTypes)
	if err != nil {
		return err
	}

	paths := args
	if len(paths) == 0 {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		path, err := logfinder.FindLogFile(cfg.LogFile)
		if err != nil {
			return err
		}
		paths = []string{path}
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var opts []vallocal.ParseOption
	if len(includes) > 0 {
		opts = append(opts, vallocal.WithParseIncludeTypes(includes...))
	}
	if len(excludes) > 0 {
		opts = append(opts, vallocal.WithParseExcludeTypes(excludes...))
	}
	if parseRaw {
		opts = append(opts, vallocal.WithParseIncludeRawLine(true))
	}

	return parseFiles(ctx, paths, opts, os.Stdout)
}

// parseFiles writes the events of each file in order.
func parseFiles(ctx context.Context, paths []string, opts []vallocal.ParseOption, out io.Writer) error {
	for _, path := range paths {
		for ev, err := range vallocal.ParseFile(ctx, path, opts...) {
			if err != nil {
				// Ctrl+C: exit silently
				if errors.Is(err, context.Canceled) && ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("parse %s: %w", path, err)
			}
			if err := OutputEvent(parseFormat, ev, out); err != nil {
				return fmt.Errorf("output error: %w", err)
			}
		}
	}
	return nil
}
