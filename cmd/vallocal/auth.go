package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/vallocal/vallocal-go/internal/config"
	"github.com/vallocal/vallocal-go/pkg/vallocal"
)

var authJSON bool

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authenticate against the running client and print the session",
	Long: `Read the lockfile, exchange the local credentials for tokens, and
print the resolved identity and cluster routing. Tokens are never printed.`,
	RunE: runAuth,
}

func init() {
	authCmd.Flags().BoolVar(&authJSON, "json", false, "Print the summary as JSON")
}

// authSummary is the printable part of a session.
type authSummary struct {
	PlayerID      string `json:"player_id"`
	Shard         string `json:"shard"`
	Region        string `json:"region"`
	ClientVersion string `json:"client_version"`
	ExpiresAt     string `json:"expires_at,omitempty"`
	PID           int    `json:"pid"`
	Port          uint16 `json:"port"`
	ProcessAlive  bool   `json:"process_alive"`
}

func runAuth(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := vallocal.Connect(ctx,
		vallocal.WithLockfile(cfg.Lockfile),
		vallocal.WithTimeout(cfg.HTTP.Timeout),
		vallocal.WithInsecureSkipVerify(cfg.HTTP.InsecureSkipVerify),
		vallocal.WithConnectLogger(newLogger(verbose)),
	)
	if err != nil {
		return err
	}

	return printAuth(summarize(client.Session(), client.Credentials()), authJSON, os.Stdout)
}

func summarize(s vallocal.Session, creds vallocal.Credentials) authSummary {
	sum := authSummary{
		PlayerID:      s.PlayerID,
		Shard:         s.Shard,
		Region:        s.Region,
		ClientVersion: s.ClientVersion,
		PID:           creds.PID,
		Port:          creds.Port,
		ProcessAlive:  creds.Alive(),
	}
	if !s.ExpiresAt.IsZero() {
		sum.ExpiresAt = s.ExpiresAt.UTC().Format(time.RFC3339)
	}
	return sum
}

func printAuth(sum authSummary, asJSON bool, out io.Writer) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(sum)
	}

	expires := sum.ExpiresAt
	if expires == "" {
		expires = "unknown"
	}
	_, err := fmt.Fprintf(out,
		"player:   %s\nshard:    %s\nregion:   %s\nversion:  %s\nexpires:  %s\nprocess:  pid %d port %d alive=%t\n",
		sum.PlayerID, sum.Shard, sum.Region, sum.ClientVersion, expires, sum.PID, sum.Port, sum.ProcessAlive)
	return err
}
