package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/vallocal/vallocal-go/internal/config"
	"github.com/vallocal/vallocal-go/internal/httpapi"
	"github.com/vallocal/vallocal-go/internal/riotapi"
	"github.com/vallocal/vallocal-go/internal/session"
	"github.com/vallocal/vallocal-go/pkg/vallocal"
)

const shutdownTimeout = 5 * time.Second

var (
	// serve flags
	serveAddr    string
	serveLogFile string
	serveNoLog   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the session, remote API, and log events over local HTTP",
	Long: `Authenticate against the running client and serve a local HTTP API.

Routes:
  GET  /status                 client phase (offline, menu, pregame, ingame)
  GET  /auth                   current session without tokens
  GET  /pregame/match          pre-game lobby of the local player
  GET  /coregame/match         in-progress match of the local player
  GET  /coregame/loadouts      loadouts of the in-progress match
  GET  /pd/history?count=N     recent match history
  GET  /pd/mmr/{puuid}         competitive rating ("me" for the local player)
  GET  /pd/match/{matchID}     match details
  POST /pd/names               resolve a JSON array of player ids to names
  GET  /pd/lookup/{name}/{tag} player id for a name and tag
  GET  /log/events             live log events as Server-Sent Events
  GET  /log/ws                 live log events over WebSocket

If the live log file cannot be found the server still starts and the
/log routes answer 503.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "",
		"Listen address (overrides server.host and server.port)")
	serveCmd.Flags().StringVarP(&serveLogFile, "log-file", "l", "",
		"Live log file (auto-detected if not specified)")
	serveCmd.Flags().BoolVar(&serveNoLog, "no-log", false,
		"Do not follow the live log; /log routes answer 503")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if serveLogFile != "" {
		cfg.LogFile = serveLogFile
	}
	addr := cfg.Addr()
	if serveAddr != "" {
		addr = serveAddr
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(verbose),
	}))

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpClient := session.NewHTTPClient(cfg.HTTP.Timeout, cfg.HTTP.InsecureSkipVerify)
	mgr, err := session.NewManager(ctx,
		session.WithLockfilePath(cfg.Lockfile),
		session.WithHTTPClient(httpClient),
		session.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("connecting to game client: %w", err)
	}
	logger.Info("session established", "session", mgr.Snapshot())

	api := riotapi.New(mgr,
		riotapi.WithHTTPClient(mgr.HTTPClient()),
		riotapi.WithLogger(logger),
	)

	serverOpts := []httpapi.Option{httpapi.WithLogger(logger)}
	var stream *vallocal.LogStream
	if !serveNoLog {
		stream, err = startLogStream(ctx, cfg, logger)
		if err != nil {
			logger.Warn("live log unavailable, /log routes disabled", "error", err)
		} else {
			serverOpts = append(serverOpts, httpapi.WithEvents(stream))
		}
	}

	srv := httpapi.NewServer(mgr, api, httpapi.Config{Addr: addr}, serverOpts...)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if stream != nil {
			_ = stream.Close()
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	// Closing the stream ends open SSE and WebSocket handlers so Stop
	// does not wait on them.
	if stream != nil {
		_ = stream.Close()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// startLogStream opens the live log with the configured stream settings.
func startLogStream(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*vallocal.LogStream, error) {
	stream := vallocal.NewLogStream(
		vallocal.WithLogFile(cfg.LogFile),
		vallocal.WithBufferSize(cfg.Stream.Buffer),
		vallocal.WithPoll(cfg.Stream.Poll),
		vallocal.WithLogger(logger),
	)
	if err := stream.Start(ctx); err != nil {
		return nil, err
	}
	go func() {
		<-stream.Done()
		if err := stream.Err(); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("live log stopped", "error", err)
		}
	}()
	return stream, nil
}

func logLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
