package vallocal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/vallocal/vallocal-go/internal/classify"
	"github.com/vallocal/vallocal-go/internal/eventbus"
	"github.com/vallocal/vallocal-go/internal/logfinder"
	"github.com/vallocal/vallocal-go/internal/tailer"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// StreamState is the lifecycle state of a LogStream.
type StreamState int32

const (
	// StateOpening is the state before the log file has been opened.
	StateOpening StreamState = iota
	// StateTailing means new lines are being read and classified.
	StateTailing
	// StateStopped is terminal. Err reports why, if it was not a clean stop.
	StateStopped
)

func (s StreamState) String() string {
	switch s {
	case StateOpening:
		return "opening"
	case StateTailing:
		return "tailing"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("StreamState(%d)", int32(s))
	}
}

// LogStream follows the live log file and publishes classified events to
// any number of subscribers. Lines already in the file when the stream
// starts are not replayed unless WithReplayFromStart is set.
//
// A slow subscriber never blocks the stream or other subscribers: when a
// subscriber's queue is full the newest event is dropped for that
// subscriber and counted in Subscription.Dropped.
type LogStream struct {
	cfg *streamConfig
	bus *eventbus.Bus

	state atomic.Int32

	mu      sync.Mutex
	err     error
	started bool
	closed  bool
	cancel  context.CancelFunc
	doneCh  chan struct{}
}

// NewLogStream creates a stream in the Opening state.
// Does NOT open the file or start goroutines (cheap to call).
func NewLogStream(opts ...StreamOption) *LogStream {
	cfg := applyStreamOptions(opts)
	return &LogStream{
		cfg:    cfg,
		bus:    eventbus.New(cfg.bufferSize),
		doneCh: make(chan struct{}),
	}
}

// Subscribe registers a new subscriber. Subscribing is allowed before Start.
// After the stream stops, the returned subscription is already closed.
func (s *LogStream) Subscribe() *Subscription {
	return s.bus.Subscribe()
}

// Subscribers returns the number of open subscriptions.
func (s *LogStream) Subscribers() int {
	return s.bus.Len()
}

// State returns the current lifecycle state.
func (s *LogStream) State() StreamState {
	return StreamState(s.state.Load())
}

// Err returns the reason the stream stopped, or nil while running and
// after a clean stop.
func (s *LogStream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Done returns a channel that is closed once the stream reaches Stopped.
func (s *LogStream) Done() <-chan struct{} {
	return s.doneCh
}

// Start resolves and opens the log file, then tails it in a background
// goroutine until ctx is cancelled, Close is called, or a read error occurs.
//
// If the file cannot be found or opened, the stream moves to Stopped,
// records the error, and returns it.
func (s *LogStream) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrStreamClosed
	}
	if s.started {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.started = true
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	t, err := s.open(ctx)
	if err != nil {
		s.stop(err)
		return err
	}

	s.state.Store(int32(StateTailing))
	go s.run(ctx, t)
	return nil
}

func (s *LogStream) open(ctx context.Context) (*tailer.Tailer, error) {
	path, err := logfinder.FindLogFile(s.cfg.logFile)
	if err != nil {
		return nil, err
	}

	cfg := tailer.DefaultConfig()
	cfg.Poll = s.cfg.poll
	cfg.ReOpen = s.cfg.reopen
	cfg.FromStart = s.cfg.fromStart

	t, err := tailer.New(ctx, path, cfg)
	if err != nil {
		return nil, fmt.Errorf("starting tailer: %w", err)
	}
	s.cfg.logger.Debug("tailing log file", "path", path, "poll", cfg.Poll, "reopen", cfg.ReOpen, "from_start", cfg.FromStart)
	return t, nil
}

// Close stops the stream and closes every subscription.
// Safe to call multiple times. Blocks until the tailing goroutine has exited.
func (s *LogStream) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	started := s.started
	cancel := s.cancel
	s.mu.Unlock()

	if !started {
		s.stop(nil)
		return nil
	}
	cancel()
	<-s.doneCh
	return nil
}

func (s *LogStream) run(ctx context.Context, t *tailer.Tailer) {
	var runErr error
	defer func() {
		_ = t.Stop()
		s.stop(runErr)
	}()

	tailErrs := t.Errors()
	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-t.Lines():
			if !ok {
				runErr = t.Err()
				if runErr != nil {
					s.cfg.logger.Warn("log stream stopped", "error", runErr)
				}
				return
			}
			s.processLine(line)
		case err, ok := <-tailErrs:
			if !ok {
				tailErrs = nil
				continue
			}
			s.cfg.logger.Warn("tail error", "error", err)
		}
	}
}

func (s *LogStream) processLine(line string) {
	ev, ok := classify.Classify(line)
	if !ok || !s.cfg.filter.allows(ev.Type) {
		return
	}
	ev.ObservedAt = s.cfg.now()
	if s.cfg.includeRawLine {
		ev.RawLine = line
	}
	s.bus.Publish(ev)
	s.cfg.logger.Debug("event", "type", ev.Type)
}

// stop moves the stream to Stopped exactly once.
func (s *LogStream) stop(err error) {
	s.mu.Lock()
	if s.State() == StateStopped {
		s.mu.Unlock()
		return
	}
	s.err = err
	s.state.Store(int32(StateStopped))
	cancel := s.cancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.bus.Close()
	close(s.doneCh)
}
