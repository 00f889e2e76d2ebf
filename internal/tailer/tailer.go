// Package tailer follows a growing text file line by line.
package tailer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nxadm/tail"
)

// tailerErrBuffer is the buffer size for the error channel.
// A small buffer prevents error loss during brief moments when the consumer
// is busy processing lines.
const tailerErrBuffer = 16

// ErrSourceClosed is reported by Err when the underlying file follower
// ended without being stopped and without a reason.
var ErrSourceClosed = errors.New("tail source closed")

// Tailer wraps nxadm/tail for live log tailing.
type Tailer struct {
	t      *tail.Tail
	ctx    context.Context
	cancel context.CancelFunc
	lines  chan string
	errors chan error
	doneCh chan struct{}

	mu      sync.Mutex
	stopped bool
	err     error
}

// Config holds configuration for tailing.
type Config struct {
	// Follow continues reading as the file grows (tail -f).
	Follow bool

	// ReOpen reopens the file when it's truncated or recreated (tail -F).
	ReOpen bool

	// Poll uses polling instead of OS file notifications.
	Poll bool

	// MustExist requires the file to exist before starting (false = wait for creation).
	MustExist bool

	// FromStart reads from the beginning of the file instead of the end.
	FromStart bool
}

// DefaultConfig returns the default configuration for the game log.
// The client keeps the file open with shared access, so polling is the
// reliable choice on Windows.
func DefaultConfig() Config {
	return Config{
		Follow:    true,
		ReOpen:    true,
		Poll:      true,
		MustExist: true,
		FromStart: false,
	}
}

// New creates a new Tailer for the specified file.
// The provided context controls the tailer's lifecycle.
func New(ctx context.Context, filepath string, cfg Config) (*Tailer, error) {
	location := &tail.SeekInfo{Offset: 0, Whence: 2} // End of file
	if cfg.FromStart {
		location = &tail.SeekInfo{Offset: 0, Whence: 0}
	}

	t, err := tail.TailFile(filepath, tail.Config{
		Follow:    cfg.Follow,
		ReOpen:    cfg.ReOpen,
		Poll:      cfg.Poll,
		MustExist: cfg.MustExist,
		Location:  location,
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("opening tail: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)

	tailer := &Tailer{
		t:      t,
		ctx:    ctx,
		cancel: cancel,
		lines:  make(chan string),
		errors: make(chan error, tailerErrBuffer),
		doneCh: make(chan struct{}),
	}

	go tailer.run()

	return tailer, nil
}

// Lines returns a channel that receives log lines without the trailing newline.
// It is closed when the tailer finishes.
func (t *Tailer) Lines() <-chan string {
	return t.lines
}

// Errors returns a channel that receives non-fatal per-line errors.
// Errors are sent non-blocking; if the channel is not read, errors are dropped.
func (t *Tailer) Errors() <-chan error {
	return t.errors
}

// Done returns a channel that is closed when the tailer finishes.
func (t *Tailer) Done() <-chan struct{} {
	return t.doneCh
}

// Err returns the reason the tailer finished. It is nil while running and
// after Stop or context cancellation.
func (t *Tailer) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Stop stops tailing and closes all channels.
// Safe to call multiple times.
func (t *Tailer) Stop() error {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return nil
	}
	t.stopped = true
	t.mu.Unlock()

	t.cancel()
	<-t.doneCh
	return t.t.Stop()
}

func (t *Tailer) run() {
	defer close(t.doneCh)
	defer close(t.lines)
	defer close(t.errors)

	for {
		select {
		case <-t.ctx.Done():
			return
		case line, ok := <-t.t.Lines:
			if !ok {
				t.finish()
				return
			}
			if line.Err != nil {
				select {
				case t.errors <- fmt.Errorf("tail: %w", line.Err):
				case <-t.ctx.Done():
					return
				default:
				}
				continue
			}
			select {
			case t.lines <- line.Text:
			case <-t.ctx.Done():
				return
			}
		}
	}
}

// finish records why the follower ended on its own.
func (t *Tailer) finish() {
	if t.ctx.Err() != nil {
		return
	}
	err := t.t.Wait()
	if err == nil {
		err = ErrSourceClosed
	}
	t.mu.Lock()
	if !t.stopped {
		t.err = fmt.Errorf("tail: %w", err)
	}
	t.mu.Unlock()
}
