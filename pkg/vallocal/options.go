package vallocal

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/vallocal/vallocal-go/internal/eventbus"
)

// StreamOption configures a LogStream using the functional options pattern.
type StreamOption func(*streamConfig)

// streamConfig holds internal configuration for a LogStream.
type streamConfig struct {
	logFile        string
	bufferSize     int
	poll           bool
	reopen         bool
	fromStart      bool
	includeRawLine bool
	filter         typeFilter
	logger         *slog.Logger
	now            func() time.Time
}

func defaultStreamConfig() *streamConfig {
	return &streamConfig{
		bufferSize: eventbus.DefaultBufferSize,
		poll:       true,
		reopen:     true,
		now:        time.Now,
	}
}

func applyStreamOptions(opts []StreamOption) *streamConfig {
	cfg := defaultStreamConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = discardLogger
	}
	if cfg.now == nil {
		cfg.now = time.Now
	}
	return cfg
}

// WithLogFile sets the live log file path.
// If not set, the VALLOCAL_LOGFILE environment variable and then the
// platform default location are used.
func WithLogFile(path string) StreamOption {
	return func(c *streamConfig) {
		c.logFile = path
	}
}

// WithBufferSize sets each subscriber's queue capacity.
// Default: 64. Non-positive values use the default.
func WithBufferSize(n int) StreamOption {
	return func(c *streamConfig) {
		c.bufferSize = n
	}
}

// WithPoll selects polling (true, default) or OS file notifications (false)
// for detecting appended lines.
func WithPoll(poll bool) StreamOption {
	return func(c *streamConfig) {
		c.poll = poll
	}
}

// WithReOpen controls whether a truncated or replaced log file is followed
// again (true, default). With false the stream stops with an error once the
// file is removed.
func WithReOpen(reopen bool) StreamOption {
	return func(c *streamConfig) {
		c.reopen = reopen
	}
}

// WithReplayFromStart classifies the file's existing content before
// following it. By default only lines appended after Start are read.
func WithReplayFromStart() StreamOption {
	return func(c *streamConfig) {
		c.fromStart = true
	}
}

// WithIncludeRawLine includes the original log line in Event.RawLine.
// Default: false.
func WithIncludeRawLine(include bool) StreamOption {
	return func(c *streamConfig) {
		c.includeRawLine = include
	}
}

// WithIncludeTypes publishes only events of the specified types.
func WithIncludeTypes(types ...EventType) StreamOption {
	return func(c *streamConfig) {
		c.filter.include = typeSet(types)
	}
}

// WithExcludeTypes drops events of the specified types.
// Exclusion takes precedence over inclusion.
func WithExcludeTypes(types ...EventType) StreamOption {
	return func(c *streamConfig) {
		c.filter.exclude = typeSet(types)
	}
}

// WithLogger sets the slog logger for debug output.
// If nil (default), logging is disabled.
func WithLogger(logger *slog.Logger) StreamOption {
	return func(c *streamConfig) {
		c.logger = logger
	}
}

// WithClock sets the source of Event.ObservedAt. Default: time.Now.
func WithClock(now func() time.Time) StreamOption {
	return func(c *streamConfig) {
		c.now = now
	}
}

// ConnectOption configures Connect.
type ConnectOption func(*connectConfig)

type connectConfig struct {
	lockfilePath string
	credentials  *Credentials
	httpClient   *http.Client
	timeout      time.Duration
	insecure     bool
	logger       *slog.Logger
}

func applyConnectOptions(opts []ConnectOption) *connectConfig {
	cfg := &connectConfig{
		timeout:  10 * time.Second,
		insecure: true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = discardLogger
	}
	return cfg
}

// WithLockfile sets an explicit lockfile path.
// If not set, the VALLOCAL_LOCKFILE environment variable and then the
// platform default locations are used.
func WithLockfile(path string) ConnectOption {
	return func(c *connectConfig) {
		c.lockfilePath = path
	}
}

// WithCredentials skips the lockfile and uses creds directly.
func WithCredentials(creds Credentials) ConnectOption {
	return func(c *connectConfig) {
		c.credentials = &creds
	}
}

// WithHTTPClient sets the HTTP client for all API calls.
// It overrides WithTimeout and WithInsecureSkipVerify.
func WithHTTPClient(client *http.Client) ConnectOption {
	return func(c *connectConfig) {
		c.httpClient = client
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
// Default: 10 seconds.
func WithTimeout(d time.Duration) ConnectOption {
	return func(c *connectConfig) {
		c.timeout = d
	}
}

// WithInsecureSkipVerify controls certificate verification of the default
// HTTP client. The local control API uses a self-signed certificate.
// Default: true.
func WithInsecureSkipVerify(skip bool) ConnectOption {
	return func(c *connectConfig) {
		c.insecure = skip
	}
}

// WithConnectLogger sets the slog logger for the session and API client.
// If nil (default), logging is disabled.
func WithConnectLogger(logger *slog.Logger) ConnectOption {
	return func(c *connectConfig) {
		c.logger = logger
	}
}
