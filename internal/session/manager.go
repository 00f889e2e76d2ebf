package session

import (
	"context"
	"crypto/tls"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/vallocal/vallocal-go/internal/lockfile"
)

// DefaultTimeout bounds each call made by the default HTTP client.
const DefaultTimeout = 10 * time.Second

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Manager owns the current session and lets readers take consistent
// snapshots while a writer replaces it.
type Manager struct {
	creds  lockfile.Credentials
	client *http.Client
	logger *slog.Logger

	mu      sync.RWMutex
	current Session
}

// Option configures a Manager.
type Option func(*managerOptions)

type managerOptions struct {
	lockfilePath string
	creds        *lockfile.Credentials
	client       *http.Client
	logger       *slog.Logger
}

// WithLockfilePath sets an explicit lockfile path.
func WithLockfilePath(path string) Option {
	return func(o *managerOptions) {
		o.lockfilePath = path
	}
}

// WithCredentials uses creds instead of reading the lockfile.
func WithCredentials(creds lockfile.Credentials) Option {
	return func(o *managerOptions) {
		o.creds = &creds
	}
}

// WithHTTPClient sets the client used for the local control API.
func WithHTTPClient(c *http.Client) Option {
	return func(o *managerOptions) {
		o.client = c
	}
}

// WithLogger sets the logger. If nil, logging is disabled.
func WithLogger(l *slog.Logger) Option {
	return func(o *managerOptions) {
		o.logger = l
	}
}

// NewHTTPClient returns a client suitable for the local control API, which
// serves a self-signed certificate.
func NewHTTPClient(timeout time.Duration, insecureSkipVerify bool) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{
		InsecureSkipVerify: insecureSkipVerify, //nolint:gosec // local API uses a self-signed certificate
	}
	return &http.Client{Timeout: timeout, Transport: transport}
}

// NewManager reads local credentials, authenticates, and resolves the
// client version.
func NewManager(ctx context.Context, opts ...Option) (*Manager, error) {
	var o managerOptions
	for _, opt := range opts {
		opt(&o)
	}

	var creds lockfile.Credentials
	if o.creds != nil {
		creds = *o.creds
	} else {
		var err error
		if creds, err = lockfile.Read(o.lockfilePath); err != nil {
			return nil, err
		}
	}

	if o.client == nil {
		o.client = NewHTTPClient(DefaultTimeout, true)
	}
	if o.logger == nil {
		o.logger = discardLogger
	}

	m := &Manager{
		creds:  creds,
		client: o.client,
		logger: o.logger,
	}
	if err := m.Reauthenticate(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

// Snapshot returns a copy of the current session.
func (m *Manager) Snapshot() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Replace swaps the current session as a whole.
func (m *Manager) Replace(s Session) {
	m.mu.Lock()
	m.current = s
	m.mu.Unlock()
}

// Credentials returns the local credentials the manager authenticates with.
func (m *Manager) Credentials() lockfile.Credentials {
	return m.creds
}

// HTTPClient returns the client used for the local control API.
func (m *Manager) HTTPClient() *http.Client {
	return m.client
}

// Reauthenticate performs the credential exchange again and replaces the
// current session on success. On failure the current session is kept.
func (m *Manager) Reauthenticate(ctx context.Context) error {
	s, err := Authenticate(ctx, m.client, m.creds)
	if err != nil {
		m.logger.Warn("authentication failed", "error", err)
		return err
	}
	s.ClientVersion = FetchClientVersion(ctx, m.client, m.creds)
	m.Replace(s)
	m.logger.Debug("authenticated", "session", s)
	return nil
}
