package vallocal

import (
	"context"

	"github.com/vallocal/vallocal-go/internal/riotapi"
	"github.com/vallocal/vallocal-go/internal/session"
)

// Client is an authenticated connection to the running game client.
// All remote API accessors (MatchHistory, CoregameMatch, ...) are
// available as methods. Client is safe for concurrent use.
type Client struct {
	*riotapi.Client
	sessions *session.Manager
}

// Connect reads the lockfile, authenticates against the local control API,
// and resolves the player's cluster routing.
//
// Returns ErrLockfileNotFound if the client is not running, an *AuthError
// if the credential exchange is rejected, or a *TransportError if the local
// API is unreachable.
func Connect(ctx context.Context, opts ...ConnectOption) (*Client, error) {
	cfg := applyConnectOptions(opts)

	httpClient := cfg.httpClient
	if httpClient == nil {
		httpClient = session.NewHTTPClient(cfg.timeout, cfg.insecure)
	}

	sessOpts := []session.Option{
		session.WithHTTPClient(httpClient),
		session.WithLogger(cfg.logger),
		session.WithLockfilePath(cfg.lockfilePath),
	}
	if cfg.credentials != nil {
		sessOpts = append(sessOpts, session.WithCredentials(*cfg.credentials))
	}

	mgr, err := session.NewManager(ctx, sessOpts...)
	if err != nil {
		return nil, err
	}

	return &Client{
		Client: riotapi.New(mgr,
			riotapi.WithHTTPClient(mgr.HTTPClient()),
			riotapi.WithLogger(cfg.logger),
		),
		sessions: mgr,
	}, nil
}

// Session returns a snapshot of the current session.
func (c *Client) Session() Session {
	return c.sessions.Snapshot()
}

// Credentials returns the local credentials read from the lockfile.
func (c *Client) Credentials() Credentials {
	return c.sessions.Credentials()
}

// Reauthenticate exchanges the local credentials again and replaces the
// session. On failure the previous session stays in effect.
func (c *Client) Reauthenticate(ctx context.Context) error {
	return c.sessions.Reauthenticate(ctx)
}
