package vallocal

import (
	"errors"

	"github.com/vallocal/vallocal-go/internal/lockfile"
	"github.com/vallocal/vallocal-go/internal/logfinder"
	"github.com/vallocal/vallocal-go/internal/riotapi"
	"github.com/vallocal/vallocal-go/internal/session"
)

// Sentinel errors returned by this package.
var (
	// ErrLockfileNotFound is returned when no client lockfile exists.
	// It usually means the game client is not running.
	ErrLockfileNotFound = lockfile.ErrNotFound

	// ErrLockfileMalformed is returned when the lockfile cannot be parsed.
	ErrLockfileMalformed = lockfile.ErrMalformed

	// ErrLogFileNotFound is returned when the live log file cannot be found.
	ErrLogFileNotFound = logfinder.ErrLogFileNotFound

	// ErrAuthFailed matches every *AuthError.
	ErrAuthFailed = session.ErrAuthFailed

	// ErrTransport matches every *TransportError.
	ErrTransport = session.ErrTransport

	// ErrNotInMatch is returned by match lookups when the player is in the menus.
	ErrNotInMatch = riotapi.ErrNotInMatch

	// ErrPlayerNotFound is returned when a name and tag match no player.
	ErrPlayerNotFound = riotapi.ErrPlayerNotFound

	// ErrAlreadyStarted is returned when Start is called twice on a LogStream.
	ErrAlreadyStarted = errors.New("log stream already started")

	// ErrStreamClosed is returned when Start is called on a closed LogStream.
	ErrStreamClosed = errors.New("log stream closed")
)

// AuthError reports a rejected or unusable credential exchange.
type AuthError = session.AuthError

// TransportError wraps a network failure talking to the local control API.
type TransportError = session.TransportError

// APIError is a non-success response from a remote endpoint.
type APIError = riotapi.APIError
