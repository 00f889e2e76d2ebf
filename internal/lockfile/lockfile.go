// Package lockfile locates and parses the Riot Client lockfile, which holds
// the port and password of the client's local control API.
package lockfile

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/vallocal/vallocal-go/internal/platform"
)

// EnvLockfile is the environment variable name for specifying the lockfile path.
const EnvLockfile = "VALLOCAL_LOCKFILE"

// Sentinel errors.
var (
	ErrNotFound  = errors.New("lockfile not found")
	ErrMalformed = errors.New("lockfile malformed")
)

// Transport schemes the control API may advertise.
const (
	TransportHTTP  = "http"
	TransportHTTPS = "https"
)

// maxLockfileSize bounds the read; the real file is well under 100 bytes.
const maxLockfileSize = 4096

// fieldCount is the number of colon-separated fields: name:pid:port:password:protocol.
const fieldCount = 5

// Credentials are the connection secrets read from the lockfile.
type Credentials struct {
	Name      string
	PID       int
	Port      uint16
	Password  string
	Transport string
}

// LogValue implements slog.LogValuer and keeps the password out of logs.
func (c Credentials) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("name", c.Name),
		slog.Int("pid", c.PID),
		slog.Int("port", int(c.Port)),
		slog.String("transport", c.Transport),
	)
}

// Alive reports whether the process that wrote the lockfile is still running.
// A stale lockfile left behind by a crashed client reports false.
func (c Credentials) Alive() bool {
	if c.PID <= 0 {
		return false
	}
	ok, err := process.PidExists(int32(c.PID))
	return err == nil && ok
}

// DefaultPaths returns candidate lockfile locations in priority order.
func DefaultPaths() []string {
	paths := []string{
		`C:\Riot Games\Riot Client\Config\lockfile`,
	}
	if dir := platform.LocalDataDir(); dir != "" {
		paths = append(paths, filepath.Join(dir, "Riot Games", "Riot Client", "Config", "lockfile"))
	}
	return paths
}

// Locate returns the path of the lockfile.
//
// Priority:
//  1. explicit (if non-empty)
//  2. VALLOCAL_LOCKFILE environment variable
//  3. First existing entry of DefaultPaths()
//
// Returns ErrNotFound if no candidate exists.
func Locate(explicit string) (string, error) {
	if explicit != "" {
		if isFile(explicit) {
			return explicit, nil
		}
		return "", fmt.Errorf("%w: %s", ErrNotFound, explicit)
	}

	if envPath := os.Getenv(EnvLockfile); envPath != "" {
		if isFile(envPath) {
			return envPath, nil
		}
		return "", fmt.Errorf("%w: %s environment variable points to missing file", ErrNotFound, EnvLockfile)
	}

	for _, p := range DefaultPaths() {
		if isFile(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: is the game client running?", ErrNotFound)
}

// Parse parses lockfile content of the form name:pid:port:password:protocol.
// Returns ErrMalformed if fewer than five fields are present, the port is not
// a valid TCP port, or the protocol is not http or https.
func Parse(content string) (Credentials, error) {
	parts := strings.Split(strings.TrimSpace(content), ":")
	if len(parts) < fieldCount {
		return Credentials{}, fmt.Errorf("%w: expected %d fields, got %d", ErrMalformed, fieldCount, len(parts))
	}

	port, err := strconv.ParseUint(parts[2], 10, 16)
	if err != nil || port == 0 {
		return Credentials{}, fmt.Errorf("%w: invalid port %q", ErrMalformed, parts[2])
	}

	transport := strings.ToLower(parts[4])
	if transport != TransportHTTP && transport != TransportHTTPS {
		return Credentials{}, fmt.Errorf("%w: unknown protocol %q", ErrMalformed, parts[4])
	}

	// The PID is informational; an unparsable one only disables Alive.
	pid, _ := strconv.Atoi(parts[1])

	return Credentials{
		Name:      parts[0],
		PID:       pid,
		Port:      uint16(port),
		Password:  parts[3],
		Transport: transport,
	}, nil
}

// Read locates, reads, and parses the lockfile.
func Read(explicit string) (Credentials, error) {
	path, err := Locate(explicit)
	if err != nil {
		return Credentials{}, err
	}

	content, err := readBounded(path)
	if err != nil {
		return Credentials{}, err
	}
	return Parse(content)
}

// readBounded reads a regular file of at most maxLockfileSize bytes.
// The client holds the file open while running; a plain read is fine on
// Windows because it opens it with shared read access.
func readBounded(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return "", fmt.Errorf("opening lockfile: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat lockfile: %w", err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: not a regular file", ErrMalformed)
	}

	data, err := io.ReadAll(io.LimitReader(f, maxLockfileSize))
	if err != nil {
		return "", fmt.Errorf("reading lockfile: %w", err)
	}
	return string(data), nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
