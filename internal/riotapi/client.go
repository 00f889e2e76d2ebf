// Package riotapi issues authenticated requests against the local control
// API and the remote player-data and game-lobby clusters.
package riotapi

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vallocal/vallocal-go/internal/cluster"
	"github.com/vallocal/vallocal-go/internal/lockfile"
	"github.com/vallocal/vallocal-go/internal/session"
)

// maxResponseSize bounds response bodies; match details are the largest.
const maxResponseSize = 32 << 20

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Source supplies the current session and the local credentials.
// *session.Manager satisfies it.
type Source interface {
	Snapshot() session.Session
	Credentials() lockfile.Credentials
}

// Endpoints overrides cluster base URLs. Empty fields are derived from
// the session.
type Endpoints struct {
	Local   string
	Profile string
	Lobby   string
}

// Client issues API requests using the session held by a Source.
type Client struct {
	http      *http.Client
	src       Source
	endpoints Endpoints
	logger    *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.http = c
	}
}

// WithEndpoints overrides the cluster base URLs.
func WithEndpoints(e Endpoints) Option {
	return func(cl *Client) {
		cl.endpoints = e
	}
}

// WithLogger sets the logger. If nil, logging is disabled.
func WithLogger(l *slog.Logger) Option {
	return func(cl *Client) {
		cl.logger = l
	}
}

// New returns a Client reading sessions from src.
func New(src Source, opts ...Option) *Client {
	c := &Client{src: src}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = session.NewHTTPClient(session.DefaultTimeout, true)
	}
	if c.logger == nil {
		c.logger = discardLogger
	}
	return c
}

// PlayerID returns the authenticated player's ID.
func (c *Client) PlayerID() string {
	return c.src.Snapshot().PlayerID
}

func (c *Client) localBase() string {
	if c.endpoints.Local != "" {
		return c.endpoints.Local
	}
	return cluster.LocalBase(c.src.Credentials())
}

func (c *Client) profileBase(s session.Session) string {
	if c.endpoints.Profile != "" {
		return c.endpoints.Profile
	}
	return cluster.ProfileBase(s.Shard)
}

func (c *Client) lobbyBase(s session.Session) string {
	if c.endpoints.Lobby != "" {
		return c.endpoints.Lobby
	}
	return cluster.LobbyBase(s.Region, s.Shard)
}

// GetPD performs a GET against the player-data cluster and returns the raw body.
func (c *Client) GetPD(ctx context.Context, path string) (json.RawMessage, error) {
	var out json.RawMessage
	s := c.src.Snapshot()
	err := c.do(ctx, http.MethodGet, c.profileBase(s)+path, path, session.AuthHeaders(s), nil, &out)
	return out, err
}

// GetGLZ performs a GET against the game-lobby cluster and returns the raw body.
func (c *Client) GetGLZ(ctx context.Context, path string) (json.RawMessage, error) {
	var out json.RawMessage
	s := c.src.Snapshot()
	err := c.do(ctx, http.MethodGet, c.lobbyBase(s)+path, path, session.AuthHeaders(s), nil, &out)
	return out, err
}

// PutPD performs a PUT with a JSON body against the player-data cluster.
func (c *Client) PutPD(ctx context.Context, path string, body any) (json.RawMessage, error) {
	var out json.RawMessage
	s := c.src.Snapshot()
	err := c.do(ctx, http.MethodPut, c.profileBase(s)+path, path, session.AuthHeaders(s), body, &out)
	return out, err
}

// GetLocal performs a GET against the local control API using basic auth.
func (c *Client) GetLocal(ctx context.Context, path string) (json.RawMessage, error) {
	var out json.RawMessage
	h := make(http.Header, 1)
	h.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte("riot:"+c.src.Credentials().Password)))
	err := c.do(ctx, http.MethodGet, c.localBase()+path, path, h, nil, &out)
	return out, err
}

// ExternalSessions returns the local product sessions keyed by session ID.
func (c *Client) ExternalSessions(ctx context.Context) (map[string]json.RawMessage, error) {
	raw, err := c.GetLocal(ctx, "/product-session/v1/external-sessions")
	if err != nil {
		return nil, err
	}
	var out map[string]json.RawMessage
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("parsing external sessions: %w", err)
	}
	return out, nil
}

// PregamePlayer returns the agent-select match of puuid.
// Returns ErrNotInMatch if the player is not in agent select.
func (c *Client) PregamePlayer(ctx context.Context, puuid string) (PregamePlayer, error) {
	var out PregamePlayer
	err := c.glz(ctx, "/pregame/v1/players/"+url.PathEscape(puuid), &out, true)
	return out, err
}

// PregameMatch returns the agent-select match state.
func (c *Client) PregameMatch(ctx context.Context, matchID string) (json.RawMessage, error) {
	return c.GetGLZ(ctx, "/pregame/v1/matches/"+url.PathEscape(matchID))
}

// CoregamePlayer returns the live match of puuid.
// Returns ErrNotInMatch if the player is not in a match.
func (c *Client) CoregamePlayer(ctx context.Context, puuid string) (CoregamePlayer, error) {
	var out CoregamePlayer
	err := c.glz(ctx, "/core-game/v1/players/"+url.PathEscape(puuid), &out, true)
	return out, err
}

// CoregameMatch returns the live match state.
func (c *Client) CoregameMatch(ctx context.Context, matchID string) (CoregameMatch, error) {
	var out CoregameMatch
	err := c.glz(ctx, "/core-game/v1/matches/"+url.PathEscape(matchID), &out, false)
	return out, err
}

// CoregameLoadouts returns the loadouts of every player in a live match.
func (c *Client) CoregameLoadouts(ctx context.Context, matchID string) (json.RawMessage, error) {
	return c.GetGLZ(ctx, "/core-game/v1/matches/"+url.PathEscape(matchID)+"/loadouts")
}

// MatchHistory returns up to count recent competitive matches of puuid.
func (c *Client) MatchHistory(ctx context.Context, puuid string, count int) ([]MatchHistoryEntry, error) {
	path := "/match-history/v1/history/" + url.PathEscape(puuid) +
		"?startIndex=0&endIndex=" + strconv.Itoa(count) + "&queue=competitive"
	var resp struct {
		History []MatchHistoryEntry `json:"History"`
	}
	if err := c.pd(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	if resp.History == nil {
		return []MatchHistoryEntry{}, nil
	}
	return resp.History, nil
}

// MatchDetails returns the post-match record of matchID.
func (c *Client) MatchDetails(ctx context.Context, matchID string) (MatchDetails, error) {
	var out MatchDetails
	err := c.pd(ctx, http.MethodGet, "/match-details/v1/matches/"+url.PathEscape(matchID), nil, &out)
	return out, err
}

// MMR returns the rank data of puuid.
func (c *Client) MMR(ctx context.Context, puuid string) (MMR, error) {
	var out MMR
	err := c.pd(ctx, http.MethodGet, "/mmr/v1/players/"+url.PathEscape(puuid), nil, &out)
	return out, err
}

// Leaderboard returns a page of the competitive leaderboard for the
// session's region.
func (c *Client) Leaderboard(ctx context.Context, seasonID string, start, size int) (json.RawMessage, error) {
	region := c.src.Snapshot().Region
	path := "/mmr/v1/leaderboards/affinity/" + url.PathEscape(region) +
		"/queue/competitive/season/" + url.PathEscape(seasonID) +
		"?startIndex=" + strconv.Itoa(start) + "&size=" + strconv.Itoa(size)
	return c.GetPD(ctx, path)
}

// ResolveNames maps player IDs to display names.
func (c *Client) ResolveNames(ctx context.Context, puuids []string) ([]NameEntry, error) {
	if puuids == nil {
		puuids = []string{}
	}
	var resp []nameServiceEntry
	if err := c.pd(ctx, http.MethodPut, "/name-service/v2/players", puuids, &resp); err != nil {
		return nil, err
	}
	out := make([]NameEntry, len(resp))
	for i, e := range resp {
		out[i] = NameEntry{PUUID: e.Subject, Name: e.GameName, Tag: e.TagLine}
	}
	return out, nil
}

// LookupPlayer resolves a name and tag to a player ID, ignoring case.
// Returns ErrPlayerNotFound if no entry matches.
func (c *Client) LookupPlayer(ctx context.Context, name, tag string) (string, error) {
	var resp []nameServiceEntry
	if err := c.pd(ctx, http.MethodPut, "/name-service/v2/players", []string{name + "#" + tag}, &resp); err != nil {
		return "", err
	}
	for _, e := range resp {
		if strings.EqualFold(e.GameName, name) && strings.EqualFold(e.TagLine, tag) && e.Subject != "" {
			return e.Subject, nil
		}
	}
	return "", fmt.Errorf("%w: %s#%s", ErrPlayerNotFound, name, tag)
}

func (c *Client) pd(ctx context.Context, method, path string, body, out any) error {
	s := c.src.Snapshot()
	return c.do(ctx, method, c.profileBase(s)+path, path, session.AuthHeaders(s), body, out)
}

// glz issues a GET against the lobby cluster. With playerLookup set, a 404
// means the player is not in a match.
func (c *Client) glz(ctx context.Context, path string, out any, playerLookup bool) error {
	s := c.src.Snapshot()
	err := c.do(ctx, http.MethodGet, c.lobbyBase(s)+path, path, session.AuthHeaders(s), nil, out)
	var apiErr *APIError
	if playerLookup && errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return ErrNotInMatch
	}
	return err
}

// do performs one request and decodes a successful JSON response into out.
func (c *Client) do(ctx context.Context, method, fullURL, path string, headers http.Header, body, out any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	for k, v := range headers {
		req.Header[k] = v
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return &session.TransportError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("api request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))
		return &APIError{Status: resp.StatusCode, Path: path}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return &session.TransportError{Op: "reading " + path, Err: err}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}
