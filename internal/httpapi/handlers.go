package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/vallocal/vallocal-go/internal/lockfile"
	"github.com/vallocal/vallocal-go/internal/riotapi"
	"github.com/vallocal/vallocal-go/internal/session"
)

const (
	defaultHistoryCount = 20
	maxHistoryCount     = 100
)

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, riotapi.ErrNotInMatch), errors.Is(err, riotapi.ErrPlayerNotFound):
		return http.StatusNotFound
	case errors.Is(err, lockfile.ErrNotFound):
		return http.StatusServiceUnavailable
	case errors.Is(err, session.ErrAuthFailed):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Warn("request failed", "path", r.URL.Path, "error", err)
	}
	writeError(w, err.Error(), status)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if !s.sessions.Credentials().Alive() {
		writeJSON(w, http.StatusOK, StatusResponse{Running: false, Phase: PhaseOffline})
		return
	}

	ctx := r.Context()
	puuid := s.api.PlayerID()
	phase := PhaseMenu
	if _, err := s.api.PregamePlayer(ctx, puuid); err == nil {
		phase = PhasePregame
	} else if _, err := s.api.CoregamePlayer(ctx, puuid); err == nil {
		phase = PhaseInGame
	}
	writeJSON(w, http.StatusOK, StatusResponse{Running: true, Phase: phase})
}

func (s *Server) handleAuth(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Snapshot()
	resp := AuthResponse{
		PUUID:  sess.PlayerID,
		Shard:  sess.Shard,
		Region: sess.Region,
	}
	// The name is best-effort; the session fields are always returned.
	if names, err := s.api.ResolveNames(r.Context(), []string{sess.PlayerID}); err == nil && len(names) > 0 {
		resp.Name = names[len(names)-1].Name
		resp.Tag = names[len(names)-1].Tag
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePregameMatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	player, err := s.api.PregamePlayer(ctx, s.api.PlayerID())
	if errors.Is(err, riotapi.ErrNotInMatch) {
		writeError(w, "not in agent select", http.StatusNotFound)
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	match, err := s.api.PregameMatch(ctx, player.MatchID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, match)
}

// currentMatch resolves the player's live match ID, writing the error
// response itself on failure.
func (s *Server) currentMatch(w http.ResponseWriter, r *http.Request) (string, bool) {
	player, err := s.api.CoregamePlayer(r.Context(), s.api.PlayerID())
	if errors.Is(err, riotapi.ErrNotInMatch) {
		writeError(w, "not in match", http.StatusNotFound)
		return "", false
	}
	if err != nil {
		s.fail(w, r, err)
		return "", false
	}
	return player.MatchID, true
}

func (s *Server) handleCoregameMatch(w http.ResponseWriter, r *http.Request) {
	matchID, ok := s.currentMatch(w, r)
	if !ok {
		return
	}
	match, err := s.api.CoregameMatch(r.Context(), matchID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, match)
}

func (s *Server) handleCoregameLoadouts(w http.ResponseWriter, r *http.Request) {
	matchID, ok := s.currentMatch(w, r)
	if !ok {
		return
	}
	loadouts, err := s.api.CoregameLoadouts(r.Context(), matchID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loadouts)
}

// historyCount parses ?count=, defaulting on absent, zero, or invalid values
// and capping at maxHistoryCount.
func historyCount(r *http.Request) int {
	n, err := strconv.ParseUint(r.URL.Query().Get("count"), 10, 32)
	if err != nil || n == 0 {
		return defaultHistoryCount
	}
	return int(min(n, maxHistoryCount))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	history, err := s.api.MatchHistory(r.Context(), s.api.PlayerID(), historyCount(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

func (s *Server) handleMMR(w http.ResponseWriter, r *http.Request) {
	puuid := r.PathValue("puuid")
	if puuid == "me" {
		puuid = s.api.PlayerID()
	}
	mmr, err := s.api.MMR(r.Context(), puuid)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mmr)
}

func (s *Server) handleMatchDetails(w http.ResponseWriter, r *http.Request) {
	details, err := s.api.MatchDetails(r.Context(), r.PathValue("matchID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (s *Server) handleNames(w http.ResponseWriter, r *http.Request) {
	var puuids []string
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&puuids); err != nil {
		writeError(w, "body must be a JSON array of player IDs", http.StatusBadRequest)
		return
	}
	names, err := s.api.ResolveNames(r.Context(), puuids)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, names)
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	puuid, err := s.api.LookupPlayer(r.Context(), r.PathValue("name"), r.PathValue("tag"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, LookupResponse{PUUID: puuid})
}
