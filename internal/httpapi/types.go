package httpapi

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// StatusResponse reports whether the game client is running and which
// phase the player is in: "menu", "pregame", "ingame", or "offline".
type StatusResponse struct {
	Running bool   `json:"running"`
	Phase   string `json:"phase"`
}

// AuthResponse describes the authenticated player.
type AuthResponse struct {
	PUUID  string `json:"puuid"`
	Name   string `json:"name"`
	Tag    string `json:"tag"`
	Shard  string `json:"shard"`
	Region string `json:"region"`
}

// LookupResponse is the result of a name and tag lookup.
type LookupResponse struct {
	PUUID string `json:"puuid"`
}

// Phases reported by /status.
const (
	PhaseOffline = "offline"
	PhaseMenu    = "menu"
	PhasePregame = "pregame"
	PhaseInGame  = "ingame"
)
