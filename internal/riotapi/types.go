package riotapi

import "encoding/json"

// PregamePlayer locates the agent-select match a player is in.
type PregamePlayer struct {
	Subject string `json:"Subject"`
	MatchID string `json:"MatchID"`
}

// CoregamePlayer locates the live match a player is in.
type CoregamePlayer struct {
	Subject string `json:"Subject"`
	MatchID string `json:"MatchID"`
}

// CoregameMatch is the live match state.
type CoregameMatch struct {
	MatchID      string                `json:"MatchID"`
	MapID        string                `json:"MapID"`
	ModeID       string                `json:"ModeID"`
	Players      []CoregameMatchPlayer `json:"Players"`
	Teams        []json.RawMessage     `json:"Teams"`
	RoundResults []json.RawMessage     `json:"RoundResults,omitempty"`
}

// CoregameMatchPlayer is one participant of a live match.
type CoregameMatchPlayer struct {
	Subject           string          `json:"Subject"`
	TeamID            string          `json:"TeamID"`
	CharacterID       string          `json:"CharacterID"`
	PlayerIdentity    json.RawMessage `json:"PlayerIdentity,omitempty"`
	SeasonalBadgeInfo json.RawMessage `json:"SeasonalBadgeInfo,omitempty"`
	IsCoach           bool            `json:"IsCoach"`
	IsAssociated      bool            `json:"IsAssociated"`
}

// MatchHistoryEntry is one match in a player's history. Fields the API
// adds beyond the known ones are kept in Extra and written back on marshal.
type MatchHistoryEntry struct {
	MatchID       string
	GameStartTime int64
	QueueID       string
	Extra         map[string]json.RawMessage
}

type matchHistoryKnown struct {
	MatchID       string `json:"MatchID"`
	GameStartTime int64  `json:"GameStartTime"`
	QueueID       string `json:"QueueID"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *MatchHistoryEntry) UnmarshalJSON(data []byte) error {
	var known matchHistoryKnown
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	delete(all, "MatchID")
	delete(all, "GameStartTime")
	delete(all, "QueueID")

	*e = MatchHistoryEntry{
		MatchID:       known.MatchID,
		GameStartTime: known.GameStartTime,
		QueueID:       known.QueueID,
	}
	if len(all) > 0 {
		e.Extra = all
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (e MatchHistoryEntry) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(e.Extra)+3)
	for k, v := range e.Extra {
		out[k] = v
	}
	out["MatchID"] = e.MatchID
	out["GameStartTime"] = e.GameStartTime
	out["QueueID"] = e.QueueID
	return json.Marshal(out)
}

// MatchDetails is the post-match record.
type MatchDetails struct {
	MatchInfo    json.RawMessage   `json:"matchInfo"`
	Players      []MatchPlayer     `json:"players"`
	Teams        []json.RawMessage `json:"teams"`
	RoundResults []json.RawMessage `json:"roundResults"`
	Kills        []json.RawMessage `json:"kills"`
}

// MatchPlayer is one participant of a finished match.
type MatchPlayer struct {
	Subject         string      `json:"subject"`
	GameName        string      `json:"gameName"`
	TagLine         string      `json:"tagLine"`
	TeamID          string      `json:"teamId"`
	CharacterID     string      `json:"characterId"`
	Stats           PlayerStats `json:"stats"`
	CompetitiveTier uint32      `json:"competitiveTier"`
}

// PlayerStats are a player's totals for one match.
type PlayerStats struct {
	Score          uint32          `json:"score"`
	RoundsPlayed   uint32          `json:"roundsPlayed"`
	Kills          uint32          `json:"kills"`
	Deaths         uint32          `json:"deaths"`
	Assists        uint32          `json:"assists"`
	PlaytimeMillis uint64          `json:"playtimeMillis"`
	AbilityCasts   json.RawMessage `json:"abilityCasts,omitempty"`
}

// MMR is a player's rank data.
type MMR struct {
	Subject                 string          `json:"Subject"`
	LatestCompetitiveUpdate json.RawMessage `json:"LatestCompetitiveUpdate,omitempty"`
	QueueSkills             json.RawMessage `json:"QueueSkills"`
}

// NameEntry maps a player ID to a display name and tag.
type NameEntry struct {
	PUUID string `json:"puuid"`
	Name  string `json:"name"`
	Tag   string `json:"tag"`
}

// nameServiceEntry is the wire shape of the name-service response.
type nameServiceEntry struct {
	Subject  string `json:"Subject"`
	GameName string `json:"GameName"`
	TagLine  string `json:"TagLine"`
}
