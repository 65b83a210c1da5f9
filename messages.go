package main

// Wire protocol. Everything is JSON text frames; the Type field discriminates.

type joinResponse struct {
	ID              string  `json:"id"`
	ProtocolVersion int     `json:"protocolVersion"`
	Tier            string  `json:"tier"`
	Width           float64 `json:"width"`
	Height          float64 `json:"height"`
	WinningScore    int     `json:"winningScore"`
}

// stateMessage is the once-per-tick broadcast: the score line and entities for
// DOM updates, the frame draw list for the canvas, and any cues fired by this
// tick's events.
type stateMessage struct {
	Type       string       `json:"type"`
	Running    bool         `json:"running"`
	Tier       string       `json:"tier"`
	Player     Paddle       `json:"player"`
	Opponent   Paddle       `json:"opponent"`
	Ball       Ball         `json:"ball"`
	Frame      Frame        `json:"frame"`
	Cues       []cueMessage `json:"cues,omitempty"`
	ServerTime int64        `json:"serverTime"`
}

// cueMessage asks the client to fire a fire-and-forget presentation effect:
// an audio tone and, when Speech is set, a spoken announcement. Clients
// without audio or speech capability drop the cue silently.
type cueMessage struct {
	Type   string `json:"type"`
	Cue    string `json:"cue"`
	Speech string `json:"speech,omitempty"`
}

const (
	cueMatchStart = "match_start"
	cueWallHit    = "wall_hit"
	cuePaddleHit  = "paddle_hit"
	cueScore      = "score"
	cueMatchWon   = "match_won"
	cueMatchLost  = "match_lost"
)

type heartbeatMessage struct {
	Type       string `json:"type"`
	ServerTime int64  `json:"serverTime"`
	ClientTime int64  `json:"clientTime"`
	RTTMillis  int64  `json:"rtt"`
}

type diagnosticsSession struct {
	ID            string `json:"id"`
	Running       bool   `json:"running"`
	Tier          string `json:"tier"`
	LastHeartbeat int64  `json:"lastHeartbeat"`
	RTTMillis     int64  `json:"rttMillis"`
}
