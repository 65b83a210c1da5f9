package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"bounce-and-rally/server/logging"
	logginglifecycle "bounce-and-rally/server/logging/lifecycle"
)

const maxPendingCommands = 256

// Hub owns every live session. The simulation goroutine started by
// RunSimulation is the sole writer of match state; websocket readers only
// queue commands under the hub mutex.
type Hub struct {
	mu          sync.Mutex
	sessions    map[string]*session
	publisher   logging.Publisher
	telemetry   *telemetryCounters
	rootSeed    string
	defaultTier Tier

	currentTick uint64
}

type session struct {
	id            string
	match         *Match
	sub           *subscriber
	pending       []Command
	cues          []cueMessage
	lastHeartbeat time.Time
	lastRTT       time.Duration
}

type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// cuePresenter translates engine events into presentation cues queued for the
// session's next broadcast. It never mutates match state.
type cuePresenter struct {
	s *session
}

func (p *cuePresenter) OnWallHit() {
	p.s.cues = append(p.s.cues, cueMessage{Type: "cue", Cue: cueWallHit})
}

func (p *cuePresenter) OnPaddleHit() {
	p.s.cues = append(p.s.cues, cueMessage{Type: "cue", Cue: cuePaddleHit})
}

func (p *cuePresenter) OnScore(scorer Side) {
	player, opponent, _ := p.s.match.Snapshot()
	p.s.cues = append(p.s.cues, cueMessage{
		Type:   "cue",
		Cue:    cueScore,
		Speech: fmt.Sprintf("%d %d", player.Score, opponent.Score),
	})
}

func (p *cuePresenter) OnMatchStart() {
	p.s.cues = append(p.s.cues, cueMessage{Type: "cue", Cue: cueMatchStart})
}

func (p *cuePresenter) OnMatchEnd(playerWon bool) {
	cue := cueMatchLost
	speech := "You lose."
	if playerWon {
		cue = cueMatchWon
		speech = "You win!"
	}
	p.s.cues = append(p.s.cues, cueMessage{Type: "cue", Cue: cue, Speech: speech})
}

// newHub creates a hub with no sessions.
func newHub(publisher logging.Publisher, telemetry *telemetryCounters, rootSeed string, defaultTier Tier) *Hub {
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	if telemetry == nil {
		telemetry = newTelemetryCounters()
	}
	if _, ok := tierTable[defaultTier]; !ok {
		defaultTier = TierMedium
	}
	return &Hub{
		sessions:    make(map[string]*session),
		publisher:   publisher,
		telemetry:   telemetry,
		rootSeed:    rootSeed,
		defaultTier: defaultTier,
	}
}

// Join creates a session with a match sized to the reported viewport and
// returns the contract the client needs to connect.
func (h *Hub) Join(viewportWidth, viewportHeight float64, tierRaw string) joinResponse {
	id := uuid.NewString()
	width, height := computeSurfaceSize(viewportWidth, viewportHeight)
	tier := h.defaultTier
	if parsed, ok := parseTier(tierRaw); ok {
		tier = parsed
	}

	s := &session{id: id, lastHeartbeat: time.Now()}
	s.match = newMatch(matchConfig{
		Width:  width,
		Height: height,
		Tier:   tier,
		Seed:   fmt.Sprintf("%s-%s", h.rootSeed, id),
	}, &cuePresenter{s: s}, h.publisher)

	h.mu.Lock()
	h.sessions[id] = s
	h.telemetry.SetActiveSessions(len(h.sessions))
	h.mu.Unlock()

	logginglifecycle.SessionJoined(
		context.Background(),
		h.publisher,
		h.currentTick,
		logging.EntityRef{ID: id, Kind: logging.EntityKindSession},
	)

	return joinResponse{
		ID:              id,
		ProtocolVersion: ProtocolVersion,
		Tier:            string(tier),
		Width:           width,
		Height:          height,
		WinningScore:    pointsToWin,
	}
}

// Subscribe associates a WebSocket connection with an existing session and
// returns an initial state message.
func (h *Hub) Subscribe(sessionID string, conn *websocket.Conn) (*subscriber, stateMessage, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.sessions[sessionID]
	if !ok {
		return nil, stateMessage{}, false
	}

	s.lastHeartbeat = time.Now()

	if s.sub != nil {
		s.sub.conn.Close()
	}
	sub := &subscriber{conn: conn}
	s.sub = sub

	return sub, h.stateMessageLocked(s, time.Now()), true
}

// Disconnect removes a session and closes any active connection.
func (h *Hub) Disconnect(sessionID, reason string) bool {
	h.mu.Lock()
	s, ok := h.sessions[sessionID]
	if ok {
		delete(h.sessions, sessionID)
		h.telemetry.SetActiveSessions(len(h.sessions))
	}
	h.mu.Unlock()

	if !ok {
		return false
	}
	if s.sub != nil {
		s.sub.conn.Close()
	}

	logginglifecycle.SessionLeft(
		context.Background(),
		h.publisher,
		h.currentTick,
		logging.EntityRef{ID: sessionID, Kind: logging.EntityKindSession},
		logginglifecycle.SessionLeftPayload{Reason: reason},
		nil,
	)
	return true
}

// QueueCommand stages a command for the session's next tick.
func (h *Hub) QueueCommand(sessionID string, cmd Command) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.sessions[sessionID]
	if !ok {
		return false
	}
	if len(s.pending) >= maxPendingCommands {
		return false
	}
	cmd.SessionID = sessionID
	cmd.OriginTick = h.currentTick
	s.pending = append(s.pending, cmd)
	return true
}

// UpdateHeartbeat records the most recent heartbeat time and RTT for a session.
func (h *Hub) UpdateHeartbeat(sessionID string, receivedAt time.Time, clientSent int64) (time.Duration, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.sessions[sessionID]
	if !ok {
		return 0, false
	}

	s.lastHeartbeat = receivedAt

	if clientSent > 0 {
		clientTime := time.UnixMilli(clientSent)
		if clientTime.Before(receivedAt.Add(5 * time.Second)) {
			rtt := receivedAt.Sub(clientTime)
			if rtt < 0 {
				rtt = 0
			}
			s.lastRTT = rtt
		}
	}

	return s.lastRTT, true
}

type outboundState struct {
	sub *subscriber
	msg stateMessage
}

// advance runs one tick for every session and returns the per-session state
// messages plus any timed-out sessions to drop.
func (h *Hub) advance(tick uint64, now time.Time) (map[string]outboundState, []string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.currentTick = tick

	outbound := make(map[string]outboundState, len(h.sessions))
	timedOut := make([]string, 0)

	cutoff := now.Add(-disconnectAfter)
	for id, s := range h.sessions {
		if !s.lastHeartbeat.IsZero() && s.lastHeartbeat.Before(cutoff) {
			timedOut = append(timedOut, id)
			continue
		}

		commands := s.pending
		s.pending = nil
		s.match.Step(tick, now, commands)

		if s.sub == nil {
			s.cues = nil
			continue
		}
		outbound[id] = outboundState{sub: s.sub, msg: h.stateMessageLocked(s, now)}
	}

	return outbound, timedOut
}

// stateMessageLocked builds the broadcast for one session and drains its cue
// queue. Callers must hold the hub mutex.
func (h *Hub) stateMessageLocked(s *session, now time.Time) stateMessage {
	player, opponent, ball := s.match.Snapshot()
	cues := s.cues
	s.cues = nil
	return stateMessage{
		Type:       "state",
		Running:    s.match.Running(),
		Tier:       string(s.match.Tier()),
		Player:     player,
		Opponent:   opponent,
		Ball:       ball,
		Frame:      renderFrame(s.match),
		Cues:       cues,
		ServerTime: now.UnixMilli(),
	}
}

// RunSimulation drives the fixed-rate tick loop until the stop channel closes.
func (h *Hub) RunSimulation(stop <-chan struct{}) {
	ticker := time.NewTicker(time.Second / tickRate)
	defer ticker.Stop()

	tick := uint64(0)
	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			tick++
			started := time.Now()

			outbound, timedOut := h.advance(tick, now)
			for _, id := range timedOut {
				log.Printf("disconnecting %s due to heartbeat timeout", id)
				h.Disconnect(id, "timeout")
			}
			for id, out := range outbound {
				h.send(id, out.sub, out.msg)
			}

			h.telemetry.RecordTickDuration(time.Since(started))
		}
	}
}

// send writes one state message to a subscriber, dropping the session on a
// write failure.
func (h *Hub) send(sessionID string, sub *subscriber, msg stateMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("failed to marshal state message for %s: %v", sessionID, err)
		return
	}

	sub.mu.Lock()
	sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
	err = sub.conn.WriteMessage(websocket.TextMessage, data)
	sub.mu.Unlock()
	if err != nil {
		log.Printf("failed to send update to %s: %v", sessionID, err)
		h.Disconnect(sessionID, "write_failed")
		return
	}
	h.telemetry.RecordBroadcast(len(data))
}

// DiagnosticsSnapshot exposes session heartbeat data for the diagnostics
// endpoint.
func (h *Hub) DiagnosticsSnapshot() []diagnosticsSession {
	h.mu.Lock()
	defer h.mu.Unlock()

	sessions := make([]diagnosticsSession, 0, len(h.sessions))
	for _, s := range h.sessions {
		sessions = append(sessions, diagnosticsSession{
			ID:            s.id,
			Running:       s.match.Running(),
			Tier:          string(s.match.Tier()),
			LastHeartbeat: s.lastHeartbeat.UnixMilli(),
			RTTMillis:     s.lastRTT.Milliseconds(),
		})
	}
	return sessions
}
