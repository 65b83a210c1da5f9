package main

import (
	"context"
	"math/rand"
	"time"

	"bounce-and-rally/server/logging"
	logginggameplay "bounce-and-rally/server/logging/gameplay"
	logginglifecycle "bounce-and-rally/server/logging/lifecycle"
)

// CommandType enumerates the supported simulation commands.
type CommandType string

const (
	CommandKey     CommandType = "Key"
	CommandPointer CommandType = "Pointer"
	CommandTouch   CommandType = "Touch"
	CommandStart   CommandType = "Start"
	CommandRestart CommandType = "Restart"
	CommandSetTier CommandType = "SetTier"
	CommandResize  CommandType = "Resize"
)

// Command represents an intent captured for processing on the next tick.
// Heartbeats are not commands: they update session metadata directly on the
// hub and never touch match state.
type Command struct {
	OriginTick uint64
	SessionID  string
	Type       CommandType
	IssuedAt   time.Time
	Key        *KeyCommand
	Pointer    *PointerCommand
	Touch      *TouchCommand
	Start      *StartCommand
	Tier       *TierCommand
	Resize     *ResizeCommand
}

// KeyCommand records a movement key transition.
type KeyCommand struct {
	Key  string
	Held bool
}

// PointerCommand carries an absolute pointer Y, or marks the pointer gone.
type PointerCommand struct {
	Y      float64
	Active bool
}

// TouchCommand carries an incremental drag in surface units.
type TouchCommand struct {
	DeltaY float64
}

// StartCommand begins (or re-begins) a match at the given tier.
type StartCommand struct {
	Tier Tier
}

// TierCommand selects a difficulty tier between matches.
type TierCommand struct {
	Tier Tier
}

// ResizeCommand reports a new viewport so the surface can be re-derived.
type ResizeCommand struct {
	ViewportWidth  float64
	ViewportHeight float64
}

// Match owns the authoritative state of one game session: both paddles, the
// ball, the input snapshot, and the running flag. The simulation goroutine is
// its only writer.
type Match struct {
	cfg       matchConfig
	surfaceW  float64
	surfaceH  float64
	player    *Paddle
	opponent  *Paddle
	ball      *Ball
	input     inputState
	tier      Tier
	running   bool
	rng       *rand.Rand
	presenter Presenter
	publisher logging.Publisher
	seed      string

	currentTick uint64
}

// newMatch constructs an idle match sized to the configured surface. Nothing
// moves until a Start command arrives.
func newMatch(cfg matchConfig, presenter Presenter, publisher logging.Publisher) *Match {
	normalized := cfg.normalized()

	if publisher == nil {
		publisher = logging.NopPublisher()
	}

	m := &Match{
		cfg:       normalized,
		surfaceW:  normalized.Width,
		surfaceH:  normalized.Height,
		input:     newInputState(),
		tier:      normalized.Tier,
		rng:       newDeterministicRNG(normalized.Seed, "match"),
		presenter: presenterOrNop(presenter),
		publisher: publisher,
		seed:      normalized.Seed,
	}
	m.player = newPlayerPaddle(m.surfaceH)
	m.opponent = newOpponentPaddle(m.surfaceW, m.surfaceH)
	m.ball = newBall(m.surfaceW, m.surfaceH)
	return m
}

// Running reports whether a match is currently in play.
func (m *Match) Running() bool {
	return m.running
}

// Tier returns the active difficulty tier.
func (m *Match) Tier() Tier {
	return m.tier
}

// Step advances the simulation by a single tick after applying all staged
// commands. The update order is fixed: player paddle, opponent paddle, ball
// integration, wall bounce, paddle collisions, scoring.
func (m *Match) Step(tick uint64, now time.Time, commands []Command) {
	m.currentTick = tick

	for _, cmd := range commands {
		m.applyCommand(cmd, now)
	}

	if !m.running {
		return
	}

	m.stepPlayerPaddle()
	m.stepOpponentPaddle()

	m.ball.X += m.ball.VX
	m.ball.Y += m.ball.VY

	m.bounceOffWalls()
	m.collideWithPaddle(m.player, SidePlayer)
	m.collideWithPaddle(m.opponent, SideOpponent)
	m.resolveScoring()
}

func (m *Match) applyCommand(cmd Command, now time.Time) {
	switch cmd.Type {
	case CommandKey:
		if cmd.Key == nil {
			return
		}
		m.input.setKey(cmd.Key.Key, cmd.Key.Held)
	case CommandPointer:
		if cmd.Pointer == nil {
			return
		}
		if !cmd.Pointer.Active {
			m.input.clearPointer()
			return
		}
		m.input.setPointer(cmd.Pointer.Y)
		// Pointer input positions the paddle directly. Clamp here as well as
		// in the movement step: an idle match skips the step entirely.
		m.player.Y = clamp(cmd.Pointer.Y-m.player.Height/2, 0, m.surfaceH-m.player.Height)
	case CommandTouch:
		if cmd.Touch == nil {
			return
		}
		m.player.Y = clamp(m.player.Y+cmd.Touch.DeltaY, 0, m.surfaceH-m.player.Height)
	case CommandStart:
		tier := m.tier
		if cmd.Start != nil {
			if _, ok := tierTable[cmd.Start.Tier]; ok {
				tier = cmd.Start.Tier
			}
		}
		m.startMatch(tier, false)
	case CommandRestart:
		m.startMatch(m.tier, true)
	case CommandSetTier:
		if cmd.Tier == nil || m.running {
			return
		}
		if _, ok := tierTable[cmd.Tier.Tier]; ok {
			m.tier = cmd.Tier.Tier
		}
	case CommandResize:
		if cmd.Resize == nil {
			return
		}
		m.resizeSurface(cmd.Resize.ViewportWidth, cmd.Resize.ViewportHeight)
	}
}

// startMatch resets scores and relaunches the ball. Paddle positions are
// deliberately left alone so a restart feels continuous.
func (m *Match) startMatch(tier Tier, restart bool) {
	m.tier = tier
	m.player.Score = 0
	m.opponent.Score = 0
	m.input.reset()
	m.resetBall()
	m.running = true

	m.presenter.OnMatchStart()
	logginglifecycle.MatchStarted(
		context.Background(),
		m.publisher,
		m.currentTick,
		logging.EntityRef{ID: m.seed, Kind: logging.EntityKindMatch},
		logginglifecycle.MatchStartedPayload{Tier: string(tier), Restart: restart},
	)
}

// resizeSurface re-derives the surface dimensions and the side-dependent
// paddle placement. Live Y positions are untouched mid-match; the per-tick
// clamps absorb a shrinking surface.
func (m *Match) resizeSurface(viewportWidth, viewportHeight float64) {
	width, height := computeSurfaceSize(viewportWidth, viewportHeight)
	m.surfaceW = width
	m.surfaceH = height
	m.player.X = paddleInset
	m.opponent.X = width - paddleInset - paddleWidth

	if !m.running {
		m.player.Y = height/2 - m.player.Height/2
		m.opponent.Y = height/2 - m.opponent.Height/2
		m.ball.X = width / 2
		m.ball.Y = height / 2
	}
}

func (m *Match) stepPlayerPaddle() {
	if m.input.keyHeld(keyUp) {
		m.player.Y -= paddleMoveSpeed
	}
	if m.input.keyHeld(keyDown) {
		m.player.Y += paddleMoveSpeed
	}
	m.player.Y = clamp(m.player.Y, 0, m.surfaceH-m.player.Height)
}

// stepOpponentPaddle runs the scripted tracker: follow the ball only when it
// drifts outside the deadband around the paddle center.
func (m *Match) stepOpponentPaddle() {
	speed := m.tier.params().OpponentSpeed
	center := m.opponent.centerY()
	switch {
	case m.ball.Y > center+opponentDeadband:
		m.opponent.Y += speed
	case m.ball.Y < center-opponentDeadband:
		m.opponent.Y -= speed
	}
	m.opponent.Y = clamp(m.opponent.Y, 0, m.surfaceH-m.opponent.Height)
}

// bounceOffWalls inverts the vertical velocity when the ball edge crosses the
// top or bottom. There is no positional correction; tunneling at extreme
// speeds is an accepted simplification.
func (m *Match) bounceOffWalls() {
	if m.ball.Y-m.ball.Radius <= 0 && m.ball.VY < 0 {
		m.ball.VY = -m.ball.VY
		m.emitWallHit()
	} else if m.ball.Y+m.ball.Radius >= m.surfaceH && m.ball.VY > 0 {
		m.ball.VY = -m.ball.VY
		m.emitWallHit()
	}
}

// collideWithPaddle runs the rectangle-vs-ball overlap test (radius padding
// horizontally, vertical extent against the full paddle rect) and applies the
// rebound: horizontal direction forced away from the paddle, vertical
// velocity derived from the contact offset, both components scaled up per
// rally.
func (m *Match) collideWithPaddle(paddle *Paddle, side Side) {
	b := m.ball
	if b.X+b.Radius < paddle.X || b.X-b.Radius > paddle.X+paddle.Width {
		return
	}
	if b.Y+b.Radius < paddle.Y || b.Y-b.Radius > paddle.Y+paddle.Height {
		return
	}

	hitFraction := (b.Y - paddle.Y) / paddle.Height

	vx := b.VX
	if vx < 0 {
		vx = -vx
	}
	if side == SideOpponent {
		vx = -vx
	}
	b.VX = vx * rallySpeedUp
	b.VY = (hitFraction - 0.5) * spinScale * rallySpeedUp

	m.presenter.OnPaddleHit()
	logginggameplay.PaddleHit(
		context.Background(),
		m.publisher,
		m.currentTick,
		logging.EntityRef{ID: string(side), Kind: logging.EntityKindPaddle},
		logginggameplay.PaddleHitPayload{
			Side:        string(side),
			HitFraction: hitFraction,
			VelocityX:   b.VX,
			VelocityY:   b.VY,
		},
	)
}

// resolveScoring awards a point when the ball's leading edge crosses a
// boundary, recenters the ball with a fresh launch, and ends the match at the
// winning threshold.
func (m *Match) resolveScoring() {
	b := m.ball
	switch {
	case b.X-b.Radius <= 0:
		m.scorePoint(SideOpponent)
	case b.X+b.Radius >= m.surfaceW:
		m.scorePoint(SidePlayer)
	}
}

func (m *Match) scorePoint(scorer Side) {
	scoringPaddle := m.opponent
	if scorer == SidePlayer {
		scoringPaddle = m.player
	}
	scoringPaddle.Score++

	m.presenter.OnScore(scorer)
	logginggameplay.PointScored(
		context.Background(),
		m.publisher,
		m.currentTick,
		logging.EntityRef{ID: string(scorer), Kind: logging.EntityKindPaddle},
		logginggameplay.PointScoredPayload{
			Scorer:        string(scorer),
			PlayerScore:   m.player.Score,
			OpponentScore: m.opponent.Score,
		},
	)

	m.resetBall()

	if scoringPaddle.Score >= pointsToWin {
		m.running = false
		playerWon := scorer == SidePlayer
		m.presenter.OnMatchEnd(playerWon)
		logginglifecycle.MatchEnded(
			context.Background(),
			m.publisher,
			m.currentTick,
			logging.EntityRef{ID: m.seed, Kind: logging.EntityKindMatch},
			logginglifecycle.MatchEndedPayload{
				PlayerWon:     playerWon,
				PlayerScore:   m.player.Score,
				OpponentScore: m.opponent.Score,
			},
		)
	}
}

// resetBall recenters the ball and serves it with the active tier's speed.
func (m *Match) resetBall() {
	params := m.tier.params()
	m.ball.X = m.surfaceW / 2
	m.ball.Y = m.surfaceH / 2
	m.ball.Speed = params.BallSpeed
	m.ball.VX, m.ball.VY = launchVelocity(m.rng, params.BallSpeed)
}

func (m *Match) emitWallHit() {
	m.presenter.OnWallHit()
	logginggameplay.WallBounce(
		context.Background(),
		m.publisher,
		m.currentTick,
		logging.EntityRef{Kind: logging.EntityKindBall},
	)
}

// Snapshot copies the entities into broadcast-friendly structs.
func (m *Match) Snapshot() (Paddle, Paddle, Ball) {
	return *m.player, *m.opponent, *m.ball
}
