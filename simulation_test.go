package main

import (
	"math"
	"testing"
	"time"
)

// recordingPresenter captures every engine event for assertions.
type recordingPresenter struct {
	wallHits   int
	paddleHits int
	scores     []Side
	starts     int
	ends       []bool
}

func (p *recordingPresenter) OnWallHit()   { p.wallHits++ }
func (p *recordingPresenter) OnPaddleHit() { p.paddleHits++ }
func (p *recordingPresenter) OnScore(scorer Side) {
	p.scores = append(p.scores, scorer)
}
func (p *recordingPresenter) OnMatchStart() { p.starts++ }
func (p *recordingPresenter) OnMatchEnd(playerWon bool) {
	p.ends = append(p.ends, playerWon)
}

func newTestMatch(t *testing.T, tier Tier, seed string) (*Match, *recordingPresenter) {
	t.Helper()
	rec := &recordingPresenter{}
	m := newMatch(matchConfig{Tier: tier, Seed: seed}, rec, nil)
	return m, rec
}

func startTestMatch(t *testing.T, m *Match, tier Tier) {
	t.Helper()
	m.Step(1, time.Unix(0, 0), []Command{{
		Type:  CommandStart,
		Start: &StartCommand{Tier: tier},
	}})
	if !m.Running() {
		t.Fatalf("expected match to be running after start")
	}
}

func TestPaddlesStayWithinBoundsOverLongRun(t *testing.T) {
	m, _ := newTestMatch(t, TierEasy, "bounds")
	startTestMatch(t, m, TierEasy)

	now := time.Unix(0, 0)
	for tick := uint64(2); tick <= 1001; tick++ {
		m.Step(tick, now, nil)
		now = now.Add(time.Second / tickRate)

		if m.player.Y < 0 || m.player.Y > m.surfaceH-m.player.Height {
			t.Fatalf("tick %d: player paddle out of bounds: y=%.2f", tick, m.player.Y)
		}
		if m.opponent.Y < 0 || m.opponent.Y > m.surfaceH-m.opponent.Height {
			t.Fatalf("tick %d: opponent paddle out of bounds: y=%.2f", tick, m.opponent.Y)
		}
		if m.player.Score > pointsToWin || m.opponent.Score > pointsToWin {
			t.Fatalf("tick %d: score exceeded winning threshold: %d/%d", tick, m.player.Score, m.opponent.Score)
		}
	}
}

func TestHeldKeysMovePlayerPaddleAndClamp(t *testing.T) {
	m, _ := newTestMatch(t, TierMedium, "keys")
	startTestMatch(t, m, TierMedium)
	m.ball.VX, m.ball.VY = 0, 0 // park the ball mid-court

	startY := m.player.Y
	m.Step(2, time.Unix(0, 0), []Command{{
		Type: CommandKey,
		Key:  &KeyCommand{Key: keyUp, Held: true},
	}})
	if got, want := m.player.Y, startY-paddleMoveSpeed; got != want {
		t.Fatalf("expected player paddle at %.2f after one up tick, got %.2f", want, got)
	}

	// Holding up long enough must pin the paddle at the top, never past it.
	for tick := uint64(3); tick <= 200; tick++ {
		m.Step(tick, time.Unix(0, 0), nil)
	}
	if m.player.Y != 0 {
		t.Fatalf("expected paddle clamped at 0, got %.2f", m.player.Y)
	}

	m.Step(201, time.Unix(0, 0), []Command{
		{Type: CommandKey, Key: &KeyCommand{Key: keyUp, Held: false}},
		{Type: CommandKey, Key: &KeyCommand{Key: keyDown, Held: true}},
	})
	for tick := uint64(202); tick <= 400; tick++ {
		m.Step(tick, time.Unix(0, 0), nil)
	}
	if got, want := m.player.Y, m.surfaceH-m.player.Height; got != want {
		t.Fatalf("expected paddle clamped at %.2f, got %.2f", want, got)
	}
}

func TestLeftBoundaryScoresOpponentAndRelaunches(t *testing.T) {
	m, rec := newTestMatch(t, TierEasy, "left-score")
	startTestMatch(t, m, TierEasy)

	m.ball.X = 1
	m.ball.Y = m.surfaceH / 2
	m.ball.VX = -4
	m.ball.VY = 0

	m.Step(2, time.Unix(0, 0), nil)

	if got := m.opponent.Score; got != 1 {
		t.Fatalf("expected opponent score 1, got %d", got)
	}
	if got := m.player.Score; got != 0 {
		t.Fatalf("expected player score 0, got %d", got)
	}
	if len(rec.scores) != 1 || rec.scores[0] != SideOpponent {
		t.Fatalf("expected exactly one opponent score event, got %v", rec.scores)
	}

	if m.ball.X != m.surfaceW/2 || m.ball.Y != m.surfaceH/2 {
		t.Fatalf("expected ball recentered, got (%.2f, %.2f)", m.ball.X, m.ball.Y)
	}
	speed := math.Hypot(m.ball.VX, m.ball.VY)
	want := TierEasy.params().BallSpeed
	if math.Abs(speed-want) > 1e-9 {
		t.Fatalf("expected relaunch speed %.2f, got %.4f", want, speed)
	}
	angle := math.Abs(math.Atan2(m.ball.VY, math.Abs(m.ball.VX)))
	if angle > launchMaxDeg*math.Pi/180+1e-9 {
		t.Fatalf("launch angle %.4f rad outside the serve cone", angle)
	}
}

func TestPlayerPaddleCenterHit(t *testing.T) {
	m, rec := newTestMatch(t, TierMedium, "center-hit")
	startTestMatch(t, m, TierMedium)

	// Park the ball dead center of the player paddle, moving left so the
	// next integration step keeps it overlapping.
	m.ball.X = m.player.X + m.player.Width/2 + 4
	m.ball.Y = m.player.Y + m.player.Height/2
	m.ball.VX = -4
	m.ball.VY = 0
	preSpeed := 4.0

	m.Step(2, time.Unix(0, 0), nil)

	if rec.paddleHits != 1 {
		t.Fatalf("expected exactly one paddle hit event, got %d", rec.paddleHits)
	}
	if m.ball.VX <= 0 {
		t.Fatalf("expected rightward rebound, got vx=%.4f", m.ball.VX)
	}
	if got, want := m.ball.VX, preSpeed*rallySpeedUp; math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected vx scaled to %.4f, got %.4f", want, got)
	}
	if math.Abs(m.ball.VY) > 0.5 {
		t.Fatalf("expected near-zero spin on a center hit, got vy=%.4f", m.ball.VY)
	}
	if len(rec.scores) != 0 {
		t.Fatalf("unexpected score events during a rally: %v", rec.scores)
	}
}

func TestOffCenterHitAddsSpin(t *testing.T) {
	m, _ := newTestMatch(t, TierMedium, "spin-hit")
	startTestMatch(t, m, TierMedium)

	// Contact near the paddle top should send the ball upward.
	m.ball.X = m.player.X + m.player.Width/2 + 4
	m.ball.Y = m.player.Y + m.player.Height*0.1
	m.ball.VX = -4
	m.ball.VY = 0

	m.Step(2, time.Unix(0, 0), nil)

	if m.ball.VY >= 0 {
		t.Fatalf("expected upward spin from a top-edge hit, got vy=%.4f", m.ball.VY)
	}
}

func TestWallBounceInvertsVerticalVelocity(t *testing.T) {
	m, rec := newTestMatch(t, TierMedium, "wall")
	startTestMatch(t, m, TierMedium)

	m.ball.X = m.surfaceW / 2
	m.ball.Y = ballRadius + 2
	m.ball.VX = 0
	m.ball.VY = -4

	m.Step(2, time.Unix(0, 0), nil)

	if m.ball.VY != 4 {
		t.Fatalf("expected vy inverted to 4, got %.4f", m.ball.VY)
	}
	if rec.wallHits != 1 {
		t.Fatalf("expected one wall hit event, got %d", rec.wallHits)
	}
}

func TestMatchEndsAtWinningScore(t *testing.T) {
	m, rec := newTestMatch(t, TierHard, "win")
	startTestMatch(t, m, TierHard)

	m.player.Score = pointsToWin - 1
	m.ball.X = m.surfaceW - 1
	m.ball.Y = m.surfaceH / 2
	m.ball.VX = 6
	m.ball.VY = 0

	m.Step(2, time.Unix(0, 0), nil)

	if m.Running() {
		t.Fatalf("expected match to stop at the winning threshold")
	}
	if m.player.Score != pointsToWin {
		t.Fatalf("expected player score %d, got %d", pointsToWin, m.player.Score)
	}
	if len(rec.ends) != 1 || !rec.ends[0] {
		t.Fatalf("expected a single player-won match end, got %v", rec.ends)
	}

	// A halted match must not advance entities.
	frozen := *m.ball
	m.Step(3, time.Unix(0, 0), nil)
	if *m.ball != frozen {
		t.Fatalf("expected ball frozen after match end")
	}
}

func TestRestartResetsScoresButNotPaddles(t *testing.T) {
	m, rec := newTestMatch(t, TierEasy, "restart")
	startTestMatch(t, m, TierEasy)

	m.player.Score = 2
	m.opponent.Score = pointsToWin
	m.running = false
	m.player.Y = 37

	m.Step(2, time.Unix(0, 0), []Command{{Type: CommandRestart}})

	if !m.Running() {
		t.Fatalf("expected match running after restart")
	}
	if m.player.Score != 0 || m.opponent.Score != 0 {
		t.Fatalf("expected scores reset, got %d/%d", m.player.Score, m.opponent.Score)
	}
	if m.player.Y != 37 {
		t.Fatalf("expected paddle position untouched by restart, got %.2f", m.player.Y)
	}
	// The restart tick integrates once after the reset, so the ball sits one
	// tick of launch velocity away from center.
	offset := math.Hypot(m.ball.X-m.surfaceW/2, m.ball.Y-m.surfaceH/2)
	if want := TierEasy.params().BallSpeed; math.Abs(offset-want) > 1e-9 {
		t.Fatalf("expected ball one launch step from center, offset %.4f want %.4f", offset, want)
	}
	if rec.starts != 2 {
		t.Fatalf("expected two match start events, got %d", rec.starts)
	}
}

func TestPointerPositionsPaddleDirectly(t *testing.T) {
	m, _ := newTestMatch(t, TierMedium, "pointer")
	startTestMatch(t, m, TierMedium)
	m.ball.VX, m.ball.VY = 0, 0

	m.Step(2, time.Unix(0, 0), []Command{{
		Type:    CommandPointer,
		Pointer: &PointerCommand{Y: 250, Active: true},
	}})
	if got, want := m.player.Y, 250-m.player.Height/2; got != want {
		t.Fatalf("expected paddle centered on pointer at %.2f, got %.2f", want, got)
	}

	// A pointer past the bottom edge must end up clamped, not off-surface.
	m.Step(3, time.Unix(0, 0), []Command{{
		Type:    CommandPointer,
		Pointer: &PointerCommand{Y: m.surfaceH + 100, Active: true},
	}})
	if got, want := m.player.Y, m.surfaceH-m.player.Height; got != want {
		t.Fatalf("expected paddle clamped at %.2f, got %.2f", want, got)
	}
}

func TestIdlePointerAndTouchStayClamped(t *testing.T) {
	m, _ := newTestMatch(t, TierMedium, "idle-clamp")
	if m.Running() {
		t.Fatalf("expected an idle match")
	}

	// Without a running match the movement step never runs, so the command
	// application itself must keep the paddle on the surface.
	m.Step(1, time.Unix(0, 0), []Command{{
		Type:    CommandPointer,
		Pointer: &PointerCommand{Y: m.surfaceH + 500, Active: true},
	}})
	if got, want := m.player.Y, m.surfaceH-m.player.Height; got != want {
		t.Fatalf("expected idle paddle clamped at %.2f, got %.2f", want, got)
	}

	m.Step(2, time.Unix(0, 0), []Command{{
		Type:  CommandTouch,
		Touch: &TouchCommand{DeltaY: -10000},
	}})
	if m.player.Y != 0 {
		t.Fatalf("expected idle paddle clamped at 0, got %.2f", m.player.Y)
	}
}

func TestTouchDeltaMovesPaddle(t *testing.T) {
	m, _ := newTestMatch(t, TierMedium, "touch")
	startTestMatch(t, m, TierMedium)
	m.ball.VX, m.ball.VY = 0, 0

	startY := m.player.Y
	m.Step(2, time.Unix(0, 0), []Command{{
		Type:  CommandTouch,
		Touch: &TouchCommand{DeltaY: -24},
	}})
	if got, want := m.player.Y, startY-24; got != want {
		t.Fatalf("expected paddle at %.2f after drag, got %.2f", want, got)
	}
}

func TestTierLockedWhileRunning(t *testing.T) {
	m, _ := newTestMatch(t, TierEasy, "tier-lock")
	startTestMatch(t, m, TierEasy)

	m.Step(2, time.Unix(0, 0), []Command{{
		Type: CommandSetTier,
		Tier: &TierCommand{Tier: TierHard},
	}})
	if m.Tier() != TierEasy {
		t.Fatalf("expected tier change rejected mid-match, got %s", m.Tier())
	}

	m.running = false
	m.Step(3, time.Unix(0, 0), []Command{{
		Type: CommandSetTier,
		Tier: &TierCommand{Tier: TierHard},
	}})
	if m.Tier() != TierHard {
		t.Fatalf("expected tier change applied between matches, got %s", m.Tier())
	}
}

func TestResizeKeepsLiveEntityPositions(t *testing.T) {
	m, _ := newTestMatch(t, TierMedium, "resize")
	startTestMatch(t, m, TierMedium)

	m.ball.X = 333
	m.ball.Y = 222
	m.ball.VX, m.ball.VY = 0, 0
	m.player.Y = 100 // inside the shrunken bounds so the clamp is a no-op
	ballX, ballY := m.ball.X, m.ball.Y
	playerY := m.player.Y

	m.Step(2, time.Unix(0, 0), []Command{{
		Type:   CommandResize,
		Resize: &ResizeCommand{ViewportWidth: 400, ViewportHeight: 700},
	}})

	if m.surfaceW != 400 {
		t.Fatalf("expected narrow layout width 400, got %.2f", m.surfaceW)
	}
	if got, want := m.surfaceH, 400*surfaceAspect; math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected aspect-derived height %.2f, got %.2f", want, got)
	}
	if got, want := m.opponent.X, 400-paddleInset-paddleWidth; got != want {
		t.Fatalf("expected opponent paddle re-anchored at %.2f, got %.2f", want, got)
	}
	if m.ball.X != ballX || m.ball.Y != ballY || m.player.Y != playerY {
		t.Fatalf("expected live entity positions untouched mid-match")
	}
}

func TestResizeRecentersEntitiesBetweenMatches(t *testing.T) {
	m, _ := newTestMatch(t, TierMedium, "resize-idle")

	m.Step(1, time.Unix(0, 0), []Command{{
		Type:   CommandResize,
		Resize: &ResizeCommand{ViewportWidth: 400, ViewportHeight: 700},
	}})
	if got, want := m.ball.X, m.surfaceW/2; got != want {
		t.Fatalf("expected idle ball recentered after shrink, got x=%.2f", got)
	}

	m.Step(2, time.Unix(0, 0), []Command{{
		Type:   CommandResize,
		Resize: &ResizeCommand{ViewportWidth: 1200, ViewportHeight: 900},
	}})

	if m.surfaceW != maxSurfaceWidth || m.surfaceH != maxSurfaceHeight {
		t.Fatalf("expected wide layout capped at %dx%d, got %.0fx%.0f",
			int(maxSurfaceWidth), int(maxSurfaceHeight), m.surfaceW, m.surfaceH)
	}
	if m.ball.X != m.surfaceW/2 || m.ball.Y != m.surfaceH/2 {
		t.Fatalf("expected idle ball recentered, got (%.2f, %.2f)", m.ball.X, m.ball.Y)
	}
	if got, want := m.player.Y, m.surfaceH/2-m.player.Height/2; got != want {
		t.Fatalf("expected idle paddle recentered at %.2f, got %.2f", want, got)
	}
}

func TestLaunchIsDeterministicPerSeed(t *testing.T) {
	a, _ := newTestMatch(t, TierMedium, "determinism")
	b, _ := newTestMatch(t, TierMedium, "determinism")
	startTestMatch(t, a, TierMedium)
	startTestMatch(t, b, TierMedium)

	if a.ball.VX != b.ball.VX || a.ball.VY != b.ball.VY {
		t.Fatalf("expected identical launches for identical seeds: (%.4f, %.4f) vs (%.4f, %.4f)",
			a.ball.VX, a.ball.VY, b.ball.VX, b.ball.VY)
	}
}
