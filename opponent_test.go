package main

import (
	"testing"
	"time"
)

func TestOpponentTracksBallOutsideDeadband(t *testing.T) {
	m, _ := newTestMatch(t, TierEasy, "opponent-track")
	startTestMatch(t, m, TierEasy)
	m.ball.VX, m.ball.VY = 0, 0

	speed := TierEasy.params().OpponentSpeed

	// Ball well below the paddle center: the opponent chases downward.
	m.ball.Y = m.opponent.centerY() + opponentDeadband + 50
	before := m.opponent.Y
	m.Step(2, time.Unix(0, 0), nil)
	if got, want := m.opponent.Y, before+speed; got != want {
		t.Fatalf("expected opponent at %.2f chasing down, got %.2f", want, got)
	}

	// Ball well above: the opponent chases upward.
	m.ball.Y = m.opponent.centerY() - opponentDeadband - 50
	before = m.opponent.Y
	m.Step(3, time.Unix(0, 0), nil)
	if got, want := m.opponent.Y, before-speed; got != want {
		t.Fatalf("expected opponent at %.2f chasing up, got %.2f", want, got)
	}
}

func TestOpponentHoldsInsideDeadband(t *testing.T) {
	m, _ := newTestMatch(t, TierHard, "opponent-hold")
	startTestMatch(t, m, TierHard)
	m.ball.VX, m.ball.VY = 0, 0

	m.ball.Y = m.opponent.centerY() + opponentDeadband - 1
	before := m.opponent.Y
	m.Step(2, time.Unix(0, 0), nil)
	if m.opponent.Y != before {
		t.Fatalf("expected opponent steady inside the deadband, moved from %.2f to %.2f", before, m.opponent.Y)
	}
}

func TestOpponentClampsAtSurfaceEdges(t *testing.T) {
	m, _ := newTestMatch(t, TierHard, "opponent-clamp")
	startTestMatch(t, m, TierHard)
	m.ball.VX, m.ball.VY = 0, 0

	// Pin the ball at the very top so the opponent keeps chasing.
	m.ball.Y = 0
	for tick := uint64(2); tick <= 200; tick++ {
		m.Step(tick, time.Unix(0, 0), nil)
		m.ball.Y = 0
	}
	if m.opponent.Y != 0 {
		t.Fatalf("expected opponent clamped at the top, got %.2f", m.opponent.Y)
	}

	m.ball.Y = m.surfaceH
	for tick := uint64(201); tick <= 400; tick++ {
		m.Step(tick, time.Unix(0, 0), nil)
		m.ball.Y = m.surfaceH
	}
	if got, want := m.opponent.Y, m.surfaceH-m.opponent.Height; got != want {
		t.Fatalf("expected opponent clamped at %.2f, got %.2f", want, got)
	}
}
