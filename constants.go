package main

import "time"

const (
	ProtocolVersion   = 1
	writeWait         = 10 * time.Second
	tickRate          = 60 // ticks per second, one per display refresh
	heartbeatInterval = 2 * time.Second
	disconnectAfter   = 3 * heartbeatInterval

	defaultSurfaceWidth  = 800.0
	defaultSurfaceHeight = 500.0
	maxSurfaceWidth      = 800.0
	maxSurfaceHeight     = 500.0
	surfaceAspect        = defaultSurfaceHeight / defaultSurfaceWidth

	paddleWidth     = 10.0
	paddleHeight    = 100.0
	paddleInset     = 10.0 // gap between a paddle and its wall
	paddleMoveSpeed = 6.0  // player paddle units per tick

	ballRadius = 7.0

	// Opponent tracking tolerance. The scripted paddle holds still while the
	// ball is within this window of its center, which keeps it beatable and
	// stops it from jittering on every tick.
	opponentDeadband = 35.0

	// Post-collision tuning: vertical velocity is derived from the contact
	// offset and both components grow per rally.
	spinScale     = 10.0
	rallySpeedUp  = 1.05
	launchMaxDeg  = 30.0
	pointsToWin   = 5
	netDashHeight = 20.0
	netDashGap    = 15.0
	netWidth      = 4.0
	trailAlpha    = 0.25 // translucent clear each frame leaves a motion trail
)
