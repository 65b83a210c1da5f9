package main

// Side identifies which end of the court an entity or event belongs to.
type Side string

const (
	SidePlayer   Side = "player"
	SideOpponent Side = "opponent"
)

// Paddle is one of the two court paddles. X is fixed per side; Y is the only
// coordinate the simulation mutates. Score lives on the paddle so a snapshot
// carries the full score line.
type Paddle struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Score  int     `json:"score"`
}

func (p *Paddle) centerY() float64 {
	return p.Y + p.Height/2
}

// Ball carries position, radius, and the velocity components whose signs
// encode travel direction. Speed is the nominal launch magnitude for the
// active tier; the live components outgrow it as a rally extends.
type Ball struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
	VX     float64 `json:"vx"`
	VY     float64 `json:"vy"`
	Speed  float64 `json:"speed"`
}

func newPlayerPaddle(surfaceHeight float64) *Paddle {
	return &Paddle{
		X:      paddleInset,
		Y:      surfaceHeight/2 - paddleHeight/2,
		Width:  paddleWidth,
		Height: paddleHeight,
	}
}

func newOpponentPaddle(surfaceWidth, surfaceHeight float64) *Paddle {
	return &Paddle{
		X:      surfaceWidth - paddleInset - paddleWidth,
		Y:      surfaceHeight/2 - paddleHeight/2,
		Width:  paddleWidth,
		Height: paddleHeight,
	}
}

func newBall(surfaceWidth, surfaceHeight float64) *Ball {
	return &Ball{
		X:      surfaceWidth / 2,
		Y:      surfaceHeight / 2,
		Radius: ballRadius,
	}
}
