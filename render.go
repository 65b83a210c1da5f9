package main

// The render pass is a pure function of match state. It emits an ordered list
// of draw ops the client executes verbatim on its 2D context, so the server
// stays the single authority over what a frame looks like.

type drawOpKind string

const (
	drawOpClear  drawOpKind = "clear"
	drawOpRect   drawOpKind = "rect"
	drawOpCircle drawOpKind = "circle"
)

// DrawOp is one primitive in a frame. Alpha is only meaningful for the clear
// op, Radius only for circles.
type DrawOp struct {
	Kind   drawOpKind `json:"kind"`
	X      float64    `json:"x,omitempty"`
	Y      float64    `json:"y,omitempty"`
	Width  float64    `json:"width,omitempty"`
	Height float64    `json:"height,omitempty"`
	Radius float64    `json:"radius,omitempty"`
	Alpha  float64    `json:"alpha,omitempty"`
}

// Frame is the complete draw list for one tick.
type Frame struct {
	Width  float64  `json:"width"`
	Height float64  `json:"height"`
	Ops    []DrawOp `json:"ops"`
}

// renderFrame draws the court back to front: a translucent clear that leaves
// a motion trail, the center net, both paddles, then the ball.
func renderFrame(m *Match) Frame {
	player, opponent, ball := m.Snapshot()

	ops := make([]DrawOp, 0, 8+int(m.surfaceH/(netDashHeight+netDashGap)))
	ops = append(ops, DrawOp{
		Kind:   drawOpClear,
		Width:  m.surfaceW,
		Height: m.surfaceH,
		Alpha:  trailAlpha,
	})

	netX := m.surfaceW/2 - netWidth/2
	for y := 0.0; y < m.surfaceH; y += netDashHeight + netDashGap {
		ops = append(ops, DrawOp{
			Kind:   drawOpRect,
			X:      netX,
			Y:      y,
			Width:  netWidth,
			Height: netDashHeight,
		})
	}

	ops = append(ops,
		DrawOp{Kind: drawOpRect, X: player.X, Y: player.Y, Width: player.Width, Height: player.Height},
		DrawOp{Kind: drawOpRect, X: opponent.X, Y: opponent.Y, Width: opponent.Width, Height: opponent.Height},
		DrawOp{Kind: drawOpCircle, X: ball.X, Y: ball.Y, Radius: ball.Radius},
	)

	return Frame{Width: m.surfaceW, Height: m.surfaceH, Ops: ops}
}
