package gameplay

import (
	"context"

	"bounce-and-rally/server/logging"
)

const (
	// EventWallBounce is emitted when the ball reflects off the top or bottom wall.
	EventWallBounce logging.EventType = "gameplay.wall_bounce"
	// EventPaddleHit is emitted when the ball rebounds off either paddle.
	EventPaddleHit logging.EventType = "gameplay.paddle_hit"
	// EventPointScored is emitted when the ball crosses a scoring boundary.
	EventPointScored logging.EventType = "gameplay.point_scored"
)

// PaddleHitPayload captures the rebound parameters after a paddle contact.
type PaddleHitPayload struct {
	Side        string  `json:"side"`
	HitFraction float64 `json:"hitFraction"`
	VelocityX   float64 `json:"velocityX"`
	VelocityY   float64 `json:"velocityY"`
}

// PointScoredPayload captures the updated score line after a point.
type PointScoredPayload struct {
	Scorer        string `json:"scorer"`
	PlayerScore   int    `json:"playerScore"`
	OpponentScore int    `json:"opponentScore"`
}

func WallBounce(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventWallBounce,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityDebug,
		Category: logging.CategoryGameplay,
	})
}

func PaddleHit(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload PaddleHitPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventPaddleHit,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryGameplay,
		Payload:  payload,
	})
}

func PointScored(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload PointScoredPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventPointScored,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryGameplay,
		Payload:  payload,
	})
}
