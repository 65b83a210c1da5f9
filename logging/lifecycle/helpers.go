package lifecycle

import (
	"context"

	"bounce-and-rally/server/logging"
)

const (
	EventSessionJoined logging.EventType = "lifecycle.session_joined"
	EventSessionLeft   logging.EventType = "lifecycle.session_left"
	EventMatchStarted  logging.EventType = "lifecycle.match_started"
	EventMatchEnded    logging.EventType = "lifecycle.match_ended"
)

// SessionLeftPayload records why a session was removed from the hub.
type SessionLeftPayload struct {
	Reason string `json:"reason"`
}

// MatchStartedPayload records the configuration the match launched with.
type MatchStartedPayload struct {
	Tier    string `json:"tier"`
	Restart bool   `json:"restart"`
}

// MatchEndedPayload records the final score line.
type MatchEndedPayload struct {
	PlayerWon     bool `json:"playerWon"`
	PlayerScore   int  `json:"playerScore"`
	OpponentScore int  `json:"opponentScore"`
}

func SessionJoined(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventSessionJoined,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryLifecycle,
	})
}

func SessionLeft(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload SessionLeftPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventSessionLeft,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryLifecycle,
		Payload:  payload,
		Extra:    extra,
	})
}

func MatchStarted(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload MatchStartedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventMatchStarted,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryLifecycle,
		Payload:  payload,
	})
}

func MatchEnded(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload MatchEndedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventMatchEnded,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryLifecycle,
		Payload:  payload,
	})
}
