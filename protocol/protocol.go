// Package protocol defines the client-to-server message contract. The schema
// generator under cmd/schema reflects these types into a JSON schema document
// shared with client tooling.
package protocol

// ClientMessage is the envelope for every message a client sends; Type
// discriminates which of the optional fields are meaningful.
type ClientMessage struct {
	Type   string  `json:"type" jsonschema:"title=Message type,enum=key,enum=pointer,enum=touch,enum=start,enum=restart,enum=tier,enum=resize,enum=heartbeat,description=Discriminator for the client payload"`
	Key    string  `json:"key,omitempty" jsonschema:"enum=up,enum=down,description=Logical movement key for key messages"`
	Held   bool    `json:"held,omitempty" jsonschema:"description=Whether the key transitioned to held"`
	Y      float64 `json:"y,omitempty" jsonschema:"description=Absolute pointer Y in surface units"`
	Active bool    `json:"active,omitempty" jsonschema:"description=False when the pointer or touch is released"`
	DeltaY float64 `json:"deltaY,omitempty" jsonschema:"description=Incremental touch drag in surface units"`
	Tier   string  `json:"tier,omitempty" jsonschema:"enum=easy,enum=medium,enum=hard,description=Difficulty tier for start and tier messages"`
	Width  float64 `json:"width,omitempty" jsonschema:"description=Viewport width for resize messages"`
	Height float64 `json:"height,omitempty" jsonschema:"description=Viewport height for resize messages"`
	SentAt int64   `json:"sentAt,omitempty" jsonschema:"description=Client clock in unix milliseconds for heartbeats"`
}

// Message type discriminators.
const (
	TypeKey       = "key"
	TypePointer   = "pointer"
	TypeTouch     = "touch"
	TypeStart     = "start"
	TypeRestart   = "restart"
	TypeTier      = "tier"
	TypeResize    = "resize"
	TypeHeartbeat = "heartbeat"
)
