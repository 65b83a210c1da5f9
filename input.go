package main

// Key identifiers the movement handler understands. The client maps physical
// keys (arrows, W/S) to these before sending.
const (
	keyUp   = "up"
	keyDown = "down"
)

// inputState is the plain mutable snapshot the engine reads once per tick.
// Absence of a key defaults to "not held"; a nil pointerY means no active
// pointer or touch.
type inputState struct {
	held     map[string]bool
	pointerY *float64
}

func newInputState() inputState {
	return inputState{held: make(map[string]bool)}
}

func (in *inputState) setKey(key string, held bool) {
	if in.held == nil {
		in.held = make(map[string]bool)
	}
	if held {
		in.held[key] = true
		return
	}
	delete(in.held, key)
}

func (in *inputState) keyHeld(key string) bool {
	return in.held[key]
}

func (in *inputState) setPointer(y float64) {
	in.pointerY = &y
}

func (in *inputState) clearPointer() {
	in.pointerY = nil
}

func (in *inputState) reset() {
	for key := range in.held {
		delete(in.held, key)
	}
	in.pointerY = nil
}
