package main

// Presenter receives the discrete gameplay events the engine emits while
// stepping. Calls are synchronous, fire exactly once per occurrence, and must
// never feed state back into the simulation. Implementations are expected to
// hand the work off (queueing a cue message, publishing a log event) rather
// than block the tick.
type Presenter interface {
	OnWallHit()
	OnPaddleHit()
	OnScore(scorer Side)
	OnMatchStart()
	OnMatchEnd(playerWon bool)
}

// NopPresenter discards every event.
type NopPresenter struct{}

func (NopPresenter) OnWallHit()      {}
func (NopPresenter) OnPaddleHit()    {}
func (NopPresenter) OnScore(Side)    {}
func (NopPresenter) OnMatchStart()   {}
func (NopPresenter) OnMatchEnd(bool) {}

// presenterOrNop guards against nil presenters so the engine can always emit.
func presenterOrNop(p Presenter) Presenter {
	if p == nil {
		return NopPresenter{}
	}
	return p
}
