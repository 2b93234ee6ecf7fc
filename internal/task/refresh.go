package task

// RefreshSignal coalesces "the world changed, list again" pokes. Any
// number of Trigger calls between two discovery cycles collapse into a
// single wakeup.
type RefreshSignal struct {
	ch chan struct{}
}

// NewRefreshSignal creates an idle signal.
func NewRefreshSignal() *RefreshSignal {
	return &RefreshSignal{ch: make(chan struct{}, 1)}
}

// Trigger requests a refresh. Never blocks; a pending request absorbs the
// new one.
func (s *RefreshSignal) Trigger() {
	select {
	case s.ch <- struct{}{}:
	default:
	}
}

// C returns the wakeup channel. Receiving from it consumes the pending
// request.
func (s *RefreshSignal) C() <-chan struct{} {
	return s.ch
}
