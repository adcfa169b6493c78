package lifecycle

// MultiObserver fans out lifecycle callbacks to multiple observers.
// It handles nil observers gracefully by skipping them.
type MultiObserver struct {
	observers []Observer
}

// Ensure MultiObserver implements Observer.
var _ Observer = (*MultiObserver)(nil)

// NewMultiObserver creates a MultiObserver that forwards calls to all provided observers.
// Nil observers are filtered out and not included in the list.
func NewMultiObserver(observers ...Observer) *MultiObserver {
	filtered := make([]Observer, 0, len(observers))
	for _, obs := range observers {
		if obs != nil {
			filtered = append(filtered, obs)
		}
	}
	return &MultiObserver{
		observers: filtered,
	}
}

// safeCall calls fn with panic recovery so one observer cannot starve the rest.
func safeCall(fn func()) {
	defer func() {
		_ = recover()
	}()
	fn()
}

// OnStart forwards the call to all observers.
func (m *MultiObserver) OnStart(elt Element) {
	for _, obs := range m.observers {
		safeCall(func() { obs.OnStart(elt) })
	}
}

// OnSuccess forwards the call to all observers.
func (m *MultiObserver) OnSuccess(elt Element, resp Response) {
	for _, obs := range m.observers {
		safeCall(func() { obs.OnSuccess(elt, resp) })
	}
}

// OnError forwards the call to all observers.
func (m *MultiObserver) OnError(elt Element, resp Response) {
	for _, obs := range m.observers {
		safeCall(func() { obs.OnError(elt, resp) })
	}
}

// OnNetworkError forwards the call to all observers.
func (m *MultiObserver) OnNetworkError(elt Element, err error) {
	for _, obs := range m.observers {
		safeCall(func() { obs.OnNetworkError(elt, err) })
	}
}

// OnSignal forwards the call to all observers.
func (m *MultiObserver) OnSignal(elt Element, sig Signal) {
	for _, obs := range m.observers {
		safeCall(func() { obs.OnSignal(elt, sig) })
	}
}
