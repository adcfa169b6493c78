// Package lifecycle defines the request lifecycle contract between the HTTP
// adapter and anything that renders or records request progress.
//
// The adapter calls exactly one of OnSuccess, OnError or OnNetworkError for
// every OnStart. OnSignal may fire at any point in between, or after the
// terminal callback when applying a result fails.
package lifecycle

// Element identifies the logical trigger of a request (a form or command).
// Only one request per element ID is tracked at a time.
type Element struct {
	ID   string
	Path string
}

// Response is the transport-level result of a request that reached the server.
type Response struct {
	Path        string
	Status      int
	ContentType string
	Body        []byte
}

// Failed reports whether the server answered with an error status.
func (r Response) Failed() bool {
	return r.Status >= 400
}

// Signal is a library-level failure raised while loading or applying a response.
type Signal int

const (
	SignalBeforeOnLoadError Signal = iota + 1
	SignalAfterOnLoadError
	SignalBeforeSwapError
	SignalAfterSwapError
)

func (s Signal) String() string {
	switch s {
	case SignalBeforeOnLoadError:
		return "before-on-load-error"
	case SignalAfterOnLoadError:
		return "after-on-load-error"
	case SignalBeforeSwapError:
		return "before-swap-error"
	case SignalAfterSwapError:
		return "after-swap-error"
	default:
		return "unknown"
	}
}

// Observer receives request lifecycle callbacks.
type Observer interface {
	OnStart(elt Element)
	OnSuccess(elt Element, resp Response)
	OnError(elt Element, resp Response)
	OnNetworkError(elt Element, err error)
	OnSignal(elt Element, sig Signal)
}

// NoopObserver implements Observer with no-ops. Embed it to override a subset.
type NoopObserver struct{}

var _ Observer = NoopObserver{}

func (NoopObserver) OnStart(Element)               {}
func (NoopObserver) OnSuccess(Element, Response)   {}
func (NoopObserver) OnError(Element, Response)     {}
func (NoopObserver) OnNetworkError(Element, error) {}
func (NoopObserver) OnSignal(Element, Signal)      {}
