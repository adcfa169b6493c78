package progress

import (
	"fmt"
	"strconv"

	"researchctl/internal/lifecycle"
)

// ActivityObserver implements lifecycle.Observer and emits one event per callback.
type ActivityObserver struct {
	emitter Emitter
}

// Ensure ActivityObserver implements lifecycle.Observer.
var _ lifecycle.Observer = (*ActivityObserver)(nil)

// NewActivityObserver creates an observer that emits to e.
func NewActivityObserver(e Emitter) *ActivityObserver {
	return &ActivityObserver{emitter: e}
}

// OnStart emits a running event.
func (a *ActivityObserver) OnStart(elt lifecycle.Element) {
	a.emitter.Emit(Event{
		Message:  "POST " + elt.Path,
		Status:   StatusRunning,
		Metadata: map[string]string{"element": elt.ID},
	})
}

// OnSuccess emits a done event.
func (a *ActivityObserver) OnSuccess(elt lifecycle.Element, resp lifecycle.Response) {
	a.emitter.Emit(Event{
		Message:  fmt.Sprintf("%s answered %d", elt.Path, resp.Status),
		Status:   StatusDone,
		Metadata: responseMetadata(resp),
	})
}

// OnError emits an error event.
func (a *ActivityObserver) OnError(elt lifecycle.Element, resp lifecycle.Response) {
	a.emitter.Emit(Event{
		Message:  fmt.Sprintf("%s failed with %d", elt.Path, resp.Status),
		Status:   StatusError,
		Metadata: responseMetadata(resp),
	})
}

// OnNetworkError emits an error event.
func (a *ActivityObserver) OnNetworkError(elt lifecycle.Element, err error) {
	a.emitter.Emit(Event{
		Message: fmt.Sprintf("%s: %v", elt.Path, err),
		Status:  StatusError,
	})
}

// OnSignal emits a warning event.
func (a *ActivityObserver) OnSignal(elt lifecycle.Element, sig lifecycle.Signal) {
	a.emitter.Emit(Event{
		Message: fmt.Sprintf("%s: %s", elt.Path, sig),
		Status:  StatusWarning,
	})
}

func responseMetadata(resp lifecycle.Response) map[string]string {
	md := map[string]string{"bytes": strconv.Itoa(len(resp.Body))}
	if resp.ContentType != "" {
		md["content-type"] = resp.ContentType
	}
	return md
}
