// Package progress carries request activity events to the activity pane.
package progress

import "time"

// Status indicates the state of a request.
type Status string

const (
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusError   Status = "error"
	StatusWarning Status = "warning"
)

// Event is one line of request activity.
type Event struct {
	Message   string
	Status    Status
	Timestamp time.Time
	Metadata  map[string]string // optional: path, status code, etc.
}

// Emitter accepts activity events.
type Emitter interface {
	Emit(ev Event)
}

// ChanEmitter emits events to a channel for the UI to consume.
type ChanEmitter struct {
	Ch chan<- Event
}

// Emit sends the event to the channel (non-blocking; drops if full).
func (e *ChanEmitter) Emit(ev Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	select {
	case e.Ch <- ev:
	default:
		// Channel full; drop rather than stall the request
	}
}
