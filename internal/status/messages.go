package status

import "researchctl/internal/lifecycle"

// RequestStartMsg begins a tracked session for Element. Label replaces the
// default "Starting execution..." text when set.
type RequestStartMsg struct {
	Element lifecycle.Element
	Label   string
}

// RequestEndMsg finishes the request started for Element. Response is nil
// when the request never reached the server.
type RequestEndMsg struct {
	Element  lifecycle.Element
	Response *lifecycle.Response
	Err      error
}

// SignalMsg reports a load or swap failure.
type SignalMsg struct {
	Element lifecycle.Element
	Signal  lifecycle.Signal
}

// ConnectivityMsg reports an online/offline transition.
type ConnectivityMsg struct {
	Online bool
}

// ErrorMsg displays a locally generated error, e.g. a failed validation.
type ErrorMsg struct {
	Text string
}

// NoticeMsg displays a transient informational message that fades on its own.
type NoticeMsg struct {
	Text string
}

// SessionClearedMsg is emitted once a finished session has fully faded out.
type SessionClearedMsg struct {
	Generation uint64
}

// Deferred messages. Each carries the generation it was armed for.
type (
	tickMsg         struct{ gen uint64 }
	slowCheckMsg    struct{ gen uint64 }
	connPollMsg     struct{ gen uint64 }
	cooldownMsg     struct{ gen uint64 }
	fadeMsg         struct{ gen uint64 }
	noticeFadeMsg   struct{ seq uint64 }
	failTerminalMsg struct {
		gen  uint64
		text string
	}
	connProbeMsg struct {
		gen    uint64
		online bool
	}
)
