package status

import (
	"researchctl/internal/lifecycle"

	tea "github.com/charmbracelet/bubbletea"
)

// Sender delivers messages into a running Bubble Tea program.
// *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// ProgramObserver implements lifecycle.Observer and forwards callbacks to the
// controller as messages.
type ProgramObserver struct {
	sender Sender
}

// Ensure ProgramObserver implements lifecycle.Observer.
var _ lifecycle.Observer = (*ProgramObserver)(nil)

// NewProgramObserver returns an observer that sends to s. A nil sender drops
// every callback.
func NewProgramObserver(s Sender) *ProgramObserver {
	return &ProgramObserver{sender: s}
}

func (o *ProgramObserver) send(msg tea.Msg) {
	if o.sender != nil {
		o.sender.Send(msg)
	}
}

// OnStart is called before the request is sent.
func (o *ProgramObserver) OnStart(elt lifecycle.Element) {
	o.send(RequestStartMsg{Element: elt})
}

// OnSuccess is called when the server answered below 400.
func (o *ProgramObserver) OnSuccess(elt lifecycle.Element, resp lifecycle.Response) {
	o.send(RequestEndMsg{Element: elt, Response: &resp})
}

// OnError is called when the server answered 400 or above.
func (o *ProgramObserver) OnError(elt lifecycle.Element, resp lifecycle.Response) {
	o.send(RequestEndMsg{Element: elt, Response: &resp})
}

// OnNetworkError is called when no usable response arrived.
func (o *ProgramObserver) OnNetworkError(elt lifecycle.Element, err error) {
	o.send(RequestEndMsg{Element: elt, Err: err})
}

// OnSignal is called on load and swap failures.
func (o *ProgramObserver) OnSignal(elt lifecycle.Element, sig lifecycle.Signal) {
	o.send(SignalMsg{Element: elt, Signal: sig})
}
