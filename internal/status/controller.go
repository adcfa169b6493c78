// Package status implements the execution status controller: the elapsed
// counter, progress indicator and status message driven by request
// lifecycle messages.
//
// The controller is a Bubble Tea sub-model. Every timer is a tea.Tick whose
// message carries the session generation it was armed for; timers are never
// cancelled, a message for an older generation is simply ignored.
package status

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Color is the semantic colour shared by the status message and progress bar.
type Color int

const (
	ColorNeutral Color = iota
	ColorSuccess
	ColorError
)

// Hex returns the colour as a hex string.
func (c Color) Hex() string {
	switch c {
	case ColorSuccess:
		return "#10b981"
	case ColorError:
		return "#ef4444"
	default:
		return "#3b82f6"
	}
}

func (c Color) String() string {
	switch c {
	case ColorSuccess:
		return "success"
	case ColorError:
		return "error"
	default:
		return "neutral"
	}
}

// Message is the status line.
type Message struct {
	Text    string
	Color   Color
	Visible bool
}

// Progress is the progress indicator.
type Progress struct {
	Percent float64 // 0..100
	Color   Color
}

// State is a snapshot of the controller for rendering.
type State struct {
	Message    Message
	Progress   Progress
	Active     bool
	Elapsed    time.Duration
	Generation uint64
}

// Timings holds every delay the controller arms.
type Timings struct {
	Tick             time.Duration
	SlowRequest      time.Duration
	ConnectivityPoll time.Duration
	ProbeTimeout     time.Duration
	ErrorDelay       time.Duration
	Cooldown         time.Duration
	Fade             time.Duration
	NoticeFade       time.Duration
}

// DefaultTimings returns the standard delays.
func DefaultTimings() Timings {
	return Timings{
		Tick:             time.Second,
		SlowRequest:      30 * time.Second,
		ConnectivityPoll: 5 * time.Second,
		ProbeTimeout:     2 * time.Second,
		ErrorDelay:       time.Second,
		Cooldown:         3 * time.Second,
		Fade:             300 * time.Millisecond,
		NoticeFade:       3 * time.Second,
	}
}

// Prober reports whether the network is reachable.
type Prober interface {
	Online(ctx context.Context) bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithTimings replaces DefaultTimings.
func WithTimings(t Timings) Option {
	return func(c *Controller) { c.timings = t }
}

// WithProber enables the connectivity watch during sessions.
func WithProber(p Prober) Option {
	return func(c *Controller) { c.prober = p }
}

// Controller owns the timer session, status message, progress indicator and
// connectivity watch. It is not safe for concurrent use; drive it from the
// Bubble Tea update loop.
type Controller struct {
	timings Timings
	now     func() time.Time
	prober  Prober

	generation uint64
	start      time.Time
	active     bool // start is set
	ticking    bool
	watching   bool
	loading    map[string]bool
	noticeSeq  uint64

	message  Message
	progress Progress
}

// NewController creates an idle controller.
func NewController(opts ...Option) *Controller {
	c := &Controller{
		timings: DefaultTimings(),
		now:     time.Now,
		loading: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a snapshot for rendering.
func (c *Controller) State() State {
	return State{
		Message:    c.message,
		Progress:   c.progress,
		Active:     c.active,
		Elapsed:    c.elapsed(),
		Generation: c.generation,
	}
}

// Active reports whether a session is between start and cooldown.
func (c *Controller) Active() bool {
	return c.active
}

// Loading reports whether a request for element id is in flight.
func (c *Controller) Loading(id string) bool {
	return c.loading[id]
}

// Update applies msg and returns any timers it arms.
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case RequestStartMsg:
		return c.handleStart(msg)
	case RequestEndMsg:
		return c.handleEnd(msg)
	case SignalMsg:
		c.showError(SignalText(msg.Signal))
	case ErrorMsg:
		c.showError(msg.Text)
	case NoticeMsg:
		return c.handleNotice(msg)
	case ConnectivityMsg:
		c.handleConnectivity(msg)
	case tickMsg:
		return c.handleTick(msg)
	case slowCheckMsg:
		c.handleSlowCheck(msg)
	case connPollMsg:
		return c.handlePoll(msg)
	case connProbeMsg:
		c.handleProbe(msg)
	case failTerminalMsg:
		return c.handleFailTerminal(msg)
	case cooldownMsg:
		return c.handleCooldown(msg)
	case fadeMsg:
		return c.handleFade(msg)
	case noticeFadeMsg:
		c.handleNoticeFade(msg)
	}
	return nil
}

func (c *Controller) handleStart(msg RequestStartMsg) tea.Cmd {
	if id := msg.Element.ID; id != "" {
		if c.loading[id] {
			return nil
		}
		c.loading[id] = true
	}

	c.generation++
	gen := c.generation
	c.start = c.now()
	c.active = true
	c.ticking = true
	c.watching = c.prober != nil

	label := msg.Label
	if label == "" {
		label = TextStarting
	}
	c.progress = Progress{Percent: 0, Color: ColorNeutral}
	c.message = Message{Text: label, Color: ColorNeutral, Visible: true}

	cmds := []tea.Cmd{
		after(c.timings.Tick, tickMsg{gen: gen}),
		after(c.timings.SlowRequest, slowCheckMsg{gen: gen}),
	}
	if c.watching {
		cmds = append(cmds, after(c.timings.ConnectivityPoll, connPollMsg{gen: gen}))
	}
	return tea.Batch(cmds...)
}

func (c *Controller) handleEnd(msg RequestEndMsg) tea.Cmd {
	if id := msg.Element.ID; id != "" {
		delete(c.loading, id)
	}
	c.watching = false
	// The request is over; stop counting so the tick cannot overwrite the
	// error shown during the terminal delay.
	c.ticking = false

	if text, failed := Classify(msg.Response, msg.Err); failed {
		c.showError(text)
		return after(c.timings.ErrorDelay, failTerminalMsg{gen: c.generation, text: text})
	}

	cmd := c.complete(true, "")
	if IsExportPath(msg.Element.Path) {
		c.message = Message{Text: TextExportSucceeded, Color: ColorSuccess, Visible: true}
	}
	return cmd
}

// complete renders the terminal state and arms the cooldown. It is a no-op
// when no session is active.
func (c *Controller) complete(success bool, errText string) tea.Cmd {
	c.ticking = false
	if !c.active {
		return nil
	}

	total := FormatDuration(c.elapsed())
	if success {
		c.progress = Progress{Percent: 100, Color: ColorSuccess}
		c.message = Message{Text: "Completed in " + total, Color: ColorSuccess, Visible: true}
	} else {
		if errText == "" {
			errText = TextGenericError
		}
		c.progress = Progress{Percent: 100, Color: ColorError}
		c.message = Message{Text: fmt.Sprintf("%s (%s)", errText, total), Color: ColorError, Visible: true}
	}
	return after(c.timings.Cooldown, cooldownMsg{gen: c.generation})
}

func (c *Controller) handleFailTerminal(msg failTerminalMsg) tea.Cmd {
	if msg.gen != c.generation {
		return nil
	}
	return c.complete(false, msg.text)
}

func (c *Controller) handleCooldown(msg cooldownMsg) tea.Cmd {
	if msg.gen != c.generation {
		return nil
	}
	c.progress = Progress{Percent: 0, Color: ColorNeutral}
	c.message.Visible = false
	c.start = time.Time{}
	c.active = false
	c.ticking = false
	return after(c.timings.Fade, fadeMsg{gen: msg.gen})
}

func (c *Controller) handleFade(msg fadeMsg) tea.Cmd {
	if msg.gen != c.generation || c.active {
		return nil
	}
	c.message.Text = ""
	gen := msg.gen
	return func() tea.Msg { return SessionClearedMsg{Generation: gen} }
}

func (c *Controller) handleTick(msg tickMsg) tea.Cmd {
	if msg.gen != c.generation || !c.ticking || !c.active {
		return nil
	}
	elapsed := FormatDuration(c.elapsed())
	current := c.message.Text
	if strings.Contains(current, "PDF") || strings.Contains(current, "upload") {
		c.message.Text = TextProcessingPDF + " " + elapsed
	} else {
		c.message.Text = TextExecuting + " " + elapsed
	}
	return after(c.timings.Tick, tickMsg{gen: msg.gen})
}

func (c *Controller) handleSlowCheck(msg slowCheckMsg) {
	if msg.gen != c.generation || !c.active {
		return
	}
	if strings.Contains(c.message.Text, "Executing") {
		c.showError(TextSlowRequest)
	}
}

func (c *Controller) handlePoll(msg connPollMsg) tea.Cmd {
	if msg.gen != c.generation || !c.watching || c.prober == nil {
		return nil
	}
	prober := c.prober
	timeout := c.timings.ProbeTimeout
	gen := msg.gen
	probe := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return connProbeMsg{gen: gen, online: prober.Online(ctx)}
	}
	return tea.Batch(probe, after(c.timings.ConnectivityPoll, connPollMsg{gen: gen}))
}

func (c *Controller) handleProbe(msg connProbeMsg) {
	if msg.gen != c.generation || !c.watching || msg.online {
		return
	}
	c.showError(TextNoConnection)
}

func (c *Controller) handleConnectivity(msg ConnectivityMsg) {
	if !msg.Online {
		c.showError(TextConnectionLost)
		return
	}
	if c.active {
		c.message.Text = TextConnectionRestored
		c.message.Color = ColorNeutral
	}
}

func (c *Controller) handleNotice(msg NoticeMsg) tea.Cmd {
	c.noticeSeq++
	c.message = Message{Text: msg.Text, Color: ColorNeutral, Visible: true}
	return after(c.timings.NoticeFade, noticeFadeMsg{seq: c.noticeSeq})
}

func (c *Controller) handleNoticeFade(msg noticeFadeMsg) {
	if msg.seq != c.noticeSeq || c.active {
		return
	}
	c.message.Visible = false
}

// showError displays text with the elapsed time, in red, without ending the session.
func (c *Controller) showError(text string) {
	c.message = Message{
		Text:    fmt.Sprintf("%s (%s)", text, FormatDuration(c.elapsed())),
		Color:   ColorError,
		Visible: true,
	}
	c.progress.Color = ColorError
}

// elapsed is zero when no session is active.
func (c *Controller) elapsed() time.Duration {
	if !c.active {
		return 0
	}
	return c.now().Sub(c.start)
}

func after(d time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return msg })
}

// IsExportPath reports whether path is one of the PDF export endpoints.
func IsExportPath(path string) bool {
	return path == "/api/export-pdf" || path == "/api/export-pdf-custom"
}
