package ui

import (
	"context"
	"strings"
	"time"

	"researchctl/internal/export"
	"researchctl/internal/progress"
	"researchctl/internal/status"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Action performs the work a Runner tracks. send delivers messages into the
// running program; input is the filename field value (or its suggestion)
// when the runner hosts one, empty otherwise.
type Action func(ctx context.Context, send func(tea.Msg), input string) error

// actionDoneMsg is returned when the action finishes.
type actionDoneMsg struct {
	err error
}

// lingerMsg fires when nothing is left to watch after the action finished.
type lingerMsg struct{}

const defaultLinger = 3 * time.Second

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithTitle sets the header line.
func WithTitle(title string) RunnerOption {
	return func(r *Runner) { r.title = title }
}

// WithController replaces the default status controller.
func WithController(c *status.Controller) RunnerOption {
	return func(r *Runner) { r.ctrl = c }
}

// WithFilenameField makes the runner wait for a filename before starting the
// action.
func WithFilenameField(f *export.FilenameField) RunnerOption {
	return func(r *Runner) { r.field = f }
}

// WithActivity shows events read from ch in the activity pane.
func WithActivity(ch <-chan progress.Event) RunnerOption {
	return func(r *Runner) { r.events = ch }
}

// WithLinger sets how long the final message stays up when the action ends
// without a tracked session.
func WithLinger(d time.Duration) RunnerOption {
	return func(r *Runner) { r.linger = d }
}

// Runner is the root model: it runs one action and renders its progress
// until the session has faded out.
type Runner struct {
	title    string
	ctrl     *status.Controller
	bar      *StatusBar
	activity *ActivityWindow
	field    *export.FilenameField
	events   <-chan progress.Event
	linger   time.Duration

	// element is the ID of the last started request; the spinner runs while
	// the controller reports it loading.
	element  string
	spinner  spinner.Model
	spinning bool

	action Action
	ctx    context.Context
	cancel context.CancelFunc
	sender status.Sender

	started   bool
	done      bool
	cancelled bool
	err       error
}

// Ensure Runner implements tea.Model and can feed a ProgramObserver.
var (
	_ tea.Model     = (*Runner)(nil)
	_ status.Sender = (*Runner)(nil)
)

// NewRunner creates a runner for action.
func NewRunner(action Action, opts ...RunnerOption) *Runner {
	ctx, cancel := context.WithCancel(context.Background())
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = Styles.Title
	r := &Runner{
		spinner:  s,
		bar:      NewStatusBar(),
		activity: NewActivityWindow(),
		linger:   defaultLinger,
		action:   action,
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.ctrl == nil {
		r.ctrl = status.NewController()
	}
	return r
}

// Attach sets the destination of Send, normally the *tea.Program running r.
func (r *Runner) Attach(s status.Sender) {
	r.sender = s
}

// Send implements status.Sender by forwarding to the attached program.
func (r *Runner) Send(msg tea.Msg) {
	if r.sender != nil {
		r.sender.Send(msg)
	}
}

// Err returns the action's error once it has finished.
func (r *Runner) Err() error {
	return r.err
}

// Cancelled reports whether the user quit before the action finished.
func (r *Runner) Cancelled() bool {
	return r.cancelled
}

// Init implements tea.Model.
func (r *Runner) Init() tea.Cmd {
	cmds := []tea.Cmd{r.activity.Init(), r.waitActivity()}
	if r.field == nil {
		cmds = append(cmds, r.startAction(""))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (r *Runner) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.bar.SetWidth(msg.Width - 4)
		_, cmd := r.activity.Update(msg)
		return r, cmd
	case tea.KeyMsg:
		return r.handleKey(msg)
	case tea.MouseMsg:
		if r.field != nil && !r.started &&
			msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			return r, r.field.Activate()
		}
		return r, nil
	case progress.Event:
		_, cmd := r.activity.Update(msg)
		return r, tea.Batch(cmd, r.waitActivity())
	case actionDoneMsg:
		r.done = true
		r.err = msg.err
		if !r.ctrl.Active() {
			return r, tea.Tick(r.linger, func(time.Time) tea.Msg { return lingerMsg{} })
		}
		return r, nil
	case lingerMsg:
		if !r.ctrl.Active() {
			return r, tea.Quit
		}
		return r, nil
	case status.SessionClearedMsg:
		if r.done {
			return r, tea.Quit
		}
		return r, nil
	case spinner.TickMsg:
		if !r.loading() {
			r.spinning = false
			return r, nil
		}
		var cmd tea.Cmd
		r.spinner, cmd = r.spinner.Update(msg)
		return r, cmd
	}

	cmd := r.ctrl.Update(msg)
	if start, ok := msg.(status.RequestStartMsg); ok && start.Element.ID != "" {
		r.element = start.Element.ID
		if r.loading() && !r.spinning {
			r.spinning = true
			cmd = tea.Batch(cmd, r.spinner.Tick)
		}
	}
	return r, cmd
}

// loading reports whether the last started element is still in flight.
func (r *Runner) loading() bool {
	return r.element != "" && r.ctrl.Loading(r.element)
}

func (r *Runner) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return r, r.quit()
	case "q", "esc":
		if r.field == nil || !r.field.Focused() || r.started {
			return r, r.quit()
		}
	case "tab":
		if r.field != nil && !r.started {
			return r, r.field.Activate()
		}
	case "enter":
		if r.field != nil && !r.started {
			input := r.field.Value()
			if input == "" {
				input = r.field.Suggestion()
			}
			return r, r.startAction(input)
		}
	}
	if r.field != nil && r.field.Focused() && !r.started {
		return r, r.field.Update(msg)
	}
	return r, nil
}

func (r *Runner) quit() tea.Cmd {
	if !r.done {
		r.cancelled = true
	}
	r.cancel()
	return tea.Quit
}

func (r *Runner) startAction(input string) tea.Cmd {
	if r.started || r.action == nil {
		return nil
	}
	r.started = true
	ctx, action, send := r.ctx, r.action, r.Send
	return func() tea.Msg {
		return actionDoneMsg{err: action(ctx, send, input)}
	}
}

func (r *Runner) waitActivity() tea.Cmd {
	if r.events == nil {
		return nil
	}
	ch := r.events
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return ev
	}
}

// View implements tea.Model.
func (r *Runner) View() string {
	parts := []string{}
	var header []string
	if r.title != "" {
		header = append(header, Styles.Title.Render(r.title))
	}
	if r.loading() {
		header = append(header, r.spinner.View()+Styles.Muted.Render(r.element+" loading"))
	}
	if len(header) > 0 {
		parts = append(parts, strings.Join(header, " "))
	}
	parts = append(parts, r.bar.Render(r.ctrl.State()))
	if r.field != nil {
		parts = append(parts, "", r.field.View())
	}
	parts = append(parts, "", r.activity.View(), Styles.Hint.Render(r.hint()))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (r *Runner) hint() string {
	if r.field != nil && !r.started {
		return "tab: use suggestion  enter: export  ctrl+c: quit"
	}
	return "q: quit"
}
