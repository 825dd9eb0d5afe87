package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vango-dev/kite/pkg/dom"
	"github.com/vango-dev/kite/pkg/kite"
)

// commitMsg reports that the host document may have changed.
type commitMsg struct{}

// Model is a bubbletea model over a kite host.
type Model struct {
	host    *kite.Host
	title   string
	keys    KeyMap
	help    help.Model
	spinner spinner.Model
	styles  Styles
	done    chan struct{}

	focused uint64
	buttons []uint64
	body    string
	width   int
}

// Option configures a Model.
type Option func(*Model)

// WithTitle sets the header line.
func WithTitle(title string) Option {
	return func(m *Model) { m.title = title }
}

// WithStyles replaces DefaultStyles.
func WithStyles(s Styles) Option {
	return func(m *Model) { m.styles = s }
}

// WithKeyMap replaces DefaultKeyMap.
func WithKeyMap(k KeyMap) Option {
	return func(m *Model) { m.keys = k }
}

// New creates a model over host. The host should already have its root
// mounted.
func New(host *kite.Host, opts ...Option) *Model {
	m := &Model{
		host:    host,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		styles:  DefaultStyles(),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.waitCommit, m.spinner.Tick)
}

// waitCommit blocks until the next host commit.
func (m *Model) waitCommit() tea.Msg {
	select {
	case <-m.done:
		return nil
	default:
	}
	select {
	case <-m.host.Commits():
		return commitMsg{}
	case <-m.done:
		return nil
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.stop()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			m.move(1)
		case key.Matches(msg, m.keys.Prev):
			m.move(-1)
		case key.Matches(msg, m.keys.Press):
			m.press(m.focused)
		case key.Matches(msg, m.keys.Refresh):
			m.pressFirstEnabled()
		}
		return m, nil

	case commitMsg:
		m.refresh()
		return m, m.waitCommit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refresh()
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	out := ""
	if m.title != "" {
		out = m.styles.Title.Render(m.title) + "\n\n"
	}
	out += m.body + "\n\n"
	out += m.help.View(m.keys)
	return out
}

// Focused returns the element ID of the focused button, or 0.
func (m *Model) Focused() uint64 { return m.focused }

// refresh re-renders the document and the focus ring.
func (m *Model) refresh() {
	m.host.View(func(doc *dom.Document) {
		m.buttons = m.buttons[:0]
		for _, b := range Buttons(doc.Body()) {
			m.buttons = append(m.buttons, b.ID())
		}
		if !m.has(m.focused) {
			m.focused = 0
			if len(m.buttons) > 0 {
				m.focused = m.buttons[0]
			}
		}
		r := Renderer{Styles: m.styles, Focused: m.focused, Spinner: m.spinner.View()}
		m.body = r.Render(doc.Body())
	})
}

func (m *Model) has(id uint64) bool {
	for _, b := range m.buttons {
		if b == id {
			return true
		}
	}
	return false
}

func (m *Model) move(delta int) {
	if len(m.buttons) == 0 {
		return
	}
	i := 0
	for j, b := range m.buttons {
		if b == m.focused {
			i = j
		}
	}
	i = (i + delta + len(m.buttons)) % len(m.buttons)
	m.focused = m.buttons[i]
	m.refresh()
}

func (m *Model) press(id uint64) {
	if id == 0 {
		return
	}
	m.host.DispatchID(id, "click")
}

func (m *Model) pressFirstEnabled() {
	var target uint64
	m.host.View(func(doc *dom.Document) {
		for _, b := range Buttons(doc.Body()) {
			if !b.Disabled() {
				target = b.ID()
				return
			}
		}
	})
	m.press(target)
}

func (m *Model) stop() {
	select {
	case <-m.done:
	default:
		close(m.done)
	}
}

// Run runs the model full-screen until the user quits or ctx is done.
func Run(ctx context.Context, host *kite.Host, opts ...Option) error {
	m := New(host, opts...)
	defer m.stop()
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
