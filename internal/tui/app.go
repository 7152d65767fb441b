// Package tui is the demo host program: a terminal window standing in for
// the native host, with the terminal grid as its screen. It consumes the
// bridge exactly the way a production embedder would (workarea updates in,
// placement/action/close events out) and contains no protocol logic.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"notibridge/internal/bridge"
	"notibridge/internal/config"
	"notibridge/internal/envelope"
	"notibridge/internal/host"
	"notibridge/internal/locale"
	"notibridge/internal/template"
)

const appName = "notibridge"

// demoVersions cycle through the payload each time the user bumps the
// update notification.
var demoVersions = []string{"1.4.2", "1.4.3", "2.0.0-beta.1"}

// ---------------------------------------------------------------------------
// Styles
// ---------------------------------------------------------------------------

var (
	titleBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#cdd6f4")).
			Background(lipgloss.Color("#313244")).
			Bold(true).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a6adc8"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6c7086"))
)

// ---------------------------------------------------------------------------
// Key bindings
// ---------------------------------------------------------------------------

type keyMap struct {
	Quit    key.Binding
	Lang    key.Binding
	Bump    key.Binding
	Edit    key.Binding
	Install key.Binding
	Dismiss key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Lang:    key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "cycle lang")),
		Bump:    key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "bump version")),
		Edit:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit version")),
		Install: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "install")),
		Dismiss: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Lang, k.Bump, k.Edit, k.Install, k.Dismiss, k.Quit}
}

// ---------------------------------------------------------------------------
// Bubble Tea messages
// ---------------------------------------------------------------------------

// frameMsg delivers a freshly rendered template frame to the window
// surface.
type frameMsg struct {
	frame string
}

// hostEventMsg delivers one controller event (placement, action, close).
type hostEventMsg struct {
	event host.Event
}

// ---------------------------------------------------------------------------
// Model
// ---------------------------------------------------------------------------

type model struct {
	ctrl *host.Controller
	view *template.View

	langs   []string
	langIdx int

	width    int
	height   int
	frame    string
	rect     envelope.Rect
	revealed bool
	closed   bool

	versionIdx int
	input      textinput.Model
	editing    bool

	status string
	keys   keyMap
}

func newModel(ctrl *host.Controller, view *template.View, langs []string) model {
	input := textinput.New()
	input.Placeholder = "version"
	input.CharLimit = 24
	input.Width = 24
	return model{
		ctrl:   ctrl,
		view:   view,
		langs:  langs,
		input:  input,
		status: "waiting for template onReady…",
		keys:   newKeyMap(),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ctrl.SetWorkarea(m.workarea())
		return m, nil
	case frameMsg:
		m.frame = msg.frame
		return m, nil
	case hostEventMsg:
		return m.handleHostEvent(msg.event)
	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.updateMain(msg)
	}
	return m, nil
}

// workarea is the terminal grid minus the title bar and footer rows;
// the host-owned usable screen bounds.
func (m model) workarea() envelope.Workarea {
	h := m.height - 2
	if h < 0 {
		h = 0
	}
	return envelope.Workarea{X: 0, Y: 1, Width: m.width, Height: h}
}

// ---------------------------------------------------------------------------
// Message handlers (called from Update)
// ---------------------------------------------------------------------------

func (m model) handleHostEvent(ev host.Event) (tea.Model, tea.Cmd) {
	switch ev := ev.(type) {
	case host.PlacedEvent:
		m.rect = ev.Rect
		if ev.First {
			// Reveal only now, so the window never flashes at a default
			// position before its real size is known.
			m.revealed = true
		}
		m.status = fmt.Sprintf("placed at (%d,%d) %dx%d", ev.Rect.X, ev.Rect.Y, ev.Rect.Width, ev.Rect.Height)
		return m, nil
	case host.ActionEvent:
		m.status = fmt.Sprintf("action forwarded: %v", ev.Payload["action"])
		return m, nil
	case host.CloseEvent:
		m.revealed = false
		m.closed = true
		m.status = "notification closed, q to quit"
		return m, nil
	}
	return m, nil
}

// ---------------------------------------------------------------------------
// Key-input handlers
// ---------------------------------------------------------------------------

func (m model) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Lang):
		if len(m.langs) > 0 {
			m.langIdx = (m.langIdx + 1) % len(m.langs)
			m.ctrl.SetLang(m.langs[m.langIdx])
			m.status = "lang -> " + m.langs[m.langIdx]
		}
		return m, nil
	case key.Matches(msg, m.keys.Bump):
		m.versionIdx = (m.versionIdx + 1) % len(demoVersions)
		version := demoVersions[m.versionIdx]
		m.ctrl.UpdatePayload(map[string]any{"version": version})
		m.status = "update pushed: version " + version
		return m, nil
	case key.Matches(msg, m.keys.Edit):
		m.editing = true
		m.input.SetValue("")
		m.input.Focus()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Install):
		if !m.revealed {
			return m, nil
		}
		view := m.view
		return m, func() tea.Msg {
			view.EmitAction(map[string]any{"action": "cta_primary", "source": "keyboard"})
			return nil
		}
	case key.Matches(msg, m.keys.Dismiss):
		if !m.revealed {
			return m, nil
		}
		view := m.view
		return m, func() tea.Msg {
			view.EmitAction(map[string]any{"action": host.ActionClose})
			return nil
		}
	}
	return m, nil
}

func (m model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		m.input.Blur()
		return m, nil
	case "enter":
		version := m.input.Value()
		m.editing = false
		m.input.Blur()
		if version != "" {
			m.ctrl.UpdatePayload(map[string]any{"version": version})
			m.status = "update pushed: version " + version
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// ---------------------------------------------------------------------------
// View
// ---------------------------------------------------------------------------

func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return m.status
	}

	titleBar := padRight(titleBarStyle.Render(appName+" - host window"), m.width)

	bodyRows := m.height - 2
	if bodyRows < 0 {
		bodyRows = 0
	}
	lines := make([]string, 0, m.height)
	lines = append(lines, titleBar)
	for i := 0; i < bodyRows; i++ {
		lines = append(lines, "")
	}
	if !m.revealed && !m.closed && bodyRows > 1 {
		lines[1+bodyRows/2] = lipgloss.PlaceHorizontal(m.width, lipgloss.Center, hintStyle.Render("waiting for notification…"))
	}
	lines = append(lines, m.footer())

	var base string
	for i, line := range lines {
		if i > 0 {
			base += "\n"
		}
		base += line
	}

	if m.revealed && m.frame != "" {
		return compositeAt(base, m.frame, m.rect.X, m.rect.Y, m.width)
	}
	return base
}

func (m model) footer() string {
	if m.editing {
		return statusStyle.Render("new version: ") + m.input.View()
	}
	help := ""
	for i, b := range m.keys.ShortHelp() {
		if i > 0 {
			help += "  "
		}
		help += hintStyle.Render(b.Help().Key + " " + b.Help().Desc)
	}
	return padRight(statusStyle.Render(m.status)+"  "+help, m.width)
}

// ---------------------------------------------------------------------------
// Wiring
// ---------------------------------------------------------------------------

// Run assembles the whole demo (bridge pair, template view, host
// controller, terminal program) and blocks until the user quits.
func Run(ctx context.Context, cfg config.Config, catalogue *locale.Catalogue) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	hostEnd, templateEnd := bridge.Pair()
	defer hostEnd.Close()

	// Controller and view publish into a buffered channel pumped into the
	// program, so nothing emitted during startup is lost.
	msgs := make(chan tea.Msg, 16)

	view := template.NewView(
		templateEnd,
		cfg.Lang.Fallback,
		time.Duration(cfg.Report.Debounce)*time.Millisecond,
		func(frame string) { msgs <- frameMsg{frame: frame} },
	)
	ctrl := host.NewController(
		hostEnd,
		catalogue,
		cfg.Lang.Default,
		cfg.Window.Margin,
		map[string]any{"app": appName, "version": demoVersions[0]},
		func(ev host.Event) { msgs <- hostEventMsg{event: ev} },
	)

	program := tea.NewProgram(newModel(ctrl, view, catalogue.Languages()), tea.WithAltScreen())

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-msgs:
				program.Send(msg)
			}
		}
	}()
	go ctrl.Serve(ctx)
	go view.Run(ctx)

	_, err := program.Run()
	return err
}
