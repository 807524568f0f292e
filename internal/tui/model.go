package tui

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/diogo/estate/internal/models"
	"github.com/diogo/estate/internal/relay"
	"github.com/diogo/estate/internal/render"
)

// WelcomeMessage is the first assistant bubble; /clear never removes it
const WelcomeMessage = "Hi! Ask me about the analysed properties: prices, locations, " +
	"or whether to buy or rent. Try \"average price in pune\"."

// Message types for the TUI. The relay runs in a command goroutine and talks
// to the model only through these.
type (
	turnMsg struct {
		turn models.Turn
	}
	inputValueMsg  string
	sendEnabledMsg bool
	focusMsg       struct{}
	submitDoneMsg  struct {
		seq      int
		accepted bool
	}
)

// TurnRecorder persists the turns of a session
type TurnRecorder interface {
	Record(turn models.Turn)
	Reset()
}

// bridge implements the relay's collaborators by posting messages to the program
type bridge struct {
	events chan tea.Msg
	done   chan struct{}
	once   sync.Once

	mu    sync.Mutex
	value string
}

func newBridge() *bridge {
	return &bridge{
		events: make(chan tea.Msg, 16),
		done:   make(chan struct{}),
	}
}

func (b *bridge) post(msg tea.Msg) {
	select {
	case b.events <- msg:
	case <-b.done:
	}
}

func (b *bridge) AppendTurn(turn models.Turn) {
	b.post(turnMsg{turn: turn})
}

func (b *bridge) Value() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.value
}

func (b *bridge) SetValue(value string) {
	b.snapshot(value)
	b.post(inputValueMsg(value))
}

func (b *bridge) Focus() {
	b.post(focusMsg{})
}

func (b *bridge) SetEnabled(enabled bool) {
	b.post(sendEnabledMsg(enabled))
}

// snapshot records the input box text the next submission will read
func (b *bridge) snapshot(value string) {
	b.mu.Lock()
	b.value = value
	b.mu.Unlock()
}

func (b *bridge) stop() {
	b.once.Do(func() { close(b.done) })
}

// waitForEvent delivers the next relay event to Update
func waitForEvent(b *bridge) tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-b.events:
			return msg
		case <-b.done:
			return nil
		}
	}
}

// ChatOptions configures the chat screen
type ChatOptions struct {
	// Server is shown in the header
	Server string

	// Recorder saves the session; nil disables history
	Recorder TurnRecorder

	// Logger receives relay debug output; keep it off the alt screen
	Logger *slog.Logger

	// Timeout overrides the per-question deadline
	Timeout time.Duration
}

// Model represents the chat TUI state
type Model struct {
	relay    *relay.Relay
	bridge   *bridge
	recorder TurnRecorder
	server   string

	// parent scopes every submission; cancel aborts the one in flight,
	// numbered seq
	parent context.Context
	cancel context.CancelFunc
	seq    int

	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	turns   []models.Turn
	loading bool
	ready   bool

	width  int
	height int
}

// NewChatModel creates a new chat TUI model
func NewChatModel(ctx context.Context, transport relay.Transport, opts ChatOptions) Model {
	ta := textarea.New()
	ta.Placeholder = "Ask about properties, prices or buy vs rent..."
	ta.CharLimit = 2000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	relayOpts := []relay.Option{relay.WithLogger(logger)}
	if opts.Timeout > 0 {
		relayOpts = append(relayOpts, relay.WithTimeout(opts.Timeout))
	}

	b := newBridge()
	return Model{
		relay:    relay.New(transport, b, b, b, relayOpts...),
		bridge:   b,
		recorder: opts.Recorder,
		server:   opts.Server,
		parent:   ctx,
		textarea: ta,
		spinner:  s,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		waitForEvent(m.bridge),
	)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 4
		inputHeight := 6
		statusHeight := 1
		padding := 2

		vpHeight := max(m.height-headerHeight-inputHeight-statusHeight-padding, 5)
		contentWidth := m.width - 4

		if !m.ready {
			m.viewport = viewport.New(contentWidth, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = contentWidth
			m.viewport.Height = vpHeight
		}
		m.textarea.SetWidth(contentWidth - 4)
		m.updateViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m.quit()

		case "esc":
			if m.loading {
				if m.cancel != nil {
					m.cancel()
				}
				return m, nil
			}
			return m.quit()

		case "enter":
			if m.loading {
				return m, nil
			}
			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}

			switch strings.ToLower(input) {
			case "/exit", "/quit", "exit", "quit":
				return m.quit()
			case "/clear":
				m.clear()
				return m, nil
			}

			m.loading = true
			cmd = m.submit(input)
			return m, tea.Batch(cmd, m.spinner.Tick)
		}

	case turnMsg:
		turn := msg.turn
		turn.Text = ansi.Strip(turn.Text)
		m.turns = append(m.turns, turn)
		if m.recorder != nil {
			m.recorder.Record(turn)
		}
		m.updateViewport()
		m.viewport.GotoBottom()
		return m, waitForEvent(m.bridge)

	case inputValueMsg:
		m.textarea.SetValue(string(msg))
		return m, waitForEvent(m.bridge)

	case sendEnabledMsg:
		m.loading = !bool(msg)
		return m, waitForEvent(m.bridge)

	case focusMsg:
		return m, tea.Batch(m.textarea.Focus(), waitForEvent(m.bridge))

	case submitDoneMsg:
		// a later submission may already own the slot
		if msg.seq != m.seq {
			return m, nil
		}
		m.cancel = nil
		if !msg.accepted {
			m.loading = false
		}
		return m, nil

	case spinner.TickMsg:
		if m.loading {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	// Only pass KeyMsg to textarea to prevent escape sequence leaks
	if !m.loading {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// submit hands the question to the relay on a command goroutine.
// The relay clears the input and appends both turns through the bridge.
func (m *Model) submit(input string) tea.Cmd {
	ctx, cancel := context.WithCancel(m.parent)
	m.seq++
	m.cancel = cancel
	m.bridge.snapshot(input)

	r, seq := m.relay, m.seq
	return func() tea.Msg {
		defer cancel()
		accepted := r.SubmitInput(ctx)
		return submitDoneMsg{seq: seq, accepted: accepted}
	}
}

// clear drops the visible turns and starts a new saved conversation
func (m *Model) clear() {
	m.turns = nil
	m.textarea.Reset()
	if m.recorder != nil {
		m.recorder.Reset()
	}
	m.updateViewport()
	m.viewport.GotoTop()
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.cancel != nil {
		m.cancel()
	}
	m.bridge.stop()
	return m, tea.Quit
}

// Turns returns the turns shown below the welcome banner
func (m Model) Turns() []models.Turn {
	return m.turns
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	contentWidth := m.width - 4

	headerContent := lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render("✦ Property Assistant"),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(m.server),
	)
	header := headerStyle.Width(contentWidth).Render(headerContent)

	messagesPanel := messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(m.viewport.View())

	var inputContent string
	if m.loading {
		inputContent = m.spinner.View() + loadingStyle.Render(" Processing...") +
			hintStyle.Render("  (Esc to cancel)")
	} else {
		inputContent = lipgloss.JoinVertical(
			lipgloss.Left,
			inputLabelStyle.Render("You"),
			m.textarea.View(),
		)
	}
	inputPanel := inputPanelStyle.Width(contentWidth).Render(inputContent)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		messagesPanel,
		inputPanel,
		m.renderStatusBar(contentWidth),
	)
}

// renderStatusBar renders the bottom status bar with shortcuts
func (m Model) renderStatusBar(width int) string {
	shortcuts := []shortcut{
		{"Enter", "Send"},
		{"Esc", "Quit"},
		{"↑↓", "Scroll"},
		{"/clear", "Clear"},
	}
	if m.loading {
		shortcuts = []shortcut{
			{"Esc", "Cancel"},
			{"↑↓", "Scroll"},
		}
	}
	return renderShortcuts(statusBarStyle, width, shortcuts)
}

// updateViewport refreshes the viewport content with styled turns
func (m *Model) updateViewport() {
	var content strings.Builder
	bubbleWidth := m.viewport.Width - 6

	content.WriteString(m.renderAssistant(models.NewAssistantTurn(WelcomeMessage, ""), bubbleWidth))

	for _, turn := range m.turns {
		content.WriteString("\n")
		if turn.IsUser() {
			label := userLabelStyle.Render("⬤ You")
			bubble := userBubbleStyle.Width(bubbleWidth).Render(turn.Text)
			content.WriteString(label + "\n" + bubble + "\n")
			continue
		}
		content.WriteString(m.renderAssistant(turn, bubbleWidth))
	}

	m.viewport.SetContent(content.String())
}

func (m Model) renderAssistant(turn models.Turn, bubbleWidth int) string {
	label := assistantLabelStyle.Render("✦ Assistant")

	rendered := render.PlainText(turn.Text, bubbleWidth-4)
	if turn.ShowSource() {
		rendered += "\n" + sourceStyle.Render("Source: "+turn.Source)
	}

	return label + "\n" + assistantBubbleStyle.Width(bubbleWidth).Render(rendered) + "\n"
}

// RunChat starts the chat TUI and blocks until the user quits
func RunChat(ctx context.Context, transport relay.Transport, opts ChatOptions) error {
	p := tea.NewProgram(
		NewChatModel(ctx, transport, opts),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
