package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/estate/internal/history"
)

// HistoryManagerStore defines the history operations needed by the manager
type HistoryManagerStore interface {
	ListConversations() ([]*history.Conversation, error)
	DeleteConversation(id string) error
	UpdateTitle(id, title string) error
}

// HistoryManagerMode represents the current mode of the manager
type HistoryManagerMode int

const (
	ModeNormal HistoryManagerMode = iota
	ModeRename
	ModeSearch
	ModeConfirmDelete
)

// historyManagerLoadedMsg is sent when conversations are loaded
type historyManagerLoadedMsg struct {
	conversations []*history.Conversation
	err           error
}

// HistoryManagerModel lists saved chat sessions and lets the user open,
// rename, search and delete them
type HistoryManagerModel struct {
	store HistoryManagerStore

	conversations         []*history.Conversation
	filteredConversations []*history.Conversation

	cursor int

	loading bool
	err     error
	mode    HistoryManagerMode

	renameInput textinput.Model
	renameID    string

	searchInput textinput.Model
	searchQuery string

	deleteID    string
	deleteTitle string

	selectedConv *history.Conversation
	feedback     string

	width  int
	height int
	ready  bool
}

// NewHistoryManagerModel creates a new history manager model
func NewHistoryManagerModel(store HistoryManagerStore) HistoryManagerModel {
	renameInput := textinput.New()
	renameInput.Placeholder = "New title..."
	renameInput.CharLimit = 100

	searchInput := textinput.New()
	searchInput.Placeholder = "Search titles..."
	searchInput.CharLimit = 50

	return HistoryManagerModel{
		store:       store,
		loading:     true,
		mode:        ModeNormal,
		renameInput: renameInput,
		searchInput: searchInput,
	}
}

// Init starts loading conversations
func (m HistoryManagerModel) Init() tea.Cmd {
	return m.loadConversations()
}

func (m HistoryManagerModel) loadConversations() tea.Cmd {
	return func() tea.Msg {
		conversations, err := m.store.ListConversations()
		if err != nil {
			return historyManagerLoadedMsg{err: err}
		}
		return historyManagerLoadedMsg{conversations: conversations}
	}
}

// Update handles messages and updates the model
func (m HistoryManagerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case historyManagerLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.conversations = msg.conversations
			m.applyFilter()
		}

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}

		switch m.mode {
		case ModeRename:
			return m.updateRenameMode(msg)
		case ModeSearch:
			return m.updateSearchMode(msg)
		case ModeConfirmDelete:
			return m.updateConfirmDeleteMode(msg)
		default:
			return m.updateNormalMode(msg)
		}
	}

	return m, nil
}

func (m HistoryManagerModel) updateNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc", "q":
		return m, tea.Quit

	case "up", "k":
		if len(m.filteredConversations) > 0 {
			m.cursor--
			if m.cursor < 0 {
				m.cursor = len(m.filteredConversations) - 1
			}
		}

	case "down", "j":
		if len(m.filteredConversations) > 0 {
			m.cursor++
			if m.cursor >= len(m.filteredConversations) {
				m.cursor = 0
			}
		}

	case "enter":
		if len(m.filteredConversations) > 0 {
			m.selectedConv = m.filteredConversations[m.cursor]
			return m, tea.Quit
		}

	case "r":
		if len(m.filteredConversations) > 0 {
			conv := m.filteredConversations[m.cursor]
			m.mode = ModeRename
			m.renameID = conv.ID
			m.renameInput.SetValue(conv.Title)
			m.renameInput.Focus()
			return m, textinput.Blink
		}

	case "d":
		if len(m.filteredConversations) > 0 {
			conv := m.filteredConversations[m.cursor]
			m.mode = ModeConfirmDelete
			m.deleteID = conv.ID
			m.deleteTitle = conv.Title
		}

	case "/":
		m.mode = ModeSearch
		m.searchInput.SetValue(m.searchQuery)
		m.searchInput.Focus()
		return m, textinput.Blink

	case "home", "g":
		m.cursor = 0

	case "end", "G":
		if len(m.filteredConversations) > 0 {
			m.cursor = len(m.filteredConversations) - 1
		}
	}

	return m, nil
}

func (m HistoryManagerModel) updateRenameMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ModeNormal
		m.renameInput.Blur()
		return m, nil

	case "enter":
		newTitle := strings.TrimSpace(m.renameInput.Value())
		m.mode = ModeNormal
		m.renameInput.Blur()
		if newTitle == "" {
			return m, nil
		}
		if err := m.store.UpdateTitle(m.renameID, newTitle); err != nil {
			m.feedback = fmt.Sprintf("✗ Rename failed: %v", err)
			return m, nil
		}
		m.feedback = fmt.Sprintf("✓ Renamed to '%s'", truncateTitle(newTitle, 30))
		return m, m.loadConversations()

	default:
		var cmd tea.Cmd
		m.renameInput, cmd = m.renameInput.Update(msg)
		return m, cmd
	}
}

func (m HistoryManagerModel) updateSearchMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ModeNormal
		m.searchInput.Blur()
		m.searchQuery = ""
		m.applyFilter()
		return m, nil

	case "enter":
		m.searchQuery = strings.TrimSpace(m.searchInput.Value())
		m.mode = ModeNormal
		m.searchInput.Blur()
		m.cursor = 0
		m.applyFilter()
		return m, nil

	default:
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, cmd
	}
}

func (m HistoryManagerModel) updateConfirmDeleteMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.mode = ModeNormal
		if err := m.store.DeleteConversation(m.deleteID); err != nil {
			m.feedback = fmt.Sprintf("✗ Delete failed: %v", err)
			return m, nil
		}
		m.feedback = fmt.Sprintf("✓ Deleted '%s'", truncateTitle(m.deleteTitle, 30))
		if m.cursor >= len(m.filteredConversations)-1 && m.cursor > 0 {
			m.cursor--
		}
		return m, m.loadConversations()

	case "n", "N", "esc":
		m.mode = ModeNormal
	}

	return m, nil
}

// applyFilter narrows the list to titles containing the search query
func (m *HistoryManagerModel) applyFilter() {
	m.filteredConversations = nil
	query := strings.ToLower(m.searchQuery)

	for _, conv := range m.conversations {
		if query != "" && !strings.Contains(strings.ToLower(conv.Title), query) {
			continue
		}
		m.filteredConversations = append(m.filteredConversations, conv)
	}

	if m.cursor >= len(m.filteredConversations) {
		m.cursor = max(0, len(m.filteredConversations)-1)
	}
}

// View renders the TUI
func (m HistoryManagerModel) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	if m.loading {
		return loadingStyle.Render("  Loading conversations...")
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("  Error: %v", m.err))
	}

	contentWidth := max(m.width-4, 40)

	sections := []string{
		m.renderHeader(contentWidth),
		m.renderList(contentWidth),
	}

	if m.feedback != "" {
		sections = append(sections, configFeedbackStyle.Render("  "+m.feedback))
	}

	switch m.mode {
	case ModeRename:
		sections = append(sections, m.renderPrompt("Rename:", m.renameInput.View(), "Enter: Confirm  Esc: Cancel", contentWidth))
	case ModeSearch:
		sections = append(sections, m.renderPrompt("Search:", m.searchInput.View(), "Enter: Search  Esc: Clear", contentWidth))
	case ModeConfirmDelete:
		question := errorStyle.Render(fmt.Sprintf("Delete '%s'?", truncateTitle(m.deleteTitle, 30)))
		sections = append(sections, configPanelStyle.Width(contentWidth).Render(
			lipgloss.JoinVertical(lipgloss.Left, question, hintStyle.Render("  Y: Confirm  N/Esc: Cancel"))))
	}

	sections = append(sections, m.renderStatusBar(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m HistoryManagerModel) renderHeader(width int) string {
	title := configTitleStyle.Render("Chat History")
	count := hintStyle.Render(fmt.Sprintf("  %d saved", len(m.conversations)))

	searchInfo := ""
	if m.searchQuery != "" {
		searchInfo = hintStyle.Render(fmt.Sprintf("  Search: \"%s\"", m.searchQuery))
	}

	return configHeaderStyle.Width(width).Render(lipgloss.JoinHorizontal(lipgloss.Center, title, count, searchInfo))
}

func (m HistoryManagerModel) renderList(width int) string {
	var items []string

	switch {
	case len(m.filteredConversations) == 0 && m.searchQuery != "":
		items = append(items, hintStyle.Render(fmt.Sprintf("  No conversations matching '%s'", m.searchQuery)))
	case len(m.filteredConversations) == 0:
		items = append(items, hintStyle.Render("  No conversations found"))
		items = append(items, hintStyle.Render("  Chat sessions are saved here when save_history is enabled"))
	default:
		maxItems := max(5, (m.height-14)/2)

		scrollOffset := 0
		if m.cursor >= maxItems {
			scrollOffset = m.cursor - maxItems + 1
		}
		endIdx := min(scrollOffset+maxItems, len(m.filteredConversations))

		if scrollOffset > 0 {
			items = append(items, hintStyle.Render("  ↑ more..."))
		}
		for i := scrollOffset; i < endIdx; i++ {
			items = append(items, m.renderItem(i, m.filteredConversations[i]))
		}
		if endIdx < len(m.filteredConversations) {
			items = append(items, hintStyle.Render("  ↓ more..."))
		}
	}

	return configPanelStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, items...))
}

func (m HistoryManagerModel) renderItem(index int, conv *history.Conversation) string {
	cursor := "  "
	itemStyle := configMenuItemStyle
	if index == m.cursor {
		cursor = configCursorStyle.Render("▸ ")
		itemStyle = configMenuSelectedStyle
	}

	indexStr := configValueStyle.Render(fmt.Sprintf("%2d.", index+1))
	title := itemStyle.Render(truncateTitle(conv.Title, 40))
	info := configValueStyle.Render(fmt.Sprintf(" (%d questions, %s)",
		conv.Questions(), history.FormatRelativeTime(conv.UpdatedAt)))

	return fmt.Sprintf("%s%s %s%s", cursor, indexStr, title, info)
}

func (m HistoryManagerModel) renderPrompt(label, input, hint string, width int) string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		configSectionTitleStyle.Render(label),
		input,
		hintStyle.Render("  "+hint),
	)
	return configPanelStyle.Width(width).Render(content)
}

func (m HistoryManagerModel) renderStatusBar(width int) string {
	var shortcuts []shortcut
	switch m.mode {
	case ModeRename:
		shortcuts = []shortcut{{"Enter", "Save"}, {"Esc", "Cancel"}}
	case ModeSearch:
		shortcuts = []shortcut{{"Enter", "Search"}, {"Esc", "Cancel"}}
	case ModeConfirmDelete:
		shortcuts = []shortcut{{"Y", "Delete"}, {"N", "Cancel"}}
	default:
		shortcuts = []shortcut{
			{"↑↓", "Nav"},
			{"Enter", "Open"},
			{"r", "Rename"},
			{"d", "Del"},
			{"/", "Search"},
			{"q", "Quit"},
		}
	}
	return renderShortcuts(configStatusBarStyle, width, shortcuts)
}

// Selected returns the conversation chosen with Enter, or nil
func (m HistoryManagerModel) Selected() *history.Conversation {
	return m.selectedConv
}

// RunHistoryManager starts the history manager and returns the conversation
// the user opened, or nil when they quit
func RunHistoryManager(store HistoryManagerStore) (*history.Conversation, error) {
	p := tea.NewProgram(NewHistoryManagerModel(store), tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}
	if hm, ok := finalModel.(HistoryManagerModel); ok {
		return hm.Selected(), nil
	}
	return nil, nil
}

// truncateTitle shortens a title to maxLen runes
func truncateTitle(title string, maxLen int) string {
	runes := []rune(title)
	if len(runes) <= maxLen {
		return title
	}
	return string(runes[:maxLen]) + "..."
}
