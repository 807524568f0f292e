package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/estate/internal/models"
	"github.com/diogo/estate/internal/render"
)

// PropertySource fetches one page of the property table
type PropertySource interface {
	Properties(ctx context.Context, filter models.PropertyFilter) (*models.PropertyPage, error)
}

// propertiesLoadedMsg carries the result of a page fetch
type propertiesLoadedMsg struct {
	// filter is the page asked for; shown is the one page belongs to
	filter models.PropertyFilter
	shown  models.PropertyFilter
	page   *models.PropertyPage
	err    error
}

// PropertiesModel pages through the analysed properties
type PropertiesModel struct {
	ctx    context.Context
	source PropertySource

	// filter is the page asked for; shown is the one page belongs to
	filter models.PropertyFilter
	shown  models.PropertyFilter
	page   *models.PropertyPage

	spinner spinner.Model
	loading bool
	err     error

	width  int
	height int
}

// NewPropertiesModel creates a browser starting at filter
func NewPropertiesModel(ctx context.Context, source PropertySource, filter models.PropertyFilter) PropertiesModel {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PerPage < 1 {
		filter.PerPage = models.DefaultPerPage
	}

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	return PropertiesModel{
		ctx:     ctx,
		source:  source,
		filter:  filter,
		spinner: s,
		loading: true,
		width:   120,
	}
}

// Init loads the first page
func (m PropertiesModel) Init() tea.Cmd {
	return tea.Batch(m.fetch(m.filter), m.spinner.Tick)
}

func (m PropertiesModel) fetch(filter models.PropertyFilter) tea.Cmd {
	ctx, source := m.ctx, m.source
	return func() tea.Msg {
		page, err := source.Properties(ctx, filter)
		return propertiesLoadedMsg{filter: filter, page: page, err: err}
	}
}

// load switches to filter and fetches its page
func (m PropertiesModel) load(filter models.PropertyFilter) (tea.Model, tea.Cmd) {
	m.filter = filter
	m.loading = true
	m.err = nil
	return m, tea.Batch(m.fetch(filter), m.spinner.Tick)
}

// Update handles messages
func (m PropertiesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case propertiesLoadedMsg:
		// a slower response for a page we already left
		if msg.filter != m.filter {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.page = msg.page
			m.shown = msg.filter
		} else if m.page != nil {
			// paging resumes from the table still on screen
			m.filter = m.shown
		}
		return m, nil

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
		if m.loading {
			return m, nil
		}

		switch msg.String() {
		case "left", "h":
			if m.CanPrev() {
				next := m.filter
				next.Page--
				return m.load(next)
			}
		case "right", "l":
			if m.CanNext() {
				next := m.filter
				next.Page++
				return m.load(next)
			}
		case "r":
			return m.load(m.filter.Reset())
		case "d":
			next := m.filter
			next.Decision = nextDecision(next.Decision)
			next.Page = 1
			return m.load(next)
		}
	}
	return m, nil
}

// nextDecision cycles all, buy, rent
func nextDecision(d string) string {
	switch d {
	case "":
		return models.DecisionBuy
	case models.DecisionBuy:
		return models.DecisionRent
	default:
		return ""
	}
}

// CanPrev reports whether the previous page control is enabled
func (m PropertiesModel) CanPrev() bool {
	return m.page != nil && m.page.HasPrev()
}

// CanNext reports whether the next page control is enabled
func (m PropertiesModel) CanNext() bool {
	return m.page != nil && m.page.HasNext()
}

// Filter returns the active filter
func (m PropertiesModel) Filter() models.PropertyFilter {
	return m.filter
}

// View renders the browser
func (m PropertiesModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Properties"))
	b.WriteString(hintStyle.Render("  " + filterSummary(m.filter)))
	b.WriteString("\n\n")

	switch {
	case m.loading && m.page == nil:
		b.WriteString(m.spinner.View() + loadingStyle.Render(" Loading properties..."))
	case m.err != nil:
		b.WriteString(FormatError(m.err))
	default:
		b.WriteString(renderPropertyTable(m.page))
		if m.loading {
			b.WriteString("\n" + m.spinner.View() + loadingStyle.Render(" Loading..."))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(m.renderPager())
	b.WriteString("\n")
	b.WriteString(renderShortcuts(statusBarStyle, m.width, []shortcut{
		{"←/→", "Page"},
		{"d", "Decision"},
		{"r", "Reset"},
		{"q", "Quit"},
	}))
	return b.String()
}

func (m PropertiesModel) renderPager() string {
	prev := pagerMutedStyle.Render("← Prev")
	if m.CanPrev() {
		prev = pagerActiveStyle.Render("← Prev")
	}
	next := pagerMutedStyle.Render("Next →")
	if m.CanNext() {
		next = pagerActiveStyle.Render("Next →")
	}

	footer := render.PageFooter(&models.PropertyPage{Page: m.filter.Page})
	if m.page != nil {
		footer = fmt.Sprintf("%s · %s properties", render.PageFooter(m.page), render.FormatNumber(float64(m.page.Total)))
	}
	return prev + "   " + subtitleStyle.Render(footer) + "   " + next
}

// filterSummary describes the active filters in one line
func filterSummary(f models.PropertyFilter) string {
	var parts []string
	if f.City != "" {
		parts = append(parts, "city: "+f.City)
	}
	if f.Decision != "" {
		parts = append(parts, "decision: "+f.Decision)
	}
	if f.MinPrice > 0 {
		parts = append(parts, "min: ₹"+render.FormatNumber(f.MinPrice))
	}
	if f.MaxPrice > 0 {
		parts = append(parts, "max: ₹"+render.FormatNumber(f.MaxPrice))
	}
	if len(parts) == 0 {
		return "all properties"
	}
	return strings.Join(parts, " · ")
}

// renderPropertyTable lays the page out in fixed-width columns
func renderPropertyTable(page *models.PropertyPage) string {
	if page == nil || len(page.Properties) == 0 {
		return hintStyle.Render(render.MessageNoProperties)
	}

	headers := render.PropertyColumns()
	rows := make([][]string, len(page.Properties))
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for r, p := range page.Properties {
		rows[r] = render.PropertyRow(p)
		for i, cell := range rows[r] {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	var b strings.Builder
	for i, h := range headers {
		b.WriteString(tableHeaderStyle.Width(widths[i] + 2).Render(h))
	}
	for _, row := range rows {
		b.WriteString("\n")
		last := len(row) - 1
		for i, cell := range row {
			style := tableCellStyle
			if i == last {
				style = decisionStyle(cell)
			}
			b.WriteString(style.Width(widths[i] + 2).Render(cell))
		}
	}
	return b.String()
}

func decisionStyle(badge string) lipgloss.Style {
	switch badge {
	case strings.ToUpper(models.DecisionBuy):
		return buyBadgeStyle
	case strings.ToUpper(models.DecisionRent):
		return rentBadgeStyle
	default:
		return tableCellStyle
	}
}

// RunProperties opens the property browser and blocks until the user quits
func RunProperties(ctx context.Context, source PropertySource, filter models.PropertyFilter) error {
	p := tea.NewProgram(NewPropertiesModel(ctx, source, filter), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
