// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mgorbunov/plately/internal/model"
	"github.com/mgorbunov/plately/internal/stats"
	"github.com/mgorbunov/plately/internal/store"
)

const (
	tabOverview = iota
	tabPlates
	tabRare
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	tierStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
)

// Model implements the Bubble Tea stats UI.
type Model struct {
	store *store.Store
	cfg   model.StatsConfig

	report stats.Report
	errMsg string
	window int

	tabs        []string
	activeTab   int
	viewports   []viewport.Model
	plateTable  table.Model
	plateLayout tableLayout

	width  int
	height int
}

type tableLayout struct {
	width    int
	height   int
	rowCount int
}

// NewModel constructs a stats UI model.
func NewModel(st *store.Store, cfg model.StatsConfig) *Model {
	m := &Model{
		store:  st,
		cfg:    cfg,
		window: 5,
		tabs:   []string{"Overview", "Plate Bests", "Rare Words"},
	}
	m.initViewports()
	m.initPlateTable()
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "=":
			m.window += 5
			m.renderTabContents()
			return m, nil
		case "-":
			if m.window > 5 {
				m.window -= 5
			} else {
				m.window = 1
			}
			m.renderTabContents()
			return m, nil
		case "g", "home":
			if m.activeTab == tabPlates {
				m.plateTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabPlates {
				m.plateTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabPlates {
				var cmd tea.Cmd
				m.plateTable, cmd = m.plateTable.Update(msg)
				return m, cmd
			}
			vp := m.viewports[m.activeTab]
			var cmd tea.Cmd
			vp, cmd = vp.Update(msg)
			m.viewports[m.activeTab] = vp
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) initPlateTable() {
	m.plateTable = table.New(
		table.WithColumns(plateColumns()),
		table.WithHeight(1),
	)
	m.plateTable.SetStyles(plateTableStyles())
	m.plateTable.Focus()
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, vpHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = vpHeight
	}
	m.setPlateTableSize(m.width, vpHeight)
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabPlates {
		m.plateTable.Focus()
	} else {
		m.plateTable.Blur()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	summary := fmt.Sprintf("Lifetime stats  window=%d", m.window)
	if m.cfg.Last > 0 {
		summary += fmt.Sprintf("  last=%d", m.cfg.Last)
	}
	line := padLines(headerStyle.Render(truncateLine(summary, m.width)), m.width)
	return tabs + "\n" + line
}

func (m *Model) renderFooter() string {
	help := headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderBody(height int) string {
	if m.activeTab == tabPlates {
		if len(m.report.TopPlates) == 0 {
			return fitLines("No plate records yet.", m.width, height)
		}
		view := tableMutedStyle.Render(m.plateTable.View())
		return fitLines(view, m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.store, m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load stats.")
		}
		return
	}
	m.errMsg = ""
	m.report = report
	width := m.width
	if width <= 0 {
		width = 80
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.applyPlateTable(width, bodyHeight)
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 {
		return
	}
	if m.errMsg != "" {
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load stats.")
		}
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.report, m.window, width))
	m.viewports[tabRare].SetContent(renderRareWords(m.report.Stats))
}

func renderOverview(report stats.Report, window, width int) string {
	if report.Summary.GamesPlayed == 0 {
		return "No games played yet."
	}
	summary := renderSummaryCards(report.Summary, width)
	curve := renderScoreCurve(report.ScoreCurve, window, width)
	return strings.TrimRight(summary+"\n\n"+curve, "\n")
}

func renderSummaryCards(s stats.Summary, width int) string {
	cards := []string{
		metricCard("Games", fmt.Sprintf("%d", s.GamesPlayed)),
		metricCard("Best Score", fmt.Sprintf("%d", s.BestScore)),
		metricCard("Avg Score", fmt.Sprintf("%.1f", s.AverageScore)),
		metricCard("Best Combo", fmt.Sprintf("x%d", s.BestCombo)),
		metricCard("Best Mult", fmt.Sprintf("%.2fx", s.BestMultiplier)),
		metricCard("Plates", fmt.Sprintf("%d", s.UniquePlates)),
		metricCard("Rare Words", fmt.Sprintf("%d", s.RareWordsFound)),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2], cards[3])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[4], cards[5], cards[6])
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderScoreCurve(values []float64, window, width int) string {
	if len(values) == 0 {
		return "No score history yet."
	}
	if width > 8 && len(values) > width-8 {
		values = values[len(values)-(width-8):]
	}
	smoothed := stats.MovingAverage(values, window)
	lines := []string{
		headerStyle.Render("Score History"),
		"raw    " + stats.Sparkline(values),
		"smooth " + stats.Sparkline(smoothed),
	}
	return strings.Join(lines, "\n")
}

func renderRareWords(lifetime *model.LifetimeStats) string {
	total := 0
	for _, words := range lifetime.RareWordsByTier {
		total += len(words)
	}
	if total == 0 {
		return "No rare words found yet."
	}
	var lines []string
	for _, tier := range model.AllTiers() {
		words := lifetime.RareWordsByTier[tier]
		if len(words) == 0 {
			continue
		}
		lines = append(lines, tierStyle.Render(tier.Label()))
		lines = append(lines, "  "+strings.Join(words, ", "))
	}
	return strings.Join(lines, "\n")
}

func plateColumns() []table.Column {
	return []table.Column{
		{Title: "Plate", Width: 6},
		{Title: "Best", Width: 6},
		{Title: "Rarest Word", Width: 20},
		{Title: "Previous", Width: 8},
	}
}

func plateRows(rows []stats.PlateBestRow) []table.Row {
	out := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		prev := "-"
		if r.PreviousBest > 0 {
			prev = fmt.Sprintf("%d", r.PreviousBest)
		}
		out = append(out, table.Row{
			strings.ToUpper(r.Letters),
			fmt.Sprintf("%d", r.Score),
			r.RarestWord,
			prev,
		})
	}
	return out
}

func (m *Model) applyPlateTable(width, height int) {
	rows := plateRows(m.report.TopPlates)
	m.plateTable.SetColumns(plateColumns())
	m.plateTable.SetRows(rows)
	m.plateLayout.rowCount = len(rows)
	m.setPlateTableSize(width, height)
}

func (m *Model) setPlateTableSize(width, height int) {
	viewportHeight := maxInt(1, height-1)
	if m.plateLayout.width == width && m.plateLayout.height == viewportHeight {
		return
	}
	m.plateLayout.width = width
	m.plateLayout.height = viewportHeight
	m.plateTable.SetWidth(width)
	m.plateTable.SetHeight(viewportHeight)
	viewportHeight = m.adjustPlateTableHeight(height)
	if m.plateLayout.height != viewportHeight {
		m.plateLayout.height = viewportHeight
		m.plateTable.SetHeight(viewportHeight)
	}
}

// adjustPlateTableHeight nudges the bubbles table height until its rendered
// view fills the body exactly.
func (m *Model) adjustPlateTableHeight(bodyHeight int) int {
	target := maxInt(1, bodyHeight)
	height := m.plateTable.Height()
	viewHeight := lipgloss.Height(m.plateTable.View())
	if viewHeight == target {
		return height
	}
	height += target - viewHeight
	if height < 1 {
		height = 1
	}
	m.plateTable.SetHeight(height)
	viewHeight = lipgloss.Height(m.plateTable.View())
	if viewHeight == target {
		return height
	}
	height += target - viewHeight
	if height < 1 {
		height = 1
	}
	return height
}

func plateTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
