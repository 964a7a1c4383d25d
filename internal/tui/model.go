// Package tui provides the Bubble Tea play interface.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mgorbunov/plately/internal/game"
	"github.com/mgorbunov/plately/internal/model"
	"github.com/mgorbunov/plately/internal/rules"
	"github.com/mgorbunov/plately/internal/session"
)

// tickMsg and hintMsg carry the round generation they were scheduled for so
// events from a superseded round are dropped.
type tickMsg struct {
	round int
}

type hintMsg struct {
	round int
}

// Model implements the Bubble Tea play UI.
type Model struct {
	config model.Config
	engine *game.Engine

	input textinput.Model

	width  int
	height int

	round     int
	remaining int
	snap      session.Snapshot
	message   string
	msgStyle  lipgloss.Style
	hint      string
	lastScore int
	ended     bool
}

var (
	plateStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tierStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	timerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#73D487"))
	badStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6FA8DC")).Italic(true)
	foundStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	waitingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Italic(true)
)

// NewModel constructs a play TUI model and starts the first round.
func NewModel(cfg model.Config, engine *game.Engine) *Model {
	input := textinput.New()
	input.Placeholder = "type a word"
	input.CharLimit = 32
	input.Width = 32
	input.Focus()

	m := &Model{config: cfg, engine: engine, input: input}
	m.startRound()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.roundCmds())
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		return m.handleTick(msg)
	case hintMsg:
		return m.handleHint(msg)
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			m.engine.EndRound()
			return m, tea.Quit
		case tea.KeyCtrlN:
			m.startRound()
			return m, m.roundCmds()
		case tea.KeyEnter:
			if m.ended {
				m.startRound()
				return m, m.roundCmds()
			}
			m.handleSubmit()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleTick(msg tickMsg) (tea.Model, tea.Cmd) {
	if msg.round != m.round || m.ended {
		return m, nil
	}
	// A round begun before the dataset resolved plays the placeholder;
	// restart onto a real plate as soon as loading finishes.
	if m.snap.Plate.Letters == model.PlaceholderPlate.Letters && m.engine.Ready() {
		m.startRound()
		return m, m.roundCmds()
	}
	m.remaining--
	if m.remaining > 0 {
		return m, tickCmd(m.round)
	}
	if score, ok := m.engine.RoundExpired(msg.round); ok {
		m.finishRound(score)
	}
	return m, nil
}

func (m *Model) handleHint(msg hintMsg) (tea.Model, tea.Cmd) {
	if msg.round != m.round || m.ended {
		return m, nil
	}
	if h := m.engine.Hint(msg.round); h != "" {
		m.hint = h
	}
	return m, hintCmd(m.round, time.Duration(m.config.HintEverySec)*time.Second)
}

func (m *Model) handleSubmit() {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return
	}
	res := m.engine.Submit(text)
	m.snap = res.Snapshot
	m.input.SetValue("")

	switch res.Verdict {
	case rules.VerdictOK:
		m.message = fmt.Sprintf("+%d %s", res.Points, res.Word)
		m.msgStyle = okStyle
	default:
		m.message = res.Verdict.Message()
		m.msgStyle = badStyle
	}
}

func (m *Model) startRound() {
	m.snap = m.engine.StartRound()
	m.round = m.engine.Round()
	m.remaining = m.config.RoundSeconds
	m.message = ""
	m.hint = ""
	m.ended = false
	m.input.SetValue("")
}

func (m *Model) finishRound(score int) {
	m.lastScore = score
	m.ended = true
	if snap, ok := m.engine.Snapshot(); ok {
		m.snap = snap
	}
	m.message = fmt.Sprintf("time! plate score %d · enter or ctrl+n for the next plate", score)
	m.msgStyle = timerStyle
}

func (m *Model) roundCmds() tea.Cmd {
	return tea.Batch(
		tickCmd(m.round),
		hintCmd(m.round, time.Duration(m.config.HintDelaySec)*time.Second),
	)
}

func tickCmd(round int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{round: round}
	})
}

func hintCmd(round int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return hintMsg{round: round}
	})
}

// View implements tea.Model.
func (m *Model) View() string {
	contentWidth := clampWidth(m.width)
	lines := []string{
		m.renderPlate(),
		"",
		m.input.View(),
	}
	if m.message != "" {
		lines = append(lines, "", m.msgStyle.Render(wrapText(m.message, contentWidth)))
	}
	if m.hint != "" && !m.ended {
		lines = append(lines, "", hintStyle.Render(wrapText("hint: "+m.hint, contentWidth)))
	}
	if len(m.snap.Found) > 0 {
		found := strings.Join(m.snap.Found, "  ")
		lines = append(lines, "", foundStyle.Render(wrapText(found, contentWidth)))
	}
	content := strings.Join(lines, "\n")

	if m.width == 0 || m.height == 0 {
		return content + "\n" + m.renderFooter()
	}
	footer := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, m.renderFooter())
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	return body + "\n" + footer
}

func (m *Model) renderPlate() string {
	plate := m.snap.Plate
	if plate.Letters == model.PlaceholderPlate.Letters && !m.engine.Ready() {
		if err := m.engine.LoadErr(); err != nil {
			return badStyle.Render(fmt.Sprintf("dataset failed to load: %v", err))
		}
		return waitingStyle.Render("loading dataset...")
	}

	letters := strings.ToUpper(strings.Join(strings.Split(plate.Letters, ""), " "))
	header := plateStyle.Render(letters)
	meta := tierStyle.Render(fmt.Sprintf("%s · %d words", plate.Tier.Label(), plate.SolutionCount))
	timer := timerStyle.Render(fmt.Sprintf("%d:%02d", m.remaining/60, m.remaining%60))
	return header + "   " + meta + "   " + timer
}

func (m *Model) renderFooter() string {
	segments := make([]string, 0, 4)
	if m.snap.Mode == model.ModeEnsemble {
		segments = append(segments,
			fmt.Sprintf("Score %d", m.snap.Score),
			fmt.Sprintf("Found %d/%d", m.snap.SolutionsFound, m.snap.SolutionsTotal),
		)
	} else {
		segments = append(segments, fmt.Sprintf("Score %d", m.snap.Score))
		if m.snap.Combo > 1 {
			segments = append(segments, fmt.Sprintf("Combo x%d (+%d)", m.snap.Combo, m.snap.ComboPoints))
		}
		if m.snap.BankedPoints > 0 {
			segments = append(segments, fmt.Sprintf("Bank %d", m.snap.BankedPoints))
		}
		segments = append(segments, fmt.Sprintf("Mult %.2f", m.snap.Multiplier))
	}
	if best := m.engine.Lifetime().BestScore; best > 0 {
		segments = append(segments, fmt.Sprintf("Best %d", best))
	}
	segments = append(segments, "ctrl+n next · ctrl+c quit")
	return footerStyle.Render(strings.Join(segments, "  "))
}
