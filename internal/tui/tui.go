package tui

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tatianab/pirate-latitudes/internal/engine"
	"github.com/tatianab/pirate-latitudes/internal/models"
)

const defaultPlayer = "Captain"

type sessionState int

const (
	stateInputName sessionState = iota
	statePlaying
	stateOver
)

type model struct {
	state     sessionState
	engine    *engine.Engine
	game      *models.GameState
	textInput textinput.Model
	viewport  viewport.Model
	gameLog   string
	width     int
	height    int
	busy      bool
	status    engine.Status
}

var (
	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true).
			PaddingLeft(1)

	gameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	sceneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	stateStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)
)

func NewModel(eng *engine.Engine) model {
	ti := textinput.New()
	ti.Placeholder = "What is your name, pirate?"
	ti.Focus()
	ti.CharLimit = 156
	ti.Width = 40

	return model{
		state:     stateInputName,
		engine:    eng,
		textInput: ti,
		status:    engine.StatusPlaying,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

type stepMsg struct {
	game   *models.GameState
	result engine.Result
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyEnter:
			switch m.state {
			case stateInputName:
				name := strings.TrimSpace(m.textInput.Value())
				if name == "" {
					name = defaultPlayer
				}
				m.game = models.NewGameState(name)
				m.state = statePlaying
				if m.viewport.Width == 0 {
					m.viewport = viewport.New(m.logWidth(), max(m.height-6, 1))
				}
				m.appendResult(m.engine.Start(m.game))
				m.textInput.Placeholder = "What do you do?"
				m.textInput.Reset()
				return m, nil

			case statePlaying:
				action := m.textInput.Value()
				if strings.TrimSpace(action) == "" || m.busy {
					return m, nil
				}
				m.textInput.Reset()
				m.busy = true

				styledAction := userStyle.Width(m.logWidth()).Render("> " + action)
				m.gameLog += styledAction + "\n\n"
				m.viewport.SetContent(m.gameLog)
				m.viewport.GotoBottom()
				return m, m.step(action)

			case stateOver:
				return m, tea.Quit
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = m.logWidth()
		m.viewport.Height = max(msg.Height-6, 1)
		if m.state != stateInputName {
			m.viewport.SetContent(m.gameLog)
		}

	case stepMsg:
		m.busy = false
		m.game = msg.game
		m.appendResult(msg.result)
		if msg.result.Over() {
			m.state = stateOver
			m.status = msg.result.Status
			m.textInput.Blur()
		}
		return m, nil
	}

	if m.state == stateInputName || m.state == statePlaying {
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *model) appendResult(res engine.Result) {
	width := m.logWidth()
	for _, line := range res.Lines {
		style := gameStyle
		if strings.HasPrefix(line, "--- ") {
			style = sceneStyle
		}
		m.gameLog += style.Width(width).Render(line) + "\n\n"
	}
	m.viewport.SetContent(m.gameLog)
	m.viewport.GotoBottom()
}

func (m model) logWidth() int {
	if m.width == 0 {
		return 80
	}
	return int(float64(m.width) * 0.75)
}

func (m model) View() string {
	var s string

	switch m.state {
	case stateInputName:
		s = fmt.Sprintf(
			"Pirate Latitudes\n\n%s\n\n%s",
			"Before you climb aboard, tell the quartermaster your name:",
			m.textInput.View(),
		)

	case statePlaying, stateOver:
		mainView := lipgloss.JoinHorizontal(lipgloss.Top,
			m.viewport.View(),
			m.renderState(),
		)

		footer := "\n" + m.textInput.View()
		help := "Type 'help' for commands, 'save' to keep your progress, 'quit' to leave."
		if m.busy {
			help = "The tide turns..."
		}
		if m.state == stateOver {
			footer = ""
			help = endBanner(m.status) + " Press Enter or Esc to leave."
		}

		s = lipgloss.JoinVertical(lipgloss.Left,
			mainView,
			footer,
			"\n"+helpStyle.Render(help),
		)
	}

	return "\n" + s + "\n"
}

func endBanner(status engine.Status) string {
	switch status {
	case engine.StatusWon:
		return "The treasure is yours."
	case engine.StatusLost:
		return "You have perished."
	default:
		return "Farewell."
	}
}

func (m model) renderState() string {
	if m.game == nil {
		return ""
	}
	g := m.game

	sceneName := string(g.Scene)
	if scene, ok := m.engine.World().Scene(g.Scene); ok {
		sceneName = scene.Title
	}
	location := titleStyle.Render("LOCATION") + "\n" + sceneName + "\n\n"

	stats := titleStyle.Render("STATS") + "\n"
	stats += fmt.Sprintf("Health: %d\nReputation: %d\n", g.Health, g.Reputation)
	for _, skill := range slices.Sorted(maps.Keys(g.Skills)) {
		stats += fmt.Sprintf("%s: %d\n", skill, g.Skills[skill])
	}
	stats += "\n"

	inventory := titleStyle.Render("INVENTORY") + "\n"
	if len(g.Inventory) == 0 {
		inventory += "(empty)\n"
	} else {
		for _, item := range g.Inventory {
			inventory += "- " + item + "\n"
		}
	}
	inventory += "\n"

	achievements := titleStyle.Render("ACHIEVEMENTS") + "\n"
	if len(g.Achievements) == 0 {
		achievements += "(none)"
	} else {
		for _, a := range g.Achievements {
			achievements += "- " + a + "\n"
		}
	}

	content := location + stats + inventory + achievements

	stateWidth := int(float64(m.width) * 0.23) // Leave some room for padding
	return stateStyle.Width(stateWidth).Height(m.viewport.Height).Render(content)
}

// step runs the turn on a copy so View never reads a state the engine is
// still writing.
func (m model) step(action string) tea.Cmd {
	next := m.game.Clone()
	eng := m.engine
	return func() tea.Msg {
		res := eng.Step(context.Background(), next, action)
		return stepMsg{game: next, result: res}
	}
}

func Run(eng *engine.Engine) error {
	p := tea.NewProgram(NewModel(eng), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
