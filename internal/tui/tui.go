// Package tui provides the interactive game screen using Bubble Tea.
package tui

import (
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/talgya/soyu/internal/engine"
	"github.com/talgya/soyu/internal/progression"
	"github.com/talgya/soyu/internal/staff"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginLeft(2)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	activeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	goodStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)
)

// Screen is the part of the game currently shown.
type Screen int

const (
	ScreenSetup Screen = iota
	ScreenPlay
	ScreenEnd
)

// Model is the main TUI model. The game itself is mutated in place; the
// model only carries presentation state.
type Model struct {
	game   *engine.Game
	screen Screen

	name   textinput.Model
	budget textinput.Model

	menu     []staff.ID
	cursor   int
	notice   string
	err      error
	width    int
	quitting bool
}

// New creates a model for g. A game that is already set up starts on the
// play screen.
func New(g *engine.Game) Model {
	name := textinput.New()
	name.Placeholder = "project name"
	name.CharLimit = 60
	name.Width = 40
	name.Focus()

	budget := textinput.New()
	budget.Placeholder = strconv.FormatFloat(g.Config.StartingWallet/10, 'f', 0, 64)
	budget.CharLimit = 16
	budget.Width = 20

	m := Model{game: g, name: name, budget: budget}
	switch {
	case g.State() == engine.Playing:
		m.screen = ScreenPlay
		m.refreshMenu()
	case g.State().Terminal():
		m.screen = ScreenEnd
	}
	return m
}

// Game returns the game being played.
func (m Model) Game() *engine.Game {
	return m.game
}

// Screen is the current screen.
func (m Model) Screen() Screen {
	return m.screen
}

// Init initializes the TUI
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		switch m.screen {
		case ScreenSetup:
			return m.updateSetup(msg)
		case ScreenPlay:
			return m.updatePlay(msg)
		case ScreenEnd:
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
	}
	return m, nil
}

func (m Model) updateSetup(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.quitting = true
		return m, tea.Quit
	case "tab", "shift+tab":
		m.toggleFocus()
		return m, nil
	case "enter":
		if m.name.Focused() {
			m.toggleFocus()
			return m, nil
		}
		return m.submitSetup()
	}

	var cmd tea.Cmd
	if m.name.Focused() {
		m.name, cmd = m.name.Update(msg)
	} else {
		m.budget, cmd = m.budget.Update(msg)
	}
	return m, cmd
}

func (m *Model) toggleFocus() {
	if m.name.Focused() {
		m.name.Blur()
		m.budget.Focus()
	} else {
		m.budget.Blur()
		m.name.Focus()
	}
}

func (m Model) submitSetup() (tea.Model, tea.Cmd) {
	raw := strings.TrimSpace(m.budget.Value())
	if raw == "" {
		raw = m.budget.Placeholder
	}
	budget, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		m.err = errors.New("budget must be a number")
		return m, nil
	}
	if err := m.game.Setup(strings.TrimSpace(m.name.Value()), budget); err != nil {
		m.err = err
		return m, nil
	}
	m.err = nil
	m.screen = ScreenPlay
	m.refreshMenu()
	return m, nil
}

func (m Model) updatePlay(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.menu)-1 {
			m.cursor++
		}
	case "enter":
		if len(m.menu) == 0 {
			return m.endTurn(nil)
		}
		id := m.menu[m.cursor]
		return m.endTurn(&id)
	case "n":
		return m.endTurn(nil)
	case "v":
		if m.game.DeclareVictory() {
			m.screen = ScreenEnd
		} else {
			m.notice = "There are still features to build."
		}
	}
	return m, nil
}

func (m Model) endTurn(choice *staff.ID) (tea.Model, tea.Cmd) {
	m.notice = ""
	if choice != nil {
		_, r, err := m.game.Hire(*choice)
		if err != nil {
			m.err = err
			return m, nil
		}
		if r != progression.Accepted {
			m.notice = "Could not hire: " + r.String()
		}
	}
	o, err := m.game.Advance()
	if err != nil {
		m.err = err
		return m, nil
	}
	if o.State.Terminal() {
		m.screen = ScreenEnd
		return m, nil
	}
	m.refreshMenu()
	return m, nil
}

func (m *Model) refreshMenu() {
	m.menu = m.game.Gate.Selectable()
	if m.cursor >= len(m.menu) {
		m.cursor = max(len(m.menu)-1, 0)
	}
}
