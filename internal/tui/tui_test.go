package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/talgya/soyu/internal/config"
	"github.com/talgya/soyu/internal/engine"
	"github.com/talgya/soyu/internal/staff"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(key(k))
		var ok bool
		m, ok = next.(Model)
		if !ok {
			t.Fatalf("unexpected model type %T", next)
		}
	}
	return m
}

func TestSetupScreenStartsGame(t *testing.T) {
	g := engine.New(config.DefaultGame())
	m := New(g)
	if m.Screen() != ScreenSetup {
		t.Fatalf("expected setup screen, got %d", m.Screen())
	}

	m = send(t, m, "a", "c", "m", "e", "enter", "5", "0", "0", "enter")
	if m.Screen() != ScreenPlay {
		t.Fatalf("expected play screen, got %d (err %v)", m.Screen(), m.err)
	}
	if got := g.Project().Name; got != "acme" {
		t.Fatalf("project name = %q", got)
	}
	if got := g.Project().Money(); got != 500 {
		t.Fatalf("budget = %v, want 500", got)
	}
}

func TestSetupRejectsOversizedBudget(t *testing.T) {
	g := engine.New(config.DefaultGame())
	m := send(t, New(g), "x", "enter", "9", "9", "9", "9", "9", "enter")
	if m.Screen() != ScreenSetup {
		t.Fatalf("expected to stay on setup")
	}
	if m.err == nil {
		t.Fatalf("expected an error to be shown")
	}
	if g.State() != engine.Setup {
		t.Fatalf("game should not have started")
	}
}

func TestSetupRecoversFromNonNumericBudget(t *testing.T) {
	m := send(t, New(engine.New(config.DefaultGame())), "x", "enter", "n", "a", "n", "enter")
	if m.Screen() != ScreenSetup || m.err == nil {
		t.Fatalf("NaN budget should be refused on the setup screen")
	}
	if m.Game().State() != engine.Setup {
		t.Fatalf("game should not have started, state %s", m.Game().State())
	}

	m = send(t, m, "backspace", "backspace", "backspace", "2", "0", "0", "enter")
	if m.Screen() != ScreenPlay {
		t.Fatalf("expected play screen after a valid budget, err %v", m.err)
	}
	g := m.Game()
	if g.Boss().Money() != 9800 || g.Project().Money() != 200 {
		t.Fatalf("wallet %v, budget %v", g.Boss().Money(), g.Project().Money())
	}
}

func TestHireFromMenuEndsTurn(t *testing.T) {
	g := engine.New(config.DefaultGame())
	if err := g.Setup("demo", 1000); err != nil {
		t.Fatal(err)
	}
	m := New(g)

	m = send(t, m, "down", "enter")
	roster := g.Roster()
	if len(roster) != 1 || roster[0].Archetype.ID != staff.ShittyDeveloper {
		t.Fatalf("expected one shitty developer, got %v", roster)
	}
	if g.Ledger.TurnCount() != 1 {
		t.Fatalf("turn count = %d", g.Ledger.TurnCount())
	}

	m = send(t, m, "n")
	if g.Ledger.TurnCount() != 2 || len(g.Roster()) != 1 {
		t.Fatalf("n should end the turn without hiring")
	}

	view := m.View()
	for _, want := range []string{"You have:", "1x Shitty Developer", "Student Developer"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestBankruptcyShowsEndScreen(t *testing.T) {
	g := engine.New(config.DefaultGame())
	if err := g.Setup("demo", 0); err != nil {
		t.Fatal(err)
	}
	m := send(t, New(g), "n")
	if m.Screen() != ScreenEnd {
		t.Fatalf("expected end screen")
	}
	if !strings.Contains(m.View(), "Game over") {
		t.Fatalf("expected game over view:\n%s", m.View())
	}

	_, cmd := m.Update(key("x"))
	if cmd == nil {
		t.Fatalf("any key should quit from the end screen")
	}
}

func TestVictoryRequiresFinishedProject(t *testing.T) {
	cfg := config.DefaultGame()
	cfg.InitialFeatures = 10
	g := engine.New(cfg)
	if err := g.Setup("demo", 1000); err != nil {
		t.Fatal(err)
	}
	if _, _, err := g.Hire(staff.GeniusDeveloper); err != nil {
		t.Fatal(err)
	}
	m := send(t, New(g), "v")
	if m.Screen() != ScreenPlay || m.notice == "" {
		t.Fatalf("victory should be refused while features remain")
	}

	m = send(t, m, "n", "n", "v")
	if m.Screen() != ScreenEnd || g.State() != engine.Won {
		t.Fatalf("expected a won game, state %s", g.State())
	}
	if !strings.Contains(m.View(), "You won!") {
		t.Fatalf("expected victory view:\n%s", m.View())
	}
}
