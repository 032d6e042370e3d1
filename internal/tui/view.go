package tui

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/talgya/soyu/internal/engine"
	"github.com/talgya/soyu/internal/project"
	"github.com/talgya/soyu/internal/staff"
)

const recentEvents = 5

// View renders the TUI
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	switch m.screen {
	case ScreenSetup:
		return m.viewSetup()
	case ScreenEnd:
		return m.viewEnd()
	default:
		return m.viewPlay()
	}
}

func (m Model) viewSetup() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("New project") + "\n\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf("  You have $%s.", humanize.Commaf(m.game.Config.StartingWallet))) + "\n\n")
	b.WriteString("  Name:   " + m.name.View() + "\n")
	b.WriteString("  Budget: " + m.budget.View() + "\n")
	if m.err != nil {
		b.WriteString("\n  " + errorStyle.Render(m.err.Error()) + "\n")
	}
	b.WriteString(helpStyle.Render("  tab: switch field │ enter: start │ esc: quit"))
	return b.String()
}

func (m Model) viewPlay() string {
	g := m.game
	p := g.Project()
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("%s · turn %d", p.Name, g.Ledger.TurnCount())) + "\n\n")
	b.WriteString(boxStyle.Render(m.statusPanel()) + "\n\n")

	b.WriteString("  You have:\n")
	for _, h := range g.Gate.Holdings() {
		b.WriteString(fmt.Sprintf("    %dx %s\n", h.Amount, h.Label))
	}
	b.WriteString("\n  Hire (one per turn):\n")
	if len(m.menu) == 0 {
		b.WriteString(infoStyle.Render("    nobody available") + "\n")
	}
	for i, id := range m.menu {
		arch, _ := staff.Lookup(id)
		line := fmt.Sprintf("%s ($%s/turn)", arch.Label, humanize.Ftoa(arch.Cost))
		if i == m.cursor {
			b.WriteString(activeStyle.Render("  ▶ "+line) + "\n")
		} else {
			b.WriteString("    " + line + "\n")
		}
	}

	if events := g.Events(); len(events) > 0 {
		b.WriteString("\n")
		start := max(len(events)-recentEvents, 0)
		for _, e := range events[start:] {
			b.WriteString(infoStyle.Render(fmt.Sprintf("  [%d] %s", e.Turn, e.Description)) + "\n")
		}
	}
	if m.notice != "" {
		b.WriteString("\n  " + m.notice + "\n")
	}
	if m.err != nil {
		b.WriteString("\n  " + errorStyle.Render(m.err.Error()) + "\n")
	}

	help := "enter: hire & end turn │ n: end turn │ j/k: navigate │ q: quit"
	if p.Finished() {
		help = "v: declare victory │ " + help
	}
	b.WriteString(helpStyle.Render("  " + help))
	return b.String()
}

func (m Model) statusPanel() string {
	g := m.game
	p := g.Project()
	now := p.Snapshot(g.Ledger.TurnCount())
	prev := g.Previous()

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Wallet: $%s   Budget: $%s %s\n",
		humanize.CommafWithDigits(g.Boss().Money(), 2),
		humanize.CommafWithDigits(now.Money, 2),
		delta(now.CashFlow(prev), true, "$"),
	))
	b.WriteString(fmt.Sprintf("Productivity: %d%%   Score: %.2f\n", int(now.Productivity*100), now.Score))
	for _, c := range now.Delta(prev) {
		b.WriteString(fmt.Sprintf("%-20s %10s %s\n",
			c.Metric.Label()+":",
			humanize.FtoaWithDigits(c.After, 2),
			delta(c.Delta(), c.Good(), ""),
		))
	}
	return strings.TrimRight(b.String(), "\n")
}

func delta(d float64, good bool, unit string) string {
	if d == 0 {
		return ""
	}
	s := fmt.Sprintf("(%+.2f%s)", d, unit)
	if good {
		return goodStyle.Render(s)
	}
	return errorStyle.Render(s)
}

func (m Model) viewEnd() string {
	g := m.game
	o := g.Outcome()
	var b strings.Builder

	switch o.State {
	case engine.Won:
		b.WriteString(titleStyle.Render("You won!") + "\n\n")
		b.WriteString(fmt.Sprintf("  %s shipped after %d turns.\n", g.Project().Name, o.Turn))
	default:
		b.WriteString(titleStyle.Render("Game over") + "\n\n")
		b.WriteString("  " + errorStyle.Render(overReason(o.Reason, g.Project())) + "\n")
		b.WriteString(fmt.Sprintf("  You lasted %d turns.\n", o.Turn))
	}
	b.WriteString(fmt.Sprintf("  Score: %s\n", activeStyle.Render(fmt.Sprintf("%.2f", o.Score))))
	b.WriteString(helpStyle.Render("  press any key to exit"))
	return b.String()
}

func overReason(r engine.Reason, p *project.Project) string {
	switch r {
	case engine.BossBroke:
		return "You ran out of money."
	case engine.ProjectBroke:
		return fmt.Sprintf("%s ran out of budget.", p.Name)
	}
	return fmt.Sprintf("You and %s both ran out of money.", p.Name)
}
