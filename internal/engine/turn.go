package engine

import (
	"fmt"
	"log/slog"

	"github.com/talgya/soyu/internal/project"
)

// Reason says which account ran dry when a game ends in Over.
type Reason uint8

const (
	NoReason Reason = iota
	BossBroke
	ProjectBroke
	BothBroke
)

func (r Reason) String() string {
	switch r {
	case BossBroke:
		return "boss"
	case ProjectBroke:
		return "project"
	case BothBroke:
		return "boss+project"
	}
	return ""
}

// Outcome reports what a turn (or a terminal transition) produced.
type Outcome struct {
	Turn   int
	State  State
	Reason Reason
	Score  float64
}

// Err returns ErrFundsExhausted for a bankrupt game and nil otherwise.
func (o Outcome) Err() error {
	if o.State != Over {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrFundsExhausted, o.Reason)
}

// Advance runs one turn: the boss, then each hire in hire order, then the
// project itself. The turn counter then moves on, unlock triggers are
// evaluated on the resulting state, and only then is bankruptcy checked.
func (g *Game) Advance() (Outcome, error) {
	if g.state != Playing {
		return g.outcome, g.notPlaying()
	}
	p := g.project
	g.prev = p.Snapshot(g.Ledger.TurnCount())

	if err := g.boss.Turn(p); err != nil {
		return g.outcome, fmt.Errorf("turn %d: %w", g.Ledger.TurnCount(), err)
	}
	for _, a := range g.roster {
		if err := a.Turn(p); err != nil {
			return g.outcome, fmt.Errorf("turn %d: %w", g.Ledger.TurnCount(), err)
		}
	}
	report := p.Turn()
	turn := g.Ledger.CompleteTurn()
	g.unlocked(g.Gate.Evaluate(p))

	o := Outcome{
		Turn:   turn,
		State:  Playing,
		Reason: broke(g.boss.Insolvent(), report.FundsExhausted),
		Score:  p.Score(),
	}

	slog.Info("turn report",
		"turn", turn,
		"money", fmt.Sprintf("%.2f", p.Money()),
		"wallet", fmt.Sprintf("%.2f", g.boss.Money()),
		"features", fmt.Sprintf("%.1f", p.Get(project.Features)),
		"remaining", fmt.Sprintf("%.3f", report.RemainingRatio),
		"productivity", fmt.Sprintf("%.3f", p.Productivity()),
		"staff", len(g.roster),
		"score", fmt.Sprintf("%.2f", o.Score),
	)

	if o.Reason != NoReason {
		o.State = Over
		g.emit("bankruptcy", bankruptcyMessage(o.Reason, p.Name))
		g.publish(o)
		g.finish(o)
		return o, nil
	}

	g.outcome = o
	g.publish(o)
	return o, nil
}

// publish hands the events emitted since the last turn to the OnTurn hook.
func (g *Game) publish(o Outcome) {
	events := g.drainPending()
	if g.OnTurn != nil {
		g.OnTurn(o, events)
	}
}

func broke(boss, project bool) Reason {
	switch {
	case boss && project:
		return BothBroke
	case boss:
		return BossBroke
	case project:
		return ProjectBroke
	}
	return NoReason
}

func bankruptcyMessage(r Reason, name string) string {
	switch r {
	case BossBroke:
		return "You ran out of money"
	case ProjectBroke:
		return fmt.Sprintf("%s ran out of budget", name)
	}
	return fmt.Sprintf("You and %s both ran out of money", name)
}
