// Package engine sequences a game: setup, hiring, and one turn at a time
// until the player or the project runs out of money.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/talgya/soyu/internal/config"
	"github.com/talgya/soyu/internal/ledger"
	"github.com/talgya/soyu/internal/progression"
	"github.com/talgya/soyu/internal/project"
	"github.com/talgya/soyu/internal/staff"
)

// ProjectAccount is the ledger account holding the project budget.
const ProjectAccount = "project"

// maxEvents bounds the in-memory event log.
const maxEvents = 200

var (
	ErrNotSetup         = errors.New("game is not in setup")
	ErrNotPlaying       = errors.New("game is not being played")
	ErrGameOver         = errors.New("game is over")
	ErrNegativeBudget   = errors.New("budget must be a non-negative number")
	ErrBudgetTooLarge   = errors.New("budget exceeds wallet")
	ErrFundsExhausted   = errors.New("funds exhausted")
	ErrEmptyProjectName = errors.New("project name is required")
)

// State is the game's lifecycle position. Won and Over are absorbing.
type State uint8

const (
	Setup State = iota
	Playing
	Won
	Over
)

func (s State) String() string {
	switch s {
	case Setup:
		return "setup"
	case Playing:
		return "playing"
	case Won:
		return "won"
	case Over:
		return "over"
	}
	return "unknown"
}

// Terminal reports whether no further turns can be processed.
func (s State) Terminal() bool {
	return s == Won || s == Over
}

// Event is a notable occurrence during a game.
type Event struct {
	Turn        int    `json:"turn" db:"turn"`
	Description string `json:"description" db:"description"`
	Category    string `json:"category" db:"category"` // "hire", "unlock", "bankruptcy", "victory"
}

// Game holds the complete state of one game and is passed explicitly to
// every operation; nothing lives in package globals.
type Game struct {
	ID      string
	Config  config.Game
	Ledger  *ledger.Ledger
	Gate    *progression.Gate
	Started time.Time

	// Now is the clock used for result timestamps.
	Now func() time.Time

	// Hooks wired by the caller, e.g. to journal events to disk.
	OnTurn   func(o Outcome, events []Event)
	OnFinish func(o Outcome)

	state   State
	boss    *staff.Actor
	project *project.Project
	roster  []*staff.Actor
	events  []Event
	pending []Event
	prev    project.Snapshot
	outcome Outcome
}

// New creates a game in Setup with the given tunables.
func New(cfg config.Game) *Game {
	gate := progression.New(staff.Catalogue())
	gate.ManagerRatio = cfg.ManagerUnlockRatio
	return &Game{
		ID:     uuid.NewString(),
		Config: cfg,
		Ledger: ledger.New(),
		Gate:   gate,
		Now:    time.Now,
	}
}

// Setup creates the boss and the project, moves budget from the boss's
// wallet into the project, and starts play.
func (g *Game) Setup(name string, budget float64) error {
	if g.state != Setup {
		return ErrNotSetup
	}
	if name == "" {
		return ErrEmptyProjectName
	}
	if budget < 0 || math.IsNaN(budget) {
		return ErrNegativeBudget
	}
	if budget > g.Config.StartingWallet {
		return fmt.Errorf("%w: %.0f > %.0f", ErrBudgetTooLarge, budget, g.Config.StartingWallet)
	}

	// Built on a fresh ledger and gate so a failed setup leaves the game
	// untouched and can be retried.
	led := ledger.New()
	gate := progression.New(staff.Catalogue())
	gate.ManagerRatio = g.Config.ManagerUnlockRatio

	boss, err := staff.NewBoss(led, g.Config.StartingWallet, g.Config.PersonalDrain)
	if err != nil {
		return fmt.Errorf("setup: %w", err)
	}
	unlocked := gate.Record(staff.Boss)

	acct, err := led.Open(ProjectAccount, map[string]float64{ledger.Money: 0})
	if err != nil {
		return fmt.Errorf("setup: %w", err)
	}
	p := project.New(name, g.Config.InitialFeatures, acct, led)
	p.Baseline = project.Baseline{Features: g.Config.BaselineFeatures, DesignNeed: g.Config.BaselineDesignNeed}

	if _, err := led.Trade(boss.Account.Name, acct.Name, ledger.Money, budget); err != nil {
		return fmt.Errorf("setup: fund project: %w", err)
	}
	unlocked = append(unlocked, gate.UnlockAll(staff.ProjectUnlocks)...)

	g.Ledger = led
	g.Gate = gate
	g.boss = boss
	g.project = p
	g.unlocked(unlocked)

	g.Started = g.Now()
	g.prev = p.Snapshot(0)
	g.state = Playing
	g.outcome = Outcome{State: Playing, Score: p.Score()}

	slog.Info("game started",
		"game", g.ID,
		"project", name,
		"budget", budget,
		"wallet", boss.Money(),
	)
	return nil
}

// Hire creates an instance of id if the gate allows it. A refused hire
// changes nothing and is reported through the Rejection, not an error.
func (g *Game) Hire(id staff.ID) (*staff.Actor, progression.Rejection, error) {
	if g.state != Playing {
		return nil, progression.Accepted, g.notPlaying()
	}
	if r := g.Gate.Check(id); r != progression.Accepted {
		slog.Debug("hire refused", "archetype", id, "reason", r)
		return nil, r, nil
	}
	arch, _ := staff.Lookup(id)
	actor, err := staff.Hire(arch, len(g.roster)+1, g.project)
	if err != nil {
		return nil, progression.Accepted, err
	}
	g.roster = append(g.roster, actor)
	g.emit("hire", fmt.Sprintf("Hired a %s", arch.Label))
	g.unlocked(g.Gate.Record(id))

	slog.Info("hired",
		"archetype", id,
		"cost", arch.Cost,
		"productivity", fmt.Sprintf("%.3f", g.project.Productivity()),
	)
	return actor, progression.Accepted, nil
}

// Step hires choice (when non-nil and allowed) and then advances one turn.
// An invalid choice counts as no selection.
func (g *Game) Step(choice *staff.ID) (Outcome, error) {
	if choice != nil {
		if _, _, err := g.Hire(*choice); err != nil {
			return g.outcome, err
		}
	}
	return g.Advance()
}

// DeclareVictory moves a playing game to Won once every feature is
// delivered. The engine never declares victory on its own.
func (g *Game) DeclareVictory() bool {
	if g.state != Playing || !g.project.Finished() {
		return false
	}
	g.emit("victory", fmt.Sprintf("%s shipped every feature", g.project.Name))
	g.finish(Outcome{
		Turn:  g.Ledger.TurnCount(),
		State: Won,
		Score: g.project.Score(),
	})
	return true
}

// State is the current lifecycle state.
func (g *Game) State() State {
	return g.state
}

// Outcome is the result of the most recent turn or terminal transition.
func (g *Game) Outcome() Outcome {
	return g.outcome
}

// Project is the shared project state (nil before setup).
func (g *Game) Project() *project.Project {
	return g.project
}

// Boss is the player actor (nil before setup).
func (g *Game) Boss() *staff.Actor {
	return g.boss
}

// Roster returns hired staff in hire order.
func (g *Game) Roster() []*staff.Actor {
	return append([]*staff.Actor(nil), g.roster...)
}

// Events returns the recent event log, oldest first.
func (g *Game) Events() []Event {
	return append([]Event(nil), g.events...)
}

// Previous is the project snapshot taken before the last turn ran.
func (g *Game) Previous() project.Snapshot {
	return g.prev
}

// Result summarises a game for the results history.
type Result struct {
	GameID     string           `db:"game_id"`
	Project    string           `db:"project"`
	State      string           `db:"state"`
	Reason     string           `db:"reason"`
	Turns      int              `db:"turns"`
	Score      float64          `db:"score"`
	Started    time.Time        `db:"started_at"`
	FinishedAt time.Time        `db:"finished_at"`
	Final      project.Snapshot `db:"-"`
}

// Result builds the summary for the current state.
func (g *Game) Result() Result {
	r := Result{
		GameID:     g.ID,
		State:      g.state.String(),
		Reason:     g.outcome.Reason.String(),
		Turns:      g.Ledger.TurnCount(),
		Score:      g.outcome.Score,
		Started:    g.Started,
		FinishedAt: g.Now(),
	}
	if g.project != nil {
		r.Project = g.project.Name
		r.Final = g.project.Snapshot(r.Turns)
	}
	return r
}

func (g *Game) notPlaying() error {
	if g.state.Terminal() {
		return ErrGameOver
	}
	return ErrNotPlaying
}

func (g *Game) unlocked(ids []staff.ID) {
	for _, id := range ids {
		arch, _ := staff.Lookup(id)
		g.emit("unlock", fmt.Sprintf("%s can now be hired", arch.Label))
	}
}

func (g *Game) emit(category, desc string) {
	e := Event{Turn: g.Ledger.TurnCount(), Description: desc, Category: category}
	g.events = append(g.events, e)
	g.pending = append(g.pending, e)
	if len(g.events) > maxEvents {
		g.events = g.events[len(g.events)-maxEvents:]
	}
}

func (g *Game) drainPending() []Event {
	out := g.pending
	g.pending = nil
	return out
}

func (g *Game) finish(o Outcome) {
	g.state = o.State
	g.outcome = o
	slog.Warn("game finished",
		"game", g.ID,
		"state", o.State,
		"reason", o.Reason,
		"turn", o.Turn,
		"score", fmt.Sprintf("%.2f", o.Score),
	)
	if len(g.pending) > 0 {
		g.publish(o)
	}
	if g.OnFinish != nil {
		g.OnFinish(o)
	}
}
