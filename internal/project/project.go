// Package project holds the single shared simulation state that every hired
// actor writes into: remaining features, quality metrics, productivity and
// the project's budget account.
package project

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/talgya/soyu/internal/ledger"
)

// Metric names a numeric project attribute that staff effects can touch.
type Metric string

const (
	Features          Metric = "features"
	Bugs              Metric = "bugs"
	TechnicalDebt     Metric = "technical_debt"
	Documentation     Metric = "documentation"
	ServerMaintenance Metric = "server_maintenance"
	DesignNeed        Metric = "design_need"
)

// AllMetrics returns the effect-addressable metrics in display order.
func AllMetrics() []Metric {
	return []Metric{Features, Bugs, TechnicalDebt, Documentation, ServerMaintenance, DesignNeed}
}

// Reverse reports whether a decrease of the metric is good for the player.
func (m Metric) Reverse() bool {
	return m != Documentation
}

// Label is the human-readable metric name used by the status panel.
func (m Metric) Label() string {
	switch m {
	case Features:
		return "Rema. Features"
	case Bugs:
		return "Bugs"
	case TechnicalDebt:
		return "Technical Debt"
	case Documentation:
		return "Documentation"
	case ServerMaintenance:
		return "Server Costs"
	case DesignNeed:
		return "Design Need"
	}
	return string(m)
}

// Baseline is what the project does to itself every turn.
type Baseline struct {
	Features   float64
	DesignNeed float64
}

// DefaultBaseline is +5 features and +5 design need per turn.
var DefaultBaseline = Baseline{Features: 5, DesignNeed: 5}

// Project is mutated by every hired actor during its turn slot. Metrics are
// not clamped and may go negative.
type Project struct {
	Name            string
	InitialFeatures float64
	Baseline        Baseline

	features          float64
	bugs              float64
	technicalDebt     float64
	documentation     float64
	serverMaintenance float64
	designNeed        float64
	productivity      float64

	acct   *ledger.Account
	ledger *ledger.Ledger
}

// New creates a project with initialFeatures of remaining work and
// productivity 1. acct is the project's budget account inside led.
func New(name string, initialFeatures float64, acct *ledger.Account, led *ledger.Ledger) *Project {
	return &Project{
		Name:            name,
		InitialFeatures: initialFeatures,
		Baseline:        DefaultBaseline,
		features:        initialFeatures,
		productivity:    1,
		acct:            acct,
		ledger:          led,
	}
}

// Get returns the current value of a metric.
func (p *Project) Get(m Metric) float64 {
	switch m {
	case Features:
		return p.features
	case Bugs:
		return p.bugs
	case TechnicalDebt:
		return p.technicalDebt
	case Documentation:
		return p.documentation
	case ServerMaintenance:
		return p.serverMaintenance
	case DesignNeed:
		return p.designNeed
	}
	return 0
}

// Add applies a signed delta to a metric. Unknown metrics are ignored.
func (p *Project) Add(m Metric, delta float64) {
	switch m {
	case Features:
		p.features += delta
	case Bugs:
		p.bugs += delta
	case TechnicalDebt:
		p.technicalDebt += delta
	case Documentation:
		p.documentation += delta
	case ServerMaintenance:
		p.serverMaintenance += delta
	case DesignNeed:
		p.designNeed += delta
	}
}

// Productivity is the team-wide multiplier applied to scaled staff effects.
func (p *Project) Productivity() float64 {
	return p.productivity
}

// ScaleProductivity multiplies productivity by factor. Factors above 1 are
// ignored so productivity never grows.
func (p *Project) ScaleProductivity(factor float64) {
	if factor > 1 || factor < 0 {
		return
	}
	p.productivity *= factor
}

// Account is the ledger account the project budget lives in.
func (p *Project) Account() *ledger.Account {
	return p.acct
}

// Ledger is the ledger the project account belongs to.
func (p *Project) Ledger() *ledger.Ledger {
	return p.ledger
}

// Money is the project budget.
func (p *Project) Money() float64 {
	if p.acct == nil {
		return 0
	}
	return p.acct.Balance(ledger.Money)
}

// Score is recomputed from the current metrics on every call.
func (p *Project) Score() float64 {
	return ((-p.features / 2) - p.bugs - p.technicalDebt + p.documentation*3 -
		p.serverMaintenance - p.designNeed + p.Money()) * p.productivity
}

// RemainingRatio is remaining features over initial features.
func (p *Project) RemainingRatio() float64 {
	if p.InitialFeatures == 0 {
		return 0
	}
	return p.features / p.InitialFeatures
}

// Finished reports whether every feature has been delivered.
func (p *Project) Finished() bool {
	return p.features <= 0
}

// TurnReport is what the project observed about itself at the end of its turn.
type TurnReport struct {
	RemainingRatio float64
	FundsExhausted bool
}

// Turn applies the baseline growth and reports the remaining-feature ratio
// and whether the budget is gone.
func (p *Project) Turn() TurnReport {
	p.features += p.Baseline.Features
	p.designNeed += p.Baseline.DesignNeed
	return TurnReport{
		RemainingRatio: p.RemainingRatio(),
		FundsExhausted: p.Money() <= 0,
	}
}

// String renders the one-line status used by logs and the plain CLI.
func (p *Project) String() string {
	return fmt.Sprintf("%s: Budget: $%s, Productivity: %%%d, Remaining Features: %d, Bugs: %s, Technical Debt: %s, Documentation: %s, Server Costs: $%d Design Need: %d",
		p.Name,
		humanize.CommafWithDigits(p.Money(), 2),
		int(p.productivity*100),
		int(p.features),
		humanize.Ftoa(p.bugs),
		humanize.Ftoa(p.technicalDebt),
		humanize.FtoaWithDigits(p.documentation, 2),
		int(p.serverMaintenance),
		int(p.designNeed),
	)
}
