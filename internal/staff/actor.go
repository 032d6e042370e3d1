package staff

import (
	"fmt"

	"github.com/talgya/soyu/internal/ledger"
	"github.com/talgya/soyu/internal/project"
)

// ExpensesAccount receives the player's personal living expense.
const ExpensesAccount = "expenses"

// Actor is one hired instance of an archetype. It owns a private copy of its
// archetype's effect table.
type Actor struct {
	Seq       int // Hire order, 0 for the boss
	Archetype Archetype
	Account   *ledger.Account

	cost          float64
	fundsFromSelf bool
	fundingSource string
	upkeepSink    string
	effects       EffectTable
}

// NewBoss creates the player with a starting wallet. The boss pays drain per
// turn out of its own wallet into the expenses account.
func NewBoss(led *ledger.Ledger, wallet, drain float64) (*Actor, error) {
	arch, _ := Lookup(Boss)
	acct, err := led.Open(string(Boss), map[string]float64{ledger.Money: wallet})
	if err != nil {
		return nil, fmt.Errorf("boss account: %w", err)
	}
	if _, ok := led.Account(ExpensesAccount); !ok {
		if _, err := led.Open(ExpensesAccount, nil); err != nil {
			return nil, fmt.Errorf("expenses account: %w", err)
		}
	}
	return &Actor{
		Archetype:     arch,
		Account:       acct,
		cost:          drain,
		fundsFromSelf: true,
		fundingSource: acct.Name,
		upkeepSink:    ExpensesAccount,
	}, nil
}

// Hire creates a project-funded employee. Developers derive their server
// maintenance load from their feature output and shrink team productivity
// once, here, before any of their turns run.
func Hire(arch Archetype, seq int, p *project.Project) (*Actor, error) {
	if arch.Kind == KindBoss {
		return nil, fmt.Errorf("hire %s: the boss is created at setup", arch.ID)
	}
	name := fmt.Sprintf("%s#%d", arch.ID, seq)
	acct, err := p.Ledger().Open(name, map[string]float64{ledger.Money: 0})
	if err != nil {
		return nil, fmt.Errorf("hire %s: %w", arch.ID, err)
	}

	table := arch.Effects.clone()
	if arch.Kind == KindDeveloper {
		table.introduces = append(table.introduces, Effect{
			Metric: project.ServerMaintenance,
			Amount: table.scaledAmount(project.Features) / 10,
		})
		p.ScaleProductivity(1 - arch.ProductivityDrop)
	}

	return &Actor{
		Seq:           seq,
		Archetype:     arch,
		Account:       acct,
		cost:          arch.Cost,
		fundingSource: p.Account().Name,
		upkeepSink:    acct.Name,
		effects:       table,
	}, nil
}

// Cost is the per-turn upkeep.
func (a *Actor) Cost() float64 {
	return a.cost
}

// FundsFromSelf reports whether the actor pays upkeep out of its own wallet.
func (a *Actor) FundsFromSelf() bool {
	return a.fundsFromSelf
}

// Effects returns the actor's own effect table.
func (a *Actor) Effects() EffectTable {
	return a.effects.clone()
}

// Label is the archetype's display name.
func (a *Actor) Label() string {
	return a.Archetype.Label
}

// Money is the actor's own wallet balance.
func (a *Actor) Money() float64 {
	return a.Account.Balance(ledger.Money)
}

// Turn pays upkeep first, then applies introduces unscaled and the scaled
// effects at the project's current productivity. A manager then applies its
// introduces and drops a second time, unscaled. Upkeep never blocks: the
// funding balance may go negative.
func (a *Actor) Turn(p *project.Project) error {
	if _, err := p.Ledger().Trade(a.fundingSource, a.upkeepSink, ledger.Money, a.cost); err != nil {
		return fmt.Errorf("%s upkeep: %w", a.Account.Name, err)
	}
	if a.Archetype.Kind == KindBoss {
		return nil
	}

	for _, e := range a.effects.introduces {
		p.Add(e.Metric, e.Amount)
	}
	prod := p.Productivity()
	for _, e := range a.effects.scaled {
		p.Add(e.Metric, -e.Amount*prod)
	}

	if a.Archetype.Kind == KindManager {
		for _, e := range a.effects.introduces {
			p.Add(e.Metric, e.Amount)
		}
		for _, e := range a.effects.scaled {
			p.Add(e.Metric, -e.Amount)
		}
	}
	return nil
}

// Insolvent reports whether a self-funded actor's wallet is empty.
func (a *Actor) Insolvent() bool {
	return a.fundsFromSelf && a.Money() <= 0
}
