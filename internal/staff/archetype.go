// Package staff provides the hireable archetypes, their per-turn effect
// tables, and the actors created when the player hires one.
package staff

import (
	"strings"

	"github.com/talgya/soyu/internal/project"
)

// ID identifies an archetype.
type ID string

// Archetype identifiers, including the player.
const (
	Boss              ID = "boss"
	StudentDeveloper  ID = "student_developer"
	ShittyDeveloper   ID = "shitty_developer"
	MediocreDeveloper ID = "mediocre_developer"
	SeniorDeveloper   ID = "senior_developer"
	GeniusDeveloper   ID = "genius_developer"
	StudentDesigner   ID = "student_designer"
	ShittyDesigner    ID = "shitty_designer"
	MediocreDesigner  ID = "mediocre_designer"
	SeniorDesigner    ID = "senior_designer"
	ProjectManager    ID = "project_manager"
)

// Unlimited is the Limit of archetypes that can be hired without cap.
const Unlimited = -1

// Kind selects the turn behavior layered on top of upkeep.
type Kind uint8

const (
	KindBoss      Kind = iota // Pays its own living expense, no project effects
	KindDeveloper             // Introduces + develops, drops productivity on hire
	KindDesigner              // Drops design need
	KindManager               // Employee effects, then re-applies them unscaled
)

func (k Kind) String() string {
	switch k {
	case KindBoss:
		return "boss"
	case KindDeveloper:
		return "developer"
	case KindDesigner:
		return "designer"
	case KindManager:
		return "manager"
	}
	return "unknown"
}

// Direction names how a scaled effect is described. Both directions
// subtract amount × productivity from the metric.
type Direction uint8

const (
	Develops Direction = iota // Progress reduces remaining work
	Drops                     // Reduces a deficit metric
)

func (d Direction) String() string {
	if d == Drops {
		return "drops"
	}
	return "develops"
}

// Effect is one metric delta.
type Effect struct {
	Metric project.Metric
	Amount float64
}

// EffectTable is an archetype's declarative per-turn effect data. Values are
// only reachable through copies so no actor can mutate the shared table.
type EffectTable struct {
	introduces []Effect
	scaled     []Effect
	direction  Direction
}

// Introduces returns a copy of the unscaled additive deltas.
func (t EffectTable) Introduces() []Effect {
	return append([]Effect(nil), t.introduces...)
}

// Scaled returns a copy of the productivity-scaled deltas.
func (t EffectTable) Scaled() []Effect {
	return append([]Effect(nil), t.scaled...)
}

// Direction of the scaled effects.
func (t EffectTable) Direction() Direction {
	return t.direction
}

// Scaled amount for a metric, 0 if absent.
func (t EffectTable) scaledAmount(m project.Metric) float64 {
	for _, e := range t.scaled {
		if e.Metric == m {
			return e.Amount
		}
	}
	return 0
}

func (t EffectTable) clone() EffectTable {
	return EffectTable{
		introduces: t.Introduces(),
		scaled:     t.Scaled(),
		direction:  t.direction,
	}
}

// Archetype is the fixed data for one hireable role.
type Archetype struct {
	ID               ID
	Label            string
	Kind             Kind
	Cost             float64 // Per-turn upkeep
	Limit            int     // Max simultaneous instances, Unlimited for no cap
	ProductivityDrop float64 // Fraction of productivity lost per hire (developers only)
	Unlocked         bool    // Selectable from the start
	Unlocks          []ID    // Archetypes made selectable when this one is hired
	Effects          EffectTable
}

func effects(e ...Effect) []Effect { return e }

// designers is the set a Project Manager unlocks.
var designers = []ID{StudentDesigner, ShittyDesigner, MediocreDesigner, SeniorDesigner}

// ProjectUnlocks are the archetypes made selectable once the project exists.
var ProjectUnlocks = []ID{StudentDeveloper, ShittyDeveloper, MediocreDeveloper, SeniorDeveloper, GeniusDeveloper}

// catalogueOrder is the menu order.
var catalogueOrder = []ID{
	Boss,
	StudentDeveloper, ShittyDeveloper, MediocreDeveloper, SeniorDeveloper, GeniusDeveloper,
	MediocreDesigner, StudentDesigner, ShittyDesigner, SeniorDesigner,
	ProjectManager,
}

// archetypes is the tunable design surface of the game.
var archetypes = map[ID]Archetype{
	Boss: {
		ID: Boss, Label: "Boss", Kind: KindBoss,
		Cost: 0, Limit: 1, Unlocked: true,
	},

	StudentDeveloper: {
		ID: StudentDeveloper, Label: "Student Developer", Kind: KindDeveloper,
		Cost: 0, Limit: Unlimited, ProductivityDrop: 0.20,
		Effects: EffectTable{
			introduces: effects(Effect{project.Bugs, 2}, Effect{project.TechnicalDebt, 3}),
			scaled:     effects(Effect{project.Features, 1}, Effect{project.Documentation, -1}),
			direction:  Develops,
		},
	},
	ShittyDeveloper: {
		ID: ShittyDeveloper, Label: "Shitty Developer", Kind: KindDeveloper,
		Cost: 5, Limit: Unlimited, ProductivityDrop: 0.15,
		Effects: EffectTable{
			introduces: effects(Effect{project.Bugs, 1}, Effect{project.TechnicalDebt, 4}),
			scaled:     effects(Effect{project.Features, 2}),
			direction:  Develops,
		},
	},
	MediocreDeveloper: {
		ID: MediocreDeveloper, Label: "Mediocre Developer", Kind: KindDeveloper,
		Cost: 10, Limit: Unlimited, ProductivityDrop: 0.10,
		Effects: EffectTable{
			introduces: effects(Effect{project.Bugs, 1}, Effect{project.TechnicalDebt, 3}, Effect{project.Documentation, 1}),
			scaled:     effects(Effect{project.Features, 3}),
			direction:  Develops,
		},
	},
	SeniorDeveloper: {
		ID: SeniorDeveloper, Label: "Senior Developer", Kind: KindDeveloper,
		Cost: 20, Limit: Unlimited, ProductivityDrop: 0.05,
		Effects: EffectTable{
			introduces: effects(Effect{project.Bugs, 1}, Effect{project.TechnicalDebt, 1}, Effect{project.Documentation, 6}),
			scaled:     effects(Effect{project.Features, 6}),
			direction:  Develops,
		},
	},
	GeniusDeveloper: {
		ID: GeniusDeveloper, Label: "Genius Developer", Kind: KindDeveloper,
		Cost: 100, Limit: 1, ProductivityDrop: 0,
		Effects: EffectTable{
			introduces: effects(Effect{project.Bugs, 1}, Effect{project.TechnicalDebt, 0}, Effect{project.Documentation, 10}),
			scaled:     effects(Effect{project.Features, 10}),
			direction:  Develops,
		},
	},

	StudentDesigner: {
		ID: StudentDesigner, Label: "Student Designer", Kind: KindDesigner,
		Cost: 0, Limit: Unlimited, ProductivityDrop: 0.10,
		Effects: EffectTable{scaled: effects(Effect{project.DesignNeed, 4}), direction: Drops},
	},
	ShittyDesigner: {
		ID: ShittyDesigner, Label: "Shitty Designer", Kind: KindDesigner,
		Cost: 5, Limit: Unlimited, ProductivityDrop: 0.10,
		Effects: EffectTable{scaled: effects(Effect{project.DesignNeed, 6}), direction: Drops},
	},
	MediocreDesigner: {
		ID: MediocreDesigner, Label: "Mediocre Designer", Kind: KindDesigner,
		Cost: 10, Limit: Unlimited, ProductivityDrop: 0.10,
		Effects: EffectTable{scaled: effects(Effect{project.DesignNeed, 8}), direction: Drops},
	},
	SeniorDesigner: {
		ID: SeniorDesigner, Label: "Senior Designer", Kind: KindDesigner,
		Cost: 20, Limit: Unlimited, ProductivityDrop: 0.10,
		Effects: EffectTable{scaled: effects(Effect{project.DesignNeed, 12}), direction: Drops},
	},

	ProjectManager: {
		ID: ProjectManager, Label: "Project Manager", Kind: KindManager,
		Cost: 10, Limit: 1,
		Unlocks: designers,
		Effects: EffectTable{
			introduces: effects(Effect{project.DesignNeed, 5}),
			scaled:     effects(Effect{project.Features, 15}),
			direction:  Drops,
		},
	},
}

// Lookup returns a copy of an archetype.
func Lookup(id ID) (Archetype, bool) {
	a, ok := archetypes[id]
	if !ok {
		return Archetype{}, false
	}
	a.Unlocks = append([]ID(nil), a.Unlocks...)
	a.Effects = a.Effects.clone()
	return a, true
}

// Catalogue returns copies of every archetype in menu order.
func Catalogue() []Archetype {
	out := make([]Archetype, 0, len(catalogueOrder))
	for _, id := range catalogueOrder {
		a, _ := Lookup(id)
		out = append(out, a)
	}
	return out
}

// ParseID accepts "student-developer", "StudentDeveloper", "student developer"
// and similar spellings.
func ParseID(s string) (ID, bool) {
	want := normalize(s)
	for _, id := range catalogueOrder {
		if normalize(string(id)) == want {
			return id, true
		}
	}
	return "", false
}

func normalize(s string) string {
	r := strings.NewReplacer("-", "", "_", "", " ", "")
	return strings.ToLower(r.Replace(strings.TrimSpace(s)))
}
