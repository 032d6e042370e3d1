// Package progression controls which archetypes are selectable: one-way
// unlocks and per-archetype hiring limits.
package progression

import (
	"log/slog"

	"github.com/talgya/soyu/internal/staff"
)

// DefaultManagerUnlockRatio unlocks the Project Manager once at most 90% of
// the initial features remain.
const DefaultManagerUnlockRatio = 0.9

// Rejection explains why a hire was refused. The zero value means accepted.
type Rejection uint8

const (
	Accepted Rejection = iota
	Unknown
	Locked
	LimitReached
)

func (r Rejection) String() string {
	switch r {
	case Accepted:
		return "accepted"
	case Unknown:
		return "unknown archetype"
	case Locked:
		return "locked"
	case LimitReached:
		return "limit reached"
	}
	return "unknown"
}

// FeatureProgress is the part of the project the implicit unlock trigger reads.
type FeatureProgress interface {
	RemainingRatio() float64
}

type entry struct {
	arch     staff.Archetype
	unlocked bool
	current  int
}

// Gate tracks unlocked flags and hired counts per archetype.
type Gate struct {
	entries      map[staff.ID]*entry
	order        []staff.ID
	ManagerRatio float64
}

// New builds a gate over the given catalogue, honoring each archetype's
// initial Unlocked flag.
func New(catalogue []staff.Archetype) *Gate {
	g := &Gate{
		entries:      make(map[staff.ID]*entry, len(catalogue)),
		ManagerRatio: DefaultManagerUnlockRatio,
	}
	for _, a := range catalogue {
		g.entries[a.ID] = &entry{arch: a, unlocked: a.Unlocked}
		g.order = append(g.order, a.ID)
	}
	return g
}

// Unlock makes an archetype selectable. Returns true only on the transition.
func (g *Gate) Unlock(id staff.ID) bool {
	e, ok := g.entries[id]
	if !ok || e.unlocked {
		return false
	}
	e.unlocked = true
	slog.Info("archetype unlocked", "archetype", id)
	return true
}

// UnlockAll unlocks every id and returns the ones that changed state.
func (g *Gate) UnlockAll(ids []staff.ID) []staff.ID {
	var changed []staff.ID
	for _, id := range ids {
		if g.Unlock(id) {
			changed = append(changed, id)
		}
	}
	return changed
}

// Unlocked reports whether an archetype is selectable (ignoring limits).
func (g *Gate) Unlocked(id staff.ID) bool {
	e, ok := g.entries[id]
	return ok && e.unlocked
}

// CurrentAmount is how many instances have been hired.
func (g *Gate) CurrentAmount(id staff.ID) int {
	if e, ok := g.entries[id]; ok {
		return e.current
	}
	return 0
}

// LimitReached is true once the hired count equals the limit. Never true for
// unlimited archetypes.
func (g *Gate) LimitReached(id staff.ID) bool {
	e, ok := g.entries[id]
	if !ok || e.arch.Limit == staff.Unlimited {
		return false
	}
	return e.current >= e.arch.Limit
}

// Check decides whether id may be hired right now without changing state.
func (g *Gate) Check(id staff.ID) Rejection {
	e, ok := g.entries[id]
	switch {
	case !ok:
		return Unknown
	case !e.unlocked:
		return Locked
	case g.LimitReached(id):
		return LimitReached
	}
	return Accepted
}

// Record counts one hire of id and fires the archetype's explicit unlock
// chain. It returns the archetypes newly unlocked by this hire.
func (g *Gate) Record(id staff.ID) []staff.ID {
	e, ok := g.entries[id]
	if !ok {
		return nil
	}
	e.current++
	return g.UnlockAll(e.arch.Unlocks)
}

// Evaluate fires implicit triggers against the project's progress and
// returns what was newly unlocked.
func (g *Gate) Evaluate(p FeatureProgress) []staff.ID {
	if p.RemainingRatio() <= g.ManagerRatio {
		if g.Unlock(staff.ProjectManager) {
			return []staff.ID{staff.ProjectManager}
		}
	}
	return nil
}

// Selectable lists the archetypes that can be hired now, in menu order.
func (g *Gate) Selectable() []staff.ID {
	var out []staff.ID
	for _, id := range g.order {
		if g.Check(id) == Accepted {
			out = append(out, id)
		}
	}
	return out
}

// Holding is one line of the roster summary.
type Holding struct {
	ID     staff.ID
	Label  string
	Amount int
}

// Holdings lists every archetype with at least one instance, in menu order.
func (g *Gate) Holdings() []Holding {
	var out []Holding
	for _, id := range g.order {
		e := g.entries[id]
		if e.current > 0 {
			out = append(out, Holding{ID: id, Label: e.arch.Label, Amount: e.current})
		}
	}
	return out
}
