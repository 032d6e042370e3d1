package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/talgya/soyu/internal/staff"
)

// plan maps a turn number to the archetype hired just before it runs.
type plan map[int]staff.ID

// parsePlan reads "<archetype>@<turn>" entries. Turns start at 1 and each
// turn takes at most one hire.
func parsePlan(entries []string) (plan, error) {
	p := make(plan, len(entries))
	for _, e := range entries {
		rawID, rawTurn, ok := strings.Cut(e, "@")
		if !ok {
			return nil, fmt.Errorf("hire %q: want <archetype>@<turn>", e)
		}
		id, ok := staff.ParseID(rawID)
		if !ok {
			return nil, fmt.Errorf("hire %q: unknown archetype %q", e, rawID)
		}
		turn, err := strconv.Atoi(strings.TrimSpace(rawTurn))
		if err != nil || turn < 1 {
			return nil, fmt.Errorf("hire %q: turn must be a positive integer", e)
		}
		if prev, dup := p[turn]; dup {
			return nil, fmt.Errorf("hire %q: turn %d already hires %s", e, turn, prev)
		}
		p[turn] = id
	}
	return p, nil
}

// choice returns the hire scheduled for turn, or nil.
func (p plan) choice(turn int) *staff.ID {
	id, ok := p[turn]
	if !ok {
		return nil
	}
	return &id
}
