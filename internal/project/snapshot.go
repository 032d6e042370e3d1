package project

// Snapshot is a value copy of every project metric, taken between turns so
// the presentation layer can show what changed.
type Snapshot struct {
	Turn         int                `json:"turn"`
	Metrics      map[Metric]float64 `json:"metrics"`
	Productivity float64            `json:"productivity"`
	Money        float64            `json:"money"`
	Score        float64            `json:"score"`
}

// Snapshot captures the current state.
func (p *Project) Snapshot(turn int) Snapshot {
	m := make(map[Metric]float64, len(AllMetrics()))
	for _, metric := range AllMetrics() {
		m[metric] = p.Get(metric)
	}
	return Snapshot{
		Turn:         turn,
		Metrics:      m,
		Productivity: p.productivity,
		Money:        p.Money(),
		Score:        p.Score(),
	}
}

// Change is the signed difference of one metric between two snapshots.
type Change struct {
	Metric Metric
	Before float64
	After  float64
}

// Delta is After - Before.
func (c Change) Delta() float64 {
	return c.After - c.Before
}

// Good reports whether the change helps the player. Zero change is neither.
func (c Change) Good() bool {
	d := c.Delta()
	if c.Metric.Reverse() {
		return d < 0
	}
	return d > 0
}

// Delta compares s against an earlier snapshot, in AllMetrics order.
func (s Snapshot) Delta(prev Snapshot) []Change {
	out := make([]Change, 0, len(AllMetrics()))
	for _, m := range AllMetrics() {
		out = append(out, Change{Metric: m, Before: prev.Metrics[m], After: s.Metrics[m]})
	}
	return out
}

// CashFlow is the budget change since prev.
func (s Snapshot) CashFlow(prev Snapshot) float64 {
	return s.Money - prev.Money
}
