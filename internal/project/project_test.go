package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/soyu/internal/ledger"
)

func newTestProject(t *testing.T, money float64) *Project {
	t.Helper()
	led := ledger.New()
	acct, err := led.Open("project", map[string]float64{ledger.Money: money})
	require.NoError(t, err)
	return New("demo", 1000, acct, led)
}

func TestNewProjectDefaults(t *testing.T) {
	p := newTestProject(t, 0)
	assert.Equal(t, 1000.0, p.Get(Features))
	assert.Equal(t, 1.0, p.Productivity())
	assert.Equal(t, 1.0, p.RemainingRatio())
	assert.False(t, p.Finished())
}

func TestScoreFormula(t *testing.T) {
	tests := []struct {
		name                      string
		f, b, d, doc, s, n, money float64
		prodFactor                float64
	}{
		{"fresh project", 1000, 0, 0, 0, 0, 0, 1000, 1},
		{"mixed metrics", 800, 12, 30, 7.5, 3.2, 44, 420, 0.8},
		{"negative money", 990, 1, 1, 0, 0, 10, -50, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProject(t, tt.money)
			p.Add(Features, tt.f-1000)
			p.Add(Bugs, tt.b)
			p.Add(TechnicalDebt, tt.d)
			p.Add(Documentation, tt.doc)
			p.Add(ServerMaintenance, tt.s)
			p.Add(DesignNeed, tt.n)
			p.ScaleProductivity(tt.prodFactor)

			want := ((-tt.f / 2) - tt.b - tt.d + tt.doc*3 - tt.s - tt.n + tt.money) * tt.prodFactor
			assert.InDelta(t, want, p.Score(), 1e-9)
		})
	}
}

func TestScoreIsNotCached(t *testing.T) {
	p := newTestProject(t, 100)
	before := p.Score()
	p.Add(Documentation, 10)
	assert.InDelta(t, before+30, p.Score(), 1e-9)
}

func TestProductivityNeverGrows(t *testing.T) {
	p := newTestProject(t, 0)
	p.ScaleProductivity(0.8)
	p.ScaleProductivity(1.5)
	p.ScaleProductivity(-2)
	assert.InDelta(t, 0.8, p.Productivity(), 1e-12)
	p.ScaleProductivity(0.9)
	assert.InDelta(t, 0.72, p.Productivity(), 1e-12)
}

func TestTurnAppliesBaseline(t *testing.T) {
	p := newTestProject(t, 1000)
	rep := p.Turn()

	assert.Equal(t, 1005.0, p.Get(Features))
	assert.Equal(t, 5.0, p.Get(DesignNeed))
	assert.False(t, rep.FundsExhausted)
	assert.InDelta(t, 1.005, rep.RemainingRatio, 1e-12)
}

func TestTurnReportsExhaustedFunds(t *testing.T) {
	p := newTestProject(t, 0)
	assert.True(t, p.Turn().FundsExhausted)

	q := newTestProject(t, -1)
	assert.True(t, q.Turn().FundsExhausted)
}

func TestFinished(t *testing.T) {
	p := newTestProject(t, 0)
	p.Add(Features, -1000)
	assert.True(t, p.Finished())
	assert.Equal(t, 0.0, p.RemainingRatio())
}

func TestSnapshotDelta(t *testing.T) {
	p := newTestProject(t, 500)
	before := p.Snapshot(0)

	p.Add(Features, -10)
	p.Add(Documentation, 2)
	p.Add(Bugs, 3)
	_, err := p.Ledger().Trade("project", "project", ledger.Money, 0)
	require.NoError(t, err)
	after := p.Snapshot(1)

	byMetric := map[Metric]Change{}
	for _, c := range after.Delta(before) {
		byMetric[c.Metric] = c
	}
	assert.Equal(t, -10.0, byMetric[Features].Delta())
	assert.True(t, byMetric[Features].Good())
	assert.True(t, byMetric[Documentation].Good())
	assert.False(t, byMetric[Bugs].Good())
	assert.False(t, byMetric[DesignNeed].Good())
	assert.Equal(t, 0.0, after.CashFlow(before))
}

func TestStringStatusLine(t *testing.T) {
	p := newTestProject(t, 1000)
	p.ScaleProductivity(0.8)
	assert.Equal(t,
		"demo: Budget: $1,000, Productivity: %80, Remaining Features: 1000, Bugs: 0, Technical Debt: 0, Documentation: 0, Server Costs: $0 Design Need: 0",
		p.String())
}
