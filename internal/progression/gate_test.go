package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talgya/soyu/internal/staff"
)

type ratio float64

func (r ratio) RemainingRatio() float64 { return float64(r) }

func TestInitialState(t *testing.T) {
	g := New(staff.Catalogue())
	assert.True(t, g.Unlocked(staff.Boss))
	assert.False(t, g.Unlocked(staff.StudentDeveloper))
	assert.False(t, g.Unlocked(staff.ProjectManager))
	assert.Equal(t, []staff.ID{staff.Boss}, g.Selectable())
}

func TestCheckReasons(t *testing.T) {
	g := New(staff.Catalogue())
	assert.Equal(t, Unknown, g.Check("intern"))
	assert.Equal(t, Locked, g.Check(staff.StudentDeveloper))

	g.Unlock(staff.StudentDeveloper)
	assert.Equal(t, Accepted, g.Check(staff.StudentDeveloper))
}

func TestLimitReached(t *testing.T) {
	for _, id := range []staff.ID{staff.GeniusDeveloper, staff.ProjectManager, staff.Boss} {
		t.Run(string(id), func(t *testing.T) {
			g := New(staff.Catalogue())
			g.Unlock(id)
			arch, _ := staff.Lookup(id)

			for i := 0; i < arch.Limit; i++ {
				assert.False(t, g.LimitReached(id))
				g.Record(id)
			}
			assert.True(t, g.LimitReached(id))
			assert.Equal(t, LimitReached, g.Check(id))
			assert.NotContains(t, g.Selectable(), id)
			assert.Equal(t, arch.Limit, g.CurrentAmount(id))
		})
	}
}

func TestUnlimitedNeverReachesLimit(t *testing.T) {
	g := New(staff.Catalogue())
	g.Unlock(staff.StudentDeveloper)
	for i := 0; i < 500; i++ {
		g.Record(staff.StudentDeveloper)
	}
	assert.False(t, g.LimitReached(staff.StudentDeveloper))
	assert.Equal(t, Accepted, g.Check(staff.StudentDeveloper))
}

func TestManagerUnlockIsIdempotent(t *testing.T) {
	g := New(staff.Catalogue())

	assert.Empty(t, g.Evaluate(ratio(0.95)))
	assert.False(t, g.Unlocked(staff.ProjectManager))

	assert.Equal(t, []staff.ID{staff.ProjectManager}, g.Evaluate(ratio(0.9)))
	assert.Empty(t, g.Evaluate(ratio(0.5)), "second trigger has no further effect")
	assert.True(t, g.Unlocked(staff.ProjectManager))

	assert.Empty(t, g.Evaluate(ratio(1.2)))
	assert.True(t, g.Unlocked(staff.ProjectManager), "unlock is one-directional")
}

func TestManagerHireUnlocksDesigners(t *testing.T) {
	g := New(staff.Catalogue())
	g.Unlock(staff.ProjectManager)

	got := g.Record(staff.ProjectManager)
	assert.ElementsMatch(t, []staff.ID{staff.StudentDesigner, staff.ShittyDesigner, staff.MediocreDesigner, staff.SeniorDesigner}, got)
	assert.Empty(t, g.Record(staff.ProjectManager))
}

func TestSelectableFollowsMenuOrder(t *testing.T) {
	g := New(staff.Catalogue())
	g.Record(staff.Boss)
	g.UnlockAll(staff.ProjectUnlocks)
	g.Unlock(staff.ProjectManager)
	g.Record(staff.ProjectManager)

	assert.Equal(t, []staff.ID{
		staff.StudentDeveloper, staff.ShittyDeveloper, staff.MediocreDeveloper, staff.SeniorDeveloper, staff.GeniusDeveloper,
		staff.MediocreDesigner, staff.StudentDesigner, staff.ShittyDesigner, staff.SeniorDesigner,
	}, g.Selectable())
}

func TestHoldings(t *testing.T) {
	g := New(staff.Catalogue())
	g.Record(staff.Boss)
	g.Record(staff.StudentDeveloper)
	g.Record(staff.StudentDeveloper)

	assert.Equal(t, []Holding{
		{ID: staff.Boss, Label: "Boss", Amount: 1},
		{ID: staff.StudentDeveloper, Label: "Student Developer", Amount: 2},
	}, g.Holdings())
}
