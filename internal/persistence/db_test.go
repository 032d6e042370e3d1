package persistence

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/soyu/internal/config"
	"github.com/talgya/soyu/internal/engine"
	"github.com/talgya/soyu/internal/project"
	"github.com/talgya/soyu/internal/staff"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "soyu.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "soyu.db")
	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())
}

func TestTopResultsOrdersByScore(t *testing.T) {
	db := openTestDB(t)
	at := time.Unix(1700000000, 0)

	for i, score := range []float64{12.5, 40, -3} {
		require.NoError(t, db.SaveResult(engine.Result{
			GameID:     string(rune('a' + i)),
			Project:    "demo",
			State:      "over",
			Reason:     "project",
			Turns:      10 * (i + 1),
			Score:      score,
			Started:    at,
			FinishedAt: at.Add(time.Duration(i) * time.Minute),
			Final:      project.Snapshot{Turn: 10, Metrics: map[project.Metric]float64{project.Features: 900}},
		}))
	}

	top, err := db.TopResults(2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "b", top[0].GameID)
	assert.Equal(t, 40.0, top[0].Score)
	assert.Equal(t, "a", top[1].GameID)
	assert.Equal(t, 900.0, top[1].Final.Metrics[project.Features])
	assert.Equal(t, at.Unix(), top[1].Started.Unix())
}

func TestSaveResultReplaces(t *testing.T) {
	db := openTestDB(t)
	r := engine.Result{GameID: "g1", Project: "demo", State: "playing", Started: time.Now(), FinishedAt: time.Now()}
	require.NoError(t, db.SaveResult(r))
	r.State = "won"
	r.Score = 7
	require.NoError(t, db.SaveResult(r))

	got, err := db.GetResult("g1")
	require.NoError(t, err)
	assert.Equal(t, "won", got.State)
	assert.Equal(t, 7.0, got.Score)
}

func TestEventsArePerGame(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.SaveEvents("g1", []engine.Event{
		{Turn: 0, Description: "Hired a Student Developer", Category: "hire"},
		{Turn: 3, Description: "Project Manager can now be hired", Category: "unlock"},
	}))
	require.NoError(t, db.SaveEvents("g2", []engine.Event{{Turn: 1, Description: "other", Category: "hire"}}))
	require.NoError(t, db.SaveEvents("g1", nil))

	events, err := db.RecentEvents("g1", 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "unlock", events[0].Category)
	assert.Equal(t, 3, events[0].Turn)
}

func TestSaveGameJournalsLedger(t *testing.T) {
	db := openTestDB(t)
	g := engine.New(config.DefaultGame())
	g.OnTurn = func(_ engine.Outcome, events []engine.Event) {
		require.NoError(t, db.SaveEvents(g.ID, events))
	}
	require.NoError(t, g.Setup("demo", 0))
	_, _, err := g.Hire(staff.StudentDeveloper)
	require.NoError(t, err)

	o, err := g.Advance()
	require.NoError(t, err)
	require.Equal(t, engine.Over, o.State)

	require.NoError(t, db.SaveGame(g))
	require.NoError(t, db.SaveGame(g), "saving twice is harmless")

	transfers, err := db.Transfers(g.ID)
	require.NoError(t, err)
	assert.Equal(t, g.Ledger.Transfers(), transfers)

	r, err := db.GetResult(g.ID)
	require.NoError(t, err)
	assert.Equal(t, "over", r.State)
	assert.Equal(t, "project", r.Reason)
	assert.Equal(t, 1, r.Turns)

	events, err := db.RecentEvents(g.ID, 100)
	require.NoError(t, err)
	assert.Equal(t, "bankruptcy", events[0].Category)

	name, err := db.GetMeta("last_project")
	require.NoError(t, err)
	assert.Equal(t, "demo", name)
}
