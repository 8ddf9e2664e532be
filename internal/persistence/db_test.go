package persistence

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/hexconquest/internal/mapgen"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "stats.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestFromReport(t *testing.T) {
	r := mapgen.Report{
		ID:       "abc",
		Rows:     10,
		Columns:  10,
		Players:  3,
		Holes:    14,
		Repair:   mapgen.RepairIsolated,
		Seated:   2,
		Duration: 1500 * time.Microsecond,
	}
	g := FromReport("m", r)

	assert.Equal(t, "abc", g.ID)
	assert.Equal(t, "m", g.Size)
	assert.Equal(t, "isolated", g.Repair)
	assert.Equal(t, int64(1500), g.ElapsedUS)
	assert.False(t, g.CreatedAt.IsZero())
}

func TestRecordAndRecent(t *testing.T) {
	db := openTemp(t)

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	for i, id := range []string{"first", "second", "third"} {
		g := Generation{
			ID:        id,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
			Size:      "s",
			Rows:      6,
			Columns:   6,
			Players:   2,
			Repair:    "ok",
			Seated:    2,
		}
		require.NoError(t, db.RecordGeneration(g))
	}

	recent, err := db.Recent(2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "third", recent[0].ID)
	assert.Equal(t, "second", recent[1].ID)
	assert.Equal(t, 6, recent[0].Rows)
	assert.True(t, base.Add(2*time.Second).Equal(recent[0].CreatedAt))

	err = db.RecordGeneration(Generation{ID: "first", CreatedAt: base, Repair: "ok"})
	assert.Error(t, err, "ids are unique")
}

func TestSummary(t *testing.T) {
	db := openTemp(t)

	empty, err := db.Summary()
	require.NoError(t, err)
	assert.Equal(t, Summary{}, empty)

	rows := []Generation{
		{ID: "a", Players: 2, Seated: 2, Holes: 4, Pruned: 0, Repair: "ok", ElapsedUS: 100},
		{ID: "b", Players: 3, Seated: 2, Holes: 8, Pruned: 2, Repair: "ok", ElapsedUS: 300},
		{ID: "c", Players: 2, Seated: 0, Holes: 36, Pruned: 0, Repair: "no_start", ElapsedUS: 200},
	}
	for _, g := range rows {
		g.CreatedAt = time.Now().UTC()
		require.NoError(t, db.RecordGeneration(g))
	}

	s, err := db.Summary()
	require.NoError(t, err)
	assert.Equal(t, 3, s.Total)
	assert.InDelta(t, 16.0, s.AvgHoles, 1e-9)
	assert.InDelta(t, 2.0/3.0, s.AvgPruned, 1e-9)
	assert.Equal(t, 1, s.RepairFailed)
	assert.Equal(t, 2, s.Underseated)
	assert.InDelta(t, 200.0, s.AvgElapsedUS, 1e-9)
}

func TestMeta(t *testing.T) {
	db := openTemp(t)

	_, err := db.GetMeta("started_at")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	require.NoError(t, db.SaveMeta("started_at", "one"))
	require.NoError(t, db.SaveMeta("started_at", "two"))

	v, err := db.GetMeta("started_at")
	require.NoError(t, err)
	assert.Equal(t, "two", v)
}
