package persistence

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/herbworks/internal/building"
	"github.com/talgya/herbworks/internal/engine"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestLedgerRoundTrip(t *testing.T) {
	db := openTestDB(t)

	runID, err := db.StartRun(42, 10, 10)
	require.NoError(t, err)
	require.Len(t, runID, 36)

	run, err := db.GetRun(runID)
	require.NoError(t, err)
	assert.Equal(t, int64(42), run.Seed)
	assert.Equal(t, 10, run.Width)
	assert.Positive(t, run.StartedAt)

	for tick := uint64(600); tick <= 3000; tick += 600 {
		st := engine.SimStats{
			Tick:       tick,
			Nodes:      20,
			TotalYield: int(tick / 100),
			Buildings:  3,
			Production: building.Stats{Harvested: int(tick / 10), Dried: 2, ConveyorMoves: 5},
		}
		require.NoError(t, db.RecordStats(runID, st))
	}

	all, err := db.StatsHistory(runID, 0, 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, uint64(600), all[0].Tick)
	assert.Equal(t, 60, all[0].HarvestedTotal)
	assert.Equal(t, 5, all[4].ConveyorMoves)

	window, err := db.StatsHistory(runID, 1200, 2400, 0)
	require.NoError(t, err)
	require.Len(t, window, 3)
	assert.Equal(t, uint64(1200), window[0].Tick)
	assert.Equal(t, uint64(2400), window[2].Tick)

	limited, err := db.StatsHistory(runID, 0, 0, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	other, err := db.StatsHistory("no-such-run", 0, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestMeta(t *testing.T) {
	db := openTestDB(t)

	_, err := db.GetMeta("last_tick")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	require.NoError(t, db.SaveMeta("last_tick", "600"))
	require.NoError(t, db.SaveMeta("last_tick", "1200"))

	v, err := db.GetMeta("last_tick")
	require.NoError(t, err)
	assert.Equal(t, "1200", v)
}
