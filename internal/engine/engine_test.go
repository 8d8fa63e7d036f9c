package engine

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/herbworks/internal/building"
	"github.com/talgya/herbworks/internal/catalog"
	"github.com/talgya/herbworks/internal/item"
	"github.com/talgya/herbworks/internal/world"
)

func newTestSim(t *testing.T) *Simulation {
	t.Helper()
	m := world.Generate(world.SmallTestConfig(), catalog.Default())
	return NewSimulation(m, catalog.Default())
}

// freeTile returns the first tile in row-major order with no node.
func freeTile(t *testing.T, m *world.Map) *world.Tile {
	t.Helper()
	var found *world.Tile
	m.Each(func(tile *world.Tile) {
		if found == nil && !tile.HasNode() && !tile.HasBuilding() {
			found = tile
		}
	})
	require.NotNil(t, found)
	return found
}

func TestSimulation_StepIsDeterministic(t *testing.T) {
	run := func() SimStats {
		sim := newTestSim(t)
		sim.Do(func() {
			if sim.Map.Get(5, 5).HasNode() {
				sim.Map.ClearNode(5, 5)
			}
			sim.Buildings.Place(sim.Map.Get(5, 5), building.KindHarvester)
		})
		sim.StepN(100, 0.1)
		return sim.Snapshot()
	}

	a, b := run(), run()
	assert.Equal(t, a, b)
	assert.Equal(t, uint64(100), a.Tick)
}

func TestSimulation_RegrowsBeforeBuildings(t *testing.T) {
	sim := newTestSim(t)
	var node *world.ResourceNode
	sim.Map.EachNode(func(_ *world.Tile, n *world.ResourceNode) {
		if node == nil {
			node = n
		}
	})
	require.NotNil(t, node, "seed 42 map has nodes")

	node.CurrentYield = 0
	sim.Step(0.1)
	assert.Equal(t, 1, node.CurrentYield, "regrowth adds at least one unit")

	for i := 0; i < 50; i++ {
		sim.Step(0.1)
	}
	assert.Equal(t, node.MaxYield, node.CurrentYield)
}

func TestSimulation_StatsCountItemsAndKinds(t *testing.T) {
	sim := newTestSim(t)
	tile := freeTile(t, sim.Map)

	sim.Do(func() {
		require.True(t, sim.Buildings.PlaceStorage(tile, 20))
		s := sim.Buildings.At(tile.X, tile.Y).(*building.Storage)
		require.True(t, s.Store(item.Item{Type: item.TypeFreshHerb, Herb: catalog.Mint, Quantity: 7}))
	})

	st := sim.Snapshot()
	assert.Equal(t, 1, st.Buildings)
	assert.Equal(t, 1, st.BuildingsByKind[building.KindStorage])
	assert.Equal(t, 7, st.ItemsHeld)
	assert.Equal(t, sim.Map.NodeCount(), st.Nodes)

	st.BuildingsByKind[building.KindStorage] = 99
	assert.Equal(t, 1, sim.Snapshot().BuildingsByKind[building.KindStorage], "snapshot is a copy")
}

func TestSimulation_StepNZero(t *testing.T) {
	sim := newTestSim(t)
	sim.Step(0.1)
	assert.Equal(t, uint64(1), sim.StepN(0, 0.1))
}

type countingStepper struct {
	tick atomic.Uint64
	dt   atomic.Uint64 // last dt in microseconds
}

func (c *countingStepper) Step(dt float64) uint64 {
	c.dt.Store(uint64(dt * 1e6))
	return c.tick.Add(1)
}

func TestEngine_RunReportsAndStops(t *testing.T) {
	st := &countingStepper{}
	eng := NewEngine(st)
	eng.Interval = time.Millisecond
	eng.ReportEvery = 5

	var steps, reports atomic.Int32
	eng.OnStep = func(uint64) { steps.Add(1) }
	eng.OnReport = func(tick uint64) {
		reports.Add(1)
		if tick >= 10 {
			eng.Stop()
		}
	}

	done := make(chan struct{})
	go func() {
		eng.Run()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		eng.Stop()
		t.Fatal("engine did not stop")
	}

	assert.Equal(t, int32(10), steps.Load())
	assert.Equal(t, int32(2), reports.Load())
	assert.Equal(t, uint64(10), eng.Tick())
	assert.Equal(t, uint64(1000), st.dt.Load(), "dt is the interval regardless of speed")
	assert.False(t, eng.Running())
}

func TestEngine_AdvanceFiresCallbacks(t *testing.T) {
	st := &countingStepper{}
	eng := NewEngine(st)
	eng.ReportEvery = 5

	var steps int
	var reported []uint64
	eng.OnStep = func(uint64) { steps++ }
	eng.OnReport = func(tick uint64) { reported = append(reported, tick) }

	assert.Equal(t, uint64(12), eng.Advance(12, 0.25))
	assert.Equal(t, 12, steps)
	assert.Equal(t, []uint64{5, 10}, reported)
	assert.Equal(t, uint64(250000), st.dt.Load())
	assert.Equal(t, uint64(12), eng.Tick())

	assert.Equal(t, uint64(12), eng.Advance(0, 0.25))
	assert.Equal(t, []uint64{5, 10}, reported)
}

func TestEngine_PausedDoesNotStep(t *testing.T) {
	st := &countingStepper{}
	eng := NewEngine(st)
	eng.SetSpeed(0)

	done := make(chan struct{})
	go func() {
		eng.Run()
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	eng.Stop()
	<-done

	assert.Zero(t, st.tick.Load())
}

func TestEngine_SetSpeed(t *testing.T) {
	eng := NewEngine(&countingStepper{})
	assert.Equal(t, 1.0, eng.Speed())

	eng.SetSpeed(4)
	assert.Equal(t, 4.0, eng.Speed())

	eng.SetSpeed(-1)
	assert.Zero(t, eng.Speed())
	assert.InDelta(t, 0.1, eng.Delta(), 1e-12)
}

func TestSimTime(t *testing.T) {
	assert.Equal(t, "1m0s", SimTime(600, DefaultInterval))
	assert.Equal(t, "0s", SimTime(0, DefaultInterval))
}
