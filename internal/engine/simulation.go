package engine

import (
	"log/slog"
	"maps"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/talgya/herbworks/internal/building"
	"github.com/talgya/herbworks/internal/catalog"
	"github.com/talgya/herbworks/internal/world"
)

// Simulation holds the complete world state and runs one step at a time.
// All access from other goroutines goes through Do or Snapshot so it only
// ever lands between steps.
type Simulation struct {
	mu sync.Mutex

	Map       *world.Map
	Catalog   *catalog.Catalog
	Buildings *building.Manager

	tick  uint64
	stats SimStats
}

// SimStats is a point-in-time production summary.
type SimStats struct {
	Tick            uint64                `json:"tick"`
	Nodes           int                   `json:"nodes"`
	DepletedNodes   int                   `json:"depleted_nodes"`
	TotalYield      int                   `json:"total_yield"`
	Buildings       int                   `json:"buildings"`
	BuildingsByKind map[building.Kind]int `json:"buildings_by_kind"`
	ItemsHeld       int                   `json:"items_held"`
	Production      building.Stats        `json:"production"`
}

// NewSimulation wraps a generated map with an empty building manager.
func NewSimulation(m *world.Map, cat *catalog.Catalog) *Simulation {
	sim := &Simulation{
		Map:       m,
		Catalog:   cat,
		Buildings: building.NewManager(m),
	}
	sim.updateStats()
	return sim
}

// Step advances one tick: regrow every node in row-major order, then update
// buildings in registration order.
func (s *Simulation) Step(dt float64) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tick++
	s.Map.EachNode(func(_ *world.Tile, n *world.ResourceNode) {
		n.Regrow(dt)
	})
	s.Buildings.Tick(dt)
	s.updateStats()
	return s.tick
}

// StepN runs n steps of dt and returns the final tick.
func (s *Simulation) StepN(n int, dt float64) uint64 {
	if n <= 0 {
		return s.CurrentTick()
	}
	var tick uint64
	for i := 0; i < n; i++ {
		tick = s.Step(dt)
	}
	return tick
}

// Do runs fn between steps. Stats are refreshed afterwards so edits show up
// in the next snapshot.
func (s *Simulation) Do(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn()
	s.updateStats()
}

// Snapshot returns a copy of the latest stats.
func (s *Simulation) Snapshot() SimStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.stats
	out.BuildingsByKind = maps.Clone(s.stats.BuildingsByKind)
	return out
}

// CurrentTick returns the most recently processed tick number.
func (s *Simulation) CurrentTick() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tick
}

// Report logs a production summary.
func (s *Simulation) Report(tick uint64) {
	st := s.Snapshot()
	slog.Info("production report",
		"tick", tick,
		"nodes", st.Nodes,
		"depleted", st.DepletedNodes,
		"total_yield", humanize.Comma(int64(st.TotalYield)),
		"buildings", st.Buildings,
		"items_held", st.ItemsHeld,
		"harvested", humanize.Comma(int64(st.Production.Harvested)),
		"dried", humanize.Comma(int64(st.Production.Dried)),
		"conveyor_moves", humanize.Comma(int64(st.Production.ConveyorMoves)),
	)
}

func (s *Simulation) updateStats() {
	st := SimStats{
		Tick:            s.tick,
		BuildingsByKind: make(map[building.Kind]int),
		Production:      s.Buildings.Stats(),
	}

	s.Map.EachNode(func(_ *world.Tile, n *world.ResourceNode) {
		st.Nodes++
		st.TotalYield += n.CurrentYield
		if n.Depleted() {
			st.DepletedNodes++
		}
	})

	for _, b := range s.Buildings.Buildings() {
		st.Buildings++
		st.BuildingsByKind[b.Kind()]++
		st.ItemsHeld += itemsHeld(b)
	}

	s.stats = st
}

// itemsHeld counts every unit a building holds, including work in progress.
func itemsHeld(b building.Building) int {
	switch v := b.(type) {
	case *building.Storage:
		return v.Inventory().Total()
	case *building.DryingRack:
		n := v.Input().Total() + v.Output().Total()
		if cur, ok := v.Current(); ok {
			n += cur.Quantity
		}
		return n
	case *building.Conveyor:
		if held, ok := v.Held(); ok {
			return held.Quantity
		}
	}
	return 0
}
