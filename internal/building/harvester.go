package building

import (
	"log/slog"

	"github.com/talgya/herbworks/internal/world"
)

const (
	HarvestRadius   = 1   // Adjacent tiles only
	HarvestInterval = 2.0 // Seconds between harvest cycles
	HarvestAmount   = 1   // Units taken per node per cycle
)

// Harvester collects yield from resource nodes around its tile.
//
// Harvested yield is only counted; it is not turned into items, so there is
// nothing for a conveyor to pull from a harvester.
type Harvester struct {
	base
	m         *world.Map
	nearby    []*world.ResourceNode
	timer     float64
	harvested int
}

func newHarvester(id ID, tile *world.Tile, m *world.Map, stats *Stats) *Harvester {
	return &Harvester{base: newBase(id, KindHarvester, tile, stats), m: m}
}

func (h *Harvester) placed() {
	h.Rescan()
}

// Rescan rebuilds the cached node list. World edits are not picked up until
// this is called.
func (h *Harvester) Rescan() {
	h.nearby = h.nearby[:0]
	for dx := -HarvestRadius; dx <= HarvestRadius; dx++ {
		for dy := -HarvestRadius; dy <= HarvestRadius; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			t := h.m.Get(h.tile.X+dx, h.tile.Y+dy)
			if t != nil && t.HasNode() {
				h.nearby = append(h.nearby, t.Node)
			}
		}
	}
}

// Update accumulates time while nodes are in range and harvests every
// HarvestInterval seconds.
func (h *Harvester) Update(dt float64) {
	if len(h.nearby) == 0 {
		return
	}

	h.timer += dt
	if h.timer >= HarvestInterval {
		h.timer = 0
		h.harvest()
	}
}

func (h *Harvester) harvest() {
	for _, n := range h.nearby {
		if n.Depleted() {
			continue
		}
		taken := n.Harvest(HarvestAmount)
		h.harvested += taken
		h.stats.Harvested += taken
		slog.Debug("harvested",
			"building", h.id,
			"resource", n.Resource,
			"amount", taken,
			"total", h.harvested,
		)
	}
}

// Nearby returns a copy of the cached node references.
func (h *Harvester) Nearby() []*world.ResourceNode {
	out := make([]*world.ResourceNode, len(h.nearby))
	copy(out, h.nearby)
	return out
}

// TotalHarvested is the cumulative yield taken by this harvester.
func (h *Harvester) TotalHarvested() int {
	return h.harvested
}

// Progress is the fraction of the current harvest interval elapsed.
func (h *Harvester) Progress() float64 {
	return h.timer / HarvestInterval
}
