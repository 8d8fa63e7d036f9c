package api

import (
	"github.com/talgya/herbworks/internal/building"
	"github.com/talgya/herbworks/internal/catalog"
	"github.com/talgya/herbworks/internal/item"
	"github.com/talgya/herbworks/internal/world"
)

type nodeView struct {
	Resource     catalog.ResourceID `json:"resource"`
	CurrentYield int                `json:"current_yield"`
	MaxYield     int                `json:"max_yield"`
	RegrowthRate float64            `json:"regrowth_rate"`
	Potency      float64            `json:"potency,omitempty"`
}

type tileView struct {
	X        int             `json:"x"`
	Y        int             `json:"y"`
	Biome    catalog.BiomeID `json:"biome"`
	Node     *nodeView       `json:"node,omitempty"`
	Building *buildingView   `json:"building,omitempty"`
}

// buildingView flattens every variant into one shape; fields that do not
// apply to a kind are omitted.
type buildingView struct {
	ID       building.ID   `json:"id"`
	Kind     building.Kind `json:"kind"`
	X        int           `json:"x"`
	Y        int           `json:"y"`
	Active   bool          `json:"active"`
	Progress float64       `json:"progress"`

	// Harvester
	NearbyNodes *int `json:"nearby_nodes,omitempty"`
	Harvested   *int `json:"harvested,omitempty"`

	// Conveyor
	Direction *building.Direction `json:"direction,omitempty"`
	Held      *item.Item          `json:"held,omitempty"`

	// DryingRack
	Current *item.Item  `json:"current,omitempty"`
	Input   []item.Item `json:"input,omitempty"`
	Output  []item.Item `json:"output,omitempty"`

	// Storage
	Capacity  *int        `json:"capacity,omitempty"`
	Inventory []item.Item `json:"inventory,omitempty"`
}

func viewTile(t *world.Tile, b building.Building) tileView {
	v := tileView{X: t.X, Y: t.Y, Biome: t.Biome}
	if n := t.Node; n != nil {
		v.Node = &nodeView{
			Resource:     n.Resource,
			CurrentYield: n.CurrentYield,
			MaxYield:     n.MaxYield,
			RegrowthRate: n.RegrowthRate,
			Potency:      n.Potency,
		}
	}
	if b != nil {
		bv := viewBuilding(b)
		v.Building = &bv
	}
	return v
}

func viewBuilding(b building.Building) buildingView {
	t := b.Tile()
	v := buildingView{ID: b.ID(), Kind: b.Kind(), X: t.X, Y: t.Y, Active: b.Active()}

	switch bb := b.(type) {
	case *building.Harvester:
		nearby, total := len(bb.Nearby()), bb.TotalHarvested()
		v.NearbyNodes, v.Harvested = &nearby, &total
		v.Progress = bb.Progress()
	case *building.Conveyor:
		dir := bb.Direction()
		v.Direction = &dir
		if held, ok := bb.Held(); ok {
			v.Held = &held
		}
	case *building.DryingRack:
		if cur, ok := bb.Current(); ok {
			v.Current = &cur
		}
		v.Input = bb.Input().Items()
		v.Output = bb.Output().Items()
		v.Progress = bb.Progress()
	case *building.Storage:
		capacity := bb.Inventory().Capacity()
		v.Capacity = &capacity
		v.Inventory = bb.Inventory().Items()
	}
	return v
}
