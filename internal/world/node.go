package world

import (
	"math"

	"github.com/talgya/herbworks/internal/catalog"
)

// ResourceNode is a harvestable, regrowing resource instance on a tile.
type ResourceNode struct {
	Resource     catalog.ResourceID `json:"resource"`
	MaxYield     int                `json:"max_yield"`
	CurrentYield int                `json:"current_yield"`
	RegrowthRate float64            `json:"regrowth_rate"` // units per second
	Herb         bool               `json:"herb"`
	Potency      float64            `json:"potency,omitempty"` // herbs only; does not affect yield
}

// NewResourceNode creates a node at full yield from a catalog definition.
// potency is ignored for non-herb resources.
func NewResourceNode(def catalog.Resource, potency float64) *ResourceNode {
	maxYield := def.Node.MaxYield
	if maxYield < 0 {
		maxYield = 0
	}
	n := &ResourceNode{
		Resource:     def.ID,
		MaxYield:     maxYield,
		CurrentYield: maxYield,
		RegrowthRate: math.Max(0, def.Node.RegrowthRate),
		Herb:         def.IsHerb(),
	}
	if n.Herb {
		n.Potency = potency
	}
	return n
}

// Harvest removes up to amount units and returns how many were taken.
// Yield never drops below zero.
func (n *ResourceNode) Harvest(amount int) int {
	if amount <= 0 || n.CurrentYield <= 0 {
		return 0
	}
	if amount > n.CurrentYield {
		amount = n.CurrentYield
	}
	n.CurrentYield -= amount
	return amount
}

// Regrow advances regrowth by one step of dt seconds. While below cap the
// node always gains at least one unit; the result is clamped to MaxYield.
func (n *ResourceNode) Regrow(dt float64) {
	if n.CurrentYield >= n.MaxYield {
		return
	}
	step := int(math.Floor(n.RegrowthRate * dt))
	if step < 1 {
		step = 1
	}
	n.CurrentYield += step
	if n.CurrentYield > n.MaxYield {
		n.CurrentYield = n.MaxYield
	}
}

// Depleted reports whether nothing is left to harvest.
func (n *ResourceNode) Depleted() bool {
	return n.CurrentYield <= 0
}
