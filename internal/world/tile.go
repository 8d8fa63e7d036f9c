// Package world provides the tile grid, resource nodes, and the seeded
// procedural generator that populates them.
package world

import (
	"fmt"

	"github.com/talgya/herbworks/internal/catalog"
)

// BuildingID is a non-owning handle to a building registered with the
// building manager. Zero means no building.
type BuildingID uint64

// Tile is one cell of the world map.
type Tile struct {
	X     int             `json:"x"`
	Y     int             `json:"y"`
	Biome catalog.BiomeID `json:"biome"`

	// Node is owned by the tile. Nil when the tile has no resource.
	Node *ResourceNode `json:"node,omitempty"`

	// Building is a weak reference; the manager owns the building itself.
	Building BuildingID `json:"building,omitempty"`
}

// HasNode reports whether a resource node sits on the tile.
func (t *Tile) HasNode() bool {
	return t.Node != nil
}

// HasBuilding reports whether a building is attached to the tile.
func (t *Tile) HasBuilding() bool {
	return t.Building != 0
}

// String returns a short description used in logs.
func (t *Tile) String() string {
	return fmt.Sprintf("(%d,%d %s)", t.X, t.Y, t.Biome)
}
