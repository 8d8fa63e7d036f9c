package world

import (
	"fmt"

	"github.com/talgya/herbworks/internal/catalog"
)

// Map holds the fixed-size tile grid. Tiles live in one row-major slice that
// never grows, so tile pointers stay valid for the life of the map.
type Map struct {
	Width  int   `json:"width"`
	Height int   `json:"height"`
	Seed   int64 `json:"seed"`

	tiles []Tile
}

// NewMap creates a width × height grid of tiles with no biome assigned.
// Non-positive dimensions are clamped to 1.
func NewMap(width, height int) *Map {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	m := &Map{
		Width:  width,
		Height: height,
		tiles:  make([]Tile, width*height),
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			t := &m.tiles[y*width+x]
			t.X = x
			t.Y = y
		}
	}
	return m
}

// InBounds returns true if (x, y) lies inside the grid.
func (m *Map) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.Width && y < m.Height
}

// Get returns the tile at (x, y), or nil if out of bounds.
func (m *Map) Get(x, y int) *Tile {
	if !m.InBounds(x, y) {
		return nil
	}
	return &m.tiles[y*m.Width+x]
}

// Each calls fn for every tile in row-major order (y outer, x inner).
func (m *Map) Each(fn func(t *Tile)) {
	for i := range m.tiles {
		fn(&m.tiles[i])
	}
}

// EachNode calls fn for every resource node in row-major order.
func (m *Map) EachNode(fn func(t *Tile, n *ResourceNode)) {
	for i := range m.tiles {
		if n := m.tiles[i].Node; n != nil {
			fn(&m.tiles[i], n)
		}
	}
}

// Nodes lists every resource node in row-major order.
func (m *Map) Nodes() []*ResourceNode {
	var out []*ResourceNode
	m.EachNode(func(_ *Tile, n *ResourceNode) {
		out = append(out, n)
	})
	return out
}

// Neighbors8 returns the existing tiles around (x, y), excluding the tile
// itself. Order is dx outer, dy inner, both from -1 to 1.
func (m *Map) Neighbors8(x, y int) []*Tile {
	out := make([]*Tile, 0, 8)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if t := m.Get(x+dx, y+dy); t != nil {
				out = append(out, t)
			}
		}
	}
	return out
}

// PlaceNode puts a node on an empty tile. Nodes and buildings are mutually
// exclusive, so a tile holding either is rejected.
func (m *Map) PlaceNode(x, y int, n *ResourceNode) bool {
	t := m.Get(x, y)
	if t == nil || n == nil || t.HasNode() || t.HasBuilding() {
		return false
	}
	t.Node = n
	return true
}

// ClearNode removes the node from a tile. Buildings that cached it keep
// their reference until rescanned.
func (m *Map) ClearNode(x, y int) bool {
	t := m.Get(x, y)
	if t == nil || t.Node == nil {
		return false
	}
	t.Node = nil
	return true
}

// NodeCount returns the number of tiles holding a resource node.
func (m *Map) NodeCount() int {
	count := 0
	for i := range m.tiles {
		if m.tiles[i].Node != nil {
			count++
		}
	}
	return count
}

// BiomeCounts returns a histogram of tile biomes.
func (m *Map) BiomeCounts() map[catalog.BiomeID]int {
	counts := make(map[catalog.BiomeID]int)
	for i := range m.tiles {
		counts[m.tiles[i].Biome]++
	}
	return counts
}

// ResourceCounts returns a histogram of node resource types.
func (m *Map) ResourceCounts() map[catalog.ResourceID]int {
	counts := make(map[catalog.ResourceID]int)
	m.EachNode(func(_ *Tile, n *ResourceNode) {
		counts[n.Resource]++
	})
	return counts
}

// String returns a summary of the map.
func (m *Map) String() string {
	return fmt.Sprintf("Map(%dx%d, seed=%d, nodes=%d)", m.Width, m.Height, m.Seed, m.NodeCount())
}
