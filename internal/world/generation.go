// World generation: chunked biome assignment with seam bleeding, then
// cluster-seeded herb placement.
package world

import (
	"math"
	"math/rand"

	"github.com/talgya/herbworks/internal/catalog"
)

// GenConfig holds world generation parameters.
type GenConfig struct {
	Seed   int64
	Width  int
	Height int

	ChunkSize     int     // Side of a square biome chunk
	CopyChance    float64 // Chance a chunk copies its left/below neighbor
	BlendDistance int     // Tiles from a chunk seam that may bleed
	BleedStrength float64 // Bleed chance right on the seam

	ClusterExtraMin int // Extra herbs per cluster, inclusive range
	ClusterExtraMax int
	ClusterAttempts int // Random-walk steps per extra herb

	PotencyVariance float64 // ± fraction applied by the fertility field
}

// DefaultGenConfig returns the standard world.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Seed:            69161,
		Width:           500,
		Height:          500,
		ChunkSize:       5,
		CopyChance:      0.75,
		BlendDistance:   2,
		BleedStrength:   0.5,
		ClusterExtraMin: 2,
		ClusterExtraMax: 4,
		ClusterAttempts: 10,
		PotencyVariance: 0.15,
	}
}

// SmallTestConfig returns a tiny world for rapid iteration.
func SmallTestConfig() GenConfig {
	cfg := DefaultGenConfig()
	cfg.Seed = 42
	cfg.Width = 10
	cfg.Height = 10
	return cfg
}

func (cfg GenConfig) normalized() GenConfig {
	if cfg.Width < 1 {
		cfg.Width = 1
	}
	if cfg.Height < 1 {
		cfg.Height = 1
	}
	if cfg.ChunkSize < 1 {
		cfg.ChunkSize = 1
	}
	if cfg.BlendDistance < 0 {
		cfg.BlendDistance = 0
	}
	if cfg.ClusterExtraMin < 0 {
		cfg.ClusterExtraMin = 0
	}
	if cfg.ClusterExtraMax < cfg.ClusterExtraMin {
		cfg.ClusterExtraMax = cfg.ClusterExtraMin
	}
	if cfg.ClusterAttempts < 0 {
		cfg.ClusterAttempts = 0
	}
	return cfg
}

// Generate creates a complete world map. The result depends only on cfg and
// the catalog: every random draw comes from one stream seeded by cfg.Seed,
// consumed in a fixed order (chunk biomes row-major, tile bleeding row-major,
// cluster-center rolls row-major, then cluster growth in discovery order).
func Generate(cfg GenConfig, cat *catalog.Catalog) *Map {
	g := newGenerator(cfg, cat)
	g.assignChunkBiomes()
	g.resolveTiles()

	for _, center := range g.findClusterCenters() {
		g.growCluster(center)
	}

	return g.m
}

type generator struct {
	cfg       GenConfig
	cat       *catalog.Catalog
	rng       *rand.Rand
	m         *Map
	chunks    *chunkGrid
	fertility *Fertility
}

func newGenerator(cfg GenConfig, cat *catalog.Catalog) *generator {
	cfg = cfg.normalized()
	g := &generator{
		cfg:       cfg,
		cat:       cat,
		rng:       rand.New(rand.NewSource(cfg.Seed)),
		m:         NewMap(cfg.Width, cfg.Height),
		chunks:    newChunkGrid(cfg.Width, cfg.Height, cfg.ChunkSize),
		fertility: NewFertility(cfg.Seed + 1),
	}
	g.m.Seed = cfg.Seed
	return g
}

// assignChunkBiomes picks a biome per chunk. The origin chunk always draws
// fresh; others copy a left/below neighbor with CopyChance.
func (g *generator) assignChunkBiomes() {
	c := g.chunks
	for cy := 0; cy < c.rows; cy++ {
		for cx := 0; cx < c.cols; cx++ {
			if cx == 0 && cy == 0 {
				c.set(cx, cy, g.cat.PickBiome(g.rng.Float64()))
				continue
			}

			if g.rng.Float64() < g.cfg.CopyChance {
				var candidates [2]catalog.BiomeID
				n := 0
				if cx > 0 {
					candidates[n] = c.at(cx-1, cy)
					n++
				}
				if cy > 0 {
					candidates[n] = c.at(cx, cy-1)
					n++
				}
				if n > 0 {
					c.set(cx, cy, candidates[g.rng.Intn(n)])
					continue
				}
			}

			c.set(cx, cy, g.cat.PickBiome(g.rng.Float64()))
		}
	}
}

// resolveTiles stamps chunk biomes onto tiles, letting tiles near an internal
// chunk seam bleed into an adjacent chunk's biome.
func (g *generator) resolveTiles() {
	c := g.chunks
	blend := g.cfg.BlendDistance
	for y := 0; y < g.m.Height; y++ {
		for x := 0; x < g.m.Width; x++ {
			cx, cy := x/c.size, y/c.size
			biome := c.at(cx, cy)

			adj := c.adjacent(cx, cy)
			if len(adj) > 0 && blend > 0 {
				d := c.seamDistance(x, y)
				if d < blend {
					chance := (1 - float64(d)/float64(blend)) * g.cfg.BleedStrength
					if g.rng.Float64() < chance {
						biome = adj[g.rng.Intn(len(adj))]
					}
				}
			}

			g.m.Get(x, y).Biome = biome
		}
	}
}

// findClusterCenters rolls once per tile against its biome's cluster chance.
func (g *generator) findClusterCenters() []*Tile {
	var centers []*Tile
	g.m.Each(func(t *Tile) {
		roll := g.rng.Float64()
		b, ok := g.cat.Biome(t.Biome)
		if ok && roll < b.Spawn.ClusterCenterChance {
			centers = append(centers, t)
		}
	})
	return centers
}

// growCluster places the center's canonical herb on the center (if free) and
// on a handful of tiles reached by a bounded walk around it.
func (g *generator) growCluster(center *Tile) {
	b, ok := g.cat.Biome(center.Biome)
	if !ok || !b.SpawnsAnything() {
		return
	}
	resID, _ := b.PickResource(g.rng.Float64())
	def := g.cat.MustResource(resID)

	if !center.HasNode() {
		g.place(center, def)
	}

	extra := g.cfg.ClusterExtraMin + g.rng.Intn(g.cfg.ClusterExtraMax-g.cfg.ClusterExtraMin+1)
	for i := 0; i < extra; i++ {
		x, y := center.X, center.Y
		for attempt := 0; attempt < g.cfg.ClusterAttempts; attempt++ {
			x = clamp(x+g.rng.Intn(3)-1, center.X-1, center.X+1)
			y = clamp(y+g.rng.Intn(3)-1, center.Y-1, center.Y+1)
			if x == center.X && y == center.Y {
				continue
			}
			t := g.m.Get(x, y)
			if t == nil || t.HasNode() {
				continue
			}
			g.place(t, def)
			break
		}
	}
}

func (g *generator) place(t *Tile, def catalog.Resource) {
	potency := 0.0
	if def.IsHerb() {
		potency = g.fertility.Potency(def.Node.Potency, g.cfg.PotencyVariance, t.X, t.Y)
	}
	t.Node = NewResourceNode(def, potency)
}

// chunkGrid tracks per-chunk biomes. Edge chunks may be partial.
type chunkGrid struct {
	size       int
	cols, rows int
	width      int
	height     int
	biomes     []catalog.BiomeID
}

func newChunkGrid(width, height, size int) *chunkGrid {
	cols := (width + size - 1) / size
	rows := (height + size - 1) / size
	return &chunkGrid{
		size:   size,
		cols:   cols,
		rows:   rows,
		width:  width,
		height: height,
		biomes: make([]catalog.BiomeID, cols*rows),
	}
}

func (c *chunkGrid) at(cx, cy int) catalog.BiomeID {
	return c.biomes[cy*c.cols+cx]
}

func (c *chunkGrid) set(cx, cy int, b catalog.BiomeID) {
	c.biomes[cy*c.cols+cx] = b
}

// adjacent returns the biomes of the existing chunks left, right, below and
// above (cx, cy), in that order.
func (c *chunkGrid) adjacent(cx, cy int) []catalog.BiomeID {
	out := make([]catalog.BiomeID, 0, 4)
	if cx > 0 {
		out = append(out, c.at(cx-1, cy))
	}
	if cx < c.cols-1 {
		out = append(out, c.at(cx+1, cy))
	}
	if cy > 0 {
		out = append(out, c.at(cx, cy-1))
	}
	if cy < c.rows-1 {
		out = append(out, c.at(cx, cy+1))
	}
	return out
}

// seamDistance is the distance from (x, y) to the nearest edge of its chunk
// that borders another chunk. Map borders are not seams.
func (c *chunkGrid) seamDistance(x, y int) int {
	cx, cy := x/c.size, y/c.size
	lx, ly := x-cx*c.size, y-cy*c.size
	w := min(c.size, c.width-cx*c.size)
	h := min(c.size, c.height-cy*c.size)

	d := math.MaxInt
	if cx > 0 {
		d = min(d, lx)
	}
	if cx < c.cols-1 {
		d = min(d, w-1-lx)
	}
	if cy > 0 {
		d = min(d, ly)
	}
	if cy < c.rows-1 {
		d = min(d, h-1-ly)
	}
	return d
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// BiomeName returns the display name for a biome, or its id if unknown.
func BiomeName(cat *catalog.Catalog, id catalog.BiomeID) string {
	if b, ok := cat.Biome(id); ok && b.Name != "" {
		return b.Name
	}
	return string(id)
}
