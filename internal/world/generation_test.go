package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/herbworks/internal/catalog"
)

func TestGenerate_Deterministic(t *testing.T) {
	cat := catalog.Default()
	cfg := DefaultGenConfig()
	cfg.Seed = 1234
	cfg.Width = 37
	cfg.Height = 23

	a := Generate(cfg, cat)
	b := Generate(cfg, cat)

	require.Equal(t, a.Width, b.Width)
	require.Equal(t, a.Height, b.Height)
	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			ta, tb := a.Get(x, y), b.Get(x, y)
			require.Equal(t, ta.Biome, tb.Biome, "biome at (%d,%d)", x, y)
			require.Equal(t, ta.Node, tb.Node, "node at (%d,%d)", x, y)
		}
	}
}

func TestGenerate_SeedMatters(t *testing.T) {
	cat := catalog.Default()
	cfg := DefaultGenConfig()
	cfg.Width, cfg.Height = 60, 60

	cfg.Seed = 1
	a := Generate(cfg, cat)
	cfg.Seed = 2
	b := Generate(cfg, cat)

	diff := 0
	for y := 0; y < 60; y++ {
		for x := 0; x < 60; x++ {
			if a.Get(x, y).Biome != b.Get(x, y).Biome {
				diff++
			}
		}
	}
	assert.Positive(t, diff)
}

func TestGenerate_EveryTileResolved(t *testing.T) {
	cat := catalog.Default()
	cfg := DefaultGenConfig()
	cfg.Width, cfg.Height = 13, 7 // partial chunks on both axes

	m := Generate(cfg, cat)
	total := 0
	for id, n := range m.BiomeCounts() {
		_, ok := cat.Biome(id)
		assert.True(t, ok, "unexpected biome %q", id)
		total += n
	}
	assert.Equal(t, 13*7, total)
}

func TestGenerate_BoundsReturnNil(t *testing.T) {
	m := Generate(SmallTestConfig(), catalog.Default())

	outside := [][2]int{{-1, 0}, {0, -1}, {10, 0}, {0, 10}, {10, 10}, {-5, -5}, {1 << 20, 3}}
	for _, p := range outside {
		assert.Nil(t, m.Get(p[0], p[1]), "(%d,%d)", p[0], p[1])
		assert.False(t, m.InBounds(p[0], p[1]))
	}

	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			tile := m.Get(x, y)
			require.NotNil(t, tile)
			assert.Equal(t, x, tile.X)
			assert.Equal(t, y, tile.Y)
		}
	}
}

func TestGenerate_ZeroWeightCatalogUsesFallback(t *testing.T) {
	cat, err := catalog.New([]catalog.Biome{{ID: "bog", Weight: 0}}, nil)
	require.NoError(t, err)

	cfg := SmallTestConfig()
	m := Generate(cfg, cat)

	counts := m.BiomeCounts()
	assert.Equal(t, map[catalog.BiomeID]int{catalog.FallbackBiome: 100}, counts)
	assert.Zero(t, m.NodeCount())
}

func TestGenerate_NoCopyNoBleedStillDeterministic(t *testing.T) {
	cat := catalog.Default()
	cfg := DefaultGenConfig()
	cfg.Width, cfg.Height = 20, 20
	cfg.CopyChance = 0
	cfg.BleedStrength = 0

	m := Generate(cfg, cat)

	// Without bleeding every tile matches its chunk.
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			origin := m.Get((x/5)*5, (y/5)*5)
			assert.Equal(t, origin.Biome, m.Get(x, y).Biome)
		}
	}
}

func TestGenerate_BleedOnlyNearSeams(t *testing.T) {
	cfg := DefaultGenConfig()
	cfg.Width, cfg.Height = 103, 97
	cfg.CopyChance = 0
	cfg.BleedStrength = 1

	g := newGenerator(cfg, catalog.Default())
	g.assignChunkBiomes()
	g.resolveTiles()

	// Tiles differing from their own chunk's biome, bucketed by seam distance.
	var changed, total [2]int
	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			cx, cy := x/cfg.ChunkSize, y/cfg.ChunkSize
			own, got := g.chunks.at(cx, cy), g.m.Get(x, y).Biome
			d := g.chunks.seamDistance(x, y)

			if d >= cfg.BlendDistance {
				require.Equal(t, own, got, "interior tile (%d,%d) bled", x, y)
				continue
			}
			if got != own {
				assert.Contains(t, g.chunks.adjacent(cx, cy), got, "tile (%d,%d) took a non-adjacent biome", x, y)
				changed[d]++
			}
			total[d]++
		}
	}

	require.Positive(t, total[0])
	require.Positive(t, total[1])
	rate0 := float64(changed[0]) / float64(total[0])
	rate1 := float64(changed[1]) / float64(total[1])
	assert.Positive(t, rate1)
	assert.Greater(t, rate0, rate1, "bleed chance falls off with seam distance")
}

func TestGenerate_FullCopyYieldsOneBiome(t *testing.T) {
	cfg := DefaultGenConfig()
	cfg.Width, cfg.Height = 43, 38
	cfg.CopyChance = 1

	g := newGenerator(cfg, catalog.Default())
	g.assignChunkBiomes()

	origin := g.chunks.at(0, 0)
	for cy := 0; cy < g.chunks.rows; cy++ {
		for cx := 0; cx < g.chunks.cols; cx++ {
			require.Equal(t, origin, g.chunks.at(cx, cy), "chunk (%d,%d)", cx, cy)
		}
	}

	// Bleeding can only pick adjacent chunk biomes, so the map stays uniform.
	m := Generate(cfg, catalog.Default())
	assert.Equal(t, map[catalog.BiomeID]int{origin: 43 * 38}, m.BiomeCounts())
}

func TestGenerate_ClusterStaysInCenterNeighborhood(t *testing.T) {
	cat, err := catalog.New([]catalog.Biome{{
		ID:     "herbfield",
		Weight: 1,
		Spawn: catalog.SpawnRules{
			ClusterCenterChance: 0.05,
			Resources:           []catalog.ResourceSpawn{{Resource: catalog.Mint, Weight: 1}},
		},
	}}, catalog.DefaultResources())
	require.NoError(t, err)

	cfg := DefaultGenConfig()
	cfg.Width, cfg.Height = 60, 60

	g := newGenerator(cfg, cat)
	g.assignChunkBiomes()
	g.resolveTiles()
	centers := g.findClusterCenters()
	require.NotEmpty(t, centers)

	for _, center := range centers {
		before := make(map[*Tile]bool)
		g.m.EachNode(func(tile *Tile, _ *ResourceNode) { before[tile] = true })

		g.growCluster(center)

		added := 0
		g.m.EachNode(func(tile *Tile, _ *ResourceNode) {
			if before[tile] {
				return
			}
			added++
			assert.LessOrEqual(t, abs(tile.X-center.X), 1, "herb outside 3x3 of center %v", center)
			assert.LessOrEqual(t, abs(tile.Y-center.Y), 1, "herb outside 3x3 of center %v", center)
		})
		assert.LessOrEqual(t, added, 1+cfg.ClusterExtraMax, "center %v", center)
		assert.True(t, center.HasNode())
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func TestGenerate_ClustersGroupHerbs(t *testing.T) {
	res := catalog.DefaultResources()
	cat, err := catalog.New([]catalog.Biome{{
		ID:     "herbfield",
		Weight: 1,
		Spawn: catalog.SpawnRules{
			ClusterCenterChance: 0.02,
			Resources:           []catalog.ResourceSpawn{{Resource: catalog.Mint, Weight: 1}},
		},
	}}, res)
	require.NoError(t, err)

	cfg := DefaultGenConfig()
	cfg.Width, cfg.Height = 80, 80
	m := Generate(cfg, cat)

	require.Positive(t, m.NodeCount())

	// Every node has at least one neighbor node: clusters are never a lone tile
	// unless all extra placements failed, which cannot happen on an open map
	// with ten walk steps per herb at this density.
	lonely := 0
	m.EachNode(func(tile *Tile, n *ResourceNode) {
		assert.Equal(t, catalog.Mint, n.Resource)
		assert.Equal(t, n.MaxYield, n.CurrentYield)
		assert.InDelta(t, 1.1, n.Potency, 1.1*0.15+0.001)

		hasNeighbor := false
		for _, nb := range m.Neighbors8(tile.X, tile.Y) {
			if nb.HasNode() {
				hasNeighbor = true
				break
			}
		}
		if !hasNeighbor {
			lonely++
		}
	})
	assert.Zero(t, lonely)
}

func TestGenerate_NonPositiveDimensionsClamp(t *testing.T) {
	cfg := DefaultGenConfig()
	cfg.Width, cfg.Height = 0, -3
	m := Generate(cfg, catalog.Default())
	assert.Equal(t, 1, m.Width)
	assert.Equal(t, 1, m.Height)
	assert.NotNil(t, m.Get(0, 0))
}

func TestChunkGrid_SeamDistance(t *testing.T) {
	// 12 wide with chunk 5: chunks are 5, 5, 2 wide.
	c := newChunkGrid(12, 5, 5)
	require.Equal(t, 3, c.cols)
	require.Equal(t, 1, c.rows)

	assert.Equal(t, 4, c.seamDistance(0, 2))  // map border is not a seam
	assert.Equal(t, 0, c.seamDistance(4, 2))  // right seam
	assert.Equal(t, 0, c.seamDistance(5, 2))  // left seam of middle chunk
	assert.Equal(t, 2, c.seamDistance(7, 2))  // middle of middle chunk
	assert.Equal(t, 0, c.seamDistance(10, 0)) // partial chunk left edge
	assert.Equal(t, 1, c.seamDistance(11, 0)) // partial chunk, map border right
}

func TestFertility_PotencyWithinVariance(t *testing.T) {
	f := NewFertility(7)
	for x := 0; x < 50; x += 7 {
		for y := 0; y < 50; y += 5 {
			v := f.At(x, y)
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)

			p := f.Potency(1.2, 0.15, x, y)
			assert.InDelta(t, 1.2, p, 1.2*0.15+0.001)
		}
	}
	assert.Equal(t, f.Potency(1.0, 0.15, 3, 4), NewFertility(7).Potency(1.0, 0.15, 3, 4))
}
