package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogIsValid(t *testing.T) {
	c := Default()

	assert.Len(t, c.Biomes(), 3)
	assert.Len(t, c.Resources(), 3)

	mint := c.MustResource(Mint)
	assert.True(t, mint.IsHerb())
	assert.Equal(t, 8, mint.Node.MaxYield)

	grove := c.MustBiome(ShadyGrove)
	assert.True(t, grove.SpawnsAnything())
}

func TestNew_RejectsInconsistentData(t *testing.T) {
	res := DefaultResources()

	tests := []struct {
		name    string
		biomes  []Biome
		res     []Resource
		wantErr error
	}{
		{
			name: "unknown resource in spawn rules",
			biomes: []Biome{{ID: "bog", Weight: 1, Spawn: SpawnRules{
				Resources: []ResourceSpawn{{Resource: "mandrake", Weight: 1}},
			}}},
			res:     res,
			wantErr: ErrUnknownResource,
		},
		{
			name:    "duplicate biome",
			biomes:  []Biome{{ID: "bog", Weight: 1}, {ID: "bog", Weight: 2}},
			res:     res,
			wantErr: ErrDuplicateID,
		},
		{
			name:    "duplicate resource",
			biomes:  nil,
			res:     append(DefaultResources(), Resource{ID: Mint}),
			wantErr: ErrDuplicateID,
		},
		{
			name:    "negative biome weight",
			biomes:  []Biome{{ID: "bog", Weight: -1}},
			res:     res,
			wantErr: ErrInvalidWeight,
		},
		{
			name:    "empty biome id",
			biomes:  []Biome{{Name: "Nameless", Weight: 1}},
			res:     res,
			wantErr: ErrEmptyID,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.biomes, tc.res)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestPickBiome_ZeroTotalWeightFallsBack(t *testing.T) {
	c, err := New([]Biome{{ID: "bog", Weight: 0}, {ID: "fen", Weight: 0}}, nil)
	require.NoError(t, err)

	for _, roll := range []float64{0, 0.3, 0.999} {
		assert.Equal(t, FallbackBiome, c.PickBiome(roll))
	}
}

func TestPickBiome_SkipsZeroWeight(t *testing.T) {
	c, err := New([]Biome{
		{ID: "bog", Weight: 0},
		{ID: "fen", Weight: 1},
		{ID: "moor", Weight: 3},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, BiomeID("fen"), c.PickBiome(0))
	assert.Equal(t, BiomeID("fen"), c.PickBiome(0.24))
	assert.Equal(t, BiomeID("moor"), c.PickBiome(0.25))
	assert.Equal(t, BiomeID("moor"), c.PickBiome(0.999999))
}

func TestWeightTable(t *testing.T) {
	tbl := NewWeightTable([]string{"a", "b", "c"}, []float64{1, 0, 1})
	assert.Equal(t, 2.0, tbl.Total())

	k, ok := tbl.Pick(0.1)
	require.True(t, ok)
	assert.Equal(t, "a", k)

	k, ok = tbl.Pick(0.75)
	require.True(t, ok)
	assert.Equal(t, "c", k)

	empty := NewWeightTable[string](nil, nil)
	_, ok = empty.Pick(0.5)
	assert.False(t, ok)
}

func TestBiomeWithoutSpawnsPicksNothing(t *testing.T) {
	c, err := New([]Biome{{ID: "barren", Weight: 1}}, nil)
	require.NoError(t, err)

	b := c.MustBiome("barren")
	assert.False(t, b.SpawnsAnything())
	_, ok := b.PickResource(0.5)
	assert.False(t, ok)
}
