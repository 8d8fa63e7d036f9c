package catalog

// Herb resource ids shipped with the default catalog.
const (
	Chamomile ResourceID = "chamomile"
	Mint      ResourceID = "mint"
	Echinacea ResourceID = "echinacea"
)

// Biome ids shipped with the default catalog.
const (
	SunnyMeadow BiomeID = "sunny_meadow"
	ShadyGrove  BiomeID = "shady_grove"
	MildMeadow  BiomeID = FallbackBiome
)

// DefaultResources returns the stock herb definitions.
func DefaultResources() []Resource {
	return []Resource{
		{
			ID:         Chamomile,
			Name:       "Chamomile",
			Category:   CategoryHerb,
			Visual:     Visual{Color: "f2e394", Texture: "herbs/chamomile.png", Icon: "icons/chamomile.png"},
			Properties: Properties{StackSize: 50, BaseValue: 4},
			Node:       NodeParams{MaxYield: 10, RegrowthRate: 0.10, Potency: 1.0},
		},
		{
			ID:         Mint,
			Name:       "Mint",
			Category:   CategoryHerb,
			Visual:     Visual{Color: "6fcf97", Texture: "herbs/mint.png", Icon: "icons/mint.png"},
			Properties: Properties{StackSize: 50, BaseValue: 5},
			Node:       NodeParams{MaxYield: 8, RegrowthRate: 0.12, Potency: 1.1},
		},
		{
			ID:         Echinacea,
			Name:       "Echinacea",
			Category:   CategoryHerb,
			Visual:     Visual{Color: "c86dd7", Texture: "herbs/echinacea.png", Icon: "icons/echinacea.png"},
			Properties: Properties{StackSize: 40, BaseValue: 8},
			Node:       NodeParams{MaxYield: 12, RegrowthRate: 0.08, Potency: 1.2},
		},
	}
}

// DefaultBiomes returns the stock biome definitions.
func DefaultBiomes() []Biome {
	return []Biome{
		{
			ID:     SunnyMeadow,
			Name:   "Sunny Meadow",
			Weight: 0.5,
			Visual: Visual{Color: "9bd35a", Texture: "tiles/sunny_meadow.png"},
			Spawn: SpawnRules{
				ClusterCenterChance: 0.04,
				Resources: []ResourceSpawn{
					{Resource: Chamomile, Weight: 0.65},
					{Resource: Mint, Weight: 0.35},
				},
			},
		},
		{
			ID:     ShadyGrove,
			Name:   "Shady Grove",
			Weight: 0.35,
			Visual: Visual{Color: "3f7d4e", Texture: "tiles/shady_grove.png"},
			Spawn: SpawnRules{
				ClusterCenterChance: 0.05,
				Resources: []ResourceSpawn{
					{Resource: Mint, Weight: 0.63},
					{Resource: Echinacea, Weight: 0.37},
				},
			},
		},
		{
			ID:     MildMeadow,
			Name:   "Mild Meadow",
			Weight: 0.15,
			Visual: Visual{Color: "b5d98a", Texture: "tiles/mild_meadow.png"},
			Spawn: SpawnRules{
				ClusterCenterChance: 0.02,
				Resources: []ResourceSpawn{
					{Resource: Chamomile, Weight: 0.5},
					{Resource: Mint, Weight: 0.5},
				},
			},
		},
	}
}

// Default returns the stock catalog. The stock data is known to be valid.
func Default() *Catalog {
	c, err := New(DefaultBiomes(), DefaultResources())
	if err != nil {
		panic("catalog: default data invalid: " + err.Error())
	}
	return c
}
