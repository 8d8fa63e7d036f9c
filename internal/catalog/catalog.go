// Package catalog holds the pre-parsed biome and resource definitions that
// drive world generation and production. A Catalog is built once at startup,
// validated, and treated as immutable afterwards.
package catalog

import (
	"errors"
	"fmt"
	"sort"
)

// FallbackBiome is used when no biome carries a positive generation weight.
const FallbackBiome BiomeID = "mild_meadow"

// Resource categories.
const (
	CategoryHerb = "herb"
)

// BiomeID and ResourceID are the string identifiers used in config data.
type BiomeID string
type ResourceID string

var (
	ErrEmptyID         = errors.New("empty identifier")
	ErrDuplicateID     = errors.New("duplicate identifier")
	ErrUnknownResource = errors.New("unknown resource id")
	ErrInvalidWeight   = errors.New("invalid weight")
)

// Visual is opaque display metadata passed through to presentation clients.
type Visual struct {
	Color   string `json:"color"`
	Texture string `json:"texture,omitempty"`
	Icon    string `json:"icon,omitempty"`
}

// ResourceSpawn is one weighted entry in a biome's spawn table.
type ResourceSpawn struct {
	Resource ResourceID `json:"resource_id"`
	Weight   float64    `json:"weight"`
}

// SpawnRules controls cluster seeding for a biome.
type SpawnRules struct {
	ClusterCenterChance float64         `json:"cluster_center_chance"`
	Resources           []ResourceSpawn `json:"resources"`
}

// Biome describes one biome as loaded from config.
type Biome struct {
	ID        BiomeID    `json:"id"`
	Name      string     `json:"name"`
	Weight    float64    `json:"world_gen_weight"` // 0 excludes the biome from random selection
	Visual    Visual     `json:"visual"`
	Spawn     SpawnRules `json:"spawn_rules"`
	spawnPick WeightTable[ResourceID]
}

// Properties are the item-facing economics of a resource.
type Properties struct {
	StackSize int `json:"stack_size"`
	BaseValue int `json:"base_value"`
}

// NodeParams seed every resource node created for the resource.
type NodeParams struct {
	MaxYield     int     `json:"max_yield"`
	RegrowthRate float64 `json:"regrowth_rate"` // units per second
	Potency      float64 `json:"potency"`       // base potency, herbs only
}

// Resource describes one harvestable resource as loaded from config.
type Resource struct {
	ID         ResourceID `json:"id"`
	Name       string     `json:"name"`
	Category   string     `json:"category"`
	Visual     Visual     `json:"visual"`
	Properties Properties `json:"properties"`
	Node       NodeParams `json:"node"`
}

// IsHerb reports whether nodes of this resource carry potency.
func (r Resource) IsHerb() bool {
	return r.Category == CategoryHerb
}

// Catalog is the validated, immutable biome and resource registry.
type Catalog struct {
	biomes     []Biome // config order
	biomeIndex map[BiomeID]int
	resources  []Resource
	resIndex   map[ResourceID]int
	biomePick  WeightTable[BiomeID]
}

// New validates the given definitions and builds a Catalog.
// Any inconsistency is returned as an error; callers treat it as fatal.
func New(biomes []Biome, resources []Resource) (*Catalog, error) {
	c := &Catalog{
		biomeIndex: make(map[BiomeID]int, len(biomes)),
		resIndex:   make(map[ResourceID]int, len(resources)),
	}

	for _, r := range resources {
		if r.ID == "" {
			return nil, fmt.Errorf("resource %q: %w", r.Name, ErrEmptyID)
		}
		if _, dup := c.resIndex[r.ID]; dup {
			return nil, fmt.Errorf("resource %q: %w", r.ID, ErrDuplicateID)
		}
		if r.Node.MaxYield < 0 || r.Node.RegrowthRate < 0 {
			return nil, fmt.Errorf("resource %q: negative node parameters: %w", r.ID, ErrInvalidWeight)
		}
		c.resIndex[r.ID] = len(c.resources)
		c.resources = append(c.resources, r)
	}

	biomeIDs := make([]BiomeID, 0, len(biomes))
	biomeWeights := make([]float64, 0, len(biomes))
	for _, b := range biomes {
		if b.ID == "" {
			return nil, fmt.Errorf("biome %q: %w", b.Name, ErrEmptyID)
		}
		if _, dup := c.biomeIndex[b.ID]; dup {
			return nil, fmt.Errorf("biome %q: %w", b.ID, ErrDuplicateID)
		}
		if b.Weight < 0 {
			return nil, fmt.Errorf("biome %q: weight %v: %w", b.ID, b.Weight, ErrInvalidWeight)
		}
		if b.Spawn.ClusterCenterChance < 0 || b.Spawn.ClusterCenterChance > 1 {
			return nil, fmt.Errorf("biome %q: cluster chance %v: %w", b.ID, b.Spawn.ClusterCenterChance, ErrInvalidWeight)
		}

		resIDs := make([]ResourceID, 0, len(b.Spawn.Resources))
		resWeights := make([]float64, 0, len(b.Spawn.Resources))
		for _, s := range b.Spawn.Resources {
			if _, ok := c.resIndex[s.Resource]; !ok {
				return nil, fmt.Errorf("biome %q spawns %q: %w", b.ID, s.Resource, ErrUnknownResource)
			}
			if s.Weight < 0 {
				return nil, fmt.Errorf("biome %q spawns %q: %w", b.ID, s.Resource, ErrInvalidWeight)
			}
			resIDs = append(resIDs, s.Resource)
			resWeights = append(resWeights, s.Weight)
		}
		b.spawnPick = NewWeightTable(resIDs, resWeights)

		c.biomeIndex[b.ID] = len(c.biomes)
		c.biomes = append(c.biomes, b)
		biomeIDs = append(biomeIDs, b.ID)
		biomeWeights = append(biomeWeights, b.Weight)
	}
	c.biomePick = NewWeightTable(biomeIDs, biomeWeights)

	return c, nil
}

// Biome looks up a biome definition.
func (c *Catalog) Biome(id BiomeID) (Biome, bool) {
	i, ok := c.biomeIndex[id]
	if !ok {
		return Biome{}, false
	}
	return c.biomes[i], true
}

// MustBiome returns the definition for an id already known to be valid.
func (c *Catalog) MustBiome(id BiomeID) Biome {
	b, ok := c.Biome(id)
	if !ok {
		panic(fmt.Sprintf("catalog: no biome %q", id))
	}
	return b
}

// Resource looks up a resource definition.
func (c *Catalog) Resource(id ResourceID) (Resource, bool) {
	i, ok := c.resIndex[id]
	if !ok {
		return Resource{}, false
	}
	return c.resources[i], true
}

// MustResource returns the definition for an id already known to be valid.
func (c *Catalog) MustResource(id ResourceID) Resource {
	r, ok := c.Resource(id)
	if !ok {
		panic(fmt.Sprintf("catalog: no resource %q", id))
	}
	return r
}

// Biomes returns all biomes in config order.
func (c *Catalog) Biomes() []Biome {
	out := make([]Biome, len(c.biomes))
	copy(out, c.biomes)
	return out
}

// Resources returns all resources in config order.
func (c *Catalog) Resources() []Resource {
	out := make([]Resource, len(c.resources))
	copy(out, c.resources)
	return out
}

// PickBiome draws a biome by generation weight. roll must be in [0, 1).
// Falls back to FallbackBiome when no biome has positive weight.
func (c *Catalog) PickBiome(roll float64) BiomeID {
	id, ok := c.biomePick.Pick(roll)
	if !ok {
		return FallbackBiome
	}
	return id
}

// PickResource draws a resource from a biome's spawn table. roll must be in
// [0, 1). ok is false when the biome spawns nothing.
func (b Biome) PickResource(roll float64) (ResourceID, bool) {
	return b.spawnPick.Pick(roll)
}

// SpawnsAnything reports whether the biome has a usable spawn table.
func (b Biome) SpawnsAnything() bool {
	return b.spawnPick.Total() > 0
}

// WeightTable is a precomputed running-sum table for weighted picks.
// Zero-weight entries are dropped at construction.
type WeightTable[K comparable] struct {
	keys  []K
	cum   []float64
	total float64
}

// NewWeightTable builds a table from parallel key and weight slices.
func NewWeightTable[K comparable](keys []K, weights []float64) WeightTable[K] {
	t := WeightTable[K]{}
	for i, k := range keys {
		w := weights[i]
		if w <= 0 {
			continue
		}
		t.total += w
		t.keys = append(t.keys, k)
		t.cum = append(t.cum, t.total)
	}
	return t
}

// Total is the sum of all positive weights.
func (t WeightTable[K]) Total() float64 {
	return t.total
}

// Pick maps roll in [0, 1) onto the table.
func (t WeightTable[K]) Pick(roll float64) (K, bool) {
	var zero K
	if t.total <= 0 {
		return zero, false
	}
	target := roll * t.total
	i := sort.Search(len(t.cum), func(i int) bool { return t.cum[i] > target })
	if i >= len(t.keys) {
		// Rounding at the top edge.
		i = len(t.keys) - 1
	}
	return t.keys[i], true
}
