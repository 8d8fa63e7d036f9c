// Package building provides the player-placed production buildings and the
// manager that places, removes, and ticks them.
//
// The variant set is closed: Harvester, Conveyor, DryingRack and Storage are
// the only implementations of Building, enforced by unexported hook methods.
package building

import (
	"errors"
	"fmt"
	"strings"

	"github.com/talgya/herbworks/internal/world"
)

// ID is the manager-assigned building identifier stored on tiles.
type ID = world.BuildingID

// Kind tags a building variant.
type Kind uint8

const (
	KindHarvester Kind = iota + 1
	KindConveyor
	KindDryingRack
	KindStorage
)

// KindInfo is static display and economy data for a kind.
type KindInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
	Cost        int    `json:"cost"`
}

var kindInfo = map[Kind]KindInfo{
	KindHarvester:  {Name: "harvester", DisplayName: "Harvester", Description: "Harvests herbs from nearby nodes", Cost: 100},
	KindConveyor:   {Name: "conveyor", DisplayName: "Conveyor", Description: "Moves items to the next building", Cost: 10},
	KindDryingRack: {Name: "drying_rack", DisplayName: "Drying Rack", Description: "Dries fresh herbs", Cost: 150},
	KindStorage:    {Name: "storage", DisplayName: "Storage", Description: "Stores items", Cost: 50},
}

// ErrUnknownKind is returned by ParseKind.
var ErrUnknownKind = errors.New("unknown building kind")

// Kinds returns every kind in declaration order.
func Kinds() []Kind {
	return []Kind{KindHarvester, KindConveyor, KindDryingRack, KindStorage}
}

// Info returns static data for the kind.
func (k Kind) Info() (KindInfo, bool) {
	info, ok := kindInfo[k]
	return info, ok
}

func (k Kind) String() string {
	if info, ok := kindInfo[k]; ok {
		return info.Name
	}
	return "unknown"
}

// MarshalText encodes the kind as its identifier.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes an identifier such as "storage".
func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// ParseKind maps an identifier such as "drying_rack" to a Kind.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, k := range Kinds() {
		if kindInfo[k].Name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%q: %w", s, ErrUnknownKind)
}

// Building is a per-tick entity attached to one tile.
type Building interface {
	ID() ID
	Kind() Kind
	Tile() *world.Tile
	Active() bool
	SetActive(active bool)

	// Update advances the building by dt seconds.
	Update(dt float64)

	placed()
	removed()
}

// Stats are production totals across every building a manager has run.
type Stats struct {
	Harvested     int `json:"harvested"`
	Dried         int `json:"dried"`
	ConveyorMoves int `json:"conveyor_moves"`
}

type base struct {
	id     ID
	kind   Kind
	tile   *world.Tile // not owned; the map outlives the building
	active bool
	stats  *Stats
}

func newBase(id ID, kind Kind, tile *world.Tile, stats *Stats) base {
	return base{id: id, kind: kind, tile: tile, active: true, stats: stats}
}

func (b *base) ID() ID                { return b.id }
func (b *base) Kind() Kind            { return b.kind }
func (b *base) Tile() *world.Tile     { return b.tile }
func (b *base) Active() bool          { return b.active }
func (b *base) SetActive(active bool) { b.active = active }

func (b *base) placed()  {}
func (b *base) removed() {}
