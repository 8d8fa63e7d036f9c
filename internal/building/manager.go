package building

import (
	"log/slog"

	"github.com/talgya/herbworks/internal/world"
)

type coord struct{ x, y int }

// Manager owns every placed building. It keeps registration order for ticking
// and a coordinate index for neighbour lookups.
type Manager struct {
	m         *world.Map
	buildings []Building
	byCoord   map[coord]Building
	byID      map[ID]Building
	nextID    ID
	stats     Stats
}

// NewManager creates an empty manager for the map.
func NewManager(m *world.Map) *Manager {
	return &Manager{
		m:       m,
		byCoord: make(map[coord]Building),
		byID:    make(map[ID]Building),
		nextID:  1,
	}
}

// Map returns the map the manager places onto.
func (mg *Manager) Map() *world.Map { return mg.m }

// CanPlace reports whether tile is a free tile of this manager's map: no
// building and no resource node.
func (mg *Manager) CanPlace(t *world.Tile) bool {
	if t == nil || mg.m.Get(t.X, t.Y) != t {
		return false
	}
	return !t.HasBuilding() && !t.HasNode()
}

// Place builds a variant with default settings. It returns false, changing
// nothing, when the tile is not placeable or the kind is unknown.
func (mg *Manager) Place(t *world.Tile, kind Kind) bool {
	if !mg.CanPlace(t) {
		return false
	}

	var b Building
	switch kind {
	case KindHarvester:
		b = newHarvester(mg.nextID, t, mg.m, &mg.stats)
	case KindConveyor:
		b = newConveyor(mg.nextID, t, East, mg, &mg.stats)
	case KindDryingRack:
		b = newDryingRack(mg.nextID, t, &mg.stats)
	case KindStorage:
		b = newStorage(mg.nextID, t, DefaultStorageCapacity, &mg.stats)
	default:
		return false
	}
	mg.register(b)
	return true
}

// PlaceConveyor places a conveyor facing dir.
func (mg *Manager) PlaceConveyor(t *world.Tile, dir Direction) bool {
	if !mg.CanPlace(t) {
		return false
	}
	mg.register(newConveyor(mg.nextID, t, dir, mg, &mg.stats))
	return true
}

// PlaceStorage places a storage holding up to capacity units. Non-positive
// capacity uses DefaultStorageCapacity.
func (mg *Manager) PlaceStorage(t *world.Tile, capacity int) bool {
	if !mg.CanPlace(t) {
		return false
	}
	mg.register(newStorage(mg.nextID, t, capacity, &mg.stats))
	return true
}

func (mg *Manager) register(b Building) {
	t := b.Tile()
	mg.nextID++
	mg.buildings = append(mg.buildings, b)
	mg.byCoord[coord{t.X, t.Y}] = b
	mg.byID[b.ID()] = b
	t.Building = b.ID()
	b.placed()

	slog.Debug("building placed", "id", b.ID(), "kind", b.Kind(), "x", t.X, "y", t.Y)
}

// Remove detaches and drops the building on tile. It returns false when
// there is none or the tile is not one of this manager's.
func (mg *Manager) Remove(t *world.Tile) bool {
	if t == nil {
		return false
	}
	b, ok := mg.byCoord[coord{t.X, t.Y}]
	if !ok || b.Tile() != t {
		return false
	}

	b.removed()
	t.Building = 0
	delete(mg.byCoord, coord{t.X, t.Y})
	delete(mg.byID, b.ID())
	for i, other := range mg.buildings {
		if other == b {
			mg.buildings = append(mg.buildings[:i], mg.buildings[i+1:]...)
			break
		}
	}

	slog.Debug("building removed", "id", b.ID(), "kind", b.Kind(), "x", t.X, "y", t.Y)
	return true
}

// Tick updates every active building once, in registration order.
func (mg *Manager) Tick(dt float64) {
	for _, b := range mg.buildings {
		if b.Active() {
			b.Update(dt)
		}
	}
}

// At returns the building on (x, y), or nil.
func (mg *Manager) At(x, y int) Building {
	return mg.byCoord[coord{x, y}]
}

// ByID returns the building with id, or nil.
func (mg *Manager) ByID(id ID) Building {
	return mg.byID[id]
}

// Buildings returns a copy of all buildings in registration order.
func (mg *Manager) Buildings() []Building {
	out := make([]Building, len(mg.buildings))
	copy(out, mg.buildings)
	return out
}

// OfKind returns the buildings of one kind in registration order.
func (mg *Manager) OfKind(kind Kind) []Building {
	var out []Building
	for _, b := range mg.buildings {
		if b.Kind() == kind {
			out = append(out, b)
		}
	}
	return out
}

// Count is the number of placed buildings.
func (mg *Manager) Count() int {
	return len(mg.buildings)
}

// Stats returns production totals since the manager was created. Removing a
// building does not subtract its contribution.
func (mg *Manager) Stats() Stats {
	return mg.stats
}
