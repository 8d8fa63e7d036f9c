package building

import (
	"github.com/talgya/herbworks/internal/item"
	"github.com/talgya/herbworks/internal/world"
)

// DefaultStorageCapacity applies when a storage is placed without a size.
const DefaultStorageCapacity = 10

// Storage is a passive FIFO container.
type Storage struct {
	base
	inv *item.Inventory
}

func newStorage(id ID, tile *world.Tile, capacity int, stats *Stats) *Storage {
	if capacity <= 0 {
		capacity = DefaultStorageCapacity
	}
	return &Storage{base: newBase(id, KindStorage, tile, stats), inv: item.NewInventory(capacity)}
}

// Update does nothing; storage only reacts to conveyors and deposits.
func (s *Storage) Update(float64) {}

// Store adds a stack if it fits whole.
func (s *Storage) Store(it item.Item) bool { return s.inv.Add(it) }

// Retrieve takes the oldest stack.
func (s *Storage) Retrieve() (item.Item, bool) { return s.inv.Remove() }

func (s *Storage) Full() bool                 { return s.inv.Full() }
func (s *Storage) Empty() bool                { return s.inv.Empty() }
func (s *Storage) Inventory() *item.Inventory { return s.inv }
