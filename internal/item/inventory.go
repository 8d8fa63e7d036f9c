package item

// Inventory is a capacity-bounded FIFO of item stacks. The sum of quantities
// never exceeds Capacity; stacks are never split or merged.
type Inventory struct {
	capacity int
	total    int
	items    []Item
}

// NewInventory creates an empty inventory.
func NewInventory(capacity int) *Inventory {
	if capacity < 0 {
		capacity = 0
	}
	return &Inventory{capacity: capacity}
}

// Add appends a stack. It is all-or-nothing: a stack that would push the
// total past capacity, or that has no quantity, is rejected unchanged.
func (inv *Inventory) Add(it Item) bool {
	if !inv.CanAdd(it) {
		return false
	}
	inv.items = append(inv.items, it)
	inv.total += it.Quantity
	return true
}

// CanAdd reports whether Add would succeed.
func (inv *Inventory) CanAdd(it Item) bool {
	return it.Quantity > 0 && inv.total+it.Quantity <= inv.capacity
}

// Remove takes the oldest stack whole. ok is false when empty.
func (inv *Inventory) Remove() (Item, bool) {
	if len(inv.items) == 0 {
		return Item{}, false
	}
	it := inv.items[0]
	inv.items[0] = Item{}
	inv.items = inv.items[1:]
	inv.total -= it.Quantity
	return it, true
}

// Peek returns the oldest stack without removing it.
func (inv *Inventory) Peek() (Item, bool) {
	if len(inv.items) == 0 {
		return Item{}, false
	}
	return inv.items[0], true
}

// Empty reports whether no stacks are held.
func (inv *Inventory) Empty() bool {
	return len(inv.items) == 0
}

// Full reports whether the total has reached capacity.
func (inv *Inventory) Full() bool {
	return inv.total >= inv.capacity
}

// Total is the sum of all stack quantities.
func (inv *Inventory) Total() int {
	return inv.total
}

// Capacity is the fixed quantity limit.
func (inv *Inventory) Capacity() int {
	return inv.capacity
}

// Len is the number of stacks.
func (inv *Inventory) Len() int {
	return len(inv.items)
}

// Items returns a copy of the stacks, oldest first.
func (inv *Inventory) Items() []Item {
	out := make([]Item, len(inv.items))
	copy(out, inv.items)
	return out
}

// Clear drops every stack.
func (inv *Inventory) Clear() {
	inv.items = nil
	inv.total = 0
}
