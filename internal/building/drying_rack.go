package building

import (
	"log/slog"

	"github.com/talgya/herbworks/internal/item"
	"github.com/talgya/herbworks/internal/world"
)

const (
	DryingTime         = 5.0 // Seconds per item
	RackInputCapacity  = 10
	RackOutputCapacity = 10
)

// DryingRack converts fresh herbs into dried herbs, one stack at a time.
type DryingRack struct {
	base
	input      *item.Inventory
	output     *item.Inventory
	current    item.Item
	processing bool
	timer      float64
}

func newDryingRack(id ID, tile *world.Tile, stats *Stats) *DryingRack {
	return &DryingRack{
		base:   newBase(id, KindDryingRack, tile, stats),
		input:  item.NewInventory(RackInputCapacity),
		output: item.NewInventory(RackOutputCapacity),
	}
}

// Update starts the next queued stack when idle and counts this step's time
// toward it. A finished stack that does not fit the output stays current and
// is retried on every later update.
func (r *DryingRack) Update(dt float64) {
	if !r.processing {
		r.start()
	}
	if !r.processing {
		return
	}

	r.timer += dt
	if r.timer >= DryingTime {
		r.finish()
	}
}

func (r *DryingRack) start() {
	if r.input.Empty() || r.output.Full() {
		return
	}
	it, _ := r.input.Remove()
	if it.Type != item.TypeFreshHerb {
		slog.Debug("drying rack discarded item", "building", r.id, "item", it.String())
		return
	}
	r.current = it
	r.processing = true
	r.timer = 0
}

func (r *DryingRack) finish() {
	dried := r.current.As(item.TypeDriedHerb)
	if !r.output.Add(dried) {
		return
	}
	r.current = item.Item{}
	r.processing = false
	r.timer = 0
	r.stats.Dried += dried.Quantity
	slog.Debug("dried", "building", r.id, "item", dried.String())
}

// AddInput queues a fresh herb stack. Anything else is refused.
func (r *DryingRack) AddInput(it item.Item) bool {
	if it.Type != item.TypeFreshHerb {
		return false
	}
	return r.input.Add(it)
}

// RetrieveOutput takes the oldest dried stack.
func (r *DryingRack) RetrieveOutput() (item.Item, bool) {
	return r.output.Remove()
}

func (r *DryingRack) HasOutput() bool      { return !r.output.Empty() }
func (r *DryingRack) CanAcceptInput() bool { return !r.input.Full() }

// Current returns the stack being dried, if any.
func (r *DryingRack) Current() (item.Item, bool) {
	return r.current, r.processing
}

// Progress is the fraction of DryingTime elapsed, capped at 1 while the
// output is blocked.
func (r *DryingRack) Progress() float64 {
	if !r.processing {
		return 0
	}
	return min(r.timer/DryingTime, 1)
}

func (r *DryingRack) Input() *item.Inventory  { return r.input }
func (r *DryingRack) Output() *item.Inventory { return r.output }
