package building

import (
	"fmt"
	"strings"

	"github.com/talgya/herbworks/internal/item"
	"github.com/talgya/herbworks/internal/world"
)

// TransportInterval is the seconds between conveyor cycles.
const TransportInterval = 1.0

// Direction is a conveyor facing. +Y is north.
type Direction uint8

const (
	North Direction = iota
	East
	South
	West
)

var directionNames = [...]string{"north", "east", "south", "west"}

func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return "unknown"
}

// MarshalText encodes the direction as its name.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes a direction name.
func (d *Direction) UnmarshalText(b []byte) error {
	v, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// ParseDirection accepts a full name or its first letter.
func ParseDirection(s string) (Direction, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range directionNames {
		if s == n || (len(s) == 1 && s[0] == n[0]) {
			return Direction(i), nil
		}
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// Delta returns the unit offset the direction points along.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case North:
		return 0, 1
	case East:
		return 1, 0
	case South:
		return 0, -1
	default:
		return -1, 0
	}
}

// Next rotates clockwise: north, east, south, west, north.
func (d Direction) Next() Direction {
	return (d + 1) % 4
}

// locator resolves the building on a tile.
type locator interface {
	At(x, y int) Building
}

// Conveyor carries one stack at a time from the tile behind it to the tile
// it faces.
type Conveyor struct {
	base
	loc     locator
	dir     Direction
	held    item.Item
	holding bool
	timer   float64
}

func newConveyor(id ID, tile *world.Tile, dir Direction, loc locator, stats *Stats) *Conveyor {
	return &Conveyor{base: newBase(id, KindConveyor, tile, stats), loc: loc, dir: dir % 4}
}

// Update runs one transport cycle every TransportInterval seconds: deliver
// the held stack forward, then pull a new one from behind if empty.
func (c *Conveyor) Update(dt float64) {
	c.timer += dt
	if c.timer < TransportInterval {
		return
	}
	c.timer = 0

	if c.holding {
		c.deliver()
	}
	if !c.holding {
		c.pull()
	}
}

func (c *Conveyor) deliver() {
	dx, dy := c.dir.Delta()
	var ok bool
	switch b := c.loc.At(c.tile.X+dx, c.tile.Y+dy).(type) {
	case *Storage:
		ok = b.Store(c.held)
	case *DryingRack:
		ok = b.AddInput(c.held)
	case *Conveyor:
		ok = b.AcceptItem(c.held)
	}
	if ok {
		c.held = item.Item{}
		c.holding = false
		c.stats.ConveyorMoves++
	}
}

// pull takes from storage or a drying rack's output behind the conveyor.
// Harvesters produce no items, so they are never a source.
func (c *Conveyor) pull() {
	dx, dy := c.dir.Delta()
	var (
		it item.Item
		ok bool
	)
	switch b := c.loc.At(c.tile.X-dx, c.tile.Y-dy).(type) {
	case *Storage:
		it, ok = b.Retrieve()
	case *DryingRack:
		it, ok = b.RetrieveOutput()
	}
	if ok {
		c.held = it
		c.holding = true
	}
}

// AcceptItem takes a stack if the conveyor is empty.
func (c *Conveyor) AcceptItem(it item.Item) bool {
	if c.holding || it.Quantity <= 0 {
		return false
	}
	c.held = it
	c.holding = true
	return true
}

// Rotate turns the conveyor clockwise.
func (c *Conveyor) Rotate() {
	c.dir = c.dir.Next()
}

func (c *Conveyor) Direction() Direction     { return c.dir }
func (c *Conveyor) SetDirection(d Direction) { c.dir = d % 4 }
func (c *Conveyor) Held() (item.Item, bool)  { return c.held, c.holding }
func (c *Conveyor) HasItem() bool            { return c.holding }
