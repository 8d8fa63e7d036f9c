// Package item provides the goods that move through the production network
// and the FIFO inventories that hold them.
package item

import (
	"errors"
	"fmt"
	"strings"

	"github.com/talgya/herbworks/internal/catalog"
)

// Type enumerates item kinds.
type Type uint8

const (
	TypeFreshHerb Type = iota + 1 // Straight off a harvest
	TypeDriedHerb                 // Output of a drying rack
)

var typeNames = map[Type]string{
	TypeFreshHerb: "fresh_herb",
	TypeDriedHerb: "dried_herb",
}

var typeDisplay = map[Type]string{
	TypeFreshHerb: "Fresh Herb",
	TypeDriedHerb: "Dried Herb",
}

var (
	ErrUnknownType     = errors.New("unknown item type")
	ErrInvalidQuantity = errors.New("quantity must be positive")
)

// String returns the config identifier for the type.
func (t Type) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return "unknown"
}

// DisplayName returns the human-readable name for the type.
func (t Type) DisplayName() string {
	if n, ok := typeDisplay[t]; ok {
		return n
	}
	return "Unknown"
}

// Valid reports whether t is a known item type.
func (t Type) Valid() bool {
	_, ok := typeNames[t]
	return ok
}

// ParseType maps an identifier such as "fresh_herb" to a Type.
func ParseType(s string) (Type, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t, n := range typeNames {
		if n == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%q: %w", s, ErrUnknownType)
}

// MarshalText encodes the type as its identifier.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes an identifier such as "fresh_herb".
func (t *Type) UnmarshalText(b []byte) error {
	v, err := ParseType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Item is a quantized stack of one good. Items are values; transforming one
// produces a new Item.
type Item struct {
	Type     Type               `json:"type"`
	Herb     catalog.ResourceID `json:"herb,omitempty"` // subtype tag, empty if none
	Quantity int                `json:"quantity"`
}

// New validates and builds an item.
func New(t Type, herb catalog.ResourceID, quantity int) (Item, error) {
	if !t.Valid() {
		return Item{}, fmt.Errorf("type %d: %w", t, ErrUnknownType)
	}
	if quantity <= 0 {
		return Item{}, fmt.Errorf("quantity %d: %w", quantity, ErrInvalidQuantity)
	}
	return Item{Type: t, Herb: herb, Quantity: quantity}, nil
}

// As returns a copy of the item converted to another type, keeping subtype
// and quantity.
func (it Item) As(t Type) Item {
	return Item{Type: t, Herb: it.Herb, Quantity: it.Quantity}
}

// String returns a display form such as "3x Dried Herb (mint)".
func (it Item) String() string {
	if it.Herb != "" {
		return fmt.Sprintf("%dx %s (%s)", it.Quantity, it.Type.DisplayName(), it.Herb)
	}
	return fmt.Sprintf("%dx %s", it.Quantity, it.Type.DisplayName())
}
