package booking

import (
	"errors"
	"fmt"
	"strings"
)

// TimeSlot is a bookable time-of-day label. It has no identity beyond the label.
type TimeSlot string

// DefaultSlots is the catalog offered when none is configured.
var DefaultSlots = []TimeSlot{
	"09:00 AM",
	"10:00 AM",
	"11:00 AM",
	"12:00 PM",
	"02:00 PM",
	"03:00 PM",
	"04:00 PM",
	"05:00 PM",
}

// ErrInvalidCatalog is returned when a slot catalog cannot be built.
var ErrInvalidCatalog = errors.New("booking: invalid slot catalog")

// Catalog is the fixed, ordered set of slots a screen offers.
type Catalog struct {
	slots []TimeSlot
	index map[TimeSlot]int
}

// NewCatalog builds a catalog from labels in display order. Labels are trimmed
// and must be non-empty and unique.
func NewCatalog(labels ...string) (*Catalog, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("%w: no slots", ErrInvalidCatalog)
	}
	c := &Catalog{
		slots: make([]TimeSlot, 0, len(labels)),
		index: make(map[TimeSlot]int, len(labels)),
	}
	for i, label := range labels {
		slot := TimeSlot(strings.TrimSpace(label))
		if slot == "" {
			return nil, fmt.Errorf("%w: slot %d is empty", ErrInvalidCatalog, i)
		}
		if _, dup := c.index[slot]; dup {
			return nil, fmt.Errorf("%w: duplicate slot %q", ErrInvalidCatalog, slot)
		}
		c.index[slot] = len(c.slots)
		c.slots = append(c.slots, slot)
	}
	return c, nil
}

// DefaultCatalog returns a catalog of DefaultSlots.
func DefaultCatalog() *Catalog {
	labels := make([]string, len(DefaultSlots))
	for i, slot := range DefaultSlots {
		labels[i] = string(slot)
	}
	c, err := NewCatalog(labels...)
	if err != nil {
		panic(err)
	}
	return c
}

// Slots returns the catalog in display order.
func (c *Catalog) Slots() []TimeSlot {
	out := make([]TimeSlot, len(c.slots))
	copy(out, c.slots)
	return out
}

// Len reports the number of slots.
func (c *Catalog) Len() int {
	return len(c.slots)
}

// Contains reports whether slot belongs to the catalog.
func (c *Catalog) Contains(slot TimeSlot) bool {
	_, ok := c.index[slot]
	return ok
}

// Lookup resolves a label, ignoring surrounding whitespace.
func (c *Catalog) Lookup(label string) (TimeSlot, bool) {
	slot := TimeSlot(strings.TrimSpace(label))
	if !c.Contains(slot) {
		return "", false
	}
	return slot, true
}
