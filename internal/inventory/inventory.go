// Package inventory implements the player's fixed-size item grid and
// equipment slots.
package inventory

import (
	"errors"
	"fmt"

	"emberpath/internal/items"
	"emberpath/internal/mathutil"
)

var (
	ErrSlotOutOfRange  = errors.New("slot index out of range")
	ErrInventoryFull   = errors.New("inventory full")
	ErrNotEquippable   = errors.New("item cannot be equipped")
	ErrNothingEquipped = errors.New("nothing equipped")
	ErrUnknownSlot     = errors.New("unknown equipment slot")
	ErrNotOwned        = errors.New("item not owned")
)

// Shipped grid size
const (
	DefaultWidth  = 4
	DefaultHeight = 5
)

// AddResult reports how much of a grant landed in the grid. Dropped units
// did not fit and are gone.
type AddResult struct {
	Added   int
	Dropped int
}

// Inventory is a width×height grid of item slots plus equipment. The grid
// never resizes.
type Inventory struct {
	width     int
	height    int
	slots     []*items.Item
	equipment map[EquipSlot]*items.Item
}

// New creates an empty grid. Non-positive dimensions fall back to the
// shipped 4×5 layout.
func New(width, height int) *Inventory {
	if width <= 0 || height <= 0 {
		width, height = DefaultWidth, DefaultHeight
	}
	return &Inventory{
		width:     width,
		height:    height,
		slots:     make([]*items.Item, width*height),
		equipment: make(map[EquipSlot]*items.Item),
	}
}

// Width returns the number of columns
func (inv *Inventory) Width() int { return inv.width }

// Height returns the number of rows
func (inv *Inventory) Height() int { return inv.height }

// Size returns the number of slots
func (inv *Inventory) Size() int { return len(inv.slots) }

func (inv *Inventory) checkIndex(index int) error {
	if index < 0 || index >= len(inv.slots) {
		return fmt.Errorf("%w: %d (size %d)", ErrSlotOutOfRange, index, len(inv.slots))
	}
	return nil
}

// Slot returns a copy of the item at index, or nil when empty
func (inv *Inventory) Slot(index int) (*items.Item, error) {
	if err := inv.checkIndex(index); err != nil {
		return nil, err
	}
	return inv.slots[index].Clone(), nil
}

// Slots returns a copy of the whole grid, row-major
func (inv *Inventory) Slots() []*items.Item {
	out := make([]*items.Item, len(inv.slots))
	for i, it := range inv.slots {
		out[i] = it.Clone()
	}
	return out
}

// FreeSlots returns the number of empty slots
func (inv *Inventory) FreeSlots() int {
	n := 0
	for _, it := range inv.slots {
		if it == nil {
			n++
		}
	}
	return n
}

func (inv *Inventory) firstEmpty() int {
	for i, it := range inv.slots {
		if it == nil {
			return i
		}
	}
	return -1
}

// Capacity returns how many units of item would fit right now
func (inv *Inventory) Capacity(item *items.Item) int {
	if !item.Stackable() {
		return inv.FreeSlots()
	}
	room := 0
	for _, it := range inv.slots {
		switch {
		case it == nil:
			room += item.MaxStack
		case it.ID == item.ID && it.Count() < item.MaxStack:
			room += item.MaxStack - it.Count()
		}
	}
	return room
}

// AddItem grants quantity units of item. Stackable items top up existing
// stacks left to right before opening new slots; anything that does not
// fit is dropped and reported.
func (inv *Inventory) AddItem(item *items.Item, quantity int) AddResult {
	if item == nil || quantity <= 0 {
		return AddResult{}
	}
	remaining := quantity

	if item.Stackable() {
		for _, it := range inv.slots {
			if remaining == 0 {
				break
			}
			if it == nil || it.ID != item.ID || it.Count() >= item.MaxStack {
				continue
			}
			n := mathutil.IntMin(item.MaxStack-it.Count(), remaining)
			it.Quantity = it.Count() + n
			remaining -= n
		}
		for remaining > 0 {
			idx := inv.firstEmpty()
			if idx < 0 {
				break
			}
			n := mathutil.IntMin(item.MaxStack, remaining)
			inv.slots[idx] = item.Instance(n)
			remaining -= n
		}
	} else {
		for remaining > 0 {
			idx := inv.firstEmpty()
			if idx < 0 {
				break
			}
			inv.slots[idx] = item.Instance(1)
			remaining--
		}
	}

	return AddResult{Added: quantity - remaining, Dropped: remaining}
}

// MoveItem swaps two slots. Either side may be empty.
func (inv *Inventory) MoveItem(from, to int) error {
	if err := inv.checkIndex(from); err != nil {
		return err
	}
	if err := inv.checkIndex(to); err != nil {
		return err
	}
	inv.slots[from], inv.slots[to] = inv.slots[to], inv.slots[from]
	return nil
}

// UseItem applies the default action of the item at index and returns a
// copy of the item as it was before use. Eat and drink consume one unit,
// equip moves the item to its equipment slot; other actions are left to
// the caller. An empty slot returns nil.
func (inv *Inventory) UseItem(index int) (*items.Item, error) {
	if err := inv.checkIndex(index); err != nil {
		return nil, err
	}
	it := inv.slots[index]
	if it == nil {
		return nil, nil
	}
	used := it.Clone()

	switch it.DefaultAction {
	case items.ActionEat, items.ActionDrink:
		inv.take(index, 1)
	case items.ActionEquip:
		if err := inv.EquipItem(index); err != nil {
			return nil, err
		}
	}
	return used, nil
}

// DropItem empties the slot and returns what was in it
func (inv *Inventory) DropItem(index int) (*items.Item, error) {
	if err := inv.checkIndex(index); err != nil {
		return nil, err
	}
	it := inv.slots[index]
	inv.slots[index] = nil
	return it, nil
}

// RemoveItem takes up to quantity units from one slot and returns how many
// were removed.
func (inv *Inventory) RemoveItem(index, quantity int) (int, error) {
	if err := inv.checkIndex(index); err != nil {
		return 0, err
	}
	if inv.slots[index] == nil || quantity <= 0 {
		return 0, nil
	}
	return inv.take(index, quantity), nil
}

func (inv *Inventory) take(index, quantity int) int {
	it := inv.slots[index]
	have := it.Count()
	n := mathutil.IntMin(quantity, have)
	if n >= have || !it.Stackable() {
		inv.slots[index] = nil
		return n
	}
	it.Quantity = have - n
	return n
}

// CountItem sums the units of id across the grid
func (inv *Inventory) CountItem(id string) int {
	total := 0
	for _, it := range inv.slots {
		if it != nil && it.ID == id {
			total += it.Count()
		}
	}
	return total
}

// RemoveItemByID removes up to quantity units of id. Partial stacks are
// consumed before full ones, each pass left to right, so the grid keeps
// as many full stacks as possible. Returns the number removed.
func (inv *Inventory) RemoveItemByID(id string, quantity int) int {
	if quantity <= 0 {
		return 0
	}
	remaining := quantity
	for _, partial := range []bool{true, false} {
		for i, it := range inv.slots {
			if remaining <= 0 {
				return quantity
			}
			if it == nil || it.ID != id {
				continue
			}
			isPartial := it.Stackable() && it.Count() < it.MaxStack
			if isPartial != partial {
				continue
			}
			remaining -= inv.take(i, remaining)
		}
	}
	return quantity - remaining
}
