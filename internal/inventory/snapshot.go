package inventory

import "emberpath/internal/items"

// SlotState is one occupied grid slot in a snapshot
type SlotState struct {
	Index int        `json:"index"`
	Item  items.Item `json:"item"`
}

// Snapshot is the plain-data form of an inventory
type Snapshot struct {
	Width     int                     `json:"width"`
	Height    int                     `json:"height"`
	Slots     []SlotState             `json:"slots"`
	Equipment map[EquipSlot]items.Item `json:"equipment,omitempty"`
}

// Snapshot captures the grid and equipment
func (inv *Inventory) Snapshot() Snapshot {
	s := Snapshot{Width: inv.width, Height: inv.height}
	for i, it := range inv.slots {
		if it != nil {
			s.Slots = append(s.Slots, SlotState{Index: i, Item: *it.Clone()})
		}
	}
	if len(inv.equipment) > 0 {
		s.Equipment = make(map[EquipSlot]items.Item, len(inv.equipment))
		for slot, it := range inv.equipment {
			s.Equipment[slot] = *it.Clone()
		}
	}
	return s
}

// Restore replaces the inventory contents with s. The grid keeps its own
// dimensions: items whose index falls outside it, or that collide with an
// earlier entry, move to the first empty slot. Saved quantities are brought
// back within the stacking rules, oversized stacks spilling into extra
// slots. Returns the number of units that found no room.
func (inv *Inventory) Restore(s Snapshot) int {
	for i := range inv.slots {
		inv.slots[i] = nil
	}
	inv.equipment = make(map[EquipSlot]*items.Item)

	var homeless []*items.Item
	for _, st := range s.Slots {
		stacks := normalize(&st.Item)
		if st.Index >= 0 && st.Index < len(inv.slots) && inv.slots[st.Index] == nil {
			inv.slots[st.Index] = stacks[0]
			stacks = stacks[1:]
		}
		homeless = append(homeless, stacks...)
	}
	for slot, it := range s.Equipment {
		stacks := normalize(&it)
		if validSlot(slot) {
			inv.equipment[slot] = stacks[0]
			stacks = stacks[1:]
		}
		homeless = append(homeless, stacks...)
	}

	lost := 0
	for _, it := range homeless {
		idx := inv.firstEmpty()
		if idx < 0 {
			lost += it.Count()
			continue
		}
		inv.slots[idx] = it
	}
	return lost
}

// normalize splits a saved item into instances that respect its stack
// size. Non-stackable items lose any quantity; the result is never empty.
func normalize(saved *items.Item) []*items.Item {
	if !saved.Stackable() {
		return []*items.Item{saved.Instance(1)}
	}
	remaining := saved.Count()
	var out []*items.Item
	for remaining > 0 {
		it := saved.Instance(remaining)
		out = append(out, it)
		remaining -= it.Quantity
	}
	return out
}
