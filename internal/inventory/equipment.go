package inventory

import (
	"fmt"

	"emberpath/internal/items"
)

// EquipSlot names an equipment slot
type EquipSlot string

const (
	SlotWeapon EquipSlot = "weapon"
	SlotArmor  EquipSlot = "armor"
)

// EquipSlots lists the slots in display order
var EquipSlots = []EquipSlot{SlotWeapon, SlotArmor}

// SlotFor returns the equipment slot an item goes into
func SlotFor(item *items.Item) (EquipSlot, bool) {
	if item == nil {
		return "", false
	}
	switch item.Type {
	case items.TypeWeapon:
		return SlotWeapon, true
	case items.TypeArmor:
		return SlotArmor, true
	}
	return "", false
}

func validSlot(slot EquipSlot) bool {
	for _, s := range EquipSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// EquipItem moves the item at index into its equipment slot. Whatever was
// equipped there before takes the vacated grid slot.
func (inv *Inventory) EquipItem(index int) error {
	if err := inv.checkIndex(index); err != nil {
		return err
	}
	it := inv.slots[index]
	if it == nil {
		return fmt.Errorf("%w: slot %d is empty", ErrNotEquippable, index)
	}
	slot, ok := SlotFor(it)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotEquippable, it.ID)
	}
	inv.slots[index] = inv.equipment[slot]
	inv.equipment[slot] = it
	return nil
}

// UnequipItem moves the equipped item back into the first empty grid
// slot. With no room the item stays equipped.
func (inv *Inventory) UnequipItem(slot EquipSlot) (*items.Item, error) {
	if !validSlot(slot) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSlot, slot)
	}
	it := inv.equipment[slot]
	if it == nil {
		return nil, fmt.Errorf("%w: %s", ErrNothingEquipped, slot)
	}
	idx := inv.firstEmpty()
	if idx < 0 {
		return nil, fmt.Errorf("cannot unequip %s: %w", it.ID, ErrInventoryFull)
	}
	inv.slots[idx] = it
	delete(inv.equipment, slot)
	return it.Clone(), nil
}

// Equipped returns a copy of the item in slot, or nil
func (inv *Inventory) Equipped(slot EquipSlot) *items.Item {
	return inv.equipment[slot].Clone()
}

// Equipment returns copies of every equipped item keyed by slot
func (inv *Inventory) Equipment() map[EquipSlot]*items.Item {
	out := make(map[EquipSlot]*items.Item, len(inv.equipment))
	for slot, it := range inv.equipment {
		out[slot] = it.Clone()
	}
	return out
}
