package flow

import (
	"fmt"

	"go.uber.org/zap"

	"emberpath/internal/inventory"
	"emberpath/internal/items"
)

// ClickSlot is a left click on an inventory slot. Inside a store that buys
// the item it sells one unit; otherwise it applies the item's default
// action. Clicking an empty slot does nothing.
func (c *Controller) ClickSlot(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.current.IsInventoryAccessible() {
		return ErrInventoryLocked
	}
	it, err := c.inv.Slot(index)
	if err != nil || it == nil {
		return err
	}
	if s, ok := c.currentStore(); ok && c.stores.Accepts(s.ID, it.ID) {
		_, err := c.sell(s.ID, it.ID, 1)
		return err
	}
	return c.useSlot(index)
}

// useSlot applies the default action. Examine opens the overlay since the
// grid has nothing to do for it.
func (c *Controller) useSlot(index int) error {
	used, err := c.inv.UseItem(index)
	if err != nil {
		c.logger.Warn("use failed", zap.Int("slot", index), zap.Error(err))
		return err
	}
	if used != nil && used.DefaultAction == items.ActionExamine {
		return c.examineItem(used)
	}
	return nil
}

// SlotAction runs one context-menu action on the item at index. quantity
// only matters for sell. Sell is offered whenever the current store buys
// the item; every other action must be listed on the item.
func (c *Controller) SlotAction(index int, action items.Action, quantity int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.current.IsInventoryAccessible() {
		return ErrInventoryLocked
	}
	it, err := c.inv.Slot(index)
	if err != nil {
		return err
	}
	if it == nil {
		return fmt.Errorf("%w: slot %d is empty", ErrActionUnavailable, index)
	}

	if action == items.ActionSell {
		s, ok := c.currentStore()
		if !ok || !c.stores.Accepts(s.ID, it.ID) {
			return fmt.Errorf("%w: %s cannot be sold here", ErrActionUnavailable, it.ID)
		}
		_, err := c.sell(s.ID, it.ID, quantity)
		return err
	}
	if !it.Allows(action) {
		return fmt.Errorf("%w: %s on %s", ErrActionUnavailable, action, it.ID)
	}

	switch action {
	case items.ActionUse, items.ActionEat, items.ActionDrink:
		return c.useSlot(index)
	case items.ActionExamine:
		return c.examineItem(it)
	case items.ActionDrop:
		_, err := c.inv.DropItem(index)
		if err == nil {
			c.logger.Debug("dropped", zap.String("item_id", it.ID), zap.Int("quantity", it.Count()))
		}
		return err
	case items.ActionEquip:
		return c.inv.EquipItem(index)
	case items.ActionUnequip:
		// Grid items are never equipped
		return fmt.Errorf("%w: %s is not equipped", ErrActionUnavailable, it.ID)
	}
	return fmt.Errorf("%w: %s", ErrActionUnavailable, action)
}

// Unequip moves the item in slot back into the grid
func (c *Controller) Unequip(slot inventory.EquipSlot) (*items.Item, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.current.IsInventoryAccessible() {
		return nil, ErrInventoryLocked
	}
	return c.inv.UnequipItem(slot)
}

// MoveSlot swaps two inventory slots
func (c *Controller) MoveSlot(from, to int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.current.IsInventoryAccessible() {
		return ErrInventoryLocked
	}
	return c.inv.MoveItem(from, to)
}

// Coins returns the player's balance
func (c *Controller) Coins() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ledger.Balance()
}

// Slots returns a copy of the inventory grid
func (c *Controller) Slots() []*items.Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inv.Slots()
}

// Equipment returns copies of the equipped items
func (c *Controller) Equipment() map[inventory.EquipSlot]*items.Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inv.Equipment()
}
