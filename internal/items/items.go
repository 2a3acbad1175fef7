package items

// ItemType groups items by how the inventory treats them
type ItemType string

const (
	TypeConsumable ItemType = "consumable"
	TypeWeapon     ItemType = "weapon"
	TypeArmor      ItemType = "armor"
	TypeMaterial   ItemType = "material"
	TypeMisc       ItemType = "misc"
)

// Action is something the player can do with an item
type Action string

const (
	ActionUse     Action = "use"
	ActionExamine Action = "examine"
	ActionDrop    Action = "drop"
	ActionEquip   Action = "equip"
	ActionUnequip Action = "unequip"
	ActionEat     Action = "eat"
	ActionDrink   Action = "drink"
	ActionSell    Action = "sell"
)

// Item is both the catalog template and the runtime copy held in an inventory slot.
// Quantity is only meaningful for stackable items (MaxStack > 0).
type Item struct {
	ID               string   `yaml:"id" json:"id"`
	Name             string   `yaml:"name" json:"name"`
	Description      string   `yaml:"description" json:"description"`
	Type             ItemType `yaml:"type" json:"type"`
	Icon             string   `yaml:"icon" json:"icon"`
	Image            string   `yaml:"image,omitempty" json:"image,omitempty"`
	ExamineImage     string   `yaml:"examine_image,omitempty" json:"examine_image,omitempty"`
	Quantity         int      `yaml:"quantity,omitempty" json:"quantity,omitempty"`
	MaxStack         int      `yaml:"max_stack,omitempty" json:"max_stack,omitempty"`
	DefaultAction    Action   `yaml:"default_action" json:"default_action"`
	AvailableActions []Action `yaml:"available_actions" json:"available_actions"`
}

// Stackable reports whether several units can share one slot
func (i *Item) Stackable() bool {
	return i.MaxStack > 0
}

// Count returns how many units this item represents. Items without
// quantity tracking count as one.
func (i *Item) Count() int {
	if i.Quantity > 0 {
		return i.Quantity
	}
	return 1
}

// GrantQuantity is the number of units a catalog template hands out when
// granted as a whole (e.g. by an add_item choice).
func (i *Item) GrantQuantity() int {
	return i.Count()
}

// Allows reports whether action is one of the item's available actions
func (i *Item) Allows(action Action) bool {
	for _, a := range i.AvailableActions {
		if a == action {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the item
func (i *Item) Clone() *Item {
	if i == nil {
		return nil
	}
	c := *i
	if i.AvailableActions != nil {
		c.AvailableActions = append([]Action(nil), i.AvailableActions...)
	}
	return &c
}

// Instance creates a runtime copy carrying quantity units. Non-stackable
// items never carry a quantity.
func (i *Item) Instance(quantity int) *Item {
	c := i.Clone()
	if i.Stackable() {
		if quantity > i.MaxStack {
			quantity = i.MaxStack
		}
		c.Quantity = quantity
	} else {
		c.Quantity = 0
	}
	return c
}

// IsEquippable reports whether the item fits an equipment slot
func (i *Item) IsEquippable() bool {
	return i.Type == TypeWeapon || i.Type == TypeArmor
}

// ValidType reports whether t is a known item type
func ValidType(t ItemType) bool {
	switch t {
	case TypeConsumable, TypeWeapon, TypeArmor, TypeMaterial, TypeMisc:
		return true
	}
	return false
}

// ValidAction reports whether a is a known item action
func ValidAction(a Action) bool {
	switch a {
	case ActionUse, ActionExamine, ActionDrop, ActionEquip, ActionUnequip, ActionEat, ActionDrink, ActionSell:
		return true
	}
	return false
}
