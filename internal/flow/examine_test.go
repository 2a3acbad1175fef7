package flow

import (
	"errors"
	"testing"

	"emberpath/internal/events"
	"emberpath/internal/inventory"
	"emberpath/internal/items"
)

func TestExamine_RoundTrip(t *testing.T) {
	f := newFixture(t)
	before := f.ctrl.View()

	if err := f.ctrl.ExamineItem("Old Map", "Faded ink.", "images/items/old_map_large.png"); err != nil {
		t.Fatalf("ExamineItem: %v", err)
	}
	v := f.ctrl.View()
	if !v.Examining || v.Text != "Old Map\n\nFaded ink." || v.Image != "images/items/old_map_large.png" {
		t.Errorf("Unexpected overlay view: %+v", v)
	}
	if len(v.Choices) != 0 || v.Back != nil {
		t.Error("Overlay should hide choices and back")
	}
	if v.Continue == nil || v.Continue.Text != "Close" || v.Continue.Action != events.ActionCustom {
		t.Errorf("Expected Close button, got %+v", v.Continue)
	}

	f.ctrl.CloseExamine()
	after := f.ctrl.View()
	if after.Examining || after.Text != before.Text || after.Image != before.Image || len(after.Choices) != len(before.Choices) {
		t.Errorf("Closing should restore the scene, got %+v", after)
	}
}

func TestExamine_KeepsSceneImageWhenEmpty(t *testing.T) {
	f := newFixture(t)
	scene := f.ctrl.View().Image
	f.ctrl.ExamineItem("Rock", "Grey.", "")
	if got := f.ctrl.View().Image; got != scene {
		t.Errorf("Expected scene image %q, got %q", scene, got)
	}
}

func TestExamine_RejectsReentry(t *testing.T) {
	f := newFixture(t)
	f.ctrl.ExamineItem("First", "one", "")
	if err := f.ctrl.ExamineItem("Second", "two", ""); !errors.Is(err, ErrAlreadyExamining) {
		t.Errorf("Expected ErrAlreadyExamining, got %v", err)
	}
	if got := f.ctrl.View().Text; got != "First\n\none" {
		t.Errorf("First overlay should stay, got %q", got)
	}
}

func TestExamine_ContinueClosesBackDoesNothing(t *testing.T) {
	f := newFixture(t)
	f.ctrl.NavigateTo("forest_path")
	f.ctrl.ExamineItem("Rock", "Grey.", "")

	if e, _ := f.ctrl.HandleBack(); e.ID != "forest_path" || !f.ctrl.View().Examining {
		t.Error("Back should be hidden while examining")
	}
	if e, _ := f.ctrl.HandleContinue(); e.ID != "forest_path" {
		t.Errorf("Continue should close, not navigate, got %s", e.ID)
	}
	if f.ctrl.View().Examining {
		t.Error("Continue should close the overlay")
	}
	if _, err := f.ctrl.Choose(0); err != nil {
		t.Errorf("Choices should be back after closing, got %v", err)
	}
}

func TestExamine_EmptyInventoryStillRestoresChoices(t *testing.T) {
	f := newFixture(t)
	if f.inv.FreeSlots() != f.inv.Size() {
		t.Fatal("Expected an empty inventory")
	}
	f.ctrl.ExamineItem("Nothing", "Empty pockets.", "")
	if _, err := f.ctrl.Choose(0); !errors.Is(err, ErrChoiceUnavailable) {
		t.Errorf("Choices should be unavailable while examining, got %v", err)
	}
	f.ctrl.CloseExamine()
	if len(f.ctrl.View().Choices) == 0 {
		t.Error("Closing should bring the scene choices back")
	}
}

func TestCloseExamine_NoopWhenClosed(t *testing.T) {
	f := newFixture(t)
	before := f.ctrl.View()
	f.ctrl.CloseExamine()
	if after := f.ctrl.View(); after.Text != before.Text || after.Examining {
		t.Error("CloseExamine without an overlay should change nothing")
	}
}

func TestExamineOffer(t *testing.T) {
	f := newFixture(t)
	if err := f.ctrl.ExamineOffer("blacksmith", "iron_sword"); err != nil {
		t.Fatalf("ExamineOffer: %v", err)
	}
	if v := f.ctrl.View(); !v.Examining {
		t.Error("Expected overlay open")
	}
	f.ctrl.CloseExamine()
	if err := f.ctrl.ExamineOffer("blacksmith", "dragon"); !errors.Is(err, items.ErrItemNotFound) {
		t.Errorf("Expected ErrItemNotFound, got %v", err)
	}
}

func TestClickSlot_ExamineDefaultOpensOverlay(t *testing.T) {
	f := newFixture(t)
	f.ctrl.HandleChoice(events.Choice{ID: "map", Action: events.ActionAddItem, ItemID: "old_map"})
	if err := f.ctrl.ClickSlot(0); err != nil {
		t.Fatalf("ClickSlot: %v", err)
	}
	v := f.ctrl.View()
	if !v.Examining || v.Image == "" {
		t.Errorf("Expected map overlay with image, got %+v", v)
	}
}

func TestClickSlot_SellsInAcceptingStore(t *testing.T) {
	f := newFixture(t)
	bread, _ := f.ctrl.catalog.Get("bread")
	f.inv.AddItem(bread, 3)
	f.ctrl.NavigateTo("shop_1")

	if err := f.ctrl.ClickSlot(0); err != nil {
		t.Fatalf("ClickSlot: %v", err)
	}
	if f.inv.CountItem("bread") != 2 {
		t.Errorf("Expected one bread sold, have %d", f.inv.CountItem("bread"))
	}
	// 5 / 2 = 2
	if f.ledger.Balance() != 102 {
		t.Errorf("Expected 102 coins, got %d", f.ledger.Balance())
	}
}

func TestClickSlot_UsesOutsideStore(t *testing.T) {
	f := newFixture(t)
	bread, _ := f.ctrl.catalog.Get("bread")
	f.inv.AddItem(bread, 3)
	// The blacksmith does not buy bread
	f.ctrl.NavigateTo("blacksmith")
	f.ctrl.ClickSlot(0)
	if f.inv.CountItem("bread") != 2 || f.ledger.Balance() != 100 {
		t.Error("Expected bread eaten, not sold")
	}
	if err := f.ctrl.ClickSlot(7); err != nil {
		t.Errorf("Empty slot should be a no-op, got %v", err)
	}
	if err := f.ctrl.ClickSlot(99); !errors.Is(err, inventory.ErrSlotOutOfRange) {
		t.Errorf("Expected ErrSlotOutOfRange, got %v", err)
	}
}

func TestSlotAction(t *testing.T) {
	f := newFixture(t)
	sword, _ := f.ctrl.catalog.Get("iron_sword")
	pelt, _ := f.ctrl.catalog.Get("wolf_pelt")
	f.inv.AddItem(sword, 1)
	f.inv.AddItem(pelt, 4)

	if err := f.ctrl.SlotAction(1, items.ActionEat, 1); !errors.Is(err, ErrActionUnavailable) {
		t.Errorf("Expected ErrActionUnavailable for eating a pelt, got %v", err)
	}
	if err := f.ctrl.SlotAction(1, items.ActionSell, 1); !errors.Is(err, ErrActionUnavailable) {
		t.Errorf("Selling outside a store should be unavailable, got %v", err)
	}

	if err := f.ctrl.SlotAction(0, items.ActionEquip, 0); err != nil {
		t.Fatalf("equip: %v", err)
	}
	if eq := f.ctrl.Equipment()[inventory.SlotWeapon]; eq == nil || eq.ID != "iron_sword" {
		t.Errorf("Expected sword equipped, got %+v", eq)
	}
	if _, err := f.ctrl.Unequip(inventory.SlotWeapon); err != nil {
		t.Errorf("Unequip: %v", err)
	}

	f.ctrl.NavigateTo("general_store")
	if err := f.ctrl.SlotAction(1, items.ActionSell, 3); err != nil {
		t.Fatalf("sell: %v", err)
	}
	if f.inv.CountItem("wolf_pelt") != 1 {
		t.Errorf("Expected 1 pelt left, got %d", f.inv.CountItem("wolf_pelt"))
	}
	// General store base price 10, halved
	if f.ctrl.Coins() != 115 {
		t.Errorf("Expected 115 coins, got %d", f.ctrl.Coins())
	}

	if err := f.ctrl.SlotAction(1, items.ActionExamine, 0); err != nil || !f.ctrl.View().Examining {
		t.Errorf("Expected examine overlay, got %v", err)
	}
}

func TestSlotAction_Drop(t *testing.T) {
	f := newFixture(t)
	bread, _ := f.ctrl.catalog.Get("bread")
	f.inv.AddItem(bread, 4)
	if err := f.ctrl.SlotAction(0, items.ActionDrop, 0); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if f.inv.CountItem("bread") != 0 {
		t.Error("Drop should empty the slot")
	}
	if err := f.ctrl.SlotAction(0, items.ActionDrop, 0); !errors.Is(err, ErrActionUnavailable) {
		t.Errorf("Expected ErrActionUnavailable for an empty slot, got %v", err)
	}
}
