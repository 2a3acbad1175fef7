package stores

import (
	"errors"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func intPtr(n int) *int { return &n }

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := NewCatalog([]*Store{
		{ID: "shop_1", Name: "Provisions", Items: []StoreItem{
			{ItemID: "bread", Price: 5, Stock: intPtr(10)},
			{ItemID: "water_flask", Price: 3},
		}},
		{ID: "general_store", Name: "Odds", General: true, Items: []StoreItem{
			{ItemID: "torch", Price: 8, Stock: intPtr(3)},
		}},
	})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	return c
}

func TestNewCatalog_Validation(t *testing.T) {
	cases := map[string][]*Store{
		"missing id":     {{Name: "x"}},
		"duplicate":      {{ID: "a"}, {ID: "a"}},
		"zero price":     {{ID: "a", Items: []StoreItem{{ItemID: "bread"}}}},
		"negative stock": {{ID: "a", Items: []StoreItem{{ItemID: "bread", Price: 1, Stock: intPtr(-1)}}}},
		"listed twice":   {{ID: "a", Items: []StoreItem{{ItemID: "bread", Price: 1}, {ItemID: "bread", Price: 2}}}},
	}
	for name, defs := range cases {
		if _, err := NewCatalog(defs); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestLoadCatalog_Assets(t *testing.T) {
	c, err := LoadCatalog(filepath.Join("..", "..", "assets", "stores.yaml"))
	if err != nil {
		t.Fatalf("load stores: %v", err)
	}
	shop, err := c.Get("shop_1")
	if err != nil {
		t.Fatalf("shop_1 missing: %v", err)
	}
	bread, ok := shop.Offer("bread")
	if !ok || bread.Price != 5 || bread.Stock == nil || *bread.Stock != 10 {
		t.Errorf("Unexpected bread offer: %+v", bread)
	}
	general, _ := c.Get("general_store")
	if !general.General {
		t.Error("general_store should be a general store")
	}
	if _, err := c.Get("tavern"); !errors.Is(err, ErrStoreNotFound) {
		t.Errorf("Expected ErrStoreNotFound, got %v", err)
	}
}

func TestInitialize_Idempotent(t *testing.T) {
	s := NewState(testCatalog(t))
	if err := s.Initialize("shop_1"); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := s.DecreaseStock("shop_1", "bread", 4); err != nil {
		t.Fatalf("DecreaseStock: %v", err)
	}
	s.Initialize("shop_1")
	if n, _ := s.Stock("shop_1", "bread"); n != 6 {
		t.Errorf("Re-initializing should keep stock 6, got %d", n)
	}

	s.Reset("shop_1")
	if n, _ := s.Stock("shop_1", "bread"); n != 10 {
		t.Errorf("Reset should restore stock 10, got %d", n)
	}
}

func TestInitialize_UnknownStoreLogsWarning(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	s := NewState(testCatalog(t), WithLogger(zap.New(core)))
	if err := s.Initialize("tavern"); !errors.Is(err, ErrStoreNotFound) {
		t.Errorf("Expected ErrStoreNotFound, got %v", err)
	}
	if logs.FilterMessage("unknown store").Len() != 1 {
		t.Errorf("Expected one warning, got %d", logs.Len())
	}
}

func TestStock_UnseededReadsCatalog(t *testing.T) {
	s := NewState(testCatalog(t))
	if n, limited := s.Stock("shop_1", "bread"); !limited || n != 10 {
		t.Errorf("Expected limited stock 10, got %d, %v", n, limited)
	}
	if _, limited := s.Stock("shop_1", "water_flask"); limited {
		t.Error("Water should be unlimited")
	}
	if s.Initialized("shop_1") {
		t.Error("Reading stock should not seed the store")
	}
}

func TestDecreaseStock(t *testing.T) {
	s := NewState(testCatalog(t))
	if err := s.DecreaseStock("shop_1", "bread", 11); !errors.Is(err, ErrOutOfStock) {
		t.Errorf("Expected ErrOutOfStock, got %v", err)
	}
	if n, _ := s.Stock("shop_1", "bread"); n != 10 {
		t.Errorf("Failed decrease should leave stock, got %d", n)
	}
	if err := s.DecreaseStock("shop_1", "water_flask", 1000); err != nil {
		t.Errorf("Unlimited goods should always decrease, got %v", err)
	}
}

func TestRestock_KeepsPrices(t *testing.T) {
	s := NewState(testCatalog(t))
	s.DecreaseStock("shop_1", "bread", 2)
	if err := s.Restock("shop_1", "bread", 2); err != nil {
		t.Fatalf("Restock: %v", err)
	}
	if n, _ := s.Stock("shop_1", "bread"); n != 10 {
		t.Errorf("Expected stock 10, got %d", n)
	}
	if _, ok := s.MemoryPrice("shop_1", "bread"); ok {
		t.Error("Restock should not record a price")
	}
	s.Restock("shop_1", "water_flask", 5)
	if _, limited := s.Stock("shop_1", "water_flask"); limited {
		t.Error("Restock should leave unlimited goods unlimited")
	}
}

func TestIncreaseStock_RecordsPrice(t *testing.T) {
	s := NewState(testCatalog(t))
	if err := s.IncreaseStock("general_store", "wolf_pelt", 2, 10); err != nil {
		t.Fatalf("IncreaseStock: %v", err)
	}
	if n, limited := s.Stock("general_store", "wolf_pelt"); !limited || n != 2 {
		t.Errorf("Expected 2 pelts on the shelf, got %d, %v", n, limited)
	}
	if p, ok := s.MemoryPrice("general_store", "wolf_pelt"); !ok || p != 10 {
		t.Errorf("Expected memory price 10, got %d, %v", p, ok)
	}

	s.IncreaseStock("shop_1", "water_flask", 3, 3)
	if _, limited := s.Stock("shop_1", "water_flask"); limited {
		t.Error("Unlimited catalog goods should stay unlimited")
	}
}

func TestBuyPrice(t *testing.T) {
	s := NewState(testCatalog(t))
	if p, err := s.BuyPrice("shop_1", "bread"); err != nil || p != 5 {
		t.Errorf("Expected 5, got %d, %v", p, err)
	}
	if _, err := s.BuyPrice("shop_1", "iron_sword"); !errors.Is(err, ErrNotStocked) {
		t.Errorf("Expected ErrNotStocked, got %v", err)
	}
	s.IncreaseStock("general_store", "wolf_pelt", 1, 10)
	if p, err := s.BuyPrice("general_store", "wolf_pelt"); err != nil || p != 10 {
		t.Errorf("Expected memory price 10, got %d, %v", p, err)
	}
	if _, err := s.BuyPrice("tavern", "bread"); !errors.Is(err, ErrStoreNotFound) {
		t.Errorf("Expected ErrStoreNotFound, got %v", err)
	}
}

func TestSellPrice(t *testing.T) {
	s := NewState(testCatalog(t), WithGeneralBasePrice(12))
	if p, _ := s.SellPrice("shop_1", "bread"); p != 5 {
		t.Errorf("Expected catalog price 5, got %d", p)
	}
	if _, err := s.SellPrice("shop_1", "wolf_pelt"); !errors.Is(err, ErrNotAccepted) {
		t.Errorf("Expected ErrNotAccepted, got %v", err)
	}
	if p, _ := s.SellPrice("general_store", "wolf_pelt"); p != 12 {
		t.Errorf("Expected base price 12, got %d", p)
	}
	s.IncreaseStock("shop_1", "bread", 1, 7)
	if p, _ := s.SellPrice("shop_1", "bread"); p != 7 {
		t.Errorf("Memory price should win, got %d", p)
	}
}

func TestAccepts(t *testing.T) {
	s := NewState(testCatalog(t))
	if !s.Accepts("general_store", "anything") {
		t.Error("General store should accept anything")
	}
	if !s.Accepts("shop_1", "bread") || s.Accepts("shop_1", "wolf_pelt") {
		t.Error("Regular store should only accept its own goods")
	}
	if s.Accepts("tavern", "bread") {
		t.Error("Unknown store accepts nothing")
	}
}

func TestOffers_CatalogThenAcquired(t *testing.T) {
	s := NewState(testCatalog(t))
	s.IncreaseStock("general_store", "wolf_pelt", 2, 10)
	s.IncreaseStock("general_store", "copper_ore", 5, 4)

	offers, err := s.Offers("general_store")
	if err != nil {
		t.Fatalf("Offers: %v", err)
	}
	want := []string{"torch", "copper_ore", "wolf_pelt"}
	if len(offers) != len(want) {
		t.Fatalf("Expected %d offers, got %+v", len(want), offers)
	}
	for i, id := range want {
		if offers[i].ItemID != id {
			t.Errorf("Offer %d: expected %s, got %s", i, id, offers[i].ItemID)
		}
	}
	if offers[2].Price != 10 || offers[2].Stock != 2 || !offers[2].Limited {
		t.Errorf("Unexpected pelt offer: %+v", offers[2])
	}
}

func TestOffers_SoldOut(t *testing.T) {
	s := NewState(testCatalog(t))
	s.DecreaseStock("general_store", "torch", 3)
	offers, _ := s.Offers("general_store")
	if offers[0].Available() {
		t.Error("Torch should be sold out")
	}
	shop, _ := s.Offers("shop_1")
	if !shop[1].Available() || shop[1].Limited {
		t.Errorf("Water should be unlimited, got %+v", shop[1])
	}
}

func TestSnapshotRestore(t *testing.T) {
	s := NewState(testCatalog(t))
	s.DecreaseStock("shop_1", "bread", 3)
	s.IncreaseStock("general_store", "wolf_pelt", 1, 10)
	snap := s.Snapshot()

	core, logs := observer.New(zapcore.WarnLevel)
	restored := NewState(testCatalog(t), WithLogger(zap.New(core)))
	snap.Stock["tavern"] = map[string]int{"ale": 4}
	restored.Restore(snap)

	if n, _ := restored.Stock("shop_1", "bread"); n != 7 {
		t.Errorf("Expected bread stock 7, got %d", n)
	}
	if p, ok := restored.MemoryPrice("general_store", "wolf_pelt"); !ok || p != 10 {
		t.Errorf("Expected pelt price 10, got %d, %v", p, ok)
	}
	if restored.Initialized("tavern") {
		t.Error("Unknown store should be dropped")
	}
	if logs.Len() != 1 {
		t.Errorf("Expected one warning for the unknown store, got %d", logs.Len())
	}

	// Snapshot is a copy
	snap.Stock["shop_1"]["bread"] = 0
	if n, _ := restored.Stock("shop_1", "bread"); n != 7 {
		t.Error("Restore should copy the snapshot")
	}
}
