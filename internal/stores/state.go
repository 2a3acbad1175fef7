package stores

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// DefaultGeneralBasePrice is what a general store pays for goods it has
// never priced, before the sell-side halving.
const DefaultGeneralBasePrice = 10

var (
	ErrNotStocked  = errors.New("store does not sell item")
	ErrOutOfStock  = errors.New("out of stock")
	ErrNotAccepted = errors.New("store does not buy item")
)

// Offer is a good on a store's shelf as the player sees it
type Offer struct {
	ItemID  string
	Price   int
	Stock   int  // meaningful only when Limited
	Limited bool // false means unlimited supply
}

// Available reports whether at least one unit can be bought
func (o Offer) Available() bool {
	return !o.Limited || o.Stock > 0
}

// Option configures a State
type Option func(*State)

// WithGeneralBasePrice overrides the general-store base price
func WithGeneralBasePrice(price int) Option {
	return func(s *State) {
		if price > 0 {
			s.basePrice = price
		}
	}
}

// WithLogger sets the logger used for warnings
func WithLogger(logger *zap.Logger) Option {
	return func(s *State) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// State tracks finite stock and remembered sell prices per store. A store
// is seeded from the catalog the first time it is touched.
type State struct {
	catalog   *Catalog
	basePrice int
	logger    *zap.Logger

	// storeID -> itemID -> units left; absent item means unlimited
	stock map[string]map[string]int
	// storeID -> itemID -> price the store paid out last, before halving
	prices map[string]map[string]int
	mu     sync.RWMutex
}

// NewState creates empty runtime state over a catalog
func NewState(catalog *Catalog, opts ...Option) *State {
	s := &State{
		catalog:   catalog,
		basePrice: DefaultGeneralBasePrice,
		logger:    zap.NewNop(),
		stock:     make(map[string]map[string]int),
		prices:    make(map[string]map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Catalog returns the catalog the state was built on
func (s *State) Catalog() *Catalog {
	return s.catalog
}

// GeneralBasePrice returns the configured general-store base price
func (s *State) GeneralBasePrice() int {
	return s.basePrice
}

func (s *State) store(storeID string) (*Store, error) {
	store, err := s.catalog.Get(storeID)
	if err != nil {
		s.logger.Warn("unknown store", zap.String("store_id", storeID))
		return nil, err
	}
	return store, nil
}

func seed(store *Store) map[string]int {
	stock := make(map[string]int, len(store.Items))
	for _, si := range store.Items {
		if si.Stock != nil {
			stock[si.ItemID] = *si.Stock
		}
	}
	return stock
}

// ensure seeds the store if needed. Caller holds the write lock.
func (s *State) ensure(store *Store) map[string]int {
	stock, ok := s.stock[store.ID]
	if !ok {
		stock = seed(store)
		s.stock[store.ID] = stock
	}
	return stock
}

// Initialize seeds the store's stock from the catalog. Calling it again
// leaves existing stock alone.
func (s *State) Initialize(storeID string) error {
	store, err := s.store(storeID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensure(store)
	return nil
}

// Initialized reports whether the store has been seeded
func (s *State) Initialized(storeID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.stock[storeID]
	return ok
}

// Reset re-seeds the store's stock from the catalog. Remembered prices
// are kept.
func (s *State) Reset(storeID string) error {
	store, err := s.store(storeID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stock[store.ID] = seed(store)
	return nil
}

// Stock returns the units left of an item and whether supply is finite
func (s *State) Stock(storeID, itemID string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if stock, ok := s.stock[storeID]; ok {
		n, limited := stock[itemID]
		return n, limited
	}
	store, err := s.catalog.Get(storeID)
	if err != nil {
		return 0, false
	}
	if si, ok := store.Offer(itemID); ok && si.Stock != nil {
		return *si.Stock, true
	}
	return 0, false
}

// MemoryPrice returns the price the store last paid for an item
func (s *State) MemoryPrice(storeID, itemID string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.prices[storeID][itemID]
	return p, ok
}

// DecreaseStock takes quantity units off the shelf. Unlimited goods always
// succeed; finite goods fail with ErrOutOfStock when short.
func (s *State) DecreaseStock(storeID, itemID string, quantity int) error {
	store, err := s.store(storeID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stock := s.ensure(store)
	current, limited := stock[itemID]
	if !limited {
		return nil
	}
	if current < quantity {
		return fmt.Errorf("%w: %s has %d of %s, wanted %d", ErrOutOfStock, storeID, current, itemID, quantity)
	}
	stock[itemID] = current - quantity
	return nil
}

// IncreaseStock puts quantity units on the shelf and remembers price as
// what the store paid. Goods the catalog lists as unlimited stay unlimited.
func (s *State) IncreaseStock(storeID, itemID string, quantity, price int) error {
	store, err := s.store(storeID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stock := s.ensure(store)
	if si, ok := store.Offer(itemID); !ok || !si.Unlimited() {
		stock[itemID] += quantity
	}
	if s.prices[storeID] == nil {
		s.prices[storeID] = make(map[string]int)
	}
	s.prices[storeID][itemID] = price
	return nil
}

// Restock returns quantity units of a finite good to the shelf without
// touching remembered prices. Used to undo a DecreaseStock.
func (s *State) Restock(storeID, itemID string, quantity int) error {
	store, err := s.store(storeID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stock := s.ensure(store)
	if _, limited := stock[itemID]; limited {
		stock[itemID] += quantity
	}
	return nil
}

// BuyPrice is what the player pays per unit: the catalog price, else the
// remembered price for goods the store bought from the player.
func (s *State) BuyPrice(storeID, itemID string) (int, error) {
	store, err := s.store(storeID)
	if err != nil {
		return 0, err
	}
	if si, ok := store.Offer(itemID); ok {
		return si.Price, nil
	}
	if p, ok := s.MemoryPrice(storeID, itemID); ok {
		return p, nil
	}
	return 0, fmt.Errorf("%w: %s at %s", ErrNotStocked, itemID, storeID)
}

// SellPrice is the store's valuation of an item before halving: the
// remembered price, else the catalog price, else the general-store base
// price. Stores that do not buy the item return ErrNotAccepted.
func (s *State) SellPrice(storeID, itemID string) (int, error) {
	store, err := s.store(storeID)
	if err != nil {
		return 0, err
	}
	if p, ok := s.MemoryPrice(storeID, itemID); ok {
		return p, nil
	}
	if si, ok := store.Offer(itemID); ok {
		return si.Price, nil
	}
	if store.General {
		return s.basePrice, nil
	}
	return 0, fmt.Errorf("%w: %s at %s", ErrNotAccepted, itemID, storeID)
}

// Accepts reports whether the store buys itemID. General stores take
// anything; others only their own goods.
func (s *State) Accepts(storeID, itemID string) bool {
	store, err := s.catalog.Get(storeID)
	if err != nil {
		return false
	}
	if store.General {
		return true
	}
	_, ok := store.Offer(itemID)
	return ok
}

// Offers lists the store's shelf: catalog goods in file order followed by
// goods bought from the player, sorted by item id.
func (s *State) Offers(storeID string) ([]Offer, error) {
	store, err := s.store(storeID)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	stock, seeded := s.stock[storeID]
	if !seeded {
		stock = seed(store)
	}
	offers := make([]Offer, 0, len(store.Items))
	for _, si := range store.Items {
		n, limited := stock[si.ItemID]
		offers = append(offers, Offer{ItemID: si.ItemID, Price: si.Price, Stock: n, Limited: limited})
	}

	var extra []string
	for itemID := range s.prices[storeID] {
		if _, listed := store.Offer(itemID); !listed {
			extra = append(extra, itemID)
		}
	}
	sort.Strings(extra)
	for _, itemID := range extra {
		n, limited := stock[itemID]
		offers = append(offers, Offer{ItemID: itemID, Price: s.prices[storeID][itemID], Stock: n, Limited: limited})
	}
	return offers, nil
}

// Snapshot is the plain-data form of the runtime state
type Snapshot struct {
	Stock  map[string]map[string]int `json:"stock"`
	Prices map[string]map[string]int `json:"prices,omitempty"`
}

// Snapshot copies the stock of every seeded store and all remembered prices
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Stock: copyNested(s.stock), Prices: copyNested(s.prices)}
}

// Restore replaces the runtime state. Stores no longer in the catalog are
// skipped with a warning; everything else is taken as saved.
func (s *State) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stock = make(map[string]map[string]int)
	s.prices = make(map[string]map[string]int)
	for storeID, stock := range snap.Stock {
		if !s.catalog.Has(storeID) {
			s.logger.Warn("dropping stock of unknown store", zap.String("store_id", storeID))
			continue
		}
		s.stock[storeID] = copyFlat(stock)
	}
	for storeID, prices := range snap.Prices {
		if !s.catalog.Has(storeID) {
			s.logger.Warn("dropping prices of unknown store", zap.String("store_id", storeID))
			continue
		}
		s.prices[storeID] = copyFlat(prices)
	}
}

func copyFlat(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyNested(m map[string]map[string]int) map[string]map[string]int {
	out := make(map[string]map[string]int, len(m))
	for k, v := range m {
		out[k] = copyFlat(v)
	}
	return out
}
