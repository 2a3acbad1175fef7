package flow

import (
	"fmt"

	"go.uber.org/zap"

	"emberpath/internal/currency"
	"emberpath/internal/inventory"
	"emberpath/internal/mathutil"
	"emberpath/internal/stores"
)

// Receipt describes a completed trade. Quantity may be lower than asked
// when coins, stock, room or owned units ran short.
type Receipt struct {
	ItemID    string
	Quantity  int
	UnitPrice int
	Total     int
}

// CurrentStore returns the store whose id matches the current event
func (c *Controller) CurrentStore() (*stores.Store, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentStore()
}

func (c *Controller) currentStore() (*stores.Store, bool) {
	s, err := c.stores.Catalog().Get(c.current.ID)
	if err != nil {
		return nil, false
	}
	return s, true
}

// Offers lists the shelf of the current store
func (c *Controller) Offers() ([]stores.Offer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.currentStore()
	if !ok {
		return nil, ErrNotInStore
	}
	return c.stores.Offers(s.ID)
}

// Buy purchases up to quantity units from a store. The amount is clamped
// by coins, then stock, then inventory room; if any of those is zero
// nothing changes. Stock, coins and inventory move together or not at all.
func (c *Controller) Buy(storeID, itemID string, quantity int) (Receipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buy(storeID, itemID, quantity)
}

func (c *Controller) buy(storeID, itemID string, quantity int) (Receipt, error) {
	if quantity <= 0 {
		return Receipt{}, ErrInvalidQuantity
	}
	log := c.logger.With(zap.String("store_id", storeID), zap.String("item_id", itemID))

	price, err := c.stores.BuyPrice(storeID, itemID)
	if err != nil {
		log.Warn("buy rejected", zap.Error(err))
		return Receipt{}, err
	}
	item, err := c.catalog.Get(itemID)
	if err != nil {
		log.Warn("buy rejected", zap.Error(err))
		return Receipt{}, err
	}
	if err := c.stores.Initialize(storeID); err != nil {
		return Receipt{}, err
	}

	qty := c.ledger.MaxAffordable(price, quantity)
	if qty == 0 {
		return Receipt{}, fmt.Errorf("%w: %d coins, %s costs %d", currency.ErrInsufficientFunds, c.ledger.Balance(), itemID, price)
	}
	if stock, limited := c.stores.Stock(storeID, itemID); limited {
		qty = mathutil.IntMin(qty, stock)
		if qty == 0 {
			return Receipt{}, fmt.Errorf("%w: %s at %s", stores.ErrOutOfStock, itemID, storeID)
		}
	}
	qty = mathutil.IntMin(qty, c.inv.Capacity(item))
	if qty == 0 {
		return Receipt{}, fmt.Errorf("no room for %s: %w", itemID, inventory.ErrInventoryFull)
	}

	total := price * qty
	if err := c.stores.DecreaseStock(storeID, itemID, qty); err != nil {
		return Receipt{}, err
	}
	if !c.ledger.Remove(total) {
		_ = c.stores.Restock(storeID, itemID, qty)
		return Receipt{}, currency.ErrInsufficientFunds
	}
	if res := c.inv.AddItem(item, qty); res.Dropped > 0 {
		c.inv.RemoveItemByID(itemID, res.Added)
		c.ledger.Add(total)
		_ = c.stores.Restock(storeID, itemID, qty)
		return Receipt{}, fmt.Errorf("no room for %s: %w", itemID, inventory.ErrInventoryFull)
	}

	log.Info("bought", zap.Int("quantity", qty), zap.Int("total", total))
	return Receipt{ItemID: itemID, Quantity: qty, UnitPrice: price, Total: total}, nil
}

// Sell sells up to quantity owned units to a store at half its price for
// the item. The store keeps the units and remembers the full price.
func (c *Controller) Sell(storeID, itemID string, quantity int) (Receipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sell(storeID, itemID, quantity)
}

func (c *Controller) sell(storeID, itemID string, quantity int) (Receipt, error) {
	if quantity <= 0 {
		return Receipt{}, ErrInvalidQuantity
	}
	log := c.logger.With(zap.String("store_id", storeID), zap.String("item_id", itemID))

	price, err := c.stores.SellPrice(storeID, itemID)
	if err != nil {
		log.Warn("sell rejected", zap.Error(err))
		return Receipt{}, err
	}
	qty := mathutil.IntMin(quantity, c.inv.CountItem(itemID))
	if qty == 0 {
		return Receipt{}, fmt.Errorf("%w: %s", inventory.ErrNotOwned, itemID)
	}

	unit := mathutil.HalfDown(price)
	removed := c.inv.RemoveItemByID(itemID, qty)
	total := unit * removed
	c.ledger.Add(total)
	// Store resolved by SellPrice
	_ = c.stores.IncreaseStock(storeID, itemID, removed, price)

	log.Info("sold", zap.Int("quantity", removed), zap.Int("total", total))
	return Receipt{ItemID: itemID, Quantity: removed, UnitPrice: unit, Total: total}, nil
}
