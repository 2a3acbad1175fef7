// Package flow drives the player through the event graph and turns their
// intents into inventory, coin and store changes.
package flow

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"emberpath/internal/currency"
	"emberpath/internal/events"
	"emberpath/internal/inventory"
	"emberpath/internal/items"
	"emberpath/internal/stores"
)

var (
	ErrChoiceUnavailable = errors.New("choice unavailable")
	ErrAlreadyExamining  = errors.New("already examining")
	ErrInventoryLocked   = errors.New("inventory not accessible here")
	ErrActionUnavailable = errors.New("action unavailable")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrNotInStore        = errors.New("not in a store")
)

// Deps are the registries and state a controller works on. The controller
// becomes the only writer of Inventory, Ledger and Stores.
type Deps struct {
	Events    *events.Graph
	Items     *items.Catalog
	Stores    *stores.State
	Inventory *inventory.Inventory
	Ledger    *currency.Ledger
}

// Controller owns the player's position in the graph and the examine
// overlay. All methods are safe for concurrent use.
type Controller struct {
	graph   *events.Graph
	catalog *items.Catalog
	stores  *stores.State
	inv     *inventory.Inventory
	ledger  *currency.Ledger
	logger  *zap.Logger

	current   *events.Event
	examining bool
	overlay   overlay

	mu sync.Mutex
}

type overlay struct {
	text  string
	image string
}

// View is what the presentation layer draws
type View struct {
	EventID             string
	Type                events.EventType
	Text                string
	Image               string
	Choices             []events.Choice
	Continue            *events.ButtonConfig
	Back                *events.ButtonConfig
	InventoryAccessible bool
	Examining           bool
}

// NewController places the player at startID. It fails when the start
// event is not in the graph.
func NewController(deps Deps, startID string, logger *zap.Logger) (*Controller, error) {
	if deps.Events == nil || deps.Items == nil || deps.Stores == nil || deps.Inventory == nil || deps.Ledger == nil {
		return nil, errors.New("flow: missing dependency")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	start, err := deps.Events.Get(startID)
	if err != nil {
		return nil, fmt.Errorf("starting event: %w", err)
	}
	c := &Controller{
		graph:   deps.Events,
		catalog: deps.Items,
		stores:  deps.Stores,
		inv:     deps.Inventory,
		ledger:  deps.Ledger,
		logger:  logger,
	}
	c.enter(start)
	return c, nil
}

// View derives the current presentation state
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view()
}

func (c *Controller) view() View {
	e := c.current
	v := View{
		EventID:             e.ID,
		Type:                e.Type,
		InventoryAccessible: e.IsInventoryAccessible(),
		Examining:           c.examining,
	}
	if c.examining {
		v.Text = c.overlay.text
		v.Image = c.overlay.image
		v.Continue = &events.ButtonConfig{Text: "Close", Action: events.ActionCustom}
		return v
	}
	v.Text = e.Text()
	v.Image = e.Image
	v.Choices = append([]events.Choice(nil), e.Choices...)
	v.Continue = e.Continue.Clone()
	v.Back = e.Back.Clone()
	return v
}

// CurrentEvent returns the event the player is at
func (c *Controller) CurrentEvent() *events.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Locked runs fn with the current event while holding the controller lock,
// so callers can read or replace the owned state as one consistent unit.
// fn must not call back into the controller.
func (c *Controller) Locked(fn func(current *events.Event)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.current)
}

// enter makes e current, closing any overlay. Entering a store scene seeds
// the store's stock.
func (c *Controller) enter(e *events.Event) {
	c.current = e
	c.examining = false
	c.overlay = overlay{}
	if c.stores.Catalog().Has(e.ID) {
		// Seeding a known store cannot fail
		_ = c.stores.Initialize(e.ID)
	}
}

// NavigateTo moves to id. An unknown id leaves the player where they are.
func (c *Controller) NavigateTo(id string) (*events.Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.navigate(id)
}

func (c *Controller) navigate(id string) (*events.Event, error) {
	e, err := c.graph.Get(id)
	if err != nil {
		c.logger.Warn("event not found",
			zap.String("event_id", id),
			zap.String("from", c.current.ID))
		return nil, err
	}
	c.enter(e)
	c.logger.Debug("navigated", zap.String("event_id", id))
	return e, nil
}

// RestoreState loads saved state as one step: apply replaces the owned
// inventory, ledger and store state, then the player is placed at id, or
// at fallback when id is no longer in the graph. Nothing is applied when
// neither event exists. Returns the event the player ends up at.
func (c *Controller) RestoreState(id, fallback string, apply func()) (*events.Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, err := c.graph.Get(id)
	if err != nil {
		var ferr error
		if e, ferr = c.graph.Get(fallback); ferr != nil {
			return nil, fmt.Errorf("restore %s: %w", id, err)
		}
	}
	if apply != nil {
		apply()
	}
	c.enter(e)
	return e, nil
}

// HandleChoice resolves a choice and returns the event the player ends up
// at. add_item grants the item before any navigation happens.
func (c *Controller) HandleChoice(choice events.Choice) (*events.Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handleChoice(choice)
}

func (c *Controller) handleChoice(choice events.Choice) (*events.Event, error) {
	switch choice.Action {
	case events.ActionNavigate, events.ActionSkillCheck:
		if choice.Target != "" {
			return c.navigate(choice.Target)
		}
	case events.ActionAddItem:
		if choice.ItemID != "" {
			c.grant(choice.ItemID)
		}
		if choice.Target != "" {
			return c.navigate(choice.Target)
		}
	case events.ActionOpenInventory, events.ActionCombat, events.ActionCustom:
	default:
		c.logger.Warn("unknown choice action",
			zap.String("event_id", c.current.ID),
			zap.String("choice_id", choice.ID),
			zap.String("action", string(choice.Action)))
	}
	return c.current, nil
}

func (c *Controller) grant(itemID string) {
	item, err := c.catalog.Get(itemID)
	if err != nil {
		c.logger.Warn("cannot grant unknown item",
			zap.String("event_id", c.current.ID),
			zap.String("item_id", itemID))
		return
	}
	res := c.inv.AddItem(item, item.GrantQuantity())
	if res.Dropped > 0 {
		c.logger.Warn("inventory full, item dropped",
			zap.String("item_id", itemID),
			zap.Int("added", res.Added),
			zap.Int("dropped", res.Dropped))
	}
}

// Choose activates the choice in slot index of the action bar
func (c *Controller) Choose(index int) (*events.Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.examining {
		return nil, fmt.Errorf("%w: %d while examining", ErrChoiceUnavailable, index)
	}
	choices := c.current.ActionableChoices()
	if index < 0 || index >= len(choices) {
		return nil, fmt.Errorf("%w: %d", ErrChoiceUnavailable, index)
	}
	return c.handleChoice(choices[index])
}

// HandleContinue closes the examine overlay if open, otherwise follows the
// scene's continue button.
func (c *Controller) HandleContinue() (*events.Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.examining {
		c.closeExamine()
		return c.current, nil
	}
	return c.follow(c.current.Continue)
}

// HandleBack follows the visible back button. The overlay has none.
func (c *Controller) HandleBack() (*events.Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.examining {
		return c.current, nil
	}
	return c.follow(c.current.Back)
}

func (c *Controller) follow(b *events.ButtonConfig) (*events.Event, error) {
	if b.Navigates() {
		return c.navigate(b.Target)
	}
	return c.current, nil
}
