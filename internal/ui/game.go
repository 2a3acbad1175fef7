// Package ui renders a session with ebiten and turns input into controller
// calls.
package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"emberpath/internal/config"
	"emberpath/internal/currency"
	"emberpath/internal/events"
	"emberpath/internal/flow"
	"emberpath/internal/game"
	"emberpath/internal/graphics"
	"emberpath/internal/inventory"
	"emberpath/internal/items"
	"emberpath/internal/monitoring"
	"emberpath/internal/save"
	"emberpath/internal/stores"
)

const statusDuration = 3 * time.Second

// Game implements ebiten.Game for one session
type Game struct {
	session *game.Session
	cfg     *config.Config
	saves   save.Store
	images  *graphics.ImageManager
	logger  *zap.Logger
	monitor *monitoring.Monitor

	keys     keyTracker
	layout   layout
	dragFrom int

	status      string
	statusUntil time.Time
}

// NewGame creates the ebiten game. saves may be nil, which disables the
// quick save keys.
func NewGame(cfg *config.Config, session *game.Session, saves save.Store, images *graphics.ImageManager, logger *zap.Logger) *Game {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Game{
		session:  session,
		cfg:      cfg,
		saves:    saves,
		images:   images,
		logger:   logger,
		monitor:  monitoring.NewMonitor(monitoring.DefaultReport, logger),
		dragFrom: -1,
	}
}

// Update handles one frame of input. It returns game.ErrExit when the
// player quits.
func (g *Game) Update() error {
	ft := g.monitor.StartFrame()
	defer ft.EndFrame()
	g.monitor.MaybeReport(time.Now())

	ctrl := g.session.Controller
	offers, _ := ctrl.Offers()
	g.layout = computeLayout(g.cfg.GetScreenWidth(), g.cfg.GetScreenHeight(),
		g.cfg.Inventory.Width, g.cfg.Inventory.Height, len(offers))

	if g.keys.justPressed(ebiten.KeyEscape) {
		return game.ErrExit
	}
	if g.keys.justPressed(ebiten.KeyF5) {
		g.quickSave()
	}
	if g.keys.justPressed(ebiten.KeyF9) {
		g.quickLoad()
	}

	g.handleKeys()
	g.handleMouse(offers)
	return nil
}

func (g *Game) handleKeys() {
	ctrl := g.session.Controller
	binds := g.session.Keybinds

	if key, ok := keyByName(binds.Continue()); ok && g.keys.justPressed(key) {
		_, err := ctrl.HandleContinue()
		g.act(monitoring.ActionNavigate, err)
	}
	if key, ok := keyByName(binds.Back()); ok && g.keys.justPressed(key) {
		_, err := ctrl.HandleBack()
		g.act(monitoring.ActionNavigate, err)
	}
	for i, name := range binds.Slots() {
		if key, ok := keyByName(name); ok && g.keys.justPressed(key) {
			g.choose(i)
		}
	}
}

func (g *Game) choose(index int) {
	_, err := g.session.Controller.Choose(index)
	if errors.Is(err, flow.ErrChoiceUnavailable) {
		return
	}
	g.act(monitoring.ActionNavigate, err)
}

func (g *Game) handleMouse(offers []stores.Offer) {
	ctrl := g.session.Controller
	mx, my := ebiten.CursorPosition()
	shift := ebiten.IsKeyPressed(ebiten.KeyShift)
	l := g.layout

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		switch {
		case l.cont.contains(mx, my):
			_, err := ctrl.HandleContinue()
			g.act(monitoring.ActionNavigate, err)
		case l.back.contains(mx, my):
			_, err := ctrl.HandleBack()
			g.act(monitoring.ActionNavigate, err)
		default:
			if i := hit(l.choices[:], mx, my); i >= 0 {
				g.choose(i)
			} else if i := hit(l.equipment, mx, my); i >= 0 {
				g.unequip(inventory.EquipSlots[i])
			} else if i := hit(l.offers, mx, my); i >= 0 && i < len(offers) {
				qty := 1
				if shift {
					qty = 5
				}
				g.buy(offers[i].ItemID, qty)
			} else if i := hit(l.grid, mx, my); i >= 0 {
				g.dragFrom = i
			}
		}
	}

	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) && g.dragFrom >= 0 {
		from := g.dragFrom
		g.dragFrom = -1
		to := hit(l.grid, mx, my)
		switch {
		case to < 0:
		case to != from:
			g.report(ctrl.MoveSlot(from, to))
		case shift:
			g.sellStack(from)
		default:
			g.act(monitoring.ActionUseItem, ctrl.ClickSlot(from))
		}
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		if i := hit(l.grid, mx, my); i >= 0 {
			action := items.ActionExamine
			if shift {
				action = items.ActionDrop
			}
			g.act(monitoring.ActionUseItem, ctrl.SlotAction(i, action, 0))
		} else if i := hit(l.offers, mx, my); i >= 0 && i < len(offers) {
			if s, ok := ctrl.CurrentStore(); ok {
				g.report(ctrl.ExamineOffer(s.ID, offers[i].ItemID))
			}
		}
	}
}

func (g *Game) buy(itemID string, qty int) {
	ctrl := g.session.Controller
	s, ok := ctrl.CurrentStore()
	if !ok {
		return
	}
	r, err := ctrl.Buy(s.ID, itemID, qty)
	g.act(monitoring.ActionBuy, err)
	if err != nil {
		return
	}
	g.setStatus(fmt.Sprintf("Bought %d %s for %d coins", r.Quantity, g.itemName(r.ItemID), r.Total))
}

func (g *Game) sellStack(index int) {
	ctrl := g.session.Controller
	slots := ctrl.Slots()
	if index >= len(slots) || slots[index] == nil {
		return
	}
	it := slots[index]
	g.act(monitoring.ActionSell, ctrl.SlotAction(index, items.ActionSell, it.Count()))
}

func (g *Game) unequip(slot inventory.EquipSlot) {
	it, err := g.session.Controller.Unequip(slot)
	if err != nil {
		if !errors.Is(err, inventory.ErrNothingEquipped) {
			g.report(err)
		}
		return
	}
	g.setStatus("Unequipped " + it.Name)
}

func (g *Game) itemName(id string) string {
	if it, err := g.session.Assets().Items.Get(id); err == nil {
		return it.Name
	}
	return id
}

func (g *Game) quickSave() {
	if g.saves == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := g.session.SaveTo(ctx, g.saves, g.cfg.Saves.Slot); err != nil {
		g.logger.Error("quick save failed", zap.Error(err))
		g.setStatus("Save failed")
		return
	}
	g.setStatus("Game saved")
}

func (g *Game) quickLoad() {
	if g.saves == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := g.session.LoadFrom(ctx, g.saves, g.cfg.Saves.Slot); err != nil {
		if errors.Is(err, save.ErrNoSave) {
			g.setStatus("No saved game")
			return
		}
		g.logger.Error("quick load failed", zap.Error(err))
		g.setStatus("Load failed")
		return
	}
	g.setStatus("Game loaded")
}

// act counts a player action, or reports it when it failed
func (g *Game) act(a monitoring.Action, err error) {
	if err == nil {
		g.monitor.Record(a)
		return
	}
	g.report(err)
}

// report shows a short message for a failed player action
func (g *Game) report(err error) {
	if err == nil {
		return
	}
	g.monitor.Record(monitoring.ActionRejected)
	g.logger.Debug("action rejected", zap.Error(err))
	g.setStatus(statusText(err))
}

func statusText(err error) string {
	switch {
	case errors.Is(err, currency.ErrInsufficientFunds):
		return "Not enough coins"
	case errors.Is(err, stores.ErrOutOfStock):
		return "Sold out"
	case errors.Is(err, stores.ErrNotAccepted):
		return "The shopkeeper won't buy that"
	case errors.Is(err, inventory.ErrInventoryFull):
		return "Your pack is full"
	case errors.Is(err, flow.ErrInventoryLocked):
		return "You can't rummage through your pack right now"
	case errors.Is(err, flow.ErrActionUnavailable):
		return "Nothing happens"
	case errors.Is(err, flow.ErrAlreadyExamining):
		return "Close the current view first"
	case errors.Is(err, events.ErrEventNotFound):
		return "That way is blocked"
	}
	return err.Error()
}

func (g *Game) setStatus(msg string) {
	g.status = msg
	g.statusUntil = time.Now().Add(statusDuration)
}

// Layout reports the logical screen size from the display config
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.GetScreenWidth(), g.cfg.GetScreenHeight()
}
