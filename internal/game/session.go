// Package game wires the catalogs, engines and persistence into a playable
// session.
package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"emberpath/internal/config"
	"emberpath/internal/currency"
	"emberpath/internal/events"
	"emberpath/internal/flow"
	"emberpath/internal/inventory"
	"emberpath/internal/keybind"
	"emberpath/internal/save"
	"emberpath/internal/stores"
	"emberpath/internal/tick"
)

// ErrExit is returned from the UI loop when the player quits
var ErrExit = errors.New("exit")

// Session is one playthrough
type Session struct {
	ID         string
	Controller *flow.Controller
	Keybinds   *keybind.Bindings
	Ticker     *tick.Ticker

	cfg    *config.Config
	assets *Assets
	inv    *inventory.Inventory
	ledger *currency.Ledger
	stores *stores.State
	logger *zap.Logger
}

// NewSession starts a fresh game at the configured start event
func NewSession(cfg *config.Config, assets *Assets, logger *zap.Logger) (*Session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	id := uuid.NewString()
	logger = logger.With(zap.String("session_id", id))

	s := &Session{
		ID:       id,
		Keybinds: keybind.New(),
		cfg:      cfg,
		assets:   assets,
		inv:      inventory.New(cfg.Inventory.Width, cfg.Inventory.Height),
		ledger:   currency.NewLedger(cfg.Game.StartingCoins),
		stores: stores.NewState(assets.Stores,
			stores.WithGeneralBasePrice(cfg.Stores.GeneralBasePrice),
			stores.WithLogger(logger)),
		logger: logger,
	}
	ctrl, err := flow.NewController(flow.Deps{
		Events:    assets.Events,
		Items:     assets.Items,
		Stores:    s.stores,
		Inventory: s.inv,
		Ledger:    s.ledger,
	}, cfg.Game.StartEvent, logger)
	if err != nil {
		return nil, err
	}
	s.Controller = ctrl
	s.Ticker = tick.New(cfg.GetTickSpeed(), logger)
	s.Ticker.Subscribe(s.onTick)

	logger.Info("session started", zap.String("event_id", cfg.Game.StartEvent))
	return s, nil
}

func (s *Session) onTick(n uint64) {
	s.logger.Debug("tick", zap.Uint64("tick", n))
}

// Start runs the ticker until ctx is done or Stop is called
func (s *Session) Start(ctx context.Context) {
	s.Ticker.Start(ctx)
}

// Stop halts the ticker
func (s *Session) Stop() {
	s.Ticker.Stop()
}

// Assets returns the catalogs the session plays on
func (s *Session) Assets() *Assets {
	return s.assets
}

// Snapshot captures the session as plain data
func (s *Session) Snapshot() *save.Snapshot {
	snap := &save.Snapshot{
		SessionID: s.ID,
		SavedAt:   time.Now().UTC().Format(time.RFC3339),
		Tick:      s.Ticker.Current(),
		Keybinds:  s.Keybinds.Snapshot(),
	}
	s.Controller.Locked(func(current *events.Event) {
		snap.EventID = current.ID
		snap.Coins = s.ledger.Balance()
		snap.Inventory = s.inv.Snapshot()
		snap.Stores = s.stores.Snapshot()
	})
	return snap
}

// Restore replaces the session state with snap. A saved event that no
// longer exists sends the player to the start event instead.
func (s *Session) Restore(snap *save.Snapshot) error {
	if snap == nil {
		return errors.New("nil snapshot")
	}
	var lost int
	e, err := s.Controller.RestoreState(snap.EventID, s.cfg.Game.StartEvent, func() {
		s.ledger.Set(snap.Coins)
		lost = s.inv.Restore(snap.Inventory)
		s.stores.Restore(snap.Stores)
	})
	if err != nil {
		return err
	}
	if lost > 0 {
		s.logger.Warn("saved items did not fit the inventory", zap.Int("lost", lost))
	}
	if e.ID != snap.EventID {
		s.logger.Warn("saved event missing, returning to start",
			zap.String("event_id", snap.EventID), zap.String("start", e.ID))
	}
	s.Keybinds.Restore(snap.Keybinds)
	s.Ticker.Restore(snap.Tick)
	if snap.SessionID != "" {
		s.ID = snap.SessionID
		s.logger = s.logger.With(zap.String("restored_session_id", snap.SessionID))
	}
	return nil
}

// SaveTo writes the session to slot
func (s *Session) SaveTo(ctx context.Context, store save.Store, slot string) error {
	if err := store.Save(ctx, slot, s.Snapshot()); err != nil {
		return fmt.Errorf("save %s: %w", slot, err)
	}
	s.logger.Info("game saved", zap.String("slot", slot))
	return nil
}

// LoadFrom restores the session from slot
func (s *Session) LoadFrom(ctx context.Context, store save.Store, slot string) error {
	snap, err := store.Load(ctx, slot)
	if err != nil {
		return err
	}
	if err := s.Restore(snap); err != nil {
		return err
	}
	s.logger.Info("game loaded", zap.String("slot", slot), zap.String("event_id", snap.EventID))
	return nil
}
