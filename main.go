package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"emberpath/internal/config"
	"emberpath/internal/game"
	"emberpath/internal/graphics"
	"emberpath/internal/logging"
	"emberpath/internal/save"
	"emberpath/internal/ui"
)

func main() {
	// Load configuration
	cfg := config.MustLoadConfig("config.yaml")

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	assets, err := game.LoadAssets(cfg.Assets, logger)
	if err != nil {
		logger.Fatal("failed to load assets", zap.Error(err))
	}

	session, err := game.NewSession(cfg, assets, logger)
	if err != nil {
		logger.Fatal("failed to start session", zap.Error(err))
	}

	// A broken save backend only costs persistence
	saves, err := save.Open(cfg.Saves)
	if err != nil {
		logger.Error("saves unavailable", zap.String("backend", cfg.Saves.Backend), zap.Error(err))
	} else {
		defer saves.Close()
		loadAutosave(session, saves, cfg.Saves.Slot, logger)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	session.Start(ctx)

	// Set window properties from config
	ebiten.SetWindowSize(cfg.GetScreenWidth(), cfg.GetScreenHeight())
	ebiten.SetWindowTitle(cfg.Display.WindowTitle)
	if cfg.Display.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}

	images := graphics.NewImageManager(cfg.Assets.Images, logger)
	g := ui.NewGame(cfg, session, saves, images, logger)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, game.ErrExit) {
		logger.Error("game loop stopped", zap.Error(err))
	}
	session.Stop()

	if saves != nil {
		saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := session.SaveTo(saveCtx, saves, cfg.Saves.Slot); err != nil {
			logger.Error("autosave failed", zap.Error(err))
		}
	}
}

func loadAutosave(session *game.Session, saves save.Store, slot string, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := session.LoadFrom(ctx, saves, slot)
	switch {
	case err == nil:
	case errors.Is(err, save.ErrNoSave):
		logger.Info("no autosave, starting a new game", zap.String("slot", slot))
	default:
		logger.Warn("autosave could not be loaded, starting a new game", zap.Error(err))
	}
}
