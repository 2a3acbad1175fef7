package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all game configuration values
type Config struct {
	Display   DisplayConfig   `yaml:"display"`
	Game      GameConfig      `yaml:"game"`
	Inventory InventoryConfig `yaml:"inventory"`
	Stores    StoresConfig    `yaml:"stores"`
	Assets    AssetsConfig    `yaml:"assets"`
	Saves     SavesConfig     `yaml:"saves"`
	Log       LogConfig       `yaml:"log"`
}

type DisplayConfig struct {
	ScreenWidth  int    `yaml:"screen_width" env:"EMBERPATH_SCREEN_WIDTH" env-default:"1024"`
	ScreenHeight int    `yaml:"screen_height" env:"EMBERPATH_SCREEN_HEIGHT" env-default:"768"`
	WindowTitle  string `yaml:"window_title" env:"EMBERPATH_WINDOW_TITLE" env-default:"Emberpath"`
	Resizable    bool   `yaml:"resizable" env:"EMBERPATH_RESIZABLE"`
}

type GameConfig struct {
	StartEvent    string `yaml:"start_event" env:"EMBERPATH_START_EVENT" env-default:"town_start"`
	StartingCoins int    `yaml:"starting_coins" env:"EMBERPATH_STARTING_COINS" env-default:"100"`
	TickSpeedMS   int    `yaml:"tick_speed_ms" env:"EMBERPATH_TICK_SPEED_MS" env-default:"600"`
}

type InventoryConfig struct {
	Width  int `yaml:"width" env:"EMBERPATH_INVENTORY_WIDTH" env-default:"4"`
	Height int `yaml:"height" env:"EMBERPATH_INVENTORY_HEIGHT" env-default:"5"`
}

type StoresConfig struct {
	// What a general store pays for goods it has never priced, before halving
	GeneralBasePrice int `yaml:"general_base_price" env:"EMBERPATH_GENERAL_BASE_PRICE" env-default:"10"`
}

type AssetsConfig struct {
	Items  string `yaml:"items" env:"EMBERPATH_ASSETS_ITEMS" env-default:"assets/items.yaml"`
	Stores string `yaml:"stores" env:"EMBERPATH_ASSETS_STORES" env-default:"assets/stores.yaml"`
	Events string `yaml:"events" env:"EMBERPATH_ASSETS_EVENTS" env-default:"assets/events.yaml"`
	Images string `yaml:"images" env:"EMBERPATH_ASSETS_IMAGES" env-default:"assets/images"`
}

// Save backends
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

type SavesConfig struct {
	Backend    string `yaml:"backend" env:"EMBERPATH_SAVES_BACKEND" env-default:"file"`
	Dir        string `yaml:"dir" env:"EMBERPATH_SAVES_DIR" env-default:"saves"`
	SQLitePath string `yaml:"sqlite_path" env:"EMBERPATH_SAVES_SQLITE_PATH" env-default:"saves/emberpath.db"`
	Slot       string `yaml:"slot" env:"EMBERPATH_SAVES_SLOT" env-default:"autosave"`
}

type LogConfig struct {
	Level    string `yaml:"level" env:"EMBERPATH_LOG_LEVEL" env-default:"info"`
	Encoding string `yaml:"encoding" env:"EMBERPATH_LOG_ENCODING" env-default:"console"`
	Output   string `yaml:"output" env:"EMBERPATH_LOG_OUTPUT"`
}

// LoadConfig reads filename, applies EMBERPATH_* environment overrides and
// fills unset fields with defaults. A missing file falls back to the
// environment alone.
func LoadConfig(filename string) (*Config, error) {
	var cfg Config

	if _, statErr := os.Stat(filename); errors.Is(statErr, os.ErrNotExist) {
		log.Printf("Warning: config file %s not found, using environment and defaults", filename)
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read config from environment: %w", err)
		}
	} else if err := cleanenv.ReadConfig(filename, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", filename, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MustLoadConfig loads the config and panics on error
func MustLoadConfig(filename string) *Config {
	cfg, err := LoadConfig(filename)
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}
	return cfg
}

// Default returns the built-in defaults with environment overrides applied
func Default() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read config from environment: %w", err)
	}
	return &cfg, nil
}

// Validate rejects values the game cannot run with
func (c *Config) Validate() error {
	if c.Game.StartEvent == "" {
		return errors.New("config: game.start_event is empty")
	}
	if c.Game.StartingCoins < 0 {
		return fmt.Errorf("config: game.starting_coins is negative (%d)", c.Game.StartingCoins)
	}
	if c.Game.TickSpeedMS <= 0 {
		return fmt.Errorf("config: game.tick_speed_ms must be positive (%d)", c.Game.TickSpeedMS)
	}
	if c.Inventory.Width <= 0 || c.Inventory.Height <= 0 {
		return fmt.Errorf("config: inventory must be at least 1x1 (got %dx%d)", c.Inventory.Width, c.Inventory.Height)
	}
	if c.Stores.GeneralBasePrice <= 0 {
		return fmt.Errorf("config: stores.general_base_price must be positive (%d)", c.Stores.GeneralBasePrice)
	}
	switch c.Saves.Backend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("config: unknown saves.backend %q", c.Saves.Backend)
	}
	return nil
}

func (c *Config) GetScreenWidth() int {
	return c.Display.ScreenWidth
}

func (c *Config) GetScreenHeight() int {
	return c.Display.ScreenHeight
}

// GetTickSpeed returns the tick interval as a duration
func (c *Config) GetTickSpeed() time.Duration {
	return time.Duration(c.Game.TickSpeedMS) * time.Millisecond
}
