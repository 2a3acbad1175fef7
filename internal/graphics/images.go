// Package graphics loads scene and item art for the renderer.
package graphics

import (
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// Kind selects the placeholder used when art is missing
type Kind int

const (
	KindScene Kind = iota
	KindItem
)

// Placeholder sizes
const (
	ScenePlaceholderW = 320
	ScenePlaceholderH = 180
	ItemPlaceholder   = 40
)

// ImageManager caches decoded images by name. Names are paths relative to
// the image root; a name without an extension is tried as .png then .jpg.
type ImageManager struct {
	root    string
	images  map[string]*ebiten.Image
	missing map[string]bool
	logger  *zap.Logger
	mu      sync.Mutex
}

// NewImageManager creates a manager rooted at dir
func NewImageManager(dir string, logger *zap.Logger) *ImageManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImageManager{
		root:    dir,
		images:  make(map[string]*ebiten.Image),
		missing: make(map[string]bool),
		logger:  logger,
	}
}

// Get returns the image for name, or a placeholder of the given kind. The
// second result is false when the placeholder was used.
func (m *ImageManager) Get(name string, kind Kind) (*ebiten.Image, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if name == "" {
		return m.placeholder(kind), false
	}
	if img, ok := m.images[name]; ok {
		return img, true
	}
	if !m.missing[name] {
		if img := m.load(name); img != nil {
			m.images[name] = img
			return img, true
		}
		// Only warn once per name
		m.missing[name] = true
		m.logger.Warn("image not found", zap.String("image", name), zap.String("root", m.root))
	}
	return m.placeholder(kind), false
}

func (m *ImageManager) searchPaths(name string) []string {
	base := filepath.Join(m.root, filepath.FromSlash(name))
	if filepath.Ext(name) != "" {
		return []string{base}
	}
	return []string{base + ".png", base + ".jpg"}
}

func (m *ImageManager) load(name string) *ebiten.Image {
	for _, path := range m.searchPaths(name) {
		file, err := os.Open(path)
		if err != nil {
			continue
		}
		img, _, err := image.Decode(file)
		file.Close()
		if err != nil {
			m.logger.Warn("failed to decode image", zap.String("path", path), zap.Error(err))
			continue
		}
		return ebiten.NewImageFromImage(img)
	}
	return nil
}

func (m *ImageManager) placeholder(kind Kind) *ebiten.Image {
	key := placeholderKey(kind)
	if img, ok := m.images[key]; ok {
		return img
	}
	var img *ebiten.Image
	switch kind {
	case KindItem:
		img = ebiten.NewImage(ItemPlaceholder, ItemPlaceholder)
		img.Fill(color.RGBA{70, 60, 50, 255})
	default:
		img = ebiten.NewImage(ScenePlaceholderW, ScenePlaceholderH)
		img.Fill(color.RGBA{30, 34, 48, 255})
	}
	m.images[key] = img
	return img
}

func placeholderKey(kind Kind) string {
	if kind == KindItem {
		return "\x00item"
	}
	return "\x00scene"
}
