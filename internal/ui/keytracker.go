package ui

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// keyTracker reports a key once per press instead of every frame it is held
type keyTracker struct {
	prev map[ebiten.Key]bool
}

// justPressed returns true if the key was not pressed last frame but is pressed this frame.
func (k *keyTracker) justPressed(key ebiten.Key) bool {
	if k.prev == nil {
		k.prev = make(map[ebiten.Key]bool)
	}
	pressed := ebiten.IsKeyPressed(key)
	just := pressed && !k.prev[key]
	k.prev[key] = pressed
	return just
}

// keyByName translates a binding name such as "q", " " or "Backspace"
func keyByName(name string) (ebiten.Key, bool) {
	switch name {
	case "":
		return 0, false
	case " ":
		return ebiten.KeySpace, true
	}
	var key ebiten.Key
	if err := key.UnmarshalText([]byte(strings.ToLower(name))); err != nil {
		return 0, false
	}
	return key, true
}

// keyLabel is the short text shown next to a bound control
func keyLabel(name string) string {
	switch name {
	case " ":
		return "Space"
	case "":
		return "-"
	}
	if len(name) == 1 {
		return strings.ToUpper(name)
	}
	return name
}
