// Package keybind maps keyboard keys to the six action slots and the
// continue and back buttons. Keys are plain names; the UI translates them
// to ebiten keys.
package keybind

import (
	"fmt"
	"strings"
	"sync"

	"emberpath/internal/events"
)

// Defaults
var (
	DefaultSlots    = [events.MaxChoices]string{"q", "w", "e", "a", "s", "d"}
	DefaultContinue = " "
	DefaultBack     = "Backspace"
)

// Snapshot is the plain-data form of the bindings
type Snapshot struct {
	Slots    []string `json:"slots"`
	Continue string   `json:"continue"`
	Back     string   `json:"back"`
}

// Bindings holds the current key assignments
type Bindings struct {
	slots [events.MaxChoices]string
	cont  string
	back  string
	mu    sync.RWMutex
}

// New returns the default bindings
func New() *Bindings {
	b := &Bindings{}
	b.Reset()
	return b
}

// Reset restores the defaults
func (b *Bindings) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.slots = DefaultSlots
	b.cont = DefaultContinue
	b.back = DefaultBack
}

// Set binds key to slot. Slot keys are stored lowercase.
func (b *Bindings) Set(slot int, key string) error {
	if slot < 0 || slot >= events.MaxChoices {
		return fmt.Errorf("keybind slot %d out of range", slot)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.slots[slot] = strings.ToLower(key)
	return nil
}

// SetAll replaces the slot keys in order. Extra keys are ignored and
// missing ones keep their current binding.
func (b *Bindings) SetAll(keys []string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := 0; i < len(keys) && i < events.MaxChoices; i++ {
		b.slots[i] = strings.ToLower(keys[i])
	}
}

// SetContinue binds the continue key
func (b *Bindings) SetContinue(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cont = key
}

// SetBack binds the back key
func (b *Bindings) SetBack(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.back = key
}

// Slot returns the key bound to slot
func (b *Bindings) Slot(slot int) string {
	if slot < 0 || slot >= events.MaxChoices {
		return ""
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.slots[slot]
}

// Slots returns the slot keys in order
func (b *Bindings) Slots() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]string(nil), b.slots[:]...)
}

// Continue returns the continue key
func (b *Bindings) Continue() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.cont
}

// Back returns the back key
func (b *Bindings) Back() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.back
}

// SlotFor returns the slot bound to key, matching case-insensitively
func (b *Bindings) SlotFor(key string) (int, bool) {
	key = strings.ToLower(key)
	b.mu.RLock()
	defer b.mu.RUnlock()
	for i, k := range b.slots {
		if k != "" && k == key {
			return i, true
		}
	}
	return -1, false
}

// Snapshot captures the bindings
func (b *Bindings) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return Snapshot{Slots: append([]string(nil), b.slots[:]...), Continue: b.cont, Back: b.back}
}

// Restore applies a snapshot. Empty fields keep the defaults.
func (b *Bindings) Restore(s Snapshot) {
	b.Reset()
	b.SetAll(s.Slots)
	if s.Continue != "" {
		b.SetContinue(s.Continue)
	}
	if s.Back != "" {
		b.SetBack(s.Back)
	}
}
